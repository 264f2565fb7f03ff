package models

import (
	"errors"

	"gitastic/app/common/access"

	"gorm.io/gorm"
)

type Repository struct {
	gorm.Model

	// 基础信息
	Name        string `gorm:"column:name"`             // 仓库名，限制为路径安全字符
	Path        string `gorm:"column:path;uniqueIndex"` // 派生路径 <归属名>/<仓库名> ，全局唯一，在落库前必须填好
	Description string `gorm:"column:description"`      // 描述
	Public      bool   `gorm:"column:public"`           // 是否公开：公开仓库对任何身份至少可读

	// 归属方：用户或团队二选一（都填时团队优先，这是明确的设计决定）
	OwnerUserID *uint `gorm:"column:owner_user_id;index"` // 归属用户 ID
	OwnerTeamID *uint `gorm:"column:owner_team_id;index"` // 归属团队 ID

	// 连接模型时使用
	OwnerUser *User `gorm:"foreignKey:OwnerUserID"`
	OwnerTeam *Team `gorm:"foreignKey:OwnerTeamID"`
}

// RepositoryByID 按 ID 查找仓库
func RepositoryByID(db *gorm.DB, id uint) (*Repository, error) {
	var repo Repository
	if err := db.First(&repo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &repo, nil
}

// RepositoryByPath 按唯一路径查找仓库（网关用）
func RepositoryByPath(db *gorm.DB, path string) (*Repository, error) {
	var repo Repository
	if err := db.First(&repo, "path = ?", path).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &repo, nil
}

// AccessResource 提取参与权限计算的仓库信息。团队归属优先于用户归属。
func (r *Repository) AccessResource() access.Resource {
	res := access.Resource{Public: r.Public}
	if r.OwnerTeamID != nil {
		res.TeamOwned = true
	} else if r.OwnerUserID != nil {
		res.OwnerUserID = *r.OwnerUserID
	}
	return res
}

// ResolveRepositoryAccess 查出直接授权和团队成员级别，交给纯函数计算最终级别
func ResolveRepositoryAccess(db *gorm.DB, repo *Repository, userID uint) (access.Level, error) {
	direct, err := RepositoryAccessOf(db, repo.ID, userID)
	if err != nil {
		return access.None, err
	}

	team := access.None
	if repo.OwnerTeamID != nil {
		if team, err = TeamAccessOf(db, *repo.OwnerTeamID, userID); err != nil {
			return access.None, err
		}
	}

	return access.Resolve(repo.AccessResource(), access.Subject{
		UserID: userID,
		Direct: direct,
		Team:   team,
	}), nil
}
