package models

import (
	"errors"

	"gitastic/app/common/access"

	"gorm.io/gorm"
)

type RepositoryAccess struct {
	gorm.Model

	RepositoryID uint         `gorm:"column:repository_id;uniqueIndex:idx_repo_user"` // 仓库 ID
	UserID       uint         `gorm:"column:user_id;uniqueIndex:idx_repo_user"`       // 用户 ID
	Access       access.Level `gorm:"column:access"`                                  // 直接授权级别，不会存储 None 和 Owner
}

// RepositoryAccessOf 查询用户对仓库的直接授权，没有记录即为 None
func RepositoryAccessOf(db *gorm.DB, repoID uint, userID uint) (access.Level, error) {
	var grant RepositoryAccess
	if err := db.First(&grant, "repository_id = ? AND user_id = ?", repoID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.None, nil
		}
		return access.None, err
	}
	return grant.Access, nil
}

// SetRepositoryAccess 设置直接授权。
// Owner 不能直接授予（所有权变更走显式转移，不走授权），未定义的级别也会被拒绝。
// 先删后插作为一个事务执行； None 表示撤销授权（不会留下值为 0 的记录）。
func SetRepositoryAccess(db *gorm.DB, repoID uint, userID uint, level access.Level) error {
	if level == access.Owner {
		return access.ErrOwnerGrant
	}
	if !level.Valid() {
		return access.ErrInvalidLevel
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("repository_id = ? AND user_id = ?", repoID, userID).
			Delete(&RepositoryAccess{}).Error; err != nil {
			return err
		}
		if level == access.None {
			return nil
		}
		return tx.Create(&RepositoryAccess{
			RepositoryID: repoID,
			UserID:       userID,
			Access:       level,
		}).Error
	})
}
