package models

import (
	"errors"

	"gitastic/app/common/access"

	"gorm.io/gorm"
)

type TeamMember struct {
	gorm.Model

	TeamID uint         `gorm:"column:team_id;uniqueIndex:idx_team_user"` // 团队 ID
	UserID uint         `gorm:"column:user_id;uniqueIndex:idx_team_user"` // 用户 ID
	Access access.Level `gorm:"column:access"`                            // 成员级别，不会存储 None （没有记录即为 None ）
}

// TeamAccessOf 查询用户在团队中的成员级别，没有记录即为 None
func TeamAccessOf(db *gorm.DB, teamID uint, userID uint) (access.Level, error) {
	var member TeamMember
	if err := db.First(&member, "team_id = ? AND user_id = ?", teamID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.None, nil
		}
		return access.None, err
	}
	return member.Access, nil
}

// SetTeamAccess 设置团队成员级别。
// 先删后插作为一个事务执行； None 表示移除成员（不会留下值为 0 的记录）。
// 团队级别没有 Owner 一档的限制， SuperAdmin 可以直接授予。
func SetTeamAccess(db *gorm.DB, teamID uint, userID uint, level access.Level) error {
	if !level.Valid() {
		return access.ErrInvalidLevel
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&TeamMember{}).Error; err != nil {
			return err
		}
		if level == access.None {
			return nil
		}
		return tx.Create(&TeamMember{
			TeamID: teamID,
			UserID: userID,
			Access: level,
		}).Error
	})
}
