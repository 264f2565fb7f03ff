package models

import (
	"errors"

	"gorm.io/gorm"
)

type Team struct {
	gorm.Model

	Name        string `gorm:"column:name;uniqueIndex"` // 团队名，全局唯一，限制为路径安全字符
	Description string `gorm:"column:description"`      // 描述
}

// TeamByID 按 ID 查找团队
func TeamByID(db *gorm.DB, id uint) (*Team, error) {
	var team Team
	if err := db.First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &team, nil
}
