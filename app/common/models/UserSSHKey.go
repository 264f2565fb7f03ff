package models

import (
	"errors"

	"gorm.io/gorm"
)

type UserSSHKey struct {
	gorm.Model

	UserID      uint   `gorm:"column:user_id;index"` // 归属用户（一把 key 只属于一个用户）
	Name        string `gorm:"column:name"`          // 备注名称
	Key         string `gorm:"column:key"`           // 公钥原文（ OpenSSH 单行格式）
	AddedFromIP string `gorm:"column:added_from_ip"` // 添加时的来源 IP
	User        User   `gorm:"foreignKey:UserID"`    // 连接模型时使用
}

// UserBySSHKeyID 按 key 的持久 ID 解析归属用户（网关用，永远不按公钥内容反查）。
// key 或用户不存在时一律返回 ErrNotFound 。
func UserBySSHKeyID(db *gorm.DB, keyID uint) (*User, error) {
	var key UserSSHKey
	if err := db.First(&key, "id = ?", keyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return UserByID(db, key.UserID)
}
