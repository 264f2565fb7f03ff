package models

import (
	"errors"

	"github.com/alexedwards/argon2id"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	// 基础信息
	Username string `gorm:"column:username;uniqueIndex"` // 用户名，全局唯一，限制为路径安全字符
	Email    string `gorm:"column:email"`                // 邮箱
	IsAdmin  bool   `gorm:"column:is_admin"`             // 是否为站点管理员：管理员可以管理所有资源，普通用户只能管理自己的

	// 登录认证相关
	Password string `gorm:"column:password"` // 密码，使用 argon2id 储存
}

// SetPassword 重新生成密码 hash （每次调用产生不同的 hash ）
func (u *User) SetPassword(plain string) error {
	hash, err := argon2id.CreateHash(plain, argon2id.DefaultParams)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// AuthenticateUser 用户名 + 密码认证。
// 找不到、匹配到多行（唯一性异常按不存在处理）、密码不一致都返回 ErrNotFound ，
// 不区分具体原因，避免泄露信息。
func AuthenticateUser(db *gorm.DB, username string, password string) (*User, error) {
	var users []User
	if err := db.Limit(2).Find(&users, "username = ?", username).Error; err != nil {
		return nil, err
	}
	if len(users) != 1 {
		return nil, ErrNotFound
	}

	match, _, err := argon2id.CheckHash(password, users[0].Password)
	if err != nil || !match {
		return nil, ErrNotFound
	}

	return &users[0], nil
}

// UserByID 按 ID 查找用户
func UserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
