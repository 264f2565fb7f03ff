package models

import "gorm.io/gorm"

// AutoMigrate 迁移全部表结构， server 启动和 cli migrate 共用
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserSSHKey{},
		&Team{},
		&TeamMember{},
		&Repository{},
		&RepositoryAccess{},
	)
}
