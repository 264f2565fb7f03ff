package handlers

import (
	"gitastic/app/common/gitrepo"
	"gitastic/app/server/config"
	"gitastic/app/server/jwt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	l    *zap.Logger          // 日志
	db   *gorm.DB             // 数据库
	rdb  *redis.Client        // Redis ，只放瞬态数据（登录节流）
	jwt  *jwt.JWT             // JWT ，用于无状态验证
	cfg  *config.Config       // 配置
	prov *gitrepo.Provisioner // 仓库创建器
}

func NewApp(l *zap.Logger, db *gorm.DB, rdb *redis.Client, j *jwt.JWT, cfg *config.Config) *App {
	return &App{
		l:    l,
		db:   db,
		rdb:  rdb,
		jwt:  j,
		cfg:  cfg,
		prov: gitrepo.New(cfg.Git.RepositoryBaseDirectory, cfg.Git.OSUser, cfg.Git.Host, l),
	}
}
