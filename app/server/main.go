package main

import (
	"fmt"
	"log"

	"gitastic/app/server/handlers"
	"gitastic/app/server/inits"
	"gitastic/app/server/jwt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}

	// 切换日志系统
	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBConnectionString)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化 redis 连接
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	// 准备 handler app
	handlerApp := handlers.NewApp(l, db, rdb, j, cfg)

	// 准备 echo 服务
	e := echo.New()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	// 绑定路由
	api := e.Group("/api")

	api.POST("/auth/login", handlerApp.AuthLogin)

	api.POST("/users", handlerApp.UserCreate)
	api.GET("/users", handlerApp.UserList)
	api.GET("/users/:id", handlerApp.UserInfoGet)
	api.PATCH("/users/:id", handlerApp.UserUpdate)
	api.DELETE("/users/:id", handlerApp.UserDelete)

	api.POST("/users/:id/keys", handlerApp.SSHKeyCreate)
	api.GET("/users/:id/keys", handlerApp.SSHKeyList)
	api.DELETE("/users/:id/keys/:keyID", handlerApp.SSHKeyDelete)

	api.POST("/teams", handlerApp.TeamCreate)
	api.GET("/teams", handlerApp.TeamList)
	api.GET("/teams/:id", handlerApp.TeamInfoGet)
	api.PATCH("/teams/:id", handlerApp.TeamUpdate)
	api.GET("/teams/:id/members", handlerApp.TeamMemberList)
	api.PUT("/teams/:id/members", handlerApp.TeamMemberPut)

	api.POST("/repositories", handlerApp.RepositoryCreate)
	api.GET("/repositories", handlerApp.RepositoryList)
	api.GET("/repositories/:id", handlerApp.RepositoryInfoGet)
	api.PATCH("/repositories/:id", handlerApp.RepositoryUpdate)
	api.GET("/repositories/:id/access", handlerApp.RepositoryAccessList)
	api.PUT("/repositories/:id/access", handlerApp.RepositoryAccessPut)
	api.GET("/repositories/:id/access/:userID", handlerApp.RepositoryAccessEffective)

	// 启动 echo 服务
	if err := e.Start(cfg.System.Listen); err != nil {
		l.Fatal("shutting down the server", zap.Error(err))
	}
}
