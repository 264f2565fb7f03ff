package inits

import (
	"fmt"
	"os"
	"strings"

	"gitastic/app/server/config"
)

func Config() (*config.Config, error) {
	var cfg config.Config

	// 手动配置映射，保持和环境变量一一对应
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	if redisconn, exist := os.LookupEnv("REDIS_CONN"); !exist {
		return nil, fmt.Errorf("REDIS_CONN environment variable not set")
	} else {
		cfg.System.RedisConnectionString = redisconn
	}

	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	if repoBase, exist := os.LookupEnv("REPOSITORY_BASE_DIR"); !exist {
		return nil, fmt.Errorf("REPOSITORY_BASE_DIR environment variable not set")
	} else {
		cfg.Git.RepositoryBaseDirectory = repoBase
	}

	if osUser, exist := os.LookupEnv("GIT_OS_USER"); !exist {
		cfg.Git.OSUser = "git" // 默认系统用户
	} else {
		cfg.Git.OSUser = osUser
	}

	if host, exist := os.LookupEnv("GIT_HOST"); !exist {
		cfg.Git.Host = "localhost"
	} else {
		cfg.Git.Host = host
	}

	// authorized_keys 维护是可选的：三个变量都配齐才启用
	cfg.Git.ShellPath = os.Getenv("SHELL_PATH")
	cfg.Git.ShellConfigPath = os.Getenv("SHELL_CONFIG_PATH")
	cfg.Git.AuthorizedKeysPath = os.Getenv("AUTHORIZED_KEYS_PATH")
	if cfg.Git.AuthorizedKeysPath != "" && (cfg.Git.ShellPath == "" || cfg.Git.ShellConfigPath == "") {
		return nil, fmt.Errorf("AUTHORIZED_KEYS_PATH requires SHELL_PATH and SHELL_CONFIG_PATH")
	}

	return &cfg, nil
}
