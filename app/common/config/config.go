package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config shell 和 cli 共用的文件配置（ server 走环境变量）。
// sshd 的强制命令只会带一个配置文件路径参数，所以这两个进程从文件读配置。
type Config struct {
	DatabaseDSN             string `mapstructure:"database_dsn"`              // Postgres 连接串
	RepositoryBaseDirectory string `mapstructure:"repository_base_directory"` // 裸仓库根目录
	OSUser                  string `mapstructure:"os_user"`                   // clone 地址里的系统用户
	Host                    string `mapstructure:"host"`                      // clone 地址里的主机名
	ShellPath               string `mapstructure:"shell_path"`                // gitastic-shell 可执行文件的绝对路径（写 authorized_keys 用）
	AuthorizedKeysPath      string `mapstructure:"authorized_keys_path"`      // authorized_keys 文件路径，留空则不维护
	ShellLogPath            string `mapstructure:"shell_log_path"`            // 网关日志文件，留空则不落日志（绝不能写到 ssh 流里）
}

// Load 从指定路径读取配置文件（ yaml ）
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// 默认值
	v.SetDefault("os_user", "git")
	v.SetDefault("host", "localhost")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("database_dsn is required")
	}
	if cfg.RepositoryBaseDirectory == "" {
		return nil, fmt.Errorf("repository_base_directory is required")
	}

	return &cfg, nil
}
