package config

type Config struct {
	System struct {
		IsProd                bool   // 是否为生产环境
		Listen                string // 监听地址
		DBConnectionString    string // Postgres 数据库的连接字符串
		RedisConnectionString string // Redis 数据库的连接字符串
	}
	Security struct {
		SignatureSecretKey string // 签名密钥，用于产生 JWT 签名，更新会导致旧有会话失效
	}
	Git struct {
		RepositoryBaseDirectory string // 裸仓库根目录
		OSUser                  string // clone 地址里的系统用户（一般是 git ）
		Host                    string // clone 地址里的主机名
		ShellPath               string // gitastic-shell 可执行文件的绝对路径
		ShellConfigPath         string // 写进强制命令里的 shell 配置文件路径
		AuthorizedKeysPath      string // authorized_keys 文件路径，留空则不维护
	}
}
