package constants

import "time"

const (
	AuthTokenDuration = 24 * time.Hour // 登录令牌有效期
)

// 登录失败节流（存 redis ）
const (
	CacheKeyLoginFail    = "gitastic:login:fail:%s" // %s -> username
	CacheExpireLoginFail = 15 * time.Minute
	LoginFailMax         = 10 // 窗口期内最多允许失败次数，超过直接拒绝
)
