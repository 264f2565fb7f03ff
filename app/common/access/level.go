package access

import "fmt"

// Level 访问级别，使用 2 的幂作为位值，方便用位运算组合出权限掩码
type Level uint8

const (
	None  Level = 0      // 无权限（数据库中不会存储这个值，没有记录即为 None ）
	View  Level = 1 << 0 // 只读（浏览 / clone ）
	Push  Level = 1 << 1 // 可推送
	Admin Level = 1 << 2 // 可管理（改描述、授权等）
	Owner Level = 1 << 3 // 所有者，只能通过归属关系推导出来，不能直接授予
)

// 团队级别与仓库级别共用同一组位值，只是叫法不同
const (
	Moderate   = Push  // 团队：协调者
	SuperAdmin = Owner // 团队：超级管理员
)

// 权限掩码：满足其中任意一档即可
const (
	PermAdmin = Owner | Admin
	PermPush  = PermAdmin | Push
	PermView  = PermPush | View
	PermClone = PermView
)

var levelNames = map[Level]string{
	None:  "none",
	View:  "view",
	Push:  "push",
	Admin: "admin",
	Owner: "owner",
}

var nameLevels = map[string]Level{
	"none":       None,
	"view":       View,
	"push":       Push,
	"moderate":   Moderate,
	"admin":      Admin,
	"owner":      Owner,
	"superadmin": SuperAdmin,
}

// Valid 是否为五个已定义级别之一
func (l Level) Valid() bool {
	switch l {
	case None, View, Push, Admin, Owner:
		return true
	default:
		return false
	}
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("invalid(%d)", uint8(l))
}

// ParseLevel 解析级别名称（大小写敏感，团队叫法也接受）
func ParseLevel(name string) (Level, error) {
	if l, ok := nameLevels[name]; ok {
		return l, nil
	}
	return None, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// Satisfies 位测试：级别命中掩码中任意一位即视为满足
func Satisfies(level Level, mask Level) bool {
	return level&mask != 0
}
