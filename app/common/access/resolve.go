package access

import "errors"

var (
	ErrInvalidLevel = errors.New("invalid access level")
	ErrOwnerGrant   = errors.New("owner level cannot be granted directly")
)

// Resource 参与计算的仓库信息
type Resource struct {
	TeamOwned   bool // 归属方是否为团队（和用户归属互斥，同时存在时团队优先）
	OwnerUserID uint // 归属用户 ID （ TeamOwned 为 false 时有效）
	Public      bool // 是否公开：公开仓库对任何身份至少可读
}

// Subject 参与计算的身份信息
type Subject struct {
	UserID uint
	Direct Level // 对该仓库的直接授权（没有记录则为 None ）
	Team   Level // 在归属团队中的成员级别（没有记录则为 None ）
}

// Resolve 计算身份对仓库的最终访问级别。
// 取所有适用规则中最宽松的一条（ max ），所以公开仓库对非成员也至少是 View 。
// 结果一定是五个级别之一，不存在出错路径：缺少授权即为 None 。
func Resolve(r Resource, s Subject) Level {
	level := None
	if r.Public {
		level = View
	}

	if r.TeamOwned {
		// 团队成员级别映射到仓库级别
		if mapped := teamToRepository(s.Team); mapped > level {
			level = mapped
		}
		// 直接授权封顶 Admin ，不可能借此拿到 Owner
		if direct := min(s.Direct, Admin); direct > level {
			level = direct
		}
	} else {
		if s.UserID == r.OwnerUserID {
			level = Owner
		}
		if s.Direct > level {
			level = s.Direct
		}
	}

	return level
}

// teamToRepository 团队级别到仓库级别的固定单调映射
func teamToRepository(team Level) Level {
	switch team {
	case SuperAdmin:
		return Owner
	case Admin:
		return Admin
	case Moderate:
		return Push
	case View:
		return View
	default:
		return None
	}
}
