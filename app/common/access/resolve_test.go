package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelValid(t *testing.T) {
	for _, l := range []Level{None, View, Push, Admin, Owner} {
		assert.True(t, l.Valid(), l.String())
	}
	assert.False(t, Level(3).Valid())
	assert.False(t, Level(16).Valid())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("moderate")
	require.NoError(t, err)
	assert.Equal(t, Push, l)

	l, err = ParseLevel("superadmin")
	require.NoError(t, err)
	assert.Equal(t, Owner, l)

	_, err = ParseLevel("root")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestSatisfiesMasks(t *testing.T) {
	// clone 掩码对 View 及以上全部放行
	for _, l := range []Level{View, Push, Admin, Owner} {
		assert.True(t, Satisfies(l, PermClone), l.String())
	}
	assert.False(t, Satisfies(None, PermClone))

	// push 掩码不放行 View
	assert.False(t, Satisfies(View, PermPush))
	assert.True(t, Satisfies(Push, PermPush))
	assert.True(t, Satisfies(Owner, PermPush))

	// admin 掩码只放行 Admin 和 Owner
	assert.False(t, Satisfies(Push, PermAdmin))
	assert.True(t, Satisfies(Admin, PermAdmin))
	assert.True(t, Satisfies(Owner, PermAdmin))
}

func TestResolveUserOwned(t *testing.T) {
	repo := Resource{OwnerUserID: 1}

	// 归属用户永远是 Owner ，即使有更低的直接授权记录
	assert.Equal(t, Owner, Resolve(repo, Subject{UserID: 1}))
	assert.Equal(t, Owner, Resolve(repo, Subject{UserID: 1, Direct: View}))

	// 其他人默认 None
	assert.Equal(t, None, Resolve(repo, Subject{UserID: 2}))

	// 直接授权生效
	assert.Equal(t, Push, Resolve(repo, Subject{UserID: 2, Direct: Push}))
}

func TestResolveTeamOwned(t *testing.T) {
	repo := Resource{TeamOwned: true}

	// 团队级别映射：SuperAdmin→Owner, Admin→Admin, Moderate→Push, View→View
	assert.Equal(t, Owner, Resolve(repo, Subject{UserID: 2, Team: SuperAdmin}))
	assert.Equal(t, Admin, Resolve(repo, Subject{UserID: 2, Team: Admin}))
	assert.Equal(t, Push, Resolve(repo, Subject{UserID: 2, Team: Moderate}))
	assert.Equal(t, View, Resolve(repo, Subject{UserID: 2, Team: View}))
	assert.Equal(t, None, Resolve(repo, Subject{UserID: 2}))

	// 直接授权封顶 Admin ，团队路径占优时以团队为准
	assert.Equal(t, Owner, Resolve(repo, Subject{UserID: 2, Team: SuperAdmin, Direct: Admin}))

	// 取最宽松的一条：直接授权高于团队级别时以直接授权为准
	assert.Equal(t, Admin, Resolve(repo, Subject{UserID: 2, Team: View, Direct: Admin}))
}

func TestResolvePublicFloor(t *testing.T) {
	// 公开仓库对任何身份至少 View ，不需要任何授权记录
	assert.Equal(t, View, Resolve(Resource{OwnerUserID: 1, Public: true}, Subject{UserID: 99}))
	assert.Equal(t, View, Resolve(Resource{TeamOwned: true, Public: true}, Subject{UserID: 99}))

	// 更高的级别不会被公开标记拉低
	assert.Equal(t, Owner, Resolve(Resource{OwnerUserID: 1, Public: true}, Subject{UserID: 1}))
	assert.Equal(t, Push, Resolve(Resource{TeamOwned: true, Public: true}, Subject{UserID: 2, Team: Moderate}))
}

func TestResolveMonotonicOnPublicFlip(t *testing.T) {
	// public false→true 时，任何身份的级别单调不降
	subjects := []Subject{
		{UserID: 1},
		{UserID: 2, Direct: View},
		{UserID: 3, Direct: Push},
		{UserID: 4, Team: Admin},
		{UserID: 5, Team: SuperAdmin, Direct: Admin},
	}
	for _, teamOwned := range []bool{false, true} {
		private := Resource{TeamOwned: teamOwned, OwnerUserID: 1}
		public := private
		public.Public = true
		for _, s := range subjects {
			before := Resolve(private, s)
			after := Resolve(public, s)
			assert.GreaterOrEqual(t, after, before)
			assert.True(t, after.Valid())
			assert.True(t, before.Valid())
		}
	}
}
