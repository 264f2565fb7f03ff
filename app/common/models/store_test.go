package models

import (
	"testing"

	"gitastic/app/common/access"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, password string) *User {
	t.Helper()

	user := User{Username: username, Email: username + "@example.com"}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(&user).Error)

	return &user
}

func TestAuthenticateUser(t *testing.T) {
	db := testDB(t)
	createUser(t, db, "user1", "password")

	t.Run("invalid user", func(t *testing.T) {
		_, err := AuthenticateUser(db, "nouser", "nopassword")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid password", func(t *testing.T) {
		_, err := AuthenticateUser(db, "user1", "nopassword")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ok", func(t *testing.T) {
		user, err := AuthenticateUser(db, "user1", "password")
		require.NoError(t, err)
		assert.Equal(t, "user1", user.Username)
	})
}

func TestSetPasswordNewHash(t *testing.T) {
	var user User
	require.NoError(t, user.SetPassword("password1"))
	first := user.Password
	require.NoError(t, user.SetPassword("password1"))
	// 每次 set 都产生新的 hash （随机盐）
	assert.NotEqual(t, first, user.Password)
}

func TestUserBySSHKeyID(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "alice", "password")

	key := UserSSHKey{UserID: owner.ID, Name: "laptop", Key: "ssh-ed25519 AAAA test"}
	require.NoError(t, db.Create(&key).Error)

	user, err := UserBySSHKeyID(db, key.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, user.ID)

	_, err = UserBySSHKeyID(db, key.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("alice"))
	assert.NoError(t, ValidateName("my_repo-2"))
	assert.ErrorIs(t, ValidateName(""), ErrInvalidName)
	assert.ErrorIs(t, ValidateName("a/b"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName("a b"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName(".."), ErrInvalidName)
}

func TestSetRepositoryAccess(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "alice", "password")
	other := createUser(t, db, "bob", "password")

	repo := Repository{Name: "proj", Path: "alice/proj", OwnerUserID: &owner.ID}
	require.NoError(t, db.Create(&repo).Error)

	t.Run("owner level rejected", func(t *testing.T) {
		err := SetRepositoryAccess(db, repo.ID, other.ID, access.Owner)
		assert.ErrorIs(t, err, access.ErrOwnerGrant)
	})

	t.Run("undefined level rejected", func(t *testing.T) {
		err := SetRepositoryAccess(db, repo.ID, other.ID, access.Level(3))
		assert.ErrorIs(t, err, access.ErrInvalidLevel)
	})

	t.Run("round trip", func(t *testing.T) {
		for _, level := range []access.Level{access.View, access.Push, access.Admin} {
			require.NoError(t, SetRepositoryAccess(db, repo.ID, other.ID, level))
			got, err := RepositoryAccessOf(db, repo.ID, other.ID)
			require.NoError(t, err)
			assert.Equal(t, level, got)
		}
	})

	t.Run("none removes the row", func(t *testing.T) {
		require.NoError(t, SetRepositoryAccess(db, repo.ID, other.ID, access.Push))
		require.NoError(t, SetRepositoryAccess(db, repo.ID, other.ID, access.None))

		got, err := RepositoryAccessOf(db, repo.ID, other.ID)
		require.NoError(t, err)
		assert.Equal(t, access.None, got)

		// 不允许留下值为 0 的记录
		var count int64
		require.NoError(t, db.Model(&RepositoryAccess{}).
			Where("repository_id = ? AND user_id = ?", repo.ID, other.ID).
			Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestSetTeamAccess(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "carol", "password")

	team := Team{Name: "devs"}
	require.NoError(t, db.Create(&team).Error)

	// 团队级别没有 Owner 限制， SuperAdmin 可以直接授予
	require.NoError(t, SetTeamAccess(db, team.ID, user.ID, access.SuperAdmin))
	got, err := TeamAccessOf(db, team.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, access.SuperAdmin, got)

	require.NoError(t, SetTeamAccess(db, team.ID, user.ID, access.None))
	got, err = TeamAccessOf(db, team.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, access.None, got)
}

func TestResolveRepositoryAccess(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice", "password")
	bob := createUser(t, db, "bob", "password")
	eve := createUser(t, db, "eve", "password")

	team := Team{Name: "devs"}
	require.NoError(t, db.Create(&team).Error)

	t.Run("user owned", func(t *testing.T) {
		repo := Repository{Name: "proj", Path: "alice/proj", OwnerUserID: &alice.ID}
		require.NoError(t, db.Create(&repo).Error)

		level, err := ResolveRepositoryAccess(db, &repo, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Owner, level)

		// 私有仓库对无关用户是 None
		level, err = ResolveRepositoryAccess(db, &repo, eve.ID)
		require.NoError(t, err)
		assert.Equal(t, access.None, level)

		// 公开后立即至少可读，不需要任何授权记录
		repo.Public = true
		require.NoError(t, db.Save(&repo).Error)
		level, err = ResolveRepositoryAccess(db, &repo, eve.ID)
		require.NoError(t, err)
		assert.Equal(t, access.View, level)
	})

	t.Run("team owned", func(t *testing.T) {
		repo := Repository{Name: "lib", Path: "devs/lib", OwnerTeamID: &team.ID}
		require.NoError(t, db.Create(&repo).Error)

		// SuperAdmin 成员 + 直接 Admin 授权 → Owner （团队路径占优，直接授权封顶 Admin ）
		require.NoError(t, SetTeamAccess(db, team.ID, bob.ID, access.SuperAdmin))
		require.NoError(t, SetRepositoryAccess(db, repo.ID, bob.ID, access.Admin))

		level, err := ResolveRepositoryAccess(db, &repo, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Owner, level)

		// 非成员只有直接授权
		require.NoError(t, SetRepositoryAccess(db, repo.ID, eve.ID, access.Push))
		level, err = ResolveRepositoryAccess(db, &repo, eve.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Push, level)
	})
}

func TestRepositoryPathUnique(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice", "password")

	repo := Repository{Name: "proj", Path: "alice/proj", OwnerUserID: &alice.ID}
	require.NoError(t, db.Create(&repo).Error)

	// 相同路径的第二次创建必须失败（并发竞争的败者走的就是这条路）
	dup := Repository{Name: "proj", Path: "alice/proj", OwnerUserID: &alice.ID}
	err := db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
