package session

import (
	"path/filepath"
	"strconv"
	"testing"

	"gitastic/app/common/access"
	"gitastic/app/common/config"
	"gitastic/app/common/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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
	require.NoError(t, models.AutoMigrate(db))

	return db
}

func createUserWithKey(t *testing.T, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()

	user := models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, user.SetPassword("password"))
	require.NoError(t, db.Create(&user).Error)

	key := models.UserSSHKey{UserID: user.ID, Key: "ssh-ed25519 AAAA " + username}
	require.NoError(t, db.Create(&key).Error)

	return &user, strconv.FormatUint(uint64(key.ID), 10)
}

func TestRunDeniesOnBadConfig(t *testing.T) {
	// 配置读不到也必须以统一的拒绝码退出
	code := Run("1", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, DeniedExitCode, code)
}

func TestAuthorize(t *testing.T) {
	db := testDB(t)
	l := zap.NewNop()
	cfg := &config.Config{RepositoryBaseDirectory: "/srv/git"}

	alice, aliceKeyID := createUserWithKey(t, db, "alice")
	eve, eveKeyID := createUserWithKey(t, db, "eve")

	repo := models.Repository{Name: "proj", Path: "alice/proj", OwnerUserID: &alice.ID}
	require.NoError(t, db.Create(&repo).Error)

	clone := "git-upload-pack 'alice/proj.git'"
	push := "git-receive-pack 'alice/proj.git'"

	t.Run("owner can clone and push", func(t *testing.T) {
		verb, diskPath, code := authorize(l, db, cfg, aliceKeyID, clone)
		assert.Zero(t, code)
		assert.Equal(t, "git-upload-pack", verb)
		// 磁盘路径只从数据库里的仓库推导
		assert.Equal(t, filepath.Join("/srv/git", "alice", "proj.git"), diskPath)

		verb, _, code = authorize(l, db, cfg, aliceKeyID, push)
		assert.Zero(t, code)
		assert.Equal(t, "git-receive-pack", verb)
	})

	t.Run("malformed key id", func(t *testing.T) {
		_, _, code := authorize(l, db, cfg, "not-a-number", clone)
		assert.Equal(t, DeniedExitCode, code)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, _, code := authorize(l, db, cfg, "9999", clone)
		assert.Equal(t, DeniedExitCode, code)
	})

	t.Run("unsupported command", func(t *testing.T) {
		_, _, code := authorize(l, db, cfg, aliceKeyID, "rm -rf /")
		assert.Equal(t, DeniedExitCode, code)

		_, _, code = authorize(l, db, cfg, aliceKeyID, "")
		assert.Equal(t, DeniedExitCode, code)
	})

	t.Run("missing repository", func(t *testing.T) {
		_, _, code := authorize(l, db, cfg, aliceKeyID, "git-upload-pack 'alice/ghost.git'")
		assert.Equal(t, DeniedExitCode, code)
	})

	t.Run("no access to private repository", func(t *testing.T) {
		_, _, code := authorize(l, db, cfg, eveKeyID, clone)
		assert.Equal(t, DeniedExitCode, code)
	})

	t.Run("read level cannot push", func(t *testing.T) {
		require.NoError(t, models.SetRepositoryAccess(db, repo.ID, eve.ID, access.View))

		_, _, code := authorize(l, db, cfg, eveKeyID, clone)
		assert.Zero(t, code)

		_, _, code = authorize(l, db, cfg, eveKeyID, push)
		assert.Equal(t, DeniedExitCode, code)
	})
}
