package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGit 写一个顶替 git 的脚本，参数里出现指定子命令时失败
// （子命令不一定是第一个参数， commit 前面带着 -c 配置）
func fakeGit(t *testing.T, failOn string) string {
	t.Helper()

	script := "#!/bin/sh\n"
	if failOn != "" {
		script += "for arg in \"$@\"; do\n" +
			"  if [ \"$arg\" = \"" + failOn + "\" ]; then echo simulated failure >&2; exit 1; fi\n" +
			"done\n"
	}
	script += "exit 0\n"

	path := filepath.Join(t.TempDir(), "git")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))

	return path
}

// seedWorkRoot 把种子工作目录引到一个专属目录下，方便断言清理。
// 要在 provisioner 自己的目录都分配完之后再调用。
func seedWorkRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("TMPDIR", root)
	return root
}

func assertNoLeftoverWorkDir(t *testing.T, root string) {
	t.Helper()

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func newTestProvisioner(t *testing.T, failOn string) *Provisioner {
	t.Helper()

	p := New(t.TempDir(), "git", "git.example.com", zap.NewNop())
	p.Git = fakeGit(t, failOn)
	return p
}

func TestRepoDirAndCloneURI(t *testing.T) {
	p := New("/srv/git", "git", "git.example.com", zap.NewNop())

	assert.Equal(t, filepath.Join("/srv/git", "alice", "proj.git"), p.RepoDir("alice", "proj"))
	assert.Equal(t, p.RepoDir("alice", "proj"), RepoDir("/srv/git", "alice", "proj"))
	assert.Equal(t, "git@git.example.com:alice/proj.git", p.CloneURI("alice", "proj"))
}

func TestCreate(t *testing.T) {
	p := newTestProvisioner(t, "")

	require.NoError(t, p.Create(context.Background(), "alice", "proj", "a project", false))

	// 目录树已经建好（真正的 init 由 git 完成，这里只验证编排）
	info, err := os.Stat(p.RepoDir("alice", "proj"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateSeedReadme(t *testing.T) {
	p := newTestProvisioner(t, "")
	workRoot := seedWorkRoot(t)

	require.NoError(t, p.Create(context.Background(), "alice", "proj", "a project", true))

	// 临时工作目录在成功路径上也要清掉
	assertNoLeftoverWorkDir(t, workRoot)
}

func TestCreateExistingDirFails(t *testing.T) {
	p := newTestProvisioner(t, "")

	dir := p.RepoDir("alice", "proj")
	require.NoError(t, os.MkdirAll(dir, 0755))
	marker := filepath.Join(dir, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("keep"), 0644))

	err := p.Create(context.Background(), "alice", "proj", "", false)
	assert.ErrorIs(t, err, ErrRepoExists)

	// 绝不覆盖：原目录原封不动
	data, readErr := os.ReadFile(marker)
	require.NoError(t, readErr)
	assert.Equal(t, "keep", string(data))
}

func TestCreateInitFailure(t *testing.T) {
	p := newTestProvisioner(t, "init")

	err := p.Create(context.Background(), "alice", "proj", "", false)
	require.Error(t, err)

	var provErr *ProvisionError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "init", provErr.Step)
}

func TestCreateSeedFailureKeepsBareRepo(t *testing.T) {
	p := newTestProvisioner(t, "clone")
	workRoot := seedWorkRoot(t)

	err := p.Create(context.Background(), "alice", "proj", "", true)
	require.Error(t, err)

	var provErr *ProvisionError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "clone", provErr.Step)

	// 种子提交失败不回滚已经建好的裸仓库目录，但临时工作目录必须清掉
	_, statErr := os.Stat(p.RepoDir("alice", "proj"))
	assert.NoError(t, statErr)
	assertNoLeftoverWorkDir(t, workRoot)
}

func TestCreateCommitFailure(t *testing.T) {
	p := newTestProvisioner(t, "commit")
	workRoot := seedWorkRoot(t)

	err := p.Create(context.Background(), "alice", "proj", "", true)
	require.Error(t, err)

	var provErr *ProvisionError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "commit", provErr.Step)
	assertNoLeftoverWorkDir(t, workRoot)
}

func TestCreatePushFailure(t *testing.T) {
	p := newTestProvisioner(t, "push")
	workRoot := seedWorkRoot(t)

	err := p.Create(context.Background(), "alice", "proj", "", true)
	require.Error(t, err)

	var provErr *ProvisionError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "push", provErr.Step)
	assertNoLeftoverWorkDir(t, workRoot)
}
