package gitcmd

import (
	"testing"

	"gitastic/app/common/access"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	verb, path, err := Parse("git-upload-pack 'alice/project.git'")
	require.NoError(t, err)
	assert.Equal(t, VerbClone, verb)
	assert.Equal(t, "alice/project", path)

	verb, path, err = Parse("git-receive-pack 'alice/project.git'")
	require.NoError(t, err)
	assert.Equal(t, VerbPush, verb)
	assert.Equal(t, "alice/project", path)

	// 不带引号、不带 .git 后缀也接受
	verb, path, err = Parse("git-upload-pack alice/project")
	require.NoError(t, err)
	assert.Equal(t, VerbClone, verb)
	assert.Equal(t, "alice/project", path)

	// 部分客户端发 `git upload-pack`
	verb, path, err = Parse("git upload-pack 'devs/lib.git'")
	require.NoError(t, err)
	assert.Equal(t, VerbClone, verb)
	assert.Equal(t, "devs/lib", path)

	// 前导斜杠被归一化掉
	_, path, err = Parse("git-upload-pack '/alice/project.git'")
	require.NoError(t, err)
	assert.Equal(t, "alice/project", path)
}

func TestParseRejects(t *testing.T) {
	for _, cmdline := range []string{
		"",
		"git-upload-pack",
		"rm -rf /",
		"scp file",
		"git-upload-pack 'a/b' extra",
		"git-upload-pack 'project.git'",          // 缺归属段
		"git-upload-pack 'a/b/c.git'",            // 段数过多
		"git-upload-pack '../etc/passwd'",        // 目录穿越
		"git-upload-pack 'alice/../secret.git'",  // 段内穿越
		"git-upload-pack 'alice/my repo.git'",    // 非法字符
		"git-shell 'alice/project.git'",          // 不支持的命令
		"git branch 'alice/project.git'",         // 不支持的 git 子命令
	} {
		_, _, err := Parse(cmdline)
		assert.ErrorIs(t, err, ErrUnsupported, cmdline)
	}
}

func TestRequiredMask(t *testing.T) {
	// clone 只要可读， push 要求写权限
	assert.True(t, access.Satisfies(access.View, VerbClone.RequiredMask()))
	assert.False(t, access.Satisfies(access.View, VerbPush.RequiredMask()))
	assert.True(t, access.Satisfies(access.Push, VerbPush.RequiredMask()))
	assert.False(t, access.Satisfies(access.None, VerbClone.RequiredMask()))
}
