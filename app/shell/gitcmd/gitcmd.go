package gitcmd

import (
	"errors"
	"strings"

	"gitastic/app/common/access"
	"gitastic/app/common/models"
)

// Verb 客户端请求的 git 操作
type Verb string

const (
	VerbClone Verb = "git-upload-pack"  // clone / fetch
	VerbPush  Verb = "git-receive-pack" // push
)

// RequiredMask 操作所需的最小权限掩码
func (v Verb) RequiredMask() access.Level {
	if v == VerbPush {
		return access.PermPush
	}
	return access.PermClone
}

var ErrUnsupported = errors.New("unsupported git command")

// Parse 解析 SSH_ORIGINAL_COMMAND 。
// 只接受 git-upload-pack / git-receive-pack （包括 `git upload-pack` 写法），
// 仓库路径必须是 <归属名>/<仓库名> 两段，每段都做命名校验，
// 杜绝绝对路径和目录穿越。
func Parse(cmdline string) (Verb, string, error) {
	fields := strings.Fields(strings.TrimSpace(cmdline))

	// `git upload-pack` 归一化成 `git-upload-pack`
	if len(fields) == 3 && fields[0] == "git" {
		fields = []string{"git-" + fields[1], fields[2]}
	}
	if len(fields) != 2 {
		return "", "", ErrUnsupported
	}

	var verb Verb
	switch fields[0] {
	case string(VerbClone):
		verb = VerbClone
	case string(VerbPush):
		verb = VerbPush
	default:
		return "", "", ErrUnsupported
	}

	// 路径一般被客户端引起来： 'alice/project.git'
	path := strings.Trim(fields[1], "'\"")
	path = strings.TrimSuffix(path, ".git")
	path = strings.TrimPrefix(path, "/")

	segments := strings.Split(path, "/")
	if len(segments) != 2 {
		return "", "", ErrUnsupported
	}
	for _, segment := range segments {
		if err := models.ValidateName(segment); err != nil {
			return "", "", ErrUnsupported
		}
	}

	return verb, segments[0] + "/" + segments[1], nil
}
