package session

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"gitastic/app/common/access"
	"gitastic/app/common/config"
	"gitastic/app/common/gitrepo"
	"gitastic/app/common/models"
	"gitastic/app/shell/gitcmd"
	"gitastic/app/shell/inits"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeniedExitCode git-over-ssh 的惯例拒绝码，客户端工具会把它识别为干净的拒绝
const DeniedExitCode = 128

// deny 统一的拒绝出口：不管什么原因，给客户端的都是同一句话和同一个退出码，
// 不泄露 key 无效 / 用户不存在 / 仓库不存在的区别
func deny(l *zap.Logger, reason string, fields ...zap.Field) int {
	l.Warn("session denied", append([]zap.Field{zap.String("reason", reason)}, fields...)...)
	fmt.Fprintln(os.Stderr, "access denied")
	return DeniedExitCode
}

// Run 处理一次 ssh 会话：加载配置和连接，授权通过后移交 git 。
// 返回进程退出码。
func Run(keyIDArg string, configPath string) int {
	// 配置还没加载成功前只有 Nop logger 可用
	l := zap.NewNop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return deny(l, "config load failed")
	}

	if l, err = inits.Logger(cfg.ShellLogPath); err != nil {
		l = zap.NewNop()
	}
	defer l.Sync()

	db, err := inits.DB(cfg.DatabaseDSN)
	if err != nil {
		l.Error("db connect failed", zap.Error(err))
		return deny(l, "db unavailable")
	}

	verb, diskPath, code := authorize(l, db, cfg, keyIDArg, os.Getenv("SSH_ORIGINAL_COMMAND"))
	if code != 0 {
		return code
	}

	return forward(l, verb, diskPath)
}

// authorize 解析身份 → 解析命令 → 授权，推导出要移交的传输命令和磁盘路径。
// 返回码非 0 表示拒绝，调用方直接以它退出。
func authorize(l *zap.Logger, db *gorm.DB, cfg *config.Config, keyIDArg string, cmdline string) (string, string, int) {
	// 凭据 ID 由 authorized_keys 的强制命令写死， sshd 已经完成验签，
	// 这里只做 ID → 身份映射，不重复验签
	keyID, err := strconv.ParseUint(keyIDArg, 10, 64)
	if err != nil {
		return "", "", deny(l, "malformed key id", zap.String("arg", keyIDArg))
	}

	user, err := models.UserBySSHKeyID(db, uint(keyID))
	if err != nil {
		return "", "", deny(l, "unknown credential", zap.Uint64("keyID", keyID))
	}

	verb, path, err := gitcmd.Parse(cmdline)
	if err != nil {
		return "", "", deny(l, "bad command", zap.Uint("userID", user.ID))
	}

	repo, err := models.RepositoryByPath(db, path)
	if err != nil {
		return "", "", deny(l, "no such repository", zap.Uint("userID", user.ID), zap.String("path", path))
	}

	level, err := models.ResolveRepositoryAccess(db, repo, user.ID)
	if err != nil {
		l.Error("resolve access failed", zap.Error(err))
		return "", "", deny(l, "resolve failed")
	}

	if !access.Satisfies(level, verb.RequiredMask()) {
		return "", "", deny(l, "insufficient access",
			zap.Uint("userID", user.ID),
			zap.String("path", path),
			zap.String("level", level.String()),
			zap.String("verb", string(verb)),
		)
	}

	l.Info("session authorized",
		zap.Uint("userID", user.ID),
		zap.String("path", path),
		zap.String("verb", string(verb)),
	)

	// 磁盘路径从这里解析出的仓库推导，绝不相信之后客户端再传来的任何路径
	owner, name, ok := strings.Cut(repo.Path, "/")
	if !ok {
		return "", "", deny(l, "malformed repository path", zap.String("path", repo.Path))
	}

	return string(verb), gitrepo.RepoDir(cfg.RepositoryBaseDirectory, owner, name), 0
}

// forward 同步执行 git 传输命令，透传三个标准流，返回它的退出码
func forward(l *zap.Logger, verb string, diskPath string) int {
	cmd := exec.Command(verb, diskPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		l.Error("transport exec failed", zap.Error(err))
		return DeniedExitCode
	}

	return 0
}
