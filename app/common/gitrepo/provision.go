package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRepoExists 目标目录已存在，绝不覆盖
var ErrRepoExists = errors.New("repository directory already exists")

// ProvisionError 创建仓库过程中文件系统或外部进程出错，带上失败步骤名方便排查
type ProvisionError struct {
	Step string // 失败的步骤
	Err  error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision step %q: %v", e.Step, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Provisioner 负责在磁盘上初始化裸仓库
type Provisioner struct {
	BaseDir string // 仓库根目录
	OSUser  string // clone 地址里的系统用户（一般是 git ）
	Host    string // clone 地址里的主机名
	Git     string // git 可执行文件，留空用 PATH 里的 git （测试时可替换）

	l *zap.Logger
}

func New(baseDir string, osUser string, host string, l *zap.Logger) *Provisioner {
	return &Provisioner{
		BaseDir: baseDir,
		OSUser:  osUser,
		Host:    host,
		Git:     "git",
		l:       l,
	}
}

// RepoDir 磁盘路径 <baseDir>/<归属名>/<仓库名>.git ，网关和创建共用同一条推导
func RepoDir(baseDir string, ownerName string, repoName string) string {
	return filepath.Join(baseDir, ownerName, repoName+".git")
}

func (p *Provisioner) RepoDir(ownerName string, repoName string) string {
	return RepoDir(p.BaseDir, ownerName, repoName)
}

// CloneURI ssh 协议的 clone 地址，其他协议不支持
func (p *Provisioner) CloneURI(ownerName string, repoName string) string {
	return fmt.Sprintf("%s@%s:%s/%s.git", p.OSUser, p.Host, ownerName, repoName)
}

// Create 创建裸仓库。
// 目标目录已存在时直接失败（ ErrRepoExists ），原目录不动；
// 初始化中途失败会留下残缺目录供运维排查，不做静默清理。
// seedReadme 为 true 时再以一次 clone/commit/push 写入生成的 README ，
// 这一步用到的临时工作目录在任何退出路径上都会被移除，
// 但种子提交失败不会回滚已建好的裸仓库。
func (p *Provisioner) Create(ctx context.Context, ownerName string, repoName string, description string, seedReadme bool) error {
	dir := p.RepoDir(ownerName, repoName)

	// 归属目录可以共享，仓库目录本身必须由这一次调用创建：
	// os.Mkdir 原子占位，同路径抢跑的另一方会拿到 EEXIST
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return &ProvisionError{Step: "mkdir", Err: err}
	}
	if err := os.Mkdir(dir, 0755); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrRepoExists, dir)
		}
		return &ProvisionError{Step: "mkdir", Err: err}
	}

	if err := p.run(ctx, "init", dir, "init", "--bare"); err != nil {
		return err
	}

	p.l.Info("bare repository initialized", zap.String("dir", dir))

	if seedReadme {
		if err := p.seed(ctx, dir, repoName, description); err != nil {
			return err
		}
	}

	return nil
}

// seed 在私有临时工作目录里 clone 裸仓库、写入 README 、提交并推回去
func (p *Provisioner) seed(ctx context.Context, bareDir string, repoName string, description string) error {
	workDir := filepath.Join(os.TempDir(), "gitastic-seed-"+uuid.NewString())
	if err := os.Mkdir(workDir, 0700); err != nil {
		return &ProvisionError{Step: "workdir", Err: err}
	}
	// 不管成败，临时工作目录都要清掉
	defer os.RemoveAll(workDir)

	if err := p.run(ctx, "clone", workDir, "clone", bareDir, "."); err != nil {
		return err
	}

	readme := fmt.Sprintf("# %s\n\n%s\n", repoName, description)
	if err := os.WriteFile(filepath.Join(workDir, "README.md"), []byte(readme), 0644); err != nil {
		return &ProvisionError{Step: "readme", Err: err}
	}

	if err := p.run(ctx, "add", workDir, "add", "README.md"); err != nil {
		return err
	}
	if err := p.run(ctx, "commit", workDir,
		"-c", "user.name=gitastic", "-c", "user.email=gitastic@localhost",
		"commit", "-m", "Initial commit"); err != nil {
		return err
	}
	if err := p.run(ctx, "push", workDir, "push", "origin", "HEAD"); err != nil {
		return err
	}

	p.l.Info("repository seeded with README", zap.String("dir", bareDir))

	return nil
}

// run 同步跑一条 git 命令，非零退出翻译成带步骤名的 ProvisionError
func (p *Provisioner) run(ctx context.Context, step string, dir string, args ...string) error {
	git := p.Git
	if git == "" {
		git = "git"
	}

	cmd := exec.CommandContext(ctx, git, args...)
	cmd.Dir = dir

	if out, err := cmd.CombinedOutput(); err != nil {
		p.l.Error("git command failed",
			zap.String("step", step),
			zap.Strings("args", args),
			zap.String("output", strings.TrimSpace(string(out))),
			zap.Error(err),
		)
		return &ProvisionError{Step: step, Err: fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))}
	}

	return nil
}
