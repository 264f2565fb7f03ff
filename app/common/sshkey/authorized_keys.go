package sshkey

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitastic/app/common/models"
)

// 除了跑强制命令以外什么都不允许
const keyRestrictions = "no-port-forwarding,no-X11-forwarding,no-agent-forwarding,no-pty"

// AuthorizedKeysContent 为全部已存 key 生成 authorized_keys 内容。
// 每行把 key 绑定到强制命令 `<shell> <key-id> <config>` 上， sshd 只负责验签，
// 身份与授权都由 shell 根据 key 的持久 ID 决定。
func AuthorizedKeysContent(keys []models.UserSSHKey, shellPath string, configPath string) string {
	var b strings.Builder
	b.WriteString("# 由 gitastic 生成，手动修改会在下一次 key 变更时被覆盖\n")
	for _, key := range keys {
		b.WriteString(fmt.Sprintf("command=\"%s %d %s\",%s %s\n",
			shellPath, key.ID, configPath, keyRestrictions, strings.TrimSpace(key.Key)))
	}
	return b.String()
}

// WriteAuthorizedKeys 原子写入：先写临时文件再 rename ，
// 避免 sshd 读到写了一半的文件
func WriteAuthorizedKeys(path string, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".authorized_keys-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}
