package cmd

import (
	"fmt"
	"os"

	"gitastic/app/common/config"
	"gitastic/app/common/models"
	"gitastic/app/common/sshkey"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var keyAddName string

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "SSH 公钥管理",
}

var keyAddCmd = &cobra.Command{
	Use:   "add <username> <pubkey-file>",
	Short: "为用户添加公钥",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, keyFile := args[0], args[1]

		raw, err := os.ReadFile(keyFile)
		if err != nil {
			return fmt.Errorf("failed to read key file: %w", err)
		}

		// 私钥、截断的内容、类型对不上的都拒绝
		if !sshkey.Validate(string(raw)) {
			return fmt.Errorf("%s is not a valid OpenSSH public key", keyFile)
		}

		cfg, db, err := openDB()
		if err != nil {
			return err
		}

		var user models.User
		if err := db.First(&user, "username = ?", username).Error; err != nil {
			return fmt.Errorf("failed to find user %s: %w", username, err)
		}

		key := models.UserSSHKey{
			UserID:      user.ID,
			Name:        keyAddName,
			Key:         string(raw),
			AddedFromIP: "127.0.0.1", // 本机运维操作
		}
		if err := db.Create(&key).Error; err != nil {
			return fmt.Errorf("failed to create key: %w", err)
		}

		if err := syncAuthorizedKeys(cfg, db); err != nil {
			return err
		}

		fmt.Printf("key %d added for %s\n", key.ID, user.Username)
		return nil
	},
}

// syncAuthorizedKeys key 变动后重写 authorized_keys （配置了路径才启用）
func syncAuthorizedKeys(cfg *config.Config, db *gorm.DB) error {
	if cfg.AuthorizedKeysPath == "" {
		return nil
	}

	var keys []models.UserSSHKey
	if err := db.Order("id ASC").Find(&keys).Error; err != nil {
		return fmt.Errorf("failed to load ssh keys: %w", err)
	}

	content := sshkey.AuthorizedKeysContent(keys, cfg.ShellPath, configPath)
	if err := sshkey.WriteAuthorizedKeys(cfg.AuthorizedKeysPath, content); err != nil {
		return fmt.Errorf("failed to write authorized_keys: %w", err)
	}

	return nil
}

func init() {
	keyAddCmd.Flags().StringVar(&keyAddName, "name", "", "备注名称")
	keyCmd.AddCommand(keyAddCmd)
}
