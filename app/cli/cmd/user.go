package cmd

import (
	"fmt"

	"gitastic/app/common/models"

	"github.com/spf13/cobra"
)

var (
	userAddEmail   string
	userAddIsAdmin bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "用户管理",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username> <password>",
	Short: "创建用户",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password := args[0], args[1]

		if err := models.ValidateName(username); err != nil {
			return err
		}

		_, db, err := openDB()
		if err != nil {
			return err
		}

		user := models.User{
			Username: username,
			Email:    userAddEmail,
			IsAdmin:  userAddIsAdmin,
		}
		if err := user.SetPassword(password); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("user %s created (id=%d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userAddEmail, "email", "", "邮箱")
	userAddCmd.Flags().BoolVar(&userAddIsAdmin, "admin", false, "设为站点管理员")
	userCmd.AddCommand(userAddCmd)
}
