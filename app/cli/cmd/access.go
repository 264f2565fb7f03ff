package cmd

import (
	"fmt"

	"gitastic/app/common/access"
	"gitastic/app/common/models"

	"github.com/spf13/cobra"
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "仓库授权管理",
}

var accessSetCmd = &cobra.Command{
	Use:   "set <owner/repo> <username> <level>",
	Short: "设置直接授权（ none 表示撤销， owner 不能授予）",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoPath, username, levelName := args[0], args[1], args[2]

		level, err := access.ParseLevel(levelName)
		if err != nil {
			return err
		}

		_, db, err := openDB()
		if err != nil {
			return err
		}

		repo, err := models.RepositoryByPath(db, repoPath)
		if err != nil {
			return fmt.Errorf("failed to find repository %s: %w", repoPath, err)
		}

		var user models.User
		if err := db.First(&user, "username = ?", username).Error; err != nil {
			return fmt.Errorf("failed to find user %s: %w", username, err)
		}

		if err := models.SetRepositoryAccess(db, repo.ID, user.ID, level); err != nil {
			return err
		}

		fmt.Printf("access of %s on %s set to %s\n", user.Username, repo.Path, level)
		return nil
	},
}

func init() {
	accessCmd.AddCommand(accessSetCmd)
}
