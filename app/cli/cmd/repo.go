package cmd

import (
	"context"
	"fmt"

	"gitastic/app/common/gitrepo"
	"gitastic/app/common/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	repoAddTeam        string
	repoAddDescription string
	repoAddPublic      bool
	repoAddSeedReadme  bool
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "仓库管理",
}

var repoAddCmd = &cobra.Command{
	Use:   "add <owner-username> <name>",
	Short: "创建仓库（用 --team 时第一个参数换成团队名）",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ownerName, repoName := args[0], args[1]

		if err := models.ValidateName(repoName); err != nil {
			return err
		}

		cfg, db, err := openDB()
		if err != nil {
			return err
		}

		repo := models.Repository{
			Name:        repoName,
			Description: repoAddDescription,
			Public:      repoAddPublic,
		}

		if repoAddTeam != "" {
			ownerName = repoAddTeam
			var team models.Team
			if err := db.First(&team, "name = ?", ownerName).Error; err != nil {
				return fmt.Errorf("failed to find team %s: %w", ownerName, err)
			}
			repo.OwnerTeamID = &team.ID
		} else {
			var user models.User
			if err := db.First(&user, "username = ?", ownerName).Error; err != nil {
				return fmt.Errorf("failed to find user %s: %w", ownerName, err)
			}
			repo.OwnerUserID = &user.ID
		}

		// 先落库（路径唯一索引裁决竞争），磁盘目录之后再建
		repo.Path = ownerName + "/" + repoName
		if err := db.Create(&repo).Error; err != nil {
			return fmt.Errorf("failed to create repository record: %w", err)
		}

		l, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer l.Sync()

		prov := gitrepo.New(cfg.RepositoryBaseDirectory, cfg.OSUser, cfg.Host, l)
		if err := prov.Create(context.Background(), ownerName, repoName, repoAddDescription, repoAddSeedReadme); err != nil {
			return err
		}

		fmt.Printf("repository %s created, clone: %s\n", repo.Path, prov.CloneURI(ownerName, repoName))
		return nil
	},
}

func init() {
	repoAddCmd.Flags().StringVar(&repoAddTeam, "team", "", "归属团队（代替归属用户）")
	repoAddCmd.Flags().StringVar(&repoAddDescription, "description", "", "描述")
	repoAddCmd.Flags().BoolVar(&repoAddPublic, "public", false, "公开仓库")
	repoAddCmd.Flags().BoolVar(&repoAddSeedReadme, "seed-readme", false, "创建后写入生成的 README")
	repoCmd.AddCommand(repoAddCmd)
}
