package cmd

import (
	"fmt"

	"gitastic/app/common/models"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "迁移数据库表结构",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}

		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		fmt.Println("database migrated")
		return nil
	},
}
