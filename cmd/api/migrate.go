package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-reservation/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "データベースのマイグレーションを管理する",
	}
	cmd.AddCommand(newMigrateUpCmd(), newMigrateDownCmd(), newMigrateVersionCmd())
	return cmd
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "未適用のマイグレーションをすべて実行する",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			db, err := postgres.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
				return err
			}
			logger.Info("マイグレーション完了")
			return nil
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "マイグレーションを取り消す",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps は1以上を指定してください: %d", steps)
			}
			cfg := loadConfig()
			db, err := postgres.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.RollbackMigrations(db.DB, cfg.Database.MigrationsPath, steps); err != nil {
				return err
			}
			logger.Info("マイグレーションをロールバック", zap.Int("steps", steps))
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "取り消すマイグレーションの数")
	return cmd
}

func newMigrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "現在のマイグレーションバージョンを表示する",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			db, err := postgres.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			version, dirty, err := postgres.MigrationVersion(db.DB, cfg.Database.MigrationsPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		},
	}
}
