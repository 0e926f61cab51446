package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-reservation/internal/config"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "table-reservation",
		Short:         "レストランのテーブル予約 API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

// loadConfig は .env と環境変数から設定を読み込み、ロガーを初期化する
func loadConfig() *config.Config {
	// .env がない環境（本番など）では環境変数のみを使う
	dotenvErr := config.LoadDotEnv()

	cfg := config.Load()
	logger.Init(cfg.App.Env, cfg.App.LogLevel)
	if dotenvErr != nil {
		logger.Debug(".env を読み込みませんでした", zap.Error(dotenvErr))
	}
	return cfg
}
