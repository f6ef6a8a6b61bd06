package main

import (
	"database/sql"

	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/infrastructure/storage"

	"github.com/spf13/cobra"
)

// commandContext 讓子命令共用資料庫連線設定
type commandContext struct {
	dbPath *string
}

func (c *commandContext) openDB() (*sql.DB, error) {
	return storage.Open(config.DatabaseConfig{
		Path:        *c.dbPath,
		BusyTimeout: 5000,
	})
}

func newRootCommand() *cobra.Command {
	var dbFlag string

	ctx := &commandContext{dbPath: &dbFlag}

	rootCmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Outil d'administration de la liste de courses",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "data/shopping.db", "Chemin du fichier SQLite")

	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newAnalyzeCommand(ctx))
	rootCmd.AddCommand(newSampleDataCommand(ctx))

	return rootCmd
}
