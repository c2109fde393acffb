package cmd

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/config"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/storage"
)

func newMigrateCmd() *cobra.Command {
	var (
		configPath string
		down       bool
	)
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações embutidas (--down desfaz todas)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := storage.NewDB(cfg.Database.DSN, storage.Options{MaxOpenConns: 1}, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			direction := migrate.Up
			if down {
				direction = migrate.Down
			}
			n, err := db.Migrate(direction)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migrações aplicadas\n", n)
			return nil
		},
	}
	c.Flags().StringVar(&configPath, "config", "", "arquivo de configuração YAML")
	c.Flags().BoolVar(&down, "down", false, "desfaz as migrações")
	return c
}
