// Package cmd contém a CLI captable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "captable",
		Short:         "Design de tokens, geração de contratos e cap table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newDraftCmd())
	return root
}

// Execute roda a CLI e encerra o processo com código 1 em caso de erro.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

// newLogger monta o logger zap a partir da seção logging.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("nível de log inválido %q: %w", cfg.Level, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
