package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/blockchain_listener"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/config"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/handlers"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API HTTP e o reconciliador de emissões",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	c.Flags().StringVar(&configPath, "config", "", "arquivo de configuração YAML")
	return c
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := storage.NewDB(cfg.Database.DSN, storage.Options{MaxOpenConns: cfg.Database.MaxOpenConns}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if _, err := db.Migrate(migrate.Up); err != nil {
			return err
		}
	}

	chain := services.NewSolanaChainClient(cfg.Solana.RPCURL, cfg.Solana.Commitment)
	design := services.NewTokenDesignService(db, nil, logger)
	minting := services.NewMintingService(db, chain, logger)
	captable := services.NewCapTableService(db, logger)

	router := handlers.NewRouter(
		handlers.NewTokenHandler(design, minting, logger),
		handlers.NewAllocationHandler(captable, logger),
		handlers.NewDistributionHandler(captable, logger),
	)
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Servidor HTTP iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Encerrando servidor HTTP")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Reconciler.Enabled {
		reconciler := blockchain_listener.NewMintReconciler(minting, cfg.Reconciler.Interval, cfg.Reconciler.BatchSize, logger)
		g.Go(func() error { return reconciler.Run(gctx) })
	}

	return g.Wait()
}
