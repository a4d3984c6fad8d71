package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jaekwang-park/todos/internal/config"
	todohttp "github.com/jaekwang-park/todos/internal/http"
	"github.com/jaekwang-park/todos/internal/repository"
	"github.com/jaekwang-park/todos/internal/service"
	"github.com/jaekwang-park/todos/internal/telemetry"
	"github.com/jaekwang-park/todos/internal/validation"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and metrics servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Tracing, cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("failed to shut down tracer", zap.Error(err))
		}
	}()

	if cfg.MigrateOnStart {
		if err := repository.MigrateUp(cfg.DB.DSN(), logger); err != nil {
			return err
		}
	}

	db, err := repository.NewDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	store := repository.NewStore(db, logger, repository.WithQueryTimeout(cfg.DB.QueryTimeout))

	// Repositories
	listRepo := repository.NewTodoListRepository(store)
	itemRepo := repository.NewTodoItemRepository(store)

	// Services
	listSvc := service.NewTodoListService(listRepo, validation.NewTodoListValidator(listRepo), logger)
	itemSvc := service.NewTodoItemService(itemRepo, validation.NewTodoItemValidator(itemRepo), logger)

	router := todohttp.NewRouter(listSvc, itemSvc, db)
	apiServer, err := todohttp.NewServer(cfg, logger, router)
	if err != nil {
		return err
	}
	metricsServer := todohttp.NewMetricsServer(cfg.MetricsPort, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	g.Go(metricsServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api server shutdown: %w", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped gracefully")
	return nil
}
