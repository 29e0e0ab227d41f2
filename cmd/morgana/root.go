package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/config"
	"github.com/raglab/morgana/internal/db"
	dbRedis "github.com/raglab/morgana/internal/db/redis"
	logpkg "github.com/raglab/morgana/internal/logger"
	"github.com/raglab/morgana/internal/metrics"
	"github.com/raglab/morgana/internal/progress"
	"github.com/raglab/morgana/internal/version"
)

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "morgana",
		Short:         "RAG benchmark pipeline: generate, ingest, ask, evaluate",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		buildGenerateCmd(),
		buildIngestCmd(),
		buildAskCmd(),
		buildEvaluateCmd(),
	)
	return root
}

// app is the shared composition root every stage starts from: loaded
// config, logger, registered metrics, and the stdout progress
// reporter.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	reporter *progress.Reporter

	metricsSrv *http.Server
}

func newApp() (*app, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("starting morgana",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
	)

	metrics.RegisterGenerationMetrics()
	metrics.RegisterEmbeddingMetrics()

	return &app{
		cfg:        cfg,
		logger:     logger,
		reporter:   progress.NewReporter(os.Stdout),
		metricsSrv: metrics.Serve(cfg.Metrics.Port, logger),
	}, nil
}

func (a *app) close() {
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.metricsSrv.Shutdown(ctx)
	}
	_ = a.logger.Sync()
}

// openStore connects the retrieval stages to the vector database and
// waits for it to accept commands.
func (a *app) openStore(ctx context.Context) (db.Store, error) {
	if err := a.cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    a.cfg.Database.Addrs,
		Password: a.cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}

	timeout := time.Duration(a.cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}

	a.logger.Info("connected to database", zap.Strings("addrs", a.cfg.Database.Addrs))
	return store, nil
}
