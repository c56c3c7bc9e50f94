package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"StockPredictor/internal/api"
	"StockPredictor/internal/collector"
	"StockPredictor/internal/config"
	"StockPredictor/internal/inference"
	"StockPredictor/internal/logging"
	"StockPredictor/internal/metrics"
	"StockPredictor/internal/predictor"
	"StockPredictor/internal/recorder"
	"StockPredictor/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	cmd := &cobra.Command{
		Use:   "stockpredictor CSV_PATH WINDOW PORT",
		Short: "Serve next-close predictions from an ONNX LSTM over HTTP",
		Long: "Reads the last WINDOW closes from CSV_PATH on every request, runs them through\n" +
			config.ModelPath + " and serves the result on GET /predict at 0.0.0.0:PORT.",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgPath, args)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", cfgPath, "optional YAML config file")
	return cmd
}

func run(ctx context.Context, cfgPath string, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyArgs(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	log, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("stockpredictor starting",
		zap.String("csv", cfg.CSVPath),
		zap.Int("window", cfg.Window),
		zap.Int("port", cfg.Port),
		zap.String("model", cfg.ModelPath),
	)

	// Model session is shared by every request for the process lifetime.
	session, err := inference.Open(inference.Config{
		ModelPath:   cfg.ModelPath,
		LibraryPath: cfg.Inference.LibraryPath,
		InputName:   cfg.Inference.InputName,
		OutputName:  cfg.Inference.OutputName,
	})
	if err != nil {
		log.Error("load model", zap.Error(err))
		return fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}
	defer session.Close()
	log.Info("model loaded", zap.Int64s("input_shape", session.InputShape()))

	rec := openRecorder(cfg, log)
	defer rec.Close()

	m := metrics.New()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Refresh.Enabled {
		col := collector.NewCollector(collector.NewYahooFetcher(cfg.Proxy),
			cfg.Refresh.Symbol, cfg.CSVPath, cfg.Refresh.Days, log)
		sched := scheduler.NewScheduler(ctx, col, m, log)
		if err := sched.Register(cfg.Refresh.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if cfg.Refresh.RunOnStart {
			log.Info("RUN_ON_START enabled, refreshing data now")
			sched.RunNow()
		}
	}

	gin.SetMode(gin.ReleaseMode)
	p := predictor.New(cfg.CSVPath, cfg.Window, session)
	h := api.NewHandler(p, rec, m, log, cfg.ModelPath)
	srv := api.NewServer(cfg.Port, api.NewRouter(h), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("stockpredictor stopped")
	return nil
}

func openRecorder(cfg *config.Config, log *zap.Logger) recorder.Recorder {
	if cfg.Database.Disabled {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		log.Warn("create database dir failed, using noop recorder", zap.Error(err))
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn("init sqlite recorder failed, using noop recorder", zap.Error(err))
		return recorder.NewNoopRecorder()
	}
	return sr
}
