package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"runnerd/internal/adapter"
	"runnerd/internal/config"
	"runnerd/internal/httpapi"
	"runnerd/internal/predictor"
	"runnerd/internal/serving"
	"runnerd/internal/store"
	"runnerd/pkg/types"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		cfgPath      string
		addr         string
		storeDir     string
		defaultModel string
		cpu          float64
		gpus         []string
		corsOrigins  []string
		logLevel     string
	)

	root := &cobra.Command{
		Use:           "runnerd",
		Short:         "CPU model-serving daemon: persist predictors and serve them through runners",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Optional config file (.yaml/.json/.toml); flags override it")
	root.PersistentFlags().StringVar(&storeDir, "store-dir", envOr("RUNNERD_STORE_DIR", "~/.runnerd/models"), "Model store root directory")
	root.PersistentFlags().StringVar(&logLevel, "log-level", envOr("RUNNERD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")

	loadConfig := func() (config.Config, error) {
		var cfg config.Config
		if cfgPath != "" {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return cfg, fmt.Errorf("load config: %w", err)
			}
		}
		// Flags and env win over file values; file fills the gaps.
		if cfg.StoreDir == "" || storeDir != "~/.runnerd/models" {
			cfg.StoreDir = storeDir
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = logLevel
		}
		return cfg, nil
	}

	newLogger := func(level string) zerolog.Logger {
		lvl, err := zerolog.ParseLevel(level)
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(lvl).With().Timestamp().Logger()
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve registered models over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Addr == "" || cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cfg.DefaultModel == "" || cmd.Flags().Changed("default-model") {
				cfg.DefaultModel = defaultModel
			}
			if cfg.CPU == 0 || cmd.Flags().Changed("cpu") {
				cfg.CPU = cpu
			}
			if len(cfg.GPUs) == 0 || cmd.Flags().Changed("gpus") {
				cfg.GPUs = gpus
			}
			if len(cfg.CORSOrigins) == 0 || cmd.Flags().Changed("cors-origins") {
				cfg.CORSOrigins = corsOrigins
			}
			// The quota has no implicit default: serving without a CPU
			// budget is a config error, not a silent zero.
			if cfg.CPU <= 0 {
				return fmt.Errorf("a positive --cpu quota is required")
			}
			log := newLogger(cfg.LogLevel)

			st, err := store.Open(cfg.StoreDir)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			quota := types.ResourceQuota{CPU: cfg.CPU, GPUs: cfg.GPUs}
			opts := types.BatchOptions{MaxBatchSize: cfg.MaxBatchSize, MaxLatencyMS: cfg.MaxLatencyMS}
			pool := serving.New(st, predictor.Codec{}, quota, opts, cfg.DefaultModel)

			baseCtx, cancelBase := context.WithCancel(context.Background())
			defer cancelBase()
			httpapi.SetBaseContext(baseCtx)
			httpapi.SetLogger(log)
			if len(cfg.CORSOrigins) > 0 {
				httpapi.SetCORSOptions(true, cfg.CORSOrigins,
					[]string{http.MethodGet, http.MethodPost},
					[]string{"Content-Type", "X-Log-Level"})
			}

			srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(pool)}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("store", st.Root()).Msg("runnerd listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			// Graceful shutdown (Ctrl+C / SIGTERM)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-stop:
			}
			cancelBase()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown")
			}
			return nil
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", envOr("RUNNERD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	serveCmd.Flags().StringVar(&defaultModel, "default-model", "", "Default model tag when a request omits one")
	serveCmd.Flags().Float64Var(&cpu, "cpu", 0, "CPU quota for each runner (required, fractional allowed)")
	serveCmd.Flags().StringSliceVar(&gpus, "gpus", nil, "GPU device ids (ignored by CPU-only predictor families)")
	serveCmd.Flags().StringSliceVar(&corsOrigins, "cors-origins", nil, "Allowed CORS origins; empty disables CORS")

	saveCmd := &cobra.Command{
		Use:   "save <name> <artifact.json>",
		Short: "Register an exported predictor artifact under a new tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.StoreDir)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			cdc := predictor.Codec{}
			model, err := cdc.Load(args[1])
			if err != nil {
				return err
			}
			tag, err := adapter.Save(st, cdc, args[0], model, nil)
			if err != nil {
				return err
			}
			fmt.Println(tag)
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List registered model versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.StoreDir)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			infos, err := st.List()
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Printf("%s\t%s\t%s\n", info.Tag, info.Context["family"], info.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <tag>",
		Short: "Delete a registered model version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.StoreDir)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			return st.Delete(args[0])
		},
	}

	root.AddCommand(serveCmd, saveCmd, modelsCmd, deleteCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
