package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tinytrack/internal/config"
	"tinytrack/internal/engine"
	"tinytrack/internal/logging"
	"tinytrack/internal/store"
	"tinytrack/internal/times"
	"tinytrack/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Long: `Starts the HTTP server that receives gateway messages on POST /webhook
and answers with TwiML. A liveness probe is exposed on GET /healthz.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Logging.DataDir, cfg.Logging.DebugMode); err != nil {
		return err
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	eng := buildEngine(st, cfg)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: web.NewServer(eng).Router(),
	}

	logger.Info("server starting",
		zap.String("addr", cfg.Server.Addr),
		zap.String("store", cfg.Store.Backend))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// loadConfig resolves the --config flag, defaulting to tinytrack.yaml
// in the working directory. A missing file just means defaults plus
// environment overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = "tinytrack.yaml"
	}
	return config.Load(path)
}

func buildEngine(st store.Store, cfg *config.Config) *engine.Engine {
	eng := engine.New(st, times.NewClock(cfg.Time.UTCOffsetHours))
	if cfg.Milestone.Seed != 0 {
		eng = eng.WithMilestoneSeed(cfg.Milestone.Seed)
	}
	return eng
}
