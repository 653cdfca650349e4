package serve

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fir-voice/cmd/firvoice/cmd/flags"
	"fir-voice/internal/app"
)

var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second,
		"how long in-flight requests get to finish on SIGINT/SIGTERM")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcription HTTP API",
	Long: `Run the transcription HTTP API

- POST /transcribe with a multipart "audio" field
- GET /health, /metrics and /swagger/index.html
- leftovers older than the sweep age are removed from the upload directory at startup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.LoadConfig(cmd)
		if err != nil {
			return err
		}

		application, cleanup, err := app.InitializeApp(cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		logger := application.Logger

		if removed, err := application.Stager.Sweep(cfg.Storage.SweepAge); err != nil {
			logger.Warn("startup sweep failed", zap.Error(err))
		} else if removed > 0 {
			logger.Info("removed stale upload artifacts", zap.Int("count", removed))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := application.Server.Start()
		select {
		case err, ok := <-errCh:
			if ok {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return application.Server.Shutdown(shutdownCtx)
	},
}
