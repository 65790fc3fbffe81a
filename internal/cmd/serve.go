package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/auth"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/featureflags"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/server"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/storage"
)

const (
	flagsInitTimeout = 20 * time.Second
	flagsPollEvery   = 5 * time.Second
	shutdownTimeout  = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// feature flags are non-fatal
	flagsCtx, cancel := context.WithTimeout(ctx, flagsInitTimeout)
	if err := featureflags.Init(flagsCtx, cfg.Flags.RolloutKey); err != nil {
		logger.Warnf("feature flags init warning: %v", err)
	}
	cancel()
	defer featureflags.Shutdown()

	if featureflags.Online() {
		logger.SetLevel(featureflags.Values().LogLevel.GetValue(nil))
		go watchLogLevel(ctx)
	}
	logger.Infof("log level set to %s", logger.GetLevel())

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = "dev-secret-change-me"
		logger.Warnf("auth.jwt_secret not set, using the development secret")
	}
	tokens, err := auth.NewTokens(secret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to set up tokens: %w", err)
	}

	uploadsFS := afero.NewOsFs()
	uploader := storage.NewDiskUploader(cfg.Uploads.Dir, cfg.Uploads.PublicURL, cfg.Uploads.MaxSizeMB<<20)

	router := server.NewRouter(server.Deps{
		Dashboard:  b.dashboard,
		Uploader:   uploader,
		Tokens:     tokens,
		UploadsFS:  uploadsFS,
		UploadsDir: cfg.Uploads.Dir,
		Ready:      b.ready,
	})
	return server.Run(ctx, cfg.Server.Addr, router, cfg.Server.ReadHeaderTimeout, shutdownTimeout)
}

// watchLogLevel applies LogLevel flag flips until ctx is done.
func watchLogLevel(ctx context.Context) {
	ticker := time.NewTicker(flagsPollEvery)
	defer ticker.Stop()

	prev := featureflags.Values().LogLevel.GetValue(nil)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := featureflags.Values().LogLevel.GetValue(nil)
			if cur != prev {
				logger.SetLevel(cur)
				logger.Infof("log level changed to %s", logger.GetLevel())
				prev = cur
			}
		}
	}
}
