package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/keepsake-lab/keepsake/pkg/cli/config"
	httpctrl "github.com/keepsake-lab/keepsake/pkg/controller/http"
	"github.com/keepsake-lab/keepsake/pkg/service/session"
	"github.com/keepsake-lab/keepsake/pkg/usecase"
	"github.com/keepsake-lab/keepsake/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var sessionTTL time.Duration
	var geminiCfg config.Gemini
	var repoCfg config.Repository
	var profileCfg config.Profile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("KEEPSAKE_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle time before a conversation session is discarded",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("KEEPSAKE_SESSION_TTL"),
			Destination: &sessionTTL,
		},
	}

	// Add shared config flags
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, profileCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			profile, err := profileCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load profile")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			sessions := session.New()
			uc := usecase.New(repo, llmClient, sessions, usecase.WithProfile(profile))

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(sigCtx)

			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr, "backend", repoCfg.Backend())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})

			eg.Go(func() error {
				return sessions.Janitor(egCtx, time.Minute, sessionTTL)
			})

			eg.Go(func() error {
				<-egCtx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			})

			return eg.Wait()
		},
	}
}
