package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-jobtracker-capture/internal/artifact"
	"go-jobtracker-capture/internal/browser"
	"go-jobtracker-capture/internal/capture"
	"go-jobtracker-capture/internal/config"
	"go-jobtracker-capture/internal/database"
	"go-jobtracker-capture/internal/logger"
	"go-jobtracker-capture/internal/models"
	"go-jobtracker-capture/internal/scraper/linkedin"
	"go-jobtracker-capture/internal/telegram"
)

// app holds what every subcommand needs, built once in PersistentPreRunE.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *artifact.Store
	svc   *capture.Service
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "capture",
		Short:         "Capture job postings into the local artifact cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.AddCommand(a.urlCmd(), a.sweepCmd(), a.showCmd(), a.removeCmd())
	return root
}

func (a *app) setup() error {
	cfg := config.Load()
	zl, err := logger.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = zl
	a.store = artifact.NewStore(cfg.Cache())
	renderer := browser.NewRenderer(browser.Options{
		Headless:          cfg.Headless,
		NavigationTimeout: cfg.NavigationTimeout,
		CookiesPath:       cfg.CookiesPath,
		Scroll: browser.ScrollOptions{
			Step:     cfg.ScrollStep,
			Interval: cfg.ScrollInterval,
			MaxSteps: cfg.MaxScrollSteps,
		},
	}, zl)
	a.svc = capture.NewService(a.store, renderer, zl,
		capture.WithPostingFetcher(linkedin.NewGuestClient(cfg.FetchTimeout, zl)),
		capture.WithWorkers(cfg.SweepWorkers),
		capture.WithSweepDelay(time.Second, 3*time.Second),
	)
	return nil
}

func (a *app) urlCmd() *cobra.Command {
	var (
		jobID    string
		company  string
		position string
	)
	cmd := &cobra.Command{
		Use:   "url <posting-url>",
		Short: "Capture a single posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID == "" {
				jobID = uuid.NewString()
			}
			result, err := a.svc.Capture(cmd.Context(), args[0], jobID, models.JobMetadata{
				Company:  company,
				Position: position,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&jobID, "job-id", "", "artifact directory name (default: random uuid)")
	cmd.Flags().StringVar(&company, "company", "", "company name used when the page has none")
	cmd.Flags().StringVar(&position, "position", "", "position title used when the page has none")
	return cmd
}

func (a *app) sweepCmd() *cobra.Command {
	var notify bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Capture every stored job that has a link and no capture yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DatabaseURL == "" {
				return errors.New("sweep needs DATABASE_URL")
			}
			ctx := cmd.Context()

			repo, err := database.ConnectDB(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer repo.Close()

			jobs, err := repo.ListJobs(ctx)
			if err != nil {
				return err
			}
			a.log.Info("📦 Loaded jobs", zap.Int("count", len(jobs)))

			report, sweepErr := a.svc.Sweep(ctx, jobs, func(job models.Job, result *models.ParseResult, err error) {
				if err != nil {
					a.log.Warn("⚠️ Capture failed", zap.String("job_id", job.ID), zap.Error(err))
					return
				}
				if err := repo.MarkCaptured(ctx, result.JobID, result.ParsedAt); err != nil {
					a.log.Warn("⚠️ Failed to mark job captured", zap.String("job_id", job.ID), zap.Error(err))
				}
			})

			if notify && a.cfg.TelegramToken != "" {
				bot, err := telegram.NewBot(a.cfg.TelegramToken, a.cfg.TelegramChatID)
				if err != nil {
					a.log.Warn("⚠️ Telegram disabled", zap.Error(err))
				} else if err := bot.SendSweepReport(report); err != nil {
					a.log.Warn("⚠️ Failed to send sweep report", zap.Error(err))
				}
			}

			if err := printJSON(cmd, report); err != nil {
				return err
			}
			return sweepErr
		},
	}
	cmd.Flags().BoolVar(&notify, "notify", true, "send a telegram summary when a bot is configured")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Print the stored result of a capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, ok := a.store.ReadResult(args[0])
			if !ok {
				return fmt.Errorf("no capture for job %s", args[0])
			}
			return printJSON(cmd, result)
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <job-id>",
		Short: "Delete every artifact of a capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Remove(args[0]); err != nil {
				return err
			}
			a.log.Info("🗑️ Removed capture", zap.String("job_id", args[0]))
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
