package main

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/informreaders/portal/internal/app"
	"github.com/informreaders/portal/jobs"
)

// queue is what the jobs commands need from the asynq client and inspector.
type queue interface {
	EnqueueWeatherWarmup(ctx context.Context, cities []string) error
	EnqueueCacheBump(ctx context.Context, reason string) error
	Health() (jobs.QueueHealth, error)
	Close() error
}

// deps are swapped out in tests.
type deps struct {
	config  func() (*app.Config, error)
	queue   func(cfg *app.Config) (queue, error)
	migrate func(cfg *app.Config, logger *slog.Logger) error
	admins  func(ctx context.Context, cfg *app.Config) (adminCreator, func(), error)
}

type cli struct {
	cmd     *cobra.Command
	deps    deps
	verbose bool
}

func newCLI(d deps) *cli {
	c := &cli{deps: d}
	c.cmd = &cobra.Command{
		Use:           "portalctl",
		Short:         "Maintenance tasks for the InformReaders portal",
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
	}
	c.cmd.CompletionOptions.HiddenDefaultCmd = true
	c.cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	c.cmd.AddCommand(c.migrateCmd(), c.convertCmd(), c.jobsCmd(), c.adminCmd())
	return c
}

func (c *cli) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func defaultDeps() deps {
	return deps{
		config:  app.LoadConfig,
		queue:   openQueue,
		migrate: runMigrations,
		admins:  openAdmins,
	}
}

type asynqQueue struct {
	*jobs.Client
	inspector *asynq.Inspector
}

func openQueue(cfg *app.Config) (queue, error) {
	opts := cfg.QueueRedis()
	return &asynqQueue{Client: jobs.NewClient(opts), inspector: asynq.NewInspector(opts)}, nil
}

func (q *asynqQueue) Health() (jobs.QueueHealth, error) {
	return jobs.QueueStatus(q.inspector)
}

func (q *asynqQueue) Close() error {
	if err := q.inspector.Close(); err != nil {
		_ = q.Client.Close()
		return err
	}
	return q.Client.Close()
}
