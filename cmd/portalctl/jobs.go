package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Enqueue background jobs and inspect the queue",
	}

	var reason string
	bump := &cobra.Command{
		Use:   "bump",
		Short: "Invalidate every cached backend response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withQueue(func(q queue) error {
				if err := q.EnqueueCacheBump(cmd.Context(), reason); err != nil {
					return fmt.Errorf("enqueue cache bump: %w", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "cache bump enqueued")
				return err
			})
		},
	}
	bump.Flags().StringVar(&reason, "reason", "portalctl", "reason recorded with the job")

	warmup := &cobra.Command{
		Use:   "warmup [city...]",
		Short: "Prefetch forecasts, for the configured cities when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withQueue(func(q queue) error {
				if err := q.EnqueueWeatherWarmup(cmd.Context(), args); err != nil {
					return fmt.Errorf("enqueue weather warmup: %w", err)
				}
				target := "configured cities"
				if len(args) > 0 {
					target = strings.Join(args, ", ")
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "weather warmup enqueued for %s\n", target)
				return err
			})
		},
	}

	health := &cobra.Command{
		Use:   "health",
		Short: "Print the default queue counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withQueue(func(q queue) error {
				h, err := q.Health()
				if err != nil {
					return fmt.Errorf("queue info: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "queue=%s pending=%d active=%d scheduled=%d retry=%d archived=%d paused=%t\n",
					h.Queue, h.Pending, h.Active, h.Scheduled, h.Retry, h.Archived, h.Paused)
				return err
			})
		},
	}

	cmd.AddCommand(bump, warmup, health)
	return cmd
}

func (c *cli) withQueue(fn func(queue) error) (err error) {
	cfg, err := c.deps.config()
	if err != nil {
		return err
	}
	q, err := c.deps.queue(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := q.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(q)
}
