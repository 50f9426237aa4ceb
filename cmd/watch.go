package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyrias/bano/internal/scheduler"
)

var (
	watchSchedule string
	watchNow      bool
	watchTimeout  time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a pass on a cron schedule until interrupted",
	Long: `Watch keeps bano running and starts a pass on every tick of the schedule
(the config's schedule key, or --schedule). The config file is re-read for
every pass. A failed pass is logged and the next tick runs normally.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := watchSchedule
		if spec == "" {
			cs, err := openStore()
			if err != nil {
				return err
			}
			cfg, err := cs.Load()
			if err != nil {
				return err
			}
			spec = cfg.Defaults.Schedule
		}

		job := func(ctx context.Context) error {
			return runPass(ctx, false)
		}

		sched := scheduler.New(watchTimeout)
		if err := sched.Schedule("bano", spec, job); err != nil {
			return err
		}

		if watchNow {
			if err := sched.RunNow("bano", job); err != nil {
				log.Printf("[scheduler] Job bano failed: %v", err)
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched.Start()
		log.Printf("[scheduler] Next run at %s", sched.Next().Format(time.RFC3339))

		<-ctx.Done()
		<-sched.Stop().Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron spec, overrides the config's schedule")
	watchCmd.Flags().BoolVar(&watchNow, "now", false, "run one pass immediately before waiting")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 30*time.Minute, "upper bound for a single pass (0 = none)")
	rootCmd.AddCommand(watchCmd)
}
