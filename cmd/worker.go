package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/simmas/internal/scheduler"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that run outside the HTTP server.`,
}

var lifecycleWorkerCmd = &cobra.Command{
	Use:   "lifecycle",
	Short: "Start the internship autostart worker",
	Long:  `Periodically moves diterima internships whose start date has come to berlangsung.`,
	Run: func(cmd *cobra.Command, args []string) {
		startLifecycleWorker()
	},
}

var (
	maxWorkers     int
	jobQueueSize   int
	workerInterval time.Duration
	runOnce        bool
)

func startLifecycleWorker() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger
	defer closeDB(deps.DB)

	deps.Config.Lifecycle.MaxWorkers = getIntFlag(maxWorkers, deps.Config.Lifecycle.MaxWorkers)
	deps.Config.Lifecycle.JobQueueSize = getIntFlag(jobQueueSize, deps.Config.Lifecycle.JobQueueSize)
	interval := deps.Config.Lifecycle.SchedulerInterval
	if workerInterval > 0 {
		interval = workerInterval
	}

	pool := newPool(deps)
	defer pool.Shutdown()

	sched := scheduler.New("magang-autostart", interval, autostartTask(deps, pool), lg)

	if runOnce {
		if err := sched.Tick(context.Background()); err != nil {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("lifecycle worker is running. Press Ctrl+C to stop.",
		"interval", interval,
		"max_workers", deps.Config.Lifecycle.MaxWorkers,
		"job_queue_size", deps.Config.Lifecycle.JobQueueSize)

	sched.Run(ctx)
	lg.Info("lifecycle worker stopped")
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	lifecycleWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	lifecycleWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	lifecycleWorkerCmd.Flags().DurationVar(&workerInterval, "interval", 0, "Time between runs (overrides config)")
	lifecycleWorkerCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single pass and exit")

	workerCmd.AddCommand(lifecycleWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
