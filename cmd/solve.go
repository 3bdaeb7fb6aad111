package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/foundry/app"
	"github.com/kilianp07/foundry/infra/logger"
	"github.com/kilianp07/foundry/pkg/export"
)

var solveFlags struct {
	horizon   int
	mode      string
	first     int
	instances []int
	workers   int
	maxNodes  int
	timeout   int
	noDedup   bool
	noGreedy  bool
	output    string
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Search every economy and print the aggregate score",
	RunE:  runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.IntVar(&solveFlags.horizon, "horizon", 0, "number of ticks to search")
	f.StringVar(&solveFlags.mode, "mode", "", "aggregation: weighted_sum or product")
	f.IntVar(&solveFlags.first, "first", 0, "only evaluate the first N economies")
	f.IntSliceVar(&solveFlags.instances, "instances", nil, "only evaluate these economy IDs")
	f.IntVarP(&solveFlags.workers, "workers", "w", 0, "concurrent searches, 0 for one per CPU")
	f.IntVar(&solveFlags.maxNodes, "max-nodes", 0, "node budget per economy, 0 for none")
	f.IntVar(&solveFlags.timeout, "timeout", 0, "time budget per economy in seconds, 0 for none")
	f.BoolVar(&solveFlags.noDedup, "no-dedup", false, "disable the visited-state table")
	f.BoolVar(&solveFlags.noGreedy, "no-greedy", false, "expand siblings of terminal builds")
	f.StringVarP(&solveFlags.output, "format", "f", "text", "output format: text, json or csv")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("horizon") {
		cfg.Search.Horizon = solveFlags.horizon
	}
	if f.Changed("mode") {
		cfg.Search.Mode = solveFlags.mode
	}
	if f.Changed("first") {
		cfg.Search.Subset = solveFlags.first
	}
	if f.Changed("instances") {
		cfg.Search.Instances = solveFlags.instances
	}
	if f.Changed("workers") {
		cfg.Search.Workers = solveFlags.workers
	}
	if f.Changed("max-nodes") {
		cfg.Search.MaxNodes = solveFlags.maxNodes
	}
	if f.Changed("timeout") {
		cfg.Search.TimeoutSeconds = solveFlags.timeout
	}
	if solveFlags.noDedup {
		cfg.Search.Dedup = false
	}
	if solveFlags.noGreedy {
		cfg.Search.GreedyCommit = false
	}
	if err := cfg.Search.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	economies, err := svc.LoadEconomies()
	if err != nil {
		return err
	}
	rep, err := svc.Evaluate(ctx, economies)
	if err != nil {
		return err
	}
	return export.Write(cmd.OutOrStdout(), rep, solveFlags.output)
}
