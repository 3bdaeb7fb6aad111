package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/foundry/app"
	"github.com/kilianp07/foundry/config"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List stored evaluations, or the instances of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "number of runs to list, 0 for all")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Backend != config.StoreSQLite {
		return errors.New("runs needs store.backend: sqlite")
	}
	st, err := app.OpenStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if c, ok := st.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if len(args) == 1 {
		instances, err := st.Instances(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ECONOMY\tSCORE\tNODES\tEXHAUSTIVE\tELAPSED\t")
		for _, in := range instances {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%t\t%s\t\n", in.Economy, in.Score, in.Nodes, in.Exhaustive, in.Elapsed)
		}
		return tw.Flush()
	}
	runs, err := st.Runs(runsLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "RUN\tSTARTED\tMODE\tHORIZON\tINSTANCES\tVALUE\t")
	for _, r := range runs {
		value := fmt.Sprint(r.Value)
		if !r.Exhaustive {
			value += "+"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t\n", r.ID, r.Started.Format(time.RFC3339), r.Mode, r.Horizon, r.Instances, value)
	}
	return tw.Flush()
}
