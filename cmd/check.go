package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/foundry/infra/blueprint"
)

var dumpFormat string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse and validate the economy definitions",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&dumpFormat, "dump", "", "print the parsed economies as yaml or json")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Input.Path == "" {
		return fmt.Errorf("no input: set input.path or pass --input")
	}
	economies, err := blueprint.Load(cfg.Input.Path, cfg.Input.Format)
	if err != nil {
		return err
	}
	if dumpFormat != "" {
		return blueprint.Encode(cmd.OutOrStdout(), economies, dumpFormat)
	}
	out := cmd.OutOrStdout()
	for _, e := range economies {
		fmt.Fprintf(out, "economy %d: %d kinds, root %s, terminal %s\n",
			e.ID(), e.Len(), e.Name(e.Root()), e.Name(e.Terminal()))
	}
	fmt.Fprintf(out, "%d economies ok\n", len(economies))
	return nil
}
