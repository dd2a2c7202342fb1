package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim/platform"
)

func newScenarioCmd() *cobra.Command {
	o := &options{}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [name]",
		Short: "Run a scripted scenario, or list them.",
		Long: `Scenario runs one of the scripted experiments in which each ` +
			`core follows a fixed trace of reads and writes. Without a ` +
			`name, the available scenarios are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, sc := range platform.Scenarios() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d cores, %d cycles\n",
						sc.Name, len(sc.Traces), sc.Cycles)
				}

				return nil
			}

			sc, found := platform.FindScenario(args[0])
			if !found {
				return fmt.Errorf("unknown scenario %q", args[0])
			}

			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}

			b, ss, err := o.builder(cfg)
			if err != nil {
				return err
			}

			ss.sim, err = b.BuildScenario(simulationName, sc)
			if err != nil {
				return errors.Join(err, ss.close())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Scenario %s\n", sc.Name)

			return o.execute(cmd, ss, sc.Cycles)
		},
	}

	o.addFlags(scenarioCmd)

	return scenarioCmd
}
