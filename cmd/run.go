package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	o := &options{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a random workload on the configured system.",
		Long: `Run builds the system from the configuration and lets every ` +
			`core issue random reads and writes for the configured number ` +
			`of cycles. The statistics are printed at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}

			b, ss, err := o.builder(cfg)
			if err != nil {
				return err
			}

			ss.sim, err = b.Build(simulationName)
			if err != nil {
				return errors.Join(err, ss.close())
			}

			return o.execute(cmd, ss, cfg.Simulation.Cycles)
		},
	}

	o.addFlags(runCmd)

	return runCmd
}

func (o *options) execute(cmd *cobra.Command, ss *session, cycles uint64) error {
	if err := o.attach(ss); err != nil {
		return errors.Join(err, ss.close())
	}

	ss.sim.Run(cycles)

	printReport(cmd.OutOrStdout(), ss)

	return ss.close()
}
