package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/mem/trace"
	"github.com/sarchlab/memsim/monitoring"
	"github.com/sarchlab/memsim/platform"
)

const simulationName = "Sys"

type options struct {
	configFile  string
	envFiles    []string
	cycles      uint64
	seed        int64
	dbPath      string
	traceFile   string
	monitor     bool
	port        int
	openBrowser bool
}

func (o *options) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.configFile, "config", "",
		"YAML file that overrides the default configuration.")
	f.StringSliceVar(&o.envFiles, "env", []string{".env"},
		"Files that set MEMSIM_* environment overrides.")
	f.Uint64Var(&o.cycles, "cycles", 0,
		"Number of cycles to simulate.")
	f.Int64Var(&o.seed, "seed", 0,
		"Seed of the random number generator.")
	f.StringVar(&o.dbPath, "db", "",
		"Record completions into this SQLite database (without extension).")
	f.StringVar(&o.traceFile, "trace-file", "",
		"Write the start and the end of every request into this file.")
	f.BoolVar(&o.monitor, "monitor", false,
		"Serve the simulation state over HTTP.")
	f.IntVar(&o.port, "port", 0,
		"Port of the monitoring server. A random port is used if unset.")
	f.BoolVar(&o.openBrowser, "open-browser", false,
		"Open the monitoring server in the default browser.")
}

// loadConfig layers the defaults, the config file, the environment and the
// command line flags, in increasing priority.
func (o *options) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if o.configFile != "" {
		var err error

		cfg, err = config.Load(o.configFile)
		if err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyEnv(o.envFiles...); err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("cycles") {
		cfg.Simulation.Cycles = o.cycles
	}

	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = o.seed
	}

	return cfg, nil
}

// session holds everything that a simulation run opens and must release.
type session struct {
	sim      *platform.Simulation
	recorder datarecording.DataRecorder
	exec     *datarecording.ExecRecorder
	latency  *trace.LatencyTracer
	closers  []io.Closer
}

func (o *options) builder(
	cfg config.Config,
) (platform.Builder, *session, error) {
	ss := &session{}
	b := platform.MakeBuilder().WithConfig(cfg)

	if o.dbPath != "" {
		if _, err := os.Stat(o.dbPath + ".sqlite3"); err == nil {
			return b, nil, fmt.Errorf("database %s.sqlite3 already exists",
				o.dbPath)
		}

		ss.recorder = datarecording.New(o.dbPath)
		ss.exec = datarecording.NewExecRecorder(ss.recorder)
		ss.exec.Start()
		ss.exec.Record("Seed", strconv.FormatInt(cfg.Simulation.Seed, 10))

		b = b.WithDataRecorder(ss.recorder)
	}

	return b, ss, nil
}

// attach adds the tracers and the monitor to a built simulation.
func (o *options) attach(ss *session) error {
	p := ss.sim.Platform()

	ss.latency = trace.NewLatencyTracer(trace.FromCores)
	p.MemCtrl.AcceptHook(ss.latency)

	if o.traceFile != "" {
		f, err := os.Create(o.traceFile)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}

		ss.closers = append(ss.closers, f)

		tracer := trace.NewLogTracer(log.New(f, "", 0))
		for _, c := range ss.sim.Components() {
			c.AcceptHook(tracer)
		}
	}

	if o.monitor {
		m := monitoring.NewMonitor().WithPortNumber(o.port)
		m.RegisterSimulation(ss.sim)

		if _, err := m.StartServer(); err != nil {
			return err
		}

		if o.openBrowser {
			if err := m.OpenBrowser(); err != nil {
				log.Printf("cannot open browser: %v", err)
			}
		}
	}

	return nil
}

// close writes the run information and releases the files. It can be called
// before the simulation is built.
func (ss *session) close() error {
	var errs []error

	if ss.exec != nil {
		if ss.sim != nil {
			ss.exec.Record("Cycles", strconv.FormatUint(ss.sim.Cycle(), 10))
		}

		ss.exec.End()
	}

	if ss.recorder != nil {
		errs = append(errs, ss.recorder.Close())
	}

	for _, c := range ss.closers {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}
