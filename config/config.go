// Package config describes the parameters of a simulated memory system and
// loads them from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/memsim/core"
	"github.com/sarchlab/memsim/mem/cache"
	"github.com/sarchlab/memsim/sim"
)

// Environment variables that override the simulation parameters.
const (
	EnvSeed     = "MEMSIM_SEED"
	EnvCycles   = "MEMSIM_CYCLES"
	EnvNumCores = "MEMSIM_NUM_CORES"
)

// Config holds the parameters of a whole system.
type Config struct {
	Cores        CoreConfig         `yaml:"cores"`
	L1           CacheConfig        `yaml:"l1"`
	L2           CacheConfig        `yaml:"l2"`
	DRAM         DRAMConfig         `yaml:"dram"`
	MemCtrl      MemCtrlConfig      `yaml:"memctrl"`
	Interconnect InterconnectConfig `yaml:"interconnect"`
	Simulation   SimulationConfig   `yaml:"simulation"`
}

// CoreConfig describes the request generators. Every core gets its own
// address window of AddressWindow bytes so that cores never share data.
type CoreConfig struct {
	NumCores       int          `yaml:"num_cores"`
	OpDistribution core.Weights `yaml:"op_distribution"`
	AddressWindow  uint64       `yaml:"address_window"`
	ReadBudget     int          `yaml:"read_budget"`
	WriteBudget    int          `yaml:"write_budget"`
}

// CacheConfig describes one cache level.
type CacheConfig struct {
	TotalSize     uint64 `yaml:"total_size"`
	LineSize      uint64 `yaml:"line_size"`
	Associativity int    `yaml:"associativity"`
	WritePolicy   string `yaml:"write_policy"`
	WriteAllocate bool   `yaml:"write_allocate"`
	Replacement   string `yaml:"replacement"`
}

// DRAMConfig describes the DRAM device. Timing parameters are in cycles.
type DRAMConfig struct {
	TRCD      int    `yaml:"tRCD"`
	TRP       int    `yaml:"tRP"`
	TRFC      int    `yaml:"tRFC"`
	TCCD      int    `yaml:"tCCD"`
	TWTR      int    `yaml:"tWTR"`
	TRRD      int    `yaml:"tRRD"`
	TRAS      int    `yaml:"tRAS"`
	TRC       int    `yaml:"tRC"`
	TRTP      int    `yaml:"tRTP"`
	TWR       int    `yaml:"tWR"`
	TREFI     int    `yaml:"tREFI"`
	CL        int    `yaml:"CL"`
	CWL       int    `yaml:"CWL"`
	BL        int    `yaml:"BL"`
	BankCount int    `yaml:"bank_count"`
	Columns   int    `yaml:"columns"`
	UnitSize  int    `yaml:"unit_size"`
	Mapping   string `yaml:"mapping"`
}

// MemCtrlConfig describes the memory controller.
type MemCtrlConfig struct {
	QueueCapacity   int `yaml:"queue_capacity"`
	StarvationBound int `yaml:"starvation_bound"`
	MaxBurst        int `yaml:"max_burst"`
}

// InterconnectConfig describes the interconnect.
type InterconnectConfig struct {
	Bandwidth  int `yaml:"bandwidth"`
	MinLatency int `yaml:"min_latency"`
	JitterMax  int `yaml:"jitter_max"`
	Capacity   int `yaml:"capacity"`
}

// SimulationConfig describes a run.
type SimulationConfig struct {
	Seed   int64  `yaml:"seed"`
	Cycles uint64 `yaml:"cycles"`
}

// Default returns the two-core system that the simulator was built around.
func Default() Config {
	return Config{
		Cores: CoreConfig{
			NumCores:       2,
			OpDistribution: core.Uniform,
			AddressWindow:  1024,
			ReadBudget:     core.Unlimited,
			WriteBudget:    core.Unlimited,
		},
		L1: CacheConfig{
			TotalSize:     32,
			LineSize:      4,
			Associativity: 2,
			WritePolicy:   "write_back",
			WriteAllocate: true,
			Replacement:   "plru",
		},
		L2: CacheConfig{
			TotalSize:     1024,
			LineSize:      4,
			Associativity: 16,
			WritePolicy:   "write_back",
			WriteAllocate: true,
			Replacement:   "plru",
		},
		DRAM: DRAMConfig{
			TRCD:      15,
			TRP:       15,
			TRFC:      160,
			TCCD:      4,
			TWTR:      8,
			TRRD:      4,
			TRAS:      15,
			TRC:       30,
			TRTP:      8,
			TWR:       15,
			TREFI:     7800,
			CL:        15,
			CWL:       12,
			BL:        8,
			BankCount: 4,
			Columns:   4,
			UnitSize:  4,
			Mapping:   "RoCoBa",
		},
		MemCtrl: MemCtrlConfig{
			QueueCapacity:   64,
			StarvationBound: 200,
			MaxBurst:        8,
		},
		Interconnect: InterconnectConfig{
			Bandwidth:  4,
			MinLatency: 5,
			JitterMax:  2,
			Capacity:   1024,
		},
		Simulation: SimulationConfig{
			Seed:   0,
			Cycles: 100,
		},
	}
}

// Load reads a YAML file. Parameters missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}

// ApplyEnv loads the given .env files, or ./.env if none is given, and
// overrides the simulation parameters with the MEMSIM_ variables. Missing
// files are ignored.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}

		c.Simulation.Seed = seed
	}

	if v, ok := os.LookupEnv(EnvCycles); ok {
		cycles, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCycles, err)
		}

		c.Simulation.Cycles = cycles
	}

	if v, ok := os.LookupEnv(EnvNumCores); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNumCores, err)
		}

		c.Cores.NumCores = n
	}

	return nil
}

// Validate reports the problems that the component builders cannot see. The
// parameters of each component are checked when the platform is built.
func (c Config) Validate() error {
	var errs []error

	if c.Cores.NumCores <= 0 {
		errs = append(errs, sim.NewConfigError("cores", "num_cores",
			"%d must be positive", c.Cores.NumCores))
	}

	if c.Simulation.Cycles == 0 {
		errs = append(errs, sim.NewConfigError("simulation", "cycles",
			"must be positive"))
	}

	for _, level := range []struct {
		name string
		cfg  CacheConfig
	}{{"l1", c.L1}, {"l2", c.L2}} {
		if _, err := cache.ParseWritePolicy(level.cfg.WritePolicy); err != nil {
			errs = append(errs, sim.NewConfigError(level.name, "write_policy",
				"%v", err))
		}
	}

	if c.L2.LineSize < c.L1.LineSize {
		errs = append(errs, sim.NewConfigError("l2", "line_size",
			"%d is smaller than the L1 line size %d",
			c.L2.LineSize, c.L1.LineSize))
	}

	return errors.Join(errs...)
}
