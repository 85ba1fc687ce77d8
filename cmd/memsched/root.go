package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/memsched"
	"github.com/viant/memsched/internal/host"
	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/service/source"
)

// flags shared by run and validate
type flags struct {
	config   string
	memory   int
	host     bool
	timeUnit string
	demo     bool
	files    []string
	specs    []string
	journal  string
	trace    string
	progress bool
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memsched",
		Short: "Memory constrained workload scheduler",
		Long: `memsched admits synthetic workloads only when the memory budget can ` +
			`cover them; the rest wait until running workloads release memory.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newValidateCmd())
	return rootCmd
}

func (f *flags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "configuration URL (JSON or YAML)")
	cmd.Flags().IntVarP(&f.memory, "memory", "m", 0, "total memory, overrides config")
	cmd.Flags().BoolVar(&f.host, "host-memory", false, "size total memory from available host memory in MB")
	cmd.Flags().StringVar(&f.timeUnit, "time-unit", "", "wall-clock length of one duration unit, e.g. 100ms")
	cmd.Flags().BoolVar(&f.demo, "demo", false, "schedule the built-in demo workloads")
	cmd.Flags().StringArrayVarP(&f.files, "file", "f", nil, "workload file URL (JSON or YAML), repeatable")
	cmd.Flags().StringArrayVarP(&f.specs, "spec", "s", nil, "inline workload memory=<int>,duration=<number>[,name=<string>], repeatable")
}

// loadConfig resolves the configuration with flag overrides applied
func (f *flags) loadConfig(ctx context.Context) (*memsched.Config, error) {
	config := memsched.DefaultConfig()
	if f.config != "" {
		var err error
		if config, err = memsched.LoadConfig(ctx, f.config); err != nil {
			return nil, err
		}
	}
	if f.host {
		available, err := host.AvailableMemoryMB()
		if err != nil {
			return nil, fmt.Errorf("failed to read host memory: %w", err)
		}
		config.Memory.Total = available
	}
	if f.memory > 0 {
		config.Memory.Total = f.memory
	}
	if f.timeUnit != "" {
		unit, err := parseDuration(f.timeUnit)
		if err != nil {
			return nil, fmt.Errorf("invalid time-unit %q: %w", f.timeUnit, err)
		}
		config.Executor.TimeUnit = unit
	}
	return config, config.Validate()
}

// definitions collects workloads from files, then specs; demo is used when
// nothing else was given
func (f *flags) definitions(ctx context.Context) ([]*workload.Definition, error) {
	var result []*workload.Definition
	loader := source.NewLoader(nil)
	for _, URL := range f.files {
		definitions, err := loader.Load(ctx, URL)
		if err != nil {
			return nil, err
		}
		result = append(result, definitions...)
	}
	specs, err := source.ParseSpecs(f.specs...)
	if err != nil {
		return nil, err
	}
	result = append(result, specs...)
	if f.demo || len(result) == 0 {
		result = append(source.Demo(), result...)
	}
	return result, nil
}
