package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/memsched/internal/idgen"
	"github.com/viant/memsched/model/workload"
	"github.com/viant/toolbox"
)

func newValidateCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse workloads and configuration without scheduling",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validate(cmd.Context(), f, cmd.OutOrStdout())
		},
	}
	f.register(cmd)
	return cmd
}

func validate(ctx context.Context, f *flags, w io.Writer) error {
	config, err := f.loadConfig(ctx)
	if err != nil {
		return err
	}
	definitions, err := f.definitions(ctx)
	if err != nil {
		return err
	}
	ids := idgen.NewRegistry()
	fits := 0
	for i, definition := range definitions {
		id, err := ids.Assign(definition.ID)
		if err != nil {
			return fmt.Errorf("workload[%d]: %w", i, err)
		}
		name := definition.Name
		if name == "" {
			name = workload.DefaultName(id)
		}
		status := "ok"
		if definition.Memory > config.Memory.Total {
			status = fmt.Sprintf("will be discarded: exceeds total %d", config.Memory.Total)
		} else {
			fits++
		}
		fmt.Fprintf(w, "%s #%d memory=%d duration=%v: %s\n", name, id, definition.Memory, definition.Duration, status)
	}
	fmt.Fprintf(w, "%d workload(s), %d schedulable, total memory %d\n", len(definitions), fits, config.Memory.Total)
	return nil
}

// parseDuration accepts Go durations ("250ms") or a bare number of milliseconds
func parseDuration(value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	millis, err := toolbox.ToFloat(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(millis * float64(time.Millisecond)), nil
}
