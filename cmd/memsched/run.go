package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/memsched"
	"github.com/viant/memsched/internal/host"
	"github.com/viant/memsched/progress"
	"github.com/viant/memsched/service/dao"
	"github.com/viant/memsched/service/dao/criteria"
	"github.com/viant/memsched/service/event"
)

func newRunCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Schedule workloads until all finished or were discarded",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.journal, "journal", "j", "", "URL receiving the event journal as JSON lines")
	cmd.Flags().StringVar(&f.trace, "trace", "", "file receiving OpenTelemetry spans")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "log counters and running workloads after every change")
	return cmd
}

func run(ctx context.Context, f *flags) error {
	config, err := f.loadConfig(ctx)
	if err != nil {
		return err
	}
	definitions, err := f.definitions(ctx)
	if err != nil {
		return err
	}
	options := []memsched.Option{
		memsched.WithConfig(config),
		memsched.WithListener(event.LogListener(log.Default())),
	}
	var journal *event.Journal
	if f.journal != "" {
		journal = event.NewJournal(afs.New())
		options = append(options, memsched.WithListener(journal.Handle))
	}
	if f.trace != "" {
		options = append(options, memsched.WithTracing("memsched", "0.1.0", f.trace))
	}
	srv := memsched.New(options...)
	runtime := srv.Runtime()
	defer runtime.Shutdown(context.WithoutCancel(ctx))
	if f.progress {
		runtime.OnProgress(func(counters progress.Progress) {
			var names []string
			for _, aWorkload := range runtime.Running() {
				names = append(names, aWorkload.Name)
			}
			log.Printf("[memsched] -- waiting %d, running %d [%s], finished %d, discarded %d",
				counters.WaitingWorkloads, counters.RunningWorkloads, strings.Join(names, ", "),
				counters.FinishedWorkloads, counters.DiscardedWorkloads)
		})
	}

	log.Printf("[memsched] -- total memory %d, time unit %v, %d workload(s)", config.Memory.Total, config.Executor.TimeUnit, len(definitions))
	if _, err = runtime.IntakeAll(ctx, definitions); err != nil {
		return err
	}
	started := time.Now()
	runErr := runtime.Run(ctx)
	if workloads, err := runtime.Workloads(context.WithoutCancel(ctx)); err == nil {
		for _, aWorkload := range workloads {
			if elapsed := aWorkload.Elapsed(); elapsed > 0 {
				log.Printf("[memsched] -- %s #%d ran %v", aWorkload.Name, aWorkload.ID, elapsed.Round(time.Millisecond))
			}
		}
	}
	unsettled, err := runtime.Workloads(context.WithoutCancel(ctx), dao.NewParameter(criteria.TerminalParameter, "false"))
	if err == nil {
		for _, aWorkload := range unsettled {
			log.Printf("[memsched] -- %s #%d left %v", aWorkload.Name, aWorkload.ID, aWorkload.State)
		}
	}
	for _, launch := range runtime.RejectedLaunches() {
		log.Printf("[memsched] -- rejected launch for workload %d", launch.WorkloadID)
	}
	counters := runtime.Progress()
	log.Printf("[memsched] -- %d finished, %d discarded, %d waiting in %v",
		counters.FinishedWorkloads, counters.DiscardedWorkloads, counters.WaitingWorkloads, time.Since(started).Round(time.Millisecond))
	if rss, err := host.ResidentMemoryMB(); err == nil {
		log.Printf("[memsched] -- scheduler resident memory %.1f MB", rss)
	}
	if journal != nil {
		if err = journal.Upload(context.WithoutCancel(ctx), f.journal); err != nil {
			return err
		}
	}
	if errors.Is(runErr, context.Canceled) {
		log.Printf("[memsched] -- interrupted")
		return nil
	}
	return runErr
}
