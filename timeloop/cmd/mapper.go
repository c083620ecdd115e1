package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/MainEpicenter/timeloop/config"
	"github.com/MainEpicenter/timeloop/datarecording"
	"github.com/MainEpicenter/timeloop/hooking"
	"github.com/MainEpicenter/timeloop/mapper"
	"github.com/MainEpicenter/timeloop/model"
	"github.com/MainEpicenter/timeloop/monitoring"
	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/search"
)

var mapperCmd = &cobra.Command{
	Use:   "mapper CONFIG.yaml",
	Short: "Search for the best mapping of every workload.",
	Long: "`mapper CONFIG.yaml` searches the mapping space of every problem " +
		"of the configuration and prints the best mapping found. Flags " +
		"override the mapper section of the configuration.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}

		err = applyMapperFlags(cmd, &cfg.Mapper)
		if err != nil {
			return err
		}

		specs, err := cfg.Specs()
		if err != nil {
			return err
		}

		workloads, err := cfg.Workloads()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		r := &mapperRun{
			cmd:    cmd,
			opts:   cfg.Mapper,
			specs:  specs,
			logger: slog.Default(),
		}

		return r.run(ctx, workloads)
	},
}

func init() {
	rootCmd.AddCommand(mapperCmd)

	f := mapperCmd.Flags()
	f.Int("threads", 0, "The number of search workers. 0 uses one per CPU.")
	f.String("metric", "edp", "The metric to minimize: energy, delay, edp "+
		"or area.")
	f.Uint64("victory", 0, "Stop a worker after this many valid mappings "+
		"without improvement. 0 disables the condition.")
	f.Uint64("search-size", 0, "Stop a worker after this many valid "+
		"mappings. 0 means no limit.")
	f.Bool("dump-costs", false, "Write the best cost of every index "+
		"factorization into a CSV file.")
	f.Bool("record", false, "Store the results into a SQLite database.")
	f.Bool("monitor", false, "Serve the progress of the search over HTTP.")
	f.Int("monitor-port", 0, "The port of the monitoring server. "+
		"0 picks a random port.")
	f.Bool("open-browser", false, "Open the monitoring page in a browser.")
	f.String("output-dir", "", "The directory to write the outputs into.")
}

func applyMapperFlags(cmd *cobra.Command, opts *config.MapperConfig) error {
	f := cmd.Flags()

	if f.Changed("threads") {
		opts.Threads, _ = f.GetInt("threads")
	}

	if f.Changed("metric") || opts.Metric == "" {
		opts.Metric, _ = f.GetString("metric")
	}

	if f.Changed("victory") {
		opts.VictoryCondition, _ = f.GetUint64("victory")
	}

	if f.Changed("search-size") {
		opts.SearchSize, _ = f.GetUint64("search-size")
	}

	if f.Changed("dump-costs") {
		opts.DumpCosts, _ = f.GetBool("dump-costs")
	}

	if f.Changed("record") {
		opts.Record, _ = f.GetBool("record")
	}

	if f.Changed("monitor") {
		opts.Monitor, _ = f.GetBool("monitor")
	}

	if f.Changed("monitor-port") {
		opts.MonitorPort, _ = f.GetInt("monitor-port")
	}

	if f.Changed("output-dir") {
		opts.OutputDir, _ = f.GetString("output-dir")
	}

	return opts.ApplyEnv()
}

type mapperRun struct {
	cmd    *cobra.Command
	opts   config.MapperConfig
	specs  model.Specs
	logger *slog.Logger

	metric   mapper.Metric
	monitor  *monitoring.Monitor
	recorder datarecording.DataRecorder
	hooks    []hooking.Hook
}

func (r *mapperRun) run(ctx context.Context, workloads []*problem.Workload) error {
	metric, err := mapper.ParseMetric(r.opts.Metric)
	if err != nil {
		return err
	}

	r.metric = metric

	if r.opts.OutputDir != "" {
		err = os.MkdirAll(r.opts.OutputDir, 0o755)
		if err != nil {
			return err
		}
	}

	verbose, _ := r.cmd.Flags().GetBool("verbose")
	if verbose {
		r.hooks = append(r.hooks, hooking.NewLogHook(r.logger, slog.LevelDebug))
	}

	r.setupMonitor()
	r.setupRecorder()

	for _, w := range workloads {
		err = r.search(ctx, w)
		if err != nil {
			return err
		}
	}

	if r.monitor != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Second)
		defer cancel()

		_ = r.monitor.StopServer(shutdownCtx)
	}

	if r.recorder != nil {
		return r.recorder.Close()
	}

	return nil
}

func (r *mapperRun) setupMonitor() {
	if !r.opts.Monitor {
		return
	}

	r.monitor = monitoring.NewMonitor().WithPortNumber(r.opts.MonitorPort)

	openBrowser, _ := r.cmd.Flags().GetBool("open-browser")
	if openBrowser {
		r.monitor.WithBrowser()
	}

	r.monitor.StartServer()
}

func (r *mapperRun) setupRecorder() {
	if !r.opts.Record {
		return
	}

	r.recorder = datarecording.New(r.outputPath("timeloop_" + xid.New().String()))

	if r.opts.DumpCosts {
		r.hooks = append(r.hooks, search.NewCostRecorder(r.recorder))
	}
}

func (r *mapperRun) outputPath(name string) string {
	if r.opts.OutputDir == "" {
		return name
	}

	return filepath.Join(r.opts.OutputDir, name)
}

func (r *mapperRun) search(ctx context.Context, w *problem.Workload) error {
	b := mapper.MakeBuilder().
		WithSpecs(r.specs).
		WithWorkload(w).
		WithMetric(r.metric).
		WithVictoryCondition(r.opts.VictoryCondition).
		WithSearchSize(r.opts.SearchSize).
		WithLogger(r.logger)

	if r.opts.Threads > 0 {
		b = b.WithThreads(r.opts.Threads)
	}

	for _, h := range r.hooks {
		b = b.WithHook(h)
	}

	if r.opts.DumpCosts {
		dumper := search.NewCostDumper(r.outputPath(w.Name + "_if_cost"))
		dumper.Init()

		defer func() {
			err := dumper.Close()
			if err != nil {
				r.logger.Error("cannot close cost dump", "err", err)
			}
		}()

		b = b.WithHook(dumper)
	}

	if r.monitor != nil {
		b = b.WithMonitor(r.monitor)
	}

	if r.recorder != nil {
		b = b.WithDataRecorder(r.recorder)
	}

	result, err := b.Build().Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", w.Name, err)
	}

	out := r.cmd.OutOrStdout()
	result.PrettyPrint(out, r.specs.StorageLevelNames())

	for _, ws := range result.Workers {
		r.logger.Info("worker finished",
			"worker", ws.Name,
			"visited", ws.Visited,
			"valid", ws.Valid,
			"construction_failures", ws.ConstructionFailures,
			"eval_failures", ws.EvalFailures)
	}

	fmt.Fprintln(out)

	return nil
}
