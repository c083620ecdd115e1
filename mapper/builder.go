package mapper

import (
	"log"
	"log/slog"
	"runtime"

	"github.com/MainEpicenter/timeloop/datarecording"
	"github.com/MainEpicenter/timeloop/hooking"
	"github.com/MainEpicenter/timeloop/model"
	"github.com/MainEpicenter/timeloop/monitoring"
	"github.com/MainEpicenter/timeloop/problem"
)

// Builder can build Mappers.
type Builder struct {
	specs      *model.Specs
	workload   *problem.Workload
	threads    int
	metric     Metric
	victory    uint64
	searchSize uint64
	hooks      []hooking.Hook
	monitor    *monitoring.Monitor
	recorder   datarecording.DataRecorder
	logger     *slog.Logger
}

// MakeBuilder returns a Builder with one thread per CPU that optimizes the
// energy-delay product.
func MakeBuilder() Builder {
	return Builder{
		threads: runtime.NumCPU(),
		metric:  MetricEDP,
	}
}

// WithSpecs sets the validated specifications of the hardware.
func (b Builder) WithSpecs(specs model.Specs) Builder {
	b.specs = &specs
	return b
}

// WithWorkload sets the workload to map.
func (b Builder) WithWorkload(w *problem.Workload) Builder {
	b.workload = w
	return b
}

// WithThreads sets the number of search workers.
func (b Builder) WithThreads(n int) Builder {
	b.threads = n
	return b
}

// WithMetric sets the metric to minimize.
func (b Builder) WithMetric(m Metric) Builder {
	b.metric = m
	return b
}

// WithVictoryCondition stops a worker after n consecutive valid mappings that
// do not improve its best cost. 0 disables the condition.
func (b Builder) WithVictoryCondition(n uint64) Builder {
	b.victory = n
	return b
}

// WithSearchSize stops a worker after n valid mappings. 0 means no limit.
func (b Builder) WithSearchSize(n uint64) Builder {
	b.searchSize = n
	return b
}

// WithHook attaches a hook to every search and every worker.
func (b Builder) WithHook(h hooking.Hook) Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// WithMonitor reports the progress of the workers to a monitor.
func (b Builder) WithMonitor(m *monitoring.Monitor) Builder {
	b.monitor = m
	return b
}

// WithDataRecorder stores the best mapping and the worker statistics.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithLogger sets the logger. slog.Default() is used if not set.
func (b Builder) WithLogger(l *slog.Logger) Builder {
	b.logger = l
	return b
}

// Build creates a Mapper.
func (b Builder) Build() *Mapper {
	if b.specs == nil || b.workload == nil {
		log.Panic("a mapper needs specs and a workload")
	}

	if b.threads < 1 {
		b.threads = 1
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Mapper{
		specs:      b.specs.Clone(),
		workload:   b.workload,
		threads:    b.threads,
		metric:     b.metric,
		victory:    b.victory,
		searchSize: b.searchSize,
		hooks:      b.hooks,
		monitor:    b.monitor,
		recorder:   b.recorder,
		logger:     logger.With("workload", b.workload.Name),
	}

	if m.recorder != nil {
		ensureTable(m.recorder, BestMappingTable, BestMappingEntry{})
		ensureTable(m.recorder, WorkerStatsTable, WorkerStatsEntry{})
	}

	return m
}
