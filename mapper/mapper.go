// Package mapper searches the mapping space of a workload for the mapping
// that minimizes a metric on a given hardware.
package mapper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/MainEpicenter/timeloop/analysis"
	"github.com/MainEpicenter/timeloop/datarecording"
	"github.com/MainEpicenter/timeloop/hooking"
	"github.com/MainEpicenter/timeloop/mapping"
	"github.com/MainEpicenter/timeloop/mapspace"
	"github.com/MainEpicenter/timeloop/model"
	"github.com/MainEpicenter/timeloop/monitoring"
	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/search"
)

// ErrNoValidMapping is returned when the search does not find any mapping
// that the hardware can run.
var ErrNoValidMapping = errors.New("no valid mapping found")

// A Mapper runs parallel searches over disjoint parts of a mapping space.
type Mapper struct {
	specs      model.Specs
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

// WorkerStats are the search statistics of one worker.
type WorkerStats struct {
	Name     string
	BestCost float64
	search.Stats
}

// Result is the outcome of a search.
type Result struct {
	Workload *problem.Workload
	Metric   Metric
	Mapping  *mapping.Mapping
	Cost     float64
	Metrics  Metrics
	Report   string
	Workers  []WorkerStats
	Elapsed  time.Duration
}

// PrettyPrint writes the best mapping and its cost.
func (r *Result) PrettyPrint(w io.Writer, levelNames []string) {
	fmt.Fprintf(w, "Workload: %s\n", r.Workload.Name)
	fmt.Fprintf(w, "Mapping ID: %s\n", r.Mapping.ID)
	r.Mapping.PrettyPrint(w, levelNames, r.Workload)
	fmt.Fprintln(w)
	io.WriteString(w, r.Report)
	fmt.Fprintf(w, "Best %s: %g\n", r.Metric, r.Cost)
}

// Run searches the mapping space until every worker is done or the context
// is cancelled. The best mapping found so far is returned on cancellation.
func (m *Mapper) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	space, err := mapspace.MakeBuilder().
		WithSpecs(m.specs).
		WithWorkload(m.workload).
		Build()
	if err != nil {
		return nil, err
	}

	m.logger.Info("mapping space",
		"factorizations", space.Size(mapspace.IndexFactorization),
		"bypass", space.Size(mapspace.DatatypeBypass),
		"threads", m.threads)

	workers, err := m.createWorkers(space)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)

		go func(w *worker) {
			defer wg.Done()
			w.run(ctx)
		}(w)
	}

	wg.Wait()

	for _, w := range workers {
		if w.bar != nil {
			m.monitor.CompleteProgressBar(w.bar)
		}
	}

	result, err := m.collect(workers)
	if err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)

	m.logger.Info("search finished",
		"best", result.Cost, "metric", m.metric.String(),
		"id", result.Mapping.ID, "elapsed", result.Elapsed)

	m.record(result)

	return result, nil
}

func (m *Mapper) createWorkers(space *mapspace.TiledSpace) ([]*worker, error) {
	parts := space.Split(m.threads)
	workers := make([]*worker, 0, len(parts))

	for i, part := range parts {
		name := fmt.Sprintf("%s.Search[%d]", m.workload.Name, i)

		w := &worker{
			name:       name,
			space:      part,
			Search:     search.NewLinearPruned(name, part),
			workload:   m.workload,
			metric:     m.metric,
			victory:    m.victory,
			searchSize: m.searchSize,
			logger:     m.logger,
		}

		err := w.topology.Spec(m.specs)
		if err != nil {
			return nil, err
		}

		for _, h := range m.hooks {
			w.Search.AcceptHook(h)
			w.AcceptHook(h)
		}

		if m.monitor != nil {
			m.monitor.RegisterWorker(w)
			w.bar = m.monitor.CreateProgressBar(name, m.searchSize)
		}

		workers = append(workers, w)
	}

	return workers, nil
}

// collect picks the best mapping over the workers, the first worker winning
// ties, and evaluates it again for the report.
func (m *Mapper) collect(workers []*worker) (*Result, error) {
	result := &Result{
		Workload: m.workload,
		Metric:   m.metric,
	}

	for _, w := range workers {
		result.Workers = append(result.Workers, WorkerStats{
			Name:     w.name,
			BestCost: w.BestCost,
			Stats:    w.Search.Stats(),
		})

		if w.best == nil {
			continue
		}

		if result.Mapping == nil || w.BestCost < result.Cost {
			result.Mapping = w.best
			result.Cost = w.BestCost
		}
	}

	if result.Mapping == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoValidMapping, m.workload.Name)
	}

	topology, err := Evaluate(m.specs, m.workload, result.Mapping)
	if err != nil {
		return nil, err
	}

	result.Metrics = MetricsOf(topology)
	result.Report = topology.String()

	return result, nil
}

// ErrEvaluation is returned when the hardware cannot run a mapping.
var ErrEvaluation = errors.New("mapping cannot be evaluated")

// Evaluate builds a topology from the specs and evaluates one mapping on it.
func Evaluate(
	specs model.Specs,
	workload *problem.Workload,
	m *mapping.Mapping,
) (*model.Topology, error) {
	topology := &model.Topology{}

	err := topology.Spec(specs)
	if err != nil {
		return nil, err
	}

	a := analysis.New(workload, &m.Nest)

	if !topology.PreEvaluationCheck(m, a) {
		return nil, fmt.Errorf("%w: %s: working sets do not fit",
			ErrEvaluation, m.ID)
	}

	if !topology.Evaluate(m, a, workload) {
		return nil, fmt.Errorf("%w: %s", ErrEvaluation, m.ID)
	}

	return topology, nil
}
