package mapper

import (
	"context"
	"log/slog"

	"github.com/MainEpicenter/timeloop/analysis"
	"github.com/MainEpicenter/timeloop/hooking"
	"github.com/MainEpicenter/timeloop/mapping"
	"github.com/MainEpicenter/timeloop/mapspace"
	"github.com/MainEpicenter/timeloop/model"
	"github.com/MainEpicenter/timeloop/monitoring"
	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/search"
)

// HookPosNewBest is invoked when a worker finds a mapping better than all
// the ones it has seen. The item is the *mapping.Mapping and the detail is
// the cost.
var HookPosNewBest = &hooking.HookPos{Name: "NewBest"}

// A worker searches one partition of the mapping space.
type worker struct {
	hooking.HookableBase

	name     string
	space    mapspace.MapSpace
	Search   *search.LinearPruned
	topology model.Topology
	workload *problem.Workload
	metric   Metric

	victory    uint64
	searchSize uint64

	BestCost         float64
	best             *mapping.Mapping
	sinceImprovement uint64

	bar    *monitoring.ProgressBar
	logger *slog.Logger
}

func (w *worker) Name() string {
	return w.name
}

func (w *worker) run(ctx context.Context) {
	for ctx.Err() == nil {
		id, ok := w.Search.Next()
		if !ok {
			return
		}

		status, cost := w.evaluate(id)
		w.Search.Report(status, cost)

		if w.bar != nil {
			w.bar.IncrementFinished(1)
		}

		if status != search.Success {
			continue
		}

		if w.done() {
			return
		}
	}
}

func (w *worker) evaluate(id mapspace.ID) (search.Status, float64) {
	m, err := w.space.ConstructMapping(id)
	if err != nil {
		return search.MappingConstructionFailure, 0
	}

	a := analysis.New(w.workload, &m.Nest)

	if !w.topology.PreEvaluationCheck(m, a) {
		return search.EvalFailure, 0
	}

	if !w.topology.Evaluate(m, a, w.workload) {
		return search.EvalFailure, 0
	}

	cost := w.metric.Cost(&w.topology)
	w.consider(m, cost)

	return search.Success, cost
}

func (w *worker) consider(m *mapping.Mapping, cost float64) {
	if w.best != nil && cost >= w.BestCost {
		w.sinceImprovement++
		return
	}

	w.best = m
	w.BestCost = cost
	w.sinceImprovement = 0

	w.logger.Debug("new best mapping",
		"worker", w.name, "id", m.ID, "cost", cost)

	if w.NumHooks() > 0 {
		w.InvokeHook(hooking.HookCtx{
			Domain: w,
			Pos:    HookPosNewBest,
			Item:   m,
			Detail: cost,
		})
	}
}

func (w *worker) done() bool {
	if w.victory > 0 && w.sinceImprovement >= w.victory {
		w.logger.Debug("victory condition reached", "worker", w.name)
		return true
	}

	if w.searchSize > 0 && w.Search.Stats().Valid >= w.searchSize {
		return true
	}

	return false
}
