package mapper

import (
	"slices"

	"github.com/MainEpicenter/timeloop/datarecording"
)

// The tables the mapper writes into when a DataRecorder is given.
const (
	BestMappingTable = "best_mapping"
	WorkerStatsTable = "worker_stats"
)

// BestMappingEntry is a row of the best_mapping table.
type BestMappingEntry struct {
	Workload    string
	MappingID   string
	Metric      string
	Cost        float64
	Energy      float64
	Area        float64
	Cycles      uint64
	Utilization float64
	MACCs       uint64
	PJPerMACC   float64
	ElapsedSec  float64
}

// WorkerStatsEntry is a row of the worker_stats table.
type WorkerStatsEntry struct {
	Workload             string
	Worker               string
	Visited              uint64
	Valid                uint64
	ConstructionFailures uint64
	EvalFailures         uint64
	BestCost             float64
}

func ensureTable(
	recorder datarecording.DataRecorder,
	name string,
	sample any,
) {
	if slices.Contains(recorder.ListTables(), name) {
		return
	}

	recorder.CreateTable(name, sample)
}

func (m *Mapper) record(r *Result) {
	if m.recorder == nil {
		return
	}

	m.recorder.InsertData(BestMappingTable, BestMappingEntry{
		Workload:    r.Workload.Name,
		MappingID:   r.Mapping.ID,
		Metric:      r.Metric.String(),
		Cost:        r.Cost,
		Energy:      r.Metrics.Energy,
		Area:        r.Metrics.Area,
		Cycles:      r.Metrics.Cycles,
		Utilization: r.Metrics.Utilization,
		MACCs:       r.Metrics.MACCs,
		PJPerMACC:   r.Metrics.PJPerMACC(),
		ElapsedSec:  r.Elapsed.Seconds(),
	})

	for _, w := range r.Workers {
		m.recorder.InsertData(WorkerStatsTable, WorkerStatsEntry{
			Workload:             r.Workload.Name,
			Worker:               w.Name,
			Visited:              w.Visited,
			Valid:                w.Valid,
			ConstructionFailures: w.ConstructionFailures,
			EvalFailures:         w.EvalFailures,
			BestCost:             w.BestCost,
		})
	}
}
