package mapper

import (
	"fmt"
	"strings"

	"github.com/MainEpicenter/timeloop/model"
)

// A Metric ranks the mappings. Lower is better.
type Metric int

// The metrics the mapper can optimize.
const (
	MetricEDP Metric = iota
	MetricEnergy
	MetricDelay
	MetricArea
)

var metricNames = map[Metric]string{
	MetricEDP:    "edp",
	MetricEnergy: "energy",
	MetricDelay:  "delay",
	MetricArea:   "area",
}

func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}

	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric converts a metric name into a Metric.
func ParseMetric(name string) (Metric, error) {
	for m, n := range metricNames {
		if strings.EqualFold(n, name) {
			return m, nil
		}
	}

	return 0, fmt.Errorf("unknown metric %q, expecting one of "+
		"energy, delay, edp or area", name)
}

// Cost returns the value of the metric for an evaluated topology.
func (m Metric) Cost(t *model.Topology) float64 {
	switch m {
	case MetricEnergy:
		return t.Energy()
	case MetricDelay:
		return float64(t.Cycles())
	case MetricArea:
		return t.Area()
	default:
		return t.Energy() * float64(t.Cycles())
	}
}

// Metrics are the aggregate statistics of an evaluated topology.
type Metrics struct {
	Energy      float64
	Area        float64
	Cycles      uint64
	Utilization float64
	MACCs       uint64
}

// PJPerMACC returns the energy spent per operation.
func (m Metrics) PJPerMACC() float64 {
	if m.MACCs == 0 {
		return 0
	}

	return m.Energy / float64(m.MACCs)
}

// MetricsOf collects the metrics of an evaluated topology.
func MetricsOf(t *model.Topology) Metrics {
	return Metrics{
		Energy:      t.Energy(),
		Area:        t.Area(),
		Cycles:      t.Cycles(),
		Utilization: t.Utilization(),
		MACCs:       t.MACCs(),
	}
}
