package config

import (
	"fmt"
	"strings"

	"github.com/MainEpicenter/timeloop/problem"
)

// ProblemConfig describes a workload. Shape gemm and conv take their bounds
// from Bounds by dimension name. Shape custom lists the dimensions and the
// projections explicitly.
type ProblemConfig struct {
	Name   string         `yaml:"name"`
	Shape  string         `yaml:"shape"`
	Bounds map[string]int `yaml:"bounds"`

	Dimensions  []string              `yaml:"dimensions"`
	Projections map[string][][]string `yaml:"projections"`
	ReadWrite   []string              `yaml:"readWrite"`
}

// Workload builds and validates the workload.
func (p *ProblemConfig) Workload() (*problem.Workload, error) {
	name := p.Name
	if name == "" {
		name = p.Shape
	}

	var w *problem.Workload

	switch strings.ToLower(p.Shape) {
	case "gemm":
		w = problem.NewGEMM(name,
			p.bound("M"), p.bound("N"), p.bound("K"))
	case "conv":
		w = problem.NewConv(name,
			p.bound("R"), p.bound("S"), p.bound("P"), p.bound("Q"),
			p.bound("C"), p.bound("K"), p.bound("N"))
	case "custom":
		var err error
		w, err = p.custom(name)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown shape %q",
			problem.ErrInvalidWorkload, p.Shape)
	}

	err := w.Validate()
	if err != nil {
		return nil, err
	}

	return w, nil
}

// bound returns the bound of a dimension, 1 if it is not given.
func (p *ProblemConfig) bound(dim string) int {
	if b, ok := p.Bounds[dim]; ok {
		return b
	}

	return 1
}

func (p *ProblemConfig) custom(name string) (*problem.Workload, error) {
	w := &problem.Workload{
		Name:       name,
		Dimensions: p.Dimensions,
		Bounds:     make([]int, len(p.Dimensions)),
	}

	for i, d := range p.Dimensions {
		w.Bounds[i] = p.bound(d)
	}

	for _, dt := range problem.AllDataTypes() {
		ranks, ok := p.Projections[dt.String()]
		if !ok {
			return nil, fmt.Errorf("%w: no projection for %s",
				problem.ErrInvalidWorkload, dt)
		}

		for _, rank := range ranks {
			r := make(problem.Rank, 0, len(rank))

			for _, dim := range rank {
				idx, ok := w.DimensionIndex(dim)
				if !ok {
					return nil, fmt.Errorf("%w: %s projects unknown dimension %s",
						problem.ErrInvalidWorkload, dt, dim)
				}

				r = append(r, idx)
			}

			w.Projections[dt] = append(w.Projections[dt], r)
		}
	}

	for _, name := range p.ReadWrite {
		found := false

		for _, dt := range problem.AllDataTypes() {
			if strings.EqualFold(dt.String(), name) {
				w.ReadWrite[dt] = true
				found = true
			}
		}

		if !found {
			return nil, fmt.Errorf("%w: unknown data type %s",
				problem.ErrInvalidWorkload, name)
		}
	}

	return w, nil
}
