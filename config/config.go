// Package config reads the architecture, the workloads and the mapper
// options from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MainEpicenter/timeloop/model"
	"github.com/MainEpicenter/timeloop/problem"
)

// ErrNoWorkload is returned when a configuration lists no problem.
var ErrNoWorkload = errors.New("no problem in configuration")

// Config is the content of a configuration file.
type Config struct {
	Architecture     *model.ArchConfig `yaml:"architecture"`
	ArchitectureFile string            `yaml:"architectureFile"`
	Problem          *ProblemConfig    `yaml:"problem"`
	Problems         []string          `yaml:"problems"`
	Mapper           MapperConfig      `yaml:"mapper"`

	dir string
}

// MapperConfig holds the options of a search.
type MapperConfig struct {
	Threads          int    `yaml:"threads"`
	Metric           string `yaml:"metric"`
	VictoryCondition uint64 `yaml:"victoryCondition"`
	SearchSize       uint64 `yaml:"searchSize"`
	DumpCosts        bool   `yaml:"dumpCosts"`
	Record           bool   `yaml:"record"`
	Monitor          bool   `yaml:"monitor"`
	MonitorPort      int    `yaml:"monitorPort"`
	OutputDir        string `yaml:"outputDir"`
}

// Load reads a configuration file. Relative paths inside the file are
// resolved against the directory of the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	err := readYAML(path, cfg)
	if err != nil {
		return nil, err
	}

	cfg.dir = filepath.Dir(path)

	return cfg, nil
}

// Specs parses and validates the architecture.
func (c *Config) Specs() (model.Specs, error) {
	arch := c.Architecture

	if arch == nil {
		if c.ArchitectureFile == "" {
			return model.Specs{}, errors.New("no architecture in configuration")
		}

		var err error
		arch, err = LoadArch(c.resolve(c.ArchitectureFile))
		if err != nil {
			return model.Specs{}, err
		}
	}

	specs, err := model.ParseSpecs(arch.Storage, arch.Arithmetic)
	if err != nil {
		return model.Specs{}, fmt.Errorf("architecture: %w", err)
	}

	return specs, nil
}

// Workloads returns the inline problem followed by the problems listed in
// other files.
func (c *Config) Workloads() ([]*problem.Workload, error) {
	var workloads []*problem.Workload

	if c.Problem != nil {
		w, err := c.Problem.Workload()
		if err != nil {
			return nil, err
		}

		workloads = append(workloads, w)
	}

	for _, file := range c.Problems {
		w, err := LoadProblem(c.resolve(file))
		if err != nil {
			return nil, err
		}

		workloads = append(workloads, w)
	}

	if len(workloads) == 0 {
		return nil, ErrNoWorkload
	}

	return workloads, nil
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.dir == "" {
		return path
	}

	return filepath.Join(c.dir, path)
}

// LoadArch reads an architecture file. The file either has the
// architecture at the top level or under an architecture key.
func LoadArch(path string) (*model.ArchConfig, error) {
	var wrapped struct {
		Architecture *model.ArchConfig `yaml:"architecture"`
	}

	err := readYAML(path, &wrapped)
	if err != nil {
		return nil, err
	}

	if wrapped.Architecture != nil {
		return wrapped.Architecture, nil
	}

	arch := &model.ArchConfig{}

	err = readYAML(path, arch)
	if err != nil {
		return nil, err
	}

	return arch, nil
}

// LoadProblem reads a problem file. The file either has the problem at the
// top level or under a problem key.
func LoadProblem(path string) (*problem.Workload, error) {
	var wrapped struct {
		Problem *ProblemConfig `yaml:"problem"`
	}

	err := readYAML(path, &wrapped)
	if err != nil {
		return nil, err
	}

	p := wrapped.Problem
	if p == nil {
		p = &ProblemConfig{}

		err = readYAML(path, p)
		if err != nil {
			return nil, err
		}
	}

	w, err := p.Workload()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return w, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}
