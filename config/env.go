package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that provide defaults for the mapper options.
const (
	EnvOutputDir   = "TIMELOOP_OUTPUT_DIR"
	EnvMonitorPort = "TIMELOOP_MONITOR_PORT"
	EnvThreads     = "TIMELOOP_THREADS"
)

// LoadEnv loads the variables of the .env files into the environment. The
// variables already set are not overridden. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return nil
}

// ApplyEnv fills the options that are not set in the file from the
// environment.
func (m *MapperConfig) ApplyEnv() error {
	if m.OutputDir == "" {
		m.OutputDir = os.Getenv(EnvOutputDir)
	}

	if m.MonitorPort == 0 {
		port, err := intFromEnv(EnvMonitorPort)
		if err != nil {
			return err
		}

		m.MonitorPort = port
	}

	if m.Threads == 0 {
		threads, err := intFromEnv(EnvThreads)
		if err != nil {
			return err
		}

		m.Threads = threads
	}

	return nil
}

func intFromEnv(name string) (int, error) {
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	return v, nil
}
