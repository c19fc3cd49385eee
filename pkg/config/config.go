// Package config handles parameters of a run: worker counts, task counts
// and per-task cost, together with loaders for the JSON and TOML formats.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Params holds the caller-supplied parameters of one run.
type Params struct {
	// Number of workers pulling from the shared queue.
	// These are the outer workers of a nested run.
	Workers int

	// Number of workers in each inner pool of a nested run.
	InnerWorkers int

	// Total number of tasks to submit.
	Tasks int

	// Number of subtasks derived from each task in a nested run.
	Subtasks int

	// Weight of one task: how many iterations of the sample computation it runs.
	Weight int64

	// Log level: 0-debug 1-info 2-warn 3-error 4-fatal 5-panic.
	LogLevel int

	// Path of the logfile. "stdout" or "stderr" are possible too.
	LogFile string

	// The size of log diode buffer in bytes. 0 disables the diode. Recommended at least 100k.
	LogBuffer int

	// Whether to write the log in the human readable form or in JSON.
	LogHuman bool

	// How often (in seconds) to log the memory usage. 0 to disable.
	LogMemInterval int
}

// Load reads Params from the file at the given path, choosing the loader by
// file extension: ".toml" for TOML, anything else is treated as JSON.
func Load(path string) (*Params, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	params := NewDefaultParams()
	loader := NewJSONParamsLoader()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		loader = NewTOMLParamsLoader()
	}
	if err := loader.LoadParams(file, &params); err != nil {
		return nil, err
	}
	if err := Valid(&params); err != nil {
		return nil, err
	}
	return &params, nil
}
