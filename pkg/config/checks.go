package config

import (
	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// Valid checks whether the parameters describe a runnable setup.
func Valid(p *Params) error {
	if p == nil {
		return work.NewConfigError("params is nil")
	}
	if p.Workers < 1 {
		return work.NewConfigError("Workers must be at least 1")
	}
	if p.InnerWorkers < 1 {
		return work.NewConfigError("InnerWorkers must be at least 1")
	}
	if p.Tasks < 0 {
		return work.NewConfigError("Tasks cannot be negative")
	}
	if p.Subtasks < 1 {
		return work.NewConfigError("Subtasks must be at least 1")
	}
	if p.Weight < 1 {
		return work.NewConfigError("Weight must be at least 1")
	}
	if p.LogLevel < 0 || p.LogLevel > 5 {
		return work.NewConfigError("LogLevel outside of the 0-5 range")
	}
	if p.LogBuffer < 0 {
		return work.NewConfigError("LogBuffer cannot be negative")
	}
	if p.LogMemInterval < 0 {
		return work.NewConfigError("LogMemInterval cannot be negative")
	}
	return nil
}
