package config

// NewDefaultParams returns the default set of parameters.
func NewDefaultParams() Params {
	return Params{

		Workers: 2,

		InnerWorkers: 2,

		Tasks: 12,

		Subtasks: 8,

		Weight: 1000000,

		LogLevel: 1,

		LogFile: "stderr",

		LogBuffer: 100000,

		LogHuman: false,

		LogMemInterval: 0,
	}
}
