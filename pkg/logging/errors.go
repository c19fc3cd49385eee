package logging

import (
	"github.com/rs/zerolog"

	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// ResultErrors logs a summary of a finished run to the provided logger:
// how many tasks completed and, per failed task, which one and why.
// A run that merely hangs on a failure is never acceptable, so callers
// should report every drained batch through this.
func ResultErrors[V any](results []work.Result[V], log zerolog.Logger) {
	ok := 0
	for _, r := range results {
		if r.Err == nil {
			ok++
			continue
		}
		log.Error().Int(Job, r.ID.Job).Int(Index, r.ID.Index).Str("where", "compute").Msg(r.Err.Error())
	}
	log.Info().Int(Size, ok).Msg(TaskExecuted)
	if failed := len(results) - ok; failed > 0 {
		log.Info().Int(Size, failed).Msg(TaskFailed)
	}
}
