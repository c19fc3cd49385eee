package pool

import (
	"fmt"

	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// execute runs the compute function with panic recovery. Both returned
// errors and panics end up as a TaskError on the result, so every consumed
// item yields exactly one result and drain accounting stays intact.
func execute[P, V any](id work.ID, payload P, compute work.Func[P, V]) (result work.Result[V]) {
	result.ID = id
	defer func() {
		if r := recover(); r != nil {
			result.Err = work.NewTaskError(id, fmt.Errorf("panic: %v", r))
		}
	}()
	value, err := compute(payload)
	if err != nil {
		result.Err = work.NewTaskError(id, err)
		return
	}
	result.Value = value
	return
}
