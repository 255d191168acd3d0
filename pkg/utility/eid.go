package utility

import (
	"sync"

	"github.com/google/uuid"
)

// ExecutionID identifies one process run. Every log line and archive row
// produced by the service carries it, so batches from restarts are separable.
type ExecutionID = uuid.UUID

var (
	executionID     ExecutionID
	executionIDOnce sync.Once
)

func GetExecutionID() ExecutionID {
	executionIDOnce.Do(func() {
		executionID = uuid.Must(uuid.NewV7())
	})
	return executionID
}
