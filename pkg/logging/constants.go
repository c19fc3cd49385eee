package logging

// Shortcuts for event types.
// Any event that happens multiple times should have a single character representation
const (
	ServiceStarted  = "start"
	ServiceStopped  = "stop"
	TaskExecuted    = "X"
	TaskFailed      = "F"
	WorkerFinished  = "W"
	SubtasksReduced = "R"
	QueueFilled     = "Q"
	MemoryUsage     = "M"
)

// eventTypeDict maps short event names to human readable form
var eventTypeDict = map[string]string{
	TaskExecuted:    "task executed",
	TaskFailed:      "task failed",
	WorkerFinished:  "worker observed empty queue and finished",
	SubtasksReduced: "inner results reduced to outer result",
	QueueFilled:     "work queue populated",
	MemoryUsage:     "memory usage",
}

// Field names
const (
	Time    = "T"
	Level   = "L"
	Event   = "E"
	Service = "S"
	Size    = "N"
	Memory  = "M"
	WID     = "P"
	Job     = "J"
	Index   = "I"
)

// fieldNameDict maps short field names to human readable form
var fieldNameDict = map[string]string{
	Time:    "time",
	Level:   "level",
	Event:   "event",
	Service: "service",
	Size:    "size",
	Memory:  "memory",
	WID:     "workerID",
	Job:     "jobID",
	Index:   "taskIndex",
}

// Service types
const (
	PoolService int = iota
	QueueService
	NestedService
	MemLogService
)

// serviceTypeDict maps integer service types to human readable names
var serviceTypeDict = map[int]string{
	PoolService:   "POOL",
	QueueService:  "QUEUE",
	NestedService: "NESTED",
	MemLogService: "MEMLOG",
}

// Genesis marks the beginning of relative time in the log.
const Genesis = "genesis"
