package render

// Status is the controller's view of the current or last job.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSpawning  Status = "spawning"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// isValidTransition enforces the job state machine edges.
func isValidTransition(from, to Status) bool {
	switch from {
	case StatusIdle:
		return to == StatusSpawning
	case StatusSpawning:
		return to == StatusRunning || to == StatusFailed
	case StatusRunning:
		return to == StatusCompleted
	case StatusCompleted, StatusFailed:
		return to == StatusSpawning
	default:
		return false
	}
}
