package module

import dom "tally/internal/services/reconciler/domain"

// Ports holds the ports exposed by the reconciler module
type Ports struct {
	Worker   dom.WorkerPort
	Enqueuer dom.EnqueuePort
}
