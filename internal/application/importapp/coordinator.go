package importapp

import "sync"

// Coordinator serializes imports. Replace-on-reimport deletes and re-inserts
// a whole scope; running two imports at once could interleave a delete with
// another scope's reads, so only one import runs at a time per process.
type Coordinator struct {
	mu sync.Mutex
}

// NewCoordinator creates an import coordinator
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Serialize runs fn while holding the import lock
func (c *Coordinator) Serialize(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}
