package table

import "sync"

// Coordinator tracks the single open overlay. Opening one overlay closes the
// one that was open before it.
type Coordinator struct {
	mu     sync.Mutex
	active string
	closer func()
}

// NewCoordinator returns an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

var shared = NewCoordinator()

// SharedCoordinator returns the process-wide coordinator used by interactive
// views.
func SharedCoordinator() *Coordinator {
	return shared
}

// Activate marks id as the open overlay and runs the closer registered by the
// previously open overlay, if it was a different one.
func (c *Coordinator) Activate(id string, closer func()) {
	c.mu.Lock()
	prev, prevCloser := c.active, c.closer
	c.active, c.closer = id, closer
	c.mu.Unlock()

	if prev != "" && prev != id && prevCloser != nil {
		prevCloser()
	}
}

// Release clears id if it is the open overlay.
func (c *Coordinator) Release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == id {
		c.active, c.closer = "", nil
	}
}

// Active returns the id of the open overlay or "".
func (c *Coordinator) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// DismissActive closes whatever overlay is open. It reports whether one was.
func (c *Coordinator) DismissActive() bool {
	c.mu.Lock()
	id, closer := c.active, c.closer
	c.active, c.closer = "", nil
	c.mu.Unlock()

	if id == "" {
		return false
	}
	if closer != nil {
		closer()
	}
	return true
}
