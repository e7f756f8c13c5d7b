package native

import (
	"sync"
	"time"
)

// Completion is a one-shot event: it starts unset and becomes set exactly
// once, when the native operation it tracks completes.
type Completion struct {
	once sync.Once
	done chan struct{}
}

// NewCompletion returns an unset Completion.
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Done returns a channel that is closed when the completion is set.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// IsSet reports whether the completion has been set.
func (c *Completion) IsSet() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the completion is set or timeout elapses, and reports
// whether it was set. A timeout <= 0 waits forever.
func (c *Completion) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		<-c.done
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.done:
		return true
	case <-timer.C:
		return false
	}
}

// Set marks the completion as set and reports whether this call did it.
func (c *Completion) Set() bool {
	set := false
	c.once.Do(func() {
		close(c.done)
		set = true
	})
	return set
}
