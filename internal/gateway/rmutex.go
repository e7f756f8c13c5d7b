package gateway

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// rmutex is a mutex that the owning goroutine may acquire again without
// deadlocking. Release must be called once per acquire.
//
// libspotify invokes callbacks synchronously from inside calls such as
// sp_session_process_events; those callbacks run on the goroutine that made
// the call and need the lock again.
type rmutex struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner int64
	depth int
}

func newRMutex() *rmutex {
	m := &rmutex{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func (m *rmutex) lock() {
	id := goid()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.depth > 0 && m.owner == id {
		m.depth++
		return
	}
	for m.depth > 0 {
		m.cond.Wait()
	}
	m.owner = id
	m.depth = 1
}

func (m *rmutex) unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.depth == 0 {
		panic("gateway: unlock of unlocked mutex")
	}
	if m.owner != goid() {
		panic("gateway: unlock by goroutine that does not hold the lock")
	}
	m.depth--
	if m.depth == 0 {
		m.owner = 0
		m.cond.Signal()
	}
}

// heldBy reports whether the goroutine with the given id holds the lock.
func (m *rmutex) heldBy(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depth > 0 && m.owner == id
}

// held reports whether any goroutine holds the lock.
func (m *rmutex) held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depth > 0
}

var goroutinePrefix = []byte("goroutine ")

// goid returns the id of the calling goroutine, parsed from the header of
// its stack trace ("goroutine 42 [running]:").
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		panic("gateway: cannot parse goroutine id: " + err.Error())
	}
	return id
}
