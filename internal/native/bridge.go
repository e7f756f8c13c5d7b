package native

import (
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/atomic"

	"github.com/obinnaokechukwu/spgo/internal/gateway"
	"github.com/obinnaokechukwu/spgo/internal/handles"
)

// Request describes one asynchronous libspotify operation that reports
// completion through a void (*)(void *result, void *userdata) callback, such
// as sp_artistbrowse_create or sp_image_add_load_callback.
type Request struct {
	// Create issues the native call. It receives the C callback pointer and
	// the userdata to register with it, and returns the created resource.
	Create func(callback, userdata uintptr) (uintptr, error)

	// Attach stores the created pointer in the result wrapper. Optional.
	Attach func(ptr uintptr) error

	// Ready reports whether the resource is already complete, in which
	// case libspotify will not call back and the bridge completes it
	// immediately. Optional.
	Ready func(ptr uintptr) bool

	// OnComplete runs once, on the callback goroutine, with the gateway
	// lock held. It must not block. Optional.
	OnComplete func(ptr uintptr)

	// Completion to set. Optional; a new one is made if nil. Supplying it
	// lets the result wrapper hold it before any callback can run.
	Completion *Completion
}

// Bridge turns native completion callbacks into Completions.
type Bridge struct {
	gw       *gateway.Gateway
	callback uintptr
	log      *slog.Logger
	pending  atomic.Int64
}

// NewBridge creates a bridge whose requests register callback (normally
// CompletionCallback()) with libspotify.
func NewBridge(gw *gateway.Gateway, callback uintptr, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{gw: gw, callback: callback, log: log.With("component", "bridge")}
}

// Pending returns the number of registered operations that have not yet
// completed.
func (b *Bridge) Pending() int64 {
	return b.pending.Load()
}

// pending is the context registered for one outstanding operation. It is
// owned by the handles registry until the callback fires, so it survives
// the caller dropping every reference to the result.
type pending struct {
	id         uintptr
	bridge     *Bridge
	req        Request
	completion *Completion
	ptr        uintptr
	fired      atomic.Bool

	// Guarded by the gateway lock.
	armed    bool
	early    bool
	earlyPtr uintptr
}

// Register issues req and returns its Completion. The native call, Attach
// and Ready run under the gateway lock. There is no way to cancel a
// registered operation; libspotify offers none.
func (b *Bridge) Register(req Request) (*Completion, error) {
	if req.Create == nil {
		return nil, fmt.Errorf("spgo: completion request without Create")
	}

	done := req.Completion
	if done == nil {
		done = NewCompletion()
	}
	p := &pending{bridge: b, req: req, completion: done}
	p.id = handles.Register(p)
	b.pending.Inc()

	err := b.gw.Call(func() error {
		ptr, err := req.Create(b.callback, p.id)
		if err != nil {
			return err
		}
		if ptr == 0 {
			return fmt.Errorf("%w: create returned null", ErrInvalidHandle)
		}
		if req.Attach != nil {
			if err := req.Attach(ptr); err != nil {
				return err
			}
		}
		p.ptr = ptr
		p.armed = true

		switch {
		case p.early:
			p.fire(p.earlyPtr)
		case req.Ready != nil && req.Ready(ptr):
			p.fire(ptr)
		}
		return nil
	})
	if err != nil {
		if handles.Take(p.id) != nil {
			b.pending.Dec()
		}
		return nil, err
	}
	return p.completion, nil
}

// Dispatch is the body of the completion trampoline. libspotify may call it
// from any thread, any number of times; only the first call for a given
// userdata has an effect.
func Dispatch(ptr, userdata uintptr) {
	p, ok := handles.Lookup(userdata).(*pending)
	if !ok {
		slog.Default().Debug("completion for unknown context", "userdata", userdata, "ptr", ptr)
		return
	}
	_ = p.bridge.gw.Call(func() error {
		p.fire(ptr)
		return nil
	})
}

// fire must be called with the gateway lock held.
func (p *pending) fire(ptr uintptr) {
	b := p.bridge
	if !p.armed {
		// Called back from inside Create, before the result was attached.
		if !p.early {
			p.early = true
			p.earlyPtr = ptr
		}
		return
	}
	if !p.fired.CompareAndSwap(false, true) {
		b.log.Debug("ignoring repeated completion", "userdata", p.id, "ptr", ptr)
		return
	}
	if ptr != p.ptr {
		b.log.Warn("completion pointer differs from created resource", "created", p.ptr, "completed", ptr)
	}

	p.completion.Set()

	if p.req.OnComplete != nil {
		var pc panics.Catcher
		pc.Try(func() { p.req.OnComplete(ptr) })
		if r := pc.Recovered(); r != nil {
			b.log.Error("completion callback panicked", "panic", r.Value, "stack", string(r.Stack))
		}
	}

	if handles.Take(p.id) != nil {
		b.pending.Dec()
	}
}
