//go:build !ios && !android && (amd64 || arm64)

package native

import (
	"sync"

	"github.com/ebitengine/purego"
)

// purego has a fixed budget of callbacks per process, so the trampoline is
// created once and shared by every request. The userdata tells requests apart.
var (
	completionOnce sync.Once
	completionPtr  uintptr
)

// CompletionCallback returns the C function pointer of the shared completion
// trampoline, void (*)(void *result, void *userdata).
func CompletionCallback() uintptr {
	completionOnce.Do(func() {
		completionPtr = purego.NewCallback(completionTrampoline)
	})
	return completionPtr
}

func completionTrampoline(_ purego.CDecl, result, userdata uintptr) {
	Dispatch(result, userdata)
}
