package mp3probe

import (
	"fmt"

	"github.com/simonhull/mp3probe/internal/types"
)

// Source is an alias to types.Source.
// Re-exporting from internal/types so callers never import internal packages.
type Source = types.Source

// Allocator is an alias to types.Allocator.
// Re-exporting from internal/types so callers never import internal packages.
type Allocator = types.Allocator

// Logger receives diagnostic messages from a session.
//
// The interface is printf-shaped so common loggers plug in directly,
// e.g. lgr.Default() or any type with a matching Logf method. Sessions
// log sparsely: region boundaries, the first frame, tag discovery and
// failures.
type Logger interface {
	Logf(format string, args ...any)
}

// nopLogger discards all messages. It is the default.
type nopLogger struct{}

func (nopLogger) Logf(string, ...any) {}

// heapAllocator is the default Allocator, backed by the Go heap.
type heapAllocator struct{}

func (heapAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative allocation size %d", n)
	}
	return make([]byte, n), nil
}

func (heapAllocator) Free([]byte) {}
