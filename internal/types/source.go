package types

// Source is host-owned byte storage. The session borrows it for its
// lifetime and never closes it; the host must keep it valid until the
// session is closed.
//
// ReadAt follows io.ReaderAt semantics. Short reads are tolerated: the
// engine retries them a bounded number of times before giving up.
type Source interface {
	// ReadAt reads len(p) bytes starting at offset off.
	ReadAt(p []byte, off int64) (n int, err error)

	// Size returns the total size of the source in bytes, or 0 when the
	// size is unknown (streaming sources).
	Size() int64
}

// Allocator provides the scan buffers a session works with. Every
// buffer obtained through Alloc is released through Free when the
// session is closed or when it is no longer needed.
//
// The default allocator delegates to the Go runtime; hosts with pooled
// or arena memory inject their own.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}
