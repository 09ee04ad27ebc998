package types

import (
	"errors"
	"fmt"
)

// ErrNoAudioFrames signals that a stream contains no pair of consecutive
// valid MPEG frames. It is carried inside a FormatError and matched with
// errors.Is.
var ErrNoAudioFrames = errors.New("no audio frames found")

// ContractError reports misuse of the session API: a nil source, a nil
// output, or a call on a session that was already closed. These are
// caller bugs and are never retried.
type ContractError struct {
	Op      string // operation that detected the misuse
	Reason  string
	Pointer bool // true when a required reference was nil or stale
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// IOError is returned when the host read primitive keeps failing after
// the bounded retry budget is spent.
type IOError struct {
	Name     string
	What     string
	Offset   int64
	Attempts int
	Err      error
}

func (e *IOError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("%s: reading %s at offset %d failed after %d attempts: %v",
			e.Name, e.What, e.Offset, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: reading %s at offset %d failed: %v", e.Name, e.What, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatError is returned when the stream structure is invalid: tag sizes
// inconsistent with the source size, no valid frame pair, or a frame
// header whose fields would force a division by zero.
type FormatError struct {
	Name   string
	Reason string
	Offset int64
	Err    error // optional sentinel cause, e.g. ErrNoAudioFrames
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: invalid MP3 stream at offset %d: %s", e.Name, e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ResourceError is returned when the injected allocator cannot provide a
// buffer. The session releases everything it already holds before
// surfacing it.
type ResourceError struct {
	Op   string
	Size int
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: allocating %d bytes failed: %v", e.Op, e.Size, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// OutOfBoundsError is returned when a read would land beyond the end of
// the source. During frame scanning it is normal control flow (the scan
// window reached the end); anywhere else it means a truncated stream.
type OutOfBoundsError struct {
	Name   string
	What   string
	Offset int64
	Length int
	Size   int64 // 0 when the source size is unknown
}

func (e *OutOfBoundsError) Error() string {
	if e.Size <= 0 {
		return fmt.Sprintf("%s: read of %d bytes at offset %d beyond end of source while reading %s",
			e.Name, e.Length, e.Offset, e.What)
	}
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (source size: %d) while reading %s",
			e.Name, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed source size %d while reading %s",
		e.Name, e.Length, e.Offset, e.Size, e.What)
}
