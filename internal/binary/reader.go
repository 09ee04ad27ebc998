// Package binary provides bounds-checked binary reading over a host byte source.
package binary

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/simonhull/mp3probe/internal/types"
)

// SafeReader wraps a types.Source with bounds checking, contextual error
// messages, and bounded retry of short reads.
//
// The source is borrowed: SafeReader never closes it. All transient
// buffers come from the injected allocator so hosts with pooled memory
// see every allocation.
type SafeReader struct {
	src     types.Source
	alloc   types.Allocator
	name    string
	size    int64 // 0 when the source size is unknown
	retries int
}

// NewSafeReader creates a SafeReader over src. retries is the number of
// additional read attempts allowed after a transient short read.
func NewSafeReader(src types.Source, alloc types.Allocator, name string, retries int) *SafeReader {
	return &SafeReader{
		src:     src,
		alloc:   alloc,
		name:    name,
		size:    src.Size(),
		retries: retries,
	}
}

// Name returns the display name associated with this reader.
func (sr *SafeReader) Name() string {
	return sr.name
}

// Size returns the source size in bytes, or 0 when unknown.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// Alloc obtains a buffer of exactly n bytes from the injected allocator.
// Allocation failures surface as ResourceError.
func (sr *SafeReader) Alloc(n int, op string) ([]byte, error) {
	b, err := sr.alloc.Alloc(n)
	if err != nil {
		return nil, &types.ResourceError{Op: op, Size: n, Err: err}
	}
	if len(b) < n {
		sr.alloc.Free(b)
		return nil, &types.ResourceError{Op: op, Size: n, Err: errors.New("allocator returned a short buffer")}
	}
	return b[:n], nil
}

// Free returns a buffer obtained from Alloc to the allocator.
func (sr *SafeReader) Free(b []byte) {
	if b != nil {
		sr.alloc.Free(b)
	}
}

// ReadFull reads exactly len(b) bytes at the given offset.
//
// Short reads without an error are treated as transient and retried;
// the retry budget covers consecutive attempts that return no data, so
// a slow host delivering the request in pieces is not penalized. Reads
// past the known source size fail with OutOfBoundsError before touching
// the source at all.
func (sr *SafeReader) ReadFull(b []byte, off int64, what string) error {
	if len(b) == 0 {
		return nil
	}
	if off < 0 || (sr.size > 0 && off >= sr.size) {
		return &types.OutOfBoundsError{
			Name: sr.name, What: what, Offset: off, Length: len(b), Size: sr.size,
		}
	}
	if sr.size > 0 && off+int64(len(b)) > sr.size {
		return &types.OutOfBoundsError{
			Name: sr.name, What: what, Offset: off, Length: len(b), Size: sr.size,
		}
	}

	read := 0
	attempts := 0
	for read < len(b) {
		n, err := sr.src.ReadAt(b[read:], off+int64(read))
		if n > 0 {
			read += n
			attempts = 0
		}
		if read >= len(b) {
			return nil
		}
		if err == io.EOF {
			// EOF below the declared size means the source is shorter
			// than it claims; with unknown size it means we ran off the
			// end. Neither is retryable.
			if sr.size > 0 {
				return &types.IOError{
					Name: sr.name, What: what, Offset: off,
					Attempts: attempts + 1, Err: io.ErrUnexpectedEOF,
				}
			}
			return &types.OutOfBoundsError{
				Name: sr.name, What: what, Offset: off, Length: len(b), Size: 0,
			}
		}
		if n == 0 {
			attempts++
			if attempts > sr.retries {
				if err == nil {
					err = io.ErrNoProgress
				}
				return &types.IOError{
					Name: sr.name, What: what, Offset: off, Attempts: attempts, Err: err,
				}
			}
		}
	}
	return nil
}

// ReadUpTo reads as many bytes as are available at off, up to len(b).
//
// The request is clamped to the known source size; hitting the end of
// the source is not an error. Only persistent read failures surface,
// after the same retry budget as ReadFull.
func (sr *SafeReader) ReadUpTo(b []byte, off int64, what string) (int, error) {
	if off < 0 {
		return 0, &types.OutOfBoundsError{
			Name: sr.name, What: what, Offset: off, Length: len(b), Size: sr.size,
		}
	}
	if sr.size > 0 {
		if off >= sr.size {
			return 0, nil
		}
		if rem := sr.size - off; int64(len(b)) > rem {
			b = b[:rem]
		}
	}

	read := 0
	attempts := 0
	for read < len(b) {
		n, err := sr.src.ReadAt(b[read:], off+int64(read))
		if n > 0 {
			read += n
			attempts = 0
		}
		if read >= len(b) {
			break
		}
		if err == io.EOF {
			break
		}
		if n == 0 {
			attempts++
			if attempts > sr.retries {
				if err == nil {
					err = io.ErrNoProgress
				}
				return read, &types.IOError{
					Name: sr.name, What: what, Offset: off, Attempts: attempts, Err: err,
				}
			}
		}
	}
	return read, nil
}

// Read reads a big-endian value of type T at the given offset.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	var zero T
	var buf [8]byte
	size := sizeOf(zero)

	if err := sr.ReadFull(buf[:size], off, what); err != nil {
		return zero, err
	}
	return decode[T](buf[:size]), nil
}

// sizeOf returns the encoded size in bytes of a value of type T.
func sizeOf[T uint8 | uint16 | uint32 | uint64](zero T) int {
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// decode converts big-endian bytes to a value of type T.
func decode[T uint8 | uint16 | uint32 | uint64](buf []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(binary.BigEndian.Uint16(buf))
	case uint32:
		return T(binary.BigEndian.Uint32(buf))
	default:
		return T(binary.BigEndian.Uint64(buf))
	}
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
}

// NewReader creates a Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
	}
}

// ReadValue reads a big-endian value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := Read[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}

	var zero T
	r.offset += int64(sizeOf(zero))
	return val, nil
}

// ReadBytes reads length bytes into a fresh slice and advances the offset.
func (r *Reader) ReadBytes(length int, what string) ([]byte, error) {
	buf := make([]byte, length)
	if err := r.SafeReader.ReadFull(buf, r.offset, what); err != nil {
		return nil, err
	}

	r.offset += int64(length)
	return buf, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// Bytes reads a byte slice, accumulating any error.
func (cr *ChainReader) Bytes(length int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	val, err := cr.Reader.ReadBytes(length, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
