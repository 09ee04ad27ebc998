// Package id3 locates ID3 tag regions so frame scanning starts and stops
// on true audio data.
//
// Only the tag structure is interpreted: the leading ID3v2 header with
// its synchsafe size and footer flag, and the trailing 128-byte ID3v1
// block. Tag content is never parsed.
package id3

import (
	"errors"
	"fmt"

	binutil "github.com/simonhull/mp3probe/internal/binary"
	"github.com/simonhull/mp3probe/internal/types"
)

const (
	headerSize = 10
	footerSize = 10
	v1TagSize  = 128

	flagFooter = 0x10
)

// Region bounds the audio data between a leading ID3v2 tag and a
// trailing ID3v1 tag.
type Region struct {
	Start int64
	End   int64 // -1 when the source size is unknown
}

// Size returns the region length in bytes, or 0 when the end is unknown
// or the region is empty.
func (r Region) Size() int64 {
	if r.End < 0 || r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// FindRegion returns the audio region of the source.
//
// Absence of tags is normal: a source with no ID3 data yields the full
// [0, size) region. The only failure mode besides I/O trouble is an
// ID3v2 header declaring a tag larger than the source itself.
func FindRegion(sr *binutil.SafeReader) (Region, error) {
	region := Region{Start: 0, End: -1}
	if size := sr.Size(); size > 0 {
		region.End = size
	}

	var hdr [headerSize]byte
	n, err := sr.ReadUpTo(hdr[:], 0, "ID3v2 header")
	if err != nil {
		return Region{}, err
	}

	if n == headerSize && string(hdr[0:3]) == "ID3" {
		tagSize := int64(decodeSynchsafe(hdr[6:10]))
		total := int64(headerSize) + tagSize
		if hdr[5]&flagFooter != 0 {
			total += footerSize
		}
		if region.End >= 0 && total > region.End {
			return Region{}, &types.FormatError{
				Name:   sr.Name(),
				Reason: fmt.Sprintf("ID3v2 tag of %d bytes exceeds source size %d", total, region.End),
				Offset: 0,
			}
		}
		region.Start = total
	}

	// Trailing ID3v1 tag, only detectable when the size is known.
	if region.End >= v1TagSize {
		var tail [3]byte
		off := region.End - v1TagSize
		err := sr.ReadFull(tail[:], off, "ID3v1 tag")
		if err != nil {
			var ioErr *types.IOError
			if errors.As(err, &ioErr) {
				return Region{}, err
			}
		} else if string(tail[:]) == "TAG" {
			region.End -= v1TagSize
		}
		if region.End < region.Start {
			region.End = region.Start
		}
	}

	return region, nil
}

// decodeSynchsafe decodes a synchsafe integer (7 usable bits per byte,
// the most significant bit of each byte is ignored).
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}
