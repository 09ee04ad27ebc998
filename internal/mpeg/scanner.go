package mpeg

import (
	"encoding/binary"

	binutil "github.com/simonhull/mp3probe/internal/binary"
	"github.com/simonhull/mp3probe/internal/types"
)

// Frame is a located, validated audio frame.
type Frame struct {
	Header FrameHeader
	Offset int64 // absolute offset of the sync byte
	Length int64 // frame size in bytes, header included
}

// Scanner walks a byte region of the source looking for MPEG audio
// frames. It reads through a caller-owned window buffer so the host
// source is hit in large aligned chunks rather than byte by byte.
type Scanner struct {
	sr     *binutil.SafeReader
	start  int64
	end    int64 // -1 when the region end is unknown
	window []byte
	winOff int64
	winLen int
}

// NewScanner creates a Scanner over [start, end) of the source. An end
// below zero means the region end is unknown and scanning runs until
// the source stops returning data. The window slice is scratch space
// owned by the caller and must hold at least 4 bytes.
func NewScanner(sr *binutil.SafeReader, start, end int64, window []byte) *Scanner {
	return &Scanner{
		sr:     sr,
		start:  start,
		end:    end,
		window: window,
		winOff: -1,
	}
}

// NextFrame finds the first valid frame at or after off.
//
// A sync candidate is accepted only when a second decodable frame
// header sits exactly one frame length behind it; anything else is a
// false sync and the search resumes one byte later. When the region is
// exhausted without a validated frame the returned error wraps
// types.ErrNoAudioFrames.
func (s *Scanner) NextFrame(off int64) (Frame, error) {
	if off < s.start {
		off = s.start
	}

	for {
		if s.end >= 0 && off+4 > s.end {
			break
		}
		b, ok, err := s.headerBytes(off)
		if err != nil {
			return Frame{}, err
		}
		if !ok {
			break
		}
		if !IsSync(b[0], b[1]) {
			off++
			continue
		}
		hdr, err := ParseHeader(binary.BigEndian.Uint32(b))
		if err != nil {
			off++
			continue
		}
		length := hdr.FrameLength()
		if length < 4 {
			off++
			continue
		}
		ok, err = s.validHeaderAt(off + length)
		if err != nil {
			return Frame{}, err
		}
		if !ok {
			off++
			continue
		}
		return Frame{Header: hdr, Offset: off, Length: length}, nil
	}

	return Frame{}, &types.FormatError{
		Name:   s.sr.Name(),
		Offset: s.start,
		Reason: "fewer than two consecutive valid frames",
		Err:    types.ErrNoAudioFrames,
	}
}

// HeaderAt decodes a frame header at exactly off, without the
// second-frame rule. It reports ok=false when off holds no decodable
// header or the region ends before one fits.
func (s *Scanner) HeaderAt(off int64) (FrameHeader, bool, error) {
	if s.end >= 0 && off+4 > s.end {
		return FrameHeader{}, false, nil
	}
	var b [4]byte
	n, err := s.sr.ReadUpTo(b[:], off, "frame header")
	if err != nil {
		return FrameHeader{}, false, err
	}
	if n < 4 || !IsSync(b[0], b[1]) {
		return FrameHeader{}, false, nil
	}
	hdr, err := ParseHeader(binary.BigEndian.Uint32(b[:]))
	if err != nil {
		return FrameHeader{}, false, nil
	}
	return hdr, true, nil
}

// validHeaderAt reports whether a decodable frame header sits at off.
func (s *Scanner) validHeaderAt(off int64) (bool, error) {
	_, ok, err := s.HeaderAt(off)
	return ok, err
}

// headerBytes returns the 4 bytes at off, refilling the window when off
// falls outside it. ok=false means the region has no 4 bytes left.
func (s *Scanner) headerBytes(off int64) ([]byte, bool, error) {
	if s.winOff < 0 || off < s.winOff || off+4 > s.winOff+int64(s.winLen) {
		if err := s.fill(off); err != nil {
			return nil, false, err
		}
	}
	if off+4 > s.winOff+int64(s.winLen) {
		return nil, false, nil
	}
	i := int(off - s.winOff)
	return s.window[i : i+4], true, nil
}

// fill loads the window at off, clamped to the region end.
func (s *Scanner) fill(off int64) error {
	want := len(s.window)
	if s.end >= 0 {
		if rem := s.end - off; rem < int64(want) {
			want = int(rem)
			if want < 0 {
				want = 0
			}
		}
	}
	n, err := s.sr.ReadUpTo(s.window[:want], off, "frame sync scan")
	if err != nil {
		return err
	}
	s.winOff = off
	s.winLen = n
	return nil
}
