package vbr

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	binutil "github.com/simonhull/mp3probe/internal/binary"
	"github.com/simonhull/mp3probe/internal/mpeg"
	"github.com/simonhull/mp3probe/internal/types"
)

const (
	hdrStereo   = 0xFFFB9000 // MPEG1 Layer III 128 kbps 44.1 kHz stereo
	hdrMono     = 0xFFFB90C0 // same, mono
	hdrV2Mono   = 0xFFF390C0 // MPEG2 Layer III 80 kbps 22.05 kHz mono
	sideStereo  = 32
	sideMono    = 17
	sideV2Mono  = 9
	frameStereo = 417
)

type memSource struct {
	data []byte
}

func (m *memSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memSource) Size() int64 { return int64(len(m.data)) }

type brokenSource struct{}

func (brokenSource) ReadAt(p []byte, off int64) (int, error) {
	return 0, errors.New("device gone")
}

func (brokenSource) Size() int64 { return 4096 }

type testAlloc struct{}

func (testAlloc) Alloc(n int) ([]byte, error) { return make([]byte, n), nil }
func (testAlloc) Free([]byte)                 {}

// audioFrame builds a zero-payload frame for a raw header.
func audioFrame(raw uint32, length int) []byte {
	b := make([]byte, length)
	binary.BigEndian.PutUint32(b[:4], raw)
	return b
}

func mustFrame(t *testing.T, raw uint32, offset int64) mpeg.Frame {
	t.Helper()
	hdr, err := mpeg.ParseHeader(raw)
	if err != nil {
		t.Fatalf("bad test header: %v", err)
	}
	return mpeg.Frame{Header: hdr, Offset: offset, Length: hdr.FrameLength()}
}

func newReader(data []byte) *binutil.SafeReader {
	return binutil.NewSafeReader(&memSource{data: data}, testAlloc{}, "test.mp3", 3)
}

func TestReadTag_XingFramesOnly(t *testing.T) {
	buf := audioFrame(hdrStereo, frameStereo)
	p := buf[4+sideStereo:]
	copy(p, "Xing")
	binary.BigEndian.PutUint32(p[4:], flagFrames)
	binary.BigEndian.PutUint32(p[8:], 2500)

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrStereo, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Kind != TagXing {
		t.Fatalf("expected TagXing, got %s", tag.Kind)
	}
	if !tag.HasFrames || tag.Frames != 2500 {
		t.Errorf("expected 2500 frames, got %d (present=%v)", tag.Frames, tag.HasFrames)
	}
	if tag.HasBytes || tag.HasTOC || tag.HasQuality {
		t.Error("expected only the frame count to be present")
	}
	if !tag.IsVBR() {
		t.Error("Xing tag must mark the stream VBR")
	}
}

func TestReadTag_XingAllFields(t *testing.T) {
	buf := audioFrame(hdrStereo, frameStereo)
	p := buf[4+sideStereo:]
	copy(p, "Xing")
	binary.BigEndian.PutUint32(p[4:], flagFrames|flagBytes|flagTOC|flagQuality)
	binary.BigEndian.PutUint32(p[8:], 1000)
	binary.BigEndian.PutUint32(p[12:], 417000)
	for i := 0; i < tocSize; i++ {
		p[16+i] = byte(i)
	}
	binary.BigEndian.PutUint32(p[116:], 78)

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrStereo, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Frames != 1000 {
		t.Errorf("expected 1000 frames, got %d", tag.Frames)
	}
	if tag.Bytes != 417000 {
		t.Errorf("expected 417000 bytes, got %d", tag.Bytes)
	}
	if !tag.HasTOC || len(tag.TOC) != tocSize {
		t.Fatalf("expected a %d-byte seek table, got %d bytes", tocSize, len(tag.TOC))
	}
	if tag.TOC[0] != 0 || tag.TOC[99] != 99 {
		t.Error("seek table content mismatch")
	}
	if !tag.HasQuality || tag.Quality != 78 {
		t.Errorf("expected quality 78, got %d", tag.Quality)
	}
}

func TestReadTag_InfoIsCBRMarker(t *testing.T) {
	buf := audioFrame(hdrStereo, frameStereo)
	p := buf[4+sideStereo:]
	copy(p, "Info")
	binary.BigEndian.PutUint32(p[4:], flagFrames|flagBytes)
	binary.BigEndian.PutUint32(p[8:], 900)
	binary.BigEndian.PutUint32(p[12:], 375300)

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrStereo, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Kind != TagInfo {
		t.Fatalf("expected TagInfo, got %s", tag.Kind)
	}
	if tag.IsVBR() {
		t.Error("Info tag must not mark the stream VBR")
	}
	if tag.Frames != 900 || tag.Bytes != 375300 {
		t.Errorf("expected frames=900 bytes=375300, got frames=%d bytes=%d", tag.Frames, tag.Bytes)
	}
}

func TestReadTag_SideInfoOffsets(t *testing.T) {
	tests := []struct {
		name string
		raw  uint32
		side int
	}{
		{"mpeg1 mono", hdrMono, sideMono},
		{"mpeg2 mono", hdrV2Mono, sideV2Mono},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := mustFrame(t, tt.raw, 0)
			buf := audioFrame(tt.raw, int(frame.Length))
			p := buf[4+tt.side:]
			copy(p, "Xing")
			binary.BigEndian.PutUint32(p[4:], flagFrames)
			binary.BigEndian.PutUint32(p[8:], 321)

			tag, err := ReadTag(newReader(buf), frame)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tag.Kind != TagXing || tag.Frames != 321 {
				t.Errorf("expected Xing with 321 frames, got %s with %d", tag.Kind, tag.Frames)
			}
		})
	}
}

func TestReadTag_VBRI(t *testing.T) {
	buf := audioFrame(hdrStereo, frameStereo)
	p := buf[vbriOffset:]
	copy(p, "VBRI")
	binary.BigEndian.PutUint16(p[4:], 1)      // version
	binary.BigEndian.PutUint16(p[6:], 500)    // delay
	binary.BigEndian.PutUint16(p[8:], 80)     // quality
	binary.BigEndian.PutUint32(p[10:], 417000)
	binary.BigEndian.PutUint32(p[14:], 1000)

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrStereo, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Kind != TagVBRI {
		t.Fatalf("expected TagVBRI, got %s", tag.Kind)
	}
	if tag.Version != 1 {
		t.Errorf("expected version 1, got %d", tag.Version)
	}
	if tag.DelayMS != 500 {
		t.Errorf("expected delay 500, got %d", tag.DelayMS)
	}
	if tag.Quality != 80 {
		t.Errorf("expected quality 80, got %d", tag.Quality)
	}
	if tag.Bytes != 417000 || tag.Frames != 1000 {
		t.Errorf("expected bytes=417000 frames=1000, got bytes=%d frames=%d", tag.Bytes, tag.Frames)
	}
	if !tag.IsVBR() {
		t.Error("VBRI tag must mark the stream VBR")
	}
}

func TestReadTag_XingWinsOverVBRI(t *testing.T) {
	// Mono keeps the Xing offset (4+17) clear of the VBRI offset (36).
	buf := audioFrame(hdrMono, frameStereo)
	p := buf[4+sideMono:]
	copy(p, "Xing")
	binary.BigEndian.PutUint32(p[4:], flagFrames)
	binary.BigEndian.PutUint32(p[8:], 2500)
	copy(buf[vbriOffset:], "VBRI")

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrMono, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Kind != TagXing {
		t.Errorf("expected TagXing, got %s", tag.Kind)
	}
	if tag.Frames != 2500 {
		t.Errorf("expected 2500 frames, got %d", tag.Frames)
	}
}

func TestReadTag_FieldOrderSkipsAbsent(t *testing.T) {
	// Frames and TOC without bytes: the seek table follows the frame
	// count directly.
	buf := audioFrame(hdrStereo, frameStereo)
	p := buf[4+sideStereo:]
	copy(p, "Xing")
	binary.BigEndian.PutUint32(p[4:], flagFrames|flagTOC)
	binary.BigEndian.PutUint32(p[8:], 42)
	for i := 0; i < tocSize; i++ {
		p[12+i] = 0xAA
	}

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrStereo, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Frames != 42 {
		t.Errorf("expected 42 frames, got %d", tag.Frames)
	}
	if tag.HasBytes {
		t.Error("byte count flag was not set")
	}
	if !tag.HasTOC || tag.TOC[0] != 0xAA || tag.TOC[99] != 0xAA {
		t.Error("seek table not read from its shifted position")
	}
}

func TestReadTag_PlainFrameHasNoTag(t *testing.T) {
	buf := audioFrame(hdrStereo, frameStereo)

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrStereo, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Kind != TagNone {
		t.Errorf("expected TagNone, got %s", tag.Kind)
	}
	if tag.IsVBR() {
		t.Error("absent tag must not mark the stream VBR")
	}
}

func TestReadTag_TruncatedAfterMagic(t *testing.T) {
	buf := audioFrame(hdrStereo, frameStereo)
	p := buf[4+sideStereo:]
	copy(p, "Xing")
	buf = buf[:4+sideStereo+6] // cut inside the flags word

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrStereo, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Kind != TagNone {
		t.Errorf("expected TagNone for a truncated tag, got %s", tag.Kind)
	}
}

func TestReadTag_FrameOffsetHonored(t *testing.T) {
	prefix := make([]byte, 100)
	body := audioFrame(hdrStereo, frameStereo)
	p := body[4+sideStereo:]
	copy(p, "Xing")
	binary.BigEndian.PutUint32(p[4:], flagFrames)
	binary.BigEndian.PutUint32(p[8:], 777)
	buf := append(prefix, body...)

	tag, err := ReadTag(newReader(buf), mustFrame(t, hdrStereo, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Kind != TagXing || tag.Frames != 777 {
		t.Errorf("expected Xing with 777 frames, got %s with %d", tag.Kind, tag.Frames)
	}
}

func TestReadTag_ReadErrorPropagates(t *testing.T) {
	sr := binutil.NewSafeReader(brokenSource{}, testAlloc{}, "test.mp3", 1)

	_, err := ReadTag(sr, mustFrame(t, hdrStereo, 0))
	var ioErr *types.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{TagNone, "none"},
		{TagXing, "Xing"},
		{TagInfo, "Info"},
		{TagVBRI, "VBRI"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
