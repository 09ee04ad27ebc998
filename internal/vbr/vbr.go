// Package vbr reads the Xing, Info and VBRI metadata tags that VBR
// encoders embed in the first audio frame.
package vbr

import (
	"errors"
	"fmt"

	binutil "github.com/simonhull/mp3probe/internal/binary"
	"github.com/simonhull/mp3probe/internal/mpeg"
	"github.com/simonhull/mp3probe/internal/types"
)

// Xing flag bits, in field order.
const (
	flagFrames  = 0x1
	flagBytes   = 0x2
	flagTOC     = 0x4
	flagQuality = 0x8
)

// tocSize is the fixed Xing seek table size in bytes.
const tocSize = 100

// vbriOffset is the distance from the frame sync to a VBRI tag: 4
// header bytes plus 32 bytes of reserved space, regardless of channel
// mode.
const vbriOffset = 36

// Kind identifies which metadata tag a frame carries.
type Kind int

const (
	TagNone Kind = iota
	TagXing
	TagInfo
	TagVBRI
)

// String returns the tag name as it appears on the wire.
func (k Kind) String() string {
	switch k {
	case TagNone:
		return "none"
	case TagXing:
		return "Xing"
	case TagInfo:
		return "Info"
	case TagVBRI:
		return "VBRI"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag is a decoded VBR metadata tag. Fields are populated according to
// the Has booleans; a VBRI tag always carries frames, bytes and
// quality.
type Tag struct {
	Kind    Kind
	Frames  uint32
	Bytes   uint32
	TOC     []byte
	Quality uint32
	Version uint16 // VBRI only
	DelayMS uint32 // VBRI only

	HasFrames  bool
	HasBytes   bool
	HasTOC     bool
	HasQuality bool
}

// IsVBR reports whether the tag marks the stream as variable bitrate.
// An Info tag shares the Xing layout but marks a CBR stream.
func (t Tag) IsVBR() bool {
	return t.Kind == TagXing || t.Kind == TagVBRI
}

// ReadTag looks for a metadata tag inside the given first frame. Xing
// and Info sit after the Layer III side information; VBRI sits at a
// fixed 32-byte offset. Xing takes precedence when both are present.
//
// A frame without a tag returns Kind TagNone and no error; only host
// read failures surface as errors.
func ReadTag(sr *binutil.SafeReader, frame mpeg.Frame) (Tag, error) {
	tag, err := readXing(sr, frame)
	if err != nil {
		return Tag{}, err
	}
	if tag.Kind != TagNone {
		return tag, nil
	}
	return readVBRI(sr, frame)
}

func readXing(sr *binutil.SafeReader, frame mpeg.Frame) (Tag, error) {
	off := frame.Offset + 4 + int64(frame.Header.SideInfoSize())
	r := binutil.NewReader(sr, off)
	cr := binutil.NewChainReader(r)

	magic := cr.Bytes(4, "VBR tag magic")
	if err := cr.Error(); err != nil {
		return noTag(err)
	}

	var kind Kind
	switch string(magic) {
	case "Xing":
		kind = TagXing
	case "Info":
		kind = TagInfo
	default:
		return Tag{}, nil
	}

	tag := Tag{Kind: kind}
	flags := binutil.ReadChained[uint32](cr, "VBR tag flags")
	if flags&flagFrames != 0 {
		tag.Frames = binutil.ReadChained[uint32](cr, "VBR frame count")
		tag.HasFrames = true
	}
	if flags&flagBytes != 0 {
		tag.Bytes = binutil.ReadChained[uint32](cr, "VBR byte count")
		tag.HasBytes = true
	}
	if flags&flagTOC != 0 {
		tag.TOC = cr.Bytes(tocSize, "VBR seek table")
		tag.HasTOC = true
	}
	if flags&flagQuality != 0 {
		tag.Quality = binutil.ReadChained[uint32](cr, "VBR quality")
		tag.HasQuality = true
	}
	if err := cr.Error(); err != nil {
		return noTag(err)
	}
	return tag, nil
}

func readVBRI(sr *binutil.SafeReader, frame mpeg.Frame) (Tag, error) {
	r := binutil.NewReader(sr, frame.Offset+vbriOffset)
	cr := binutil.NewChainReader(r)

	magic := cr.Bytes(4, "VBRI magic")
	if err := cr.Error(); err != nil {
		return noTag(err)
	}
	if string(magic) != "VBRI" {
		return Tag{}, nil
	}

	tag := Tag{Kind: TagVBRI, HasFrames: true, HasBytes: true, HasQuality: true}
	tag.Version = binutil.ReadChained[uint16](cr, "VBRI version")
	tag.DelayMS = uint32(binutil.ReadChained[uint16](cr, "VBRI delay"))
	tag.Quality = uint32(binutil.ReadChained[uint16](cr, "VBRI quality"))
	tag.Bytes = binutil.ReadChained[uint32](cr, "VBRI byte count")
	tag.Frames = binutil.ReadChained[uint32](cr, "VBRI frame count")
	if err := cr.Error(); err != nil {
		return noTag(err)
	}
	return tag, nil
}

// noTag maps a read that ran past the source into "no tag here". Host
// I/O failures stay errors.
func noTag(err error) (Tag, error) {
	var ioErr *types.IOError
	if errors.As(err, &ioErr) {
		return Tag{}, err
	}
	return Tag{}, nil
}
