// Package mpeg decodes MPEG audio frame headers and scans byte regions
// for consecutive valid frames.
package mpeg

import (
	"errors"
	"fmt"
)

// Version is the MPEG audio version encoded in a frame header.
type Version int

const (
	MPEG1 Version = iota
	MPEG2
	MPEG25
)

// String returns the version name, e.g. "MPEG1".
func (v Version) String() string {
	switch v {
	case MPEG1:
		return "MPEG1"
	case MPEG2:
		return "MPEG2"
	case MPEG25:
		return "MPEG2.5"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Layer is the MPEG audio layer encoded in a frame header.
type Layer int

const (
	LayerI Layer = iota
	LayerII
	LayerIII
)

// String returns the layer name, e.g. "Layer III".
func (l Layer) String() string {
	switch l {
	case LayerI:
		return "Layer I"
	case LayerII:
		return "Layer II"
	case LayerIII:
		return "Layer III"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// ChannelMode is the channel configuration encoded in a frame header.
// The constant values match the two header bits.
type ChannelMode int

const (
	Stereo ChannelMode = iota
	JointStereo
	DualChannel
	Mono
)

// String returns the channel mode name, e.g. "joint stereo".
func (c ChannelMode) String() string {
	switch c {
	case Stereo:
		return "stereo"
	case JointStereo:
		return "joint stereo"
	case DualChannel:
		return "dual channel"
	case Mono:
		return "mono"
	default:
		return fmt.Sprintf("ChannelMode(%d)", int(c))
	}
}

// Header rejection reasons. The scanner treats all of them as "not a
// frame here" and resynchronizes one byte later.
var (
	errNoSync             = errors.New("no frame sync")
	errReservedVersion    = errors.New("reserved MPEG version")
	errReservedLayer      = errors.New("reserved layer")
	errFreeBitrate        = errors.New("free bitrate not supported")
	errBadBitrate         = errors.New("invalid bitrate index")
	errReservedSampleRate = errors.New("reserved sample rate index")
)

// Bitrate tables in kbps, indexed by the 4-bit bitrate index.
// Index 0 is the "free" bitrate and index 15 is forbidden; both decode
// to 0 here and are rejected before lookup.
var (
	bitratesV1L1 = [16]int{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0}
	bitratesV1L2 = [16]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0}
	bitratesV1L3 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitratesV2L1 = [16]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0}
	bitratesV2L2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// Sample rate tables in Hz, indexed by the 2-bit sample rate index.
// Index 3 is reserved.
var (
	sampleRatesV1  = [4]int{44100, 48000, 32000, 0}
	sampleRatesV2  = [4]int{22050, 24000, 16000, 0}
	sampleRatesV25 = [4]int{11025, 12000, 8000, 0}
)

// syncMask selects the 11 sync bits of a 32-bit frame header.
const syncMask = 0xFFE00000

// FrameHeader is a decoded MPEG audio frame header.
type FrameHeader struct {
	Version     Version
	Layer       Layer
	Bitrate     int // kbps, never 0 for a decoded header
	SampleRate  int // Hz, never 0 for a decoded header
	ChannelMode ChannelMode
	Padding     bool
	Protected   bool // CRC16 follows the header
}

// IsSync reports whether two bytes start with the 11-bit all-ones frame
// sync pattern.
func IsSync(b0, b1 byte) bool {
	return b0 == 0xFF && b1&0xE0 == 0xE0
}

// ParseHeader decodes a 32-bit big-endian frame header.
//
// Headers carrying reserved field values (version 01, layer 00, bitrate
// index 15, sample rate index 3) or the free bitrate (index 0) are
// rejected.
func ParseHeader(raw uint32) (FrameHeader, error) {
	var h FrameHeader

	if raw&syncMask != syncMask {
		return h, errNoSync
	}

	switch raw >> 19 & 0x3 {
	case 0:
		h.Version = MPEG25
	case 1:
		return h, errReservedVersion
	case 2:
		h.Version = MPEG2
	case 3:
		h.Version = MPEG1
	}

	switch raw >> 17 & 0x3 {
	case 0:
		return h, errReservedLayer
	case 1:
		h.Layer = LayerIII
	case 2:
		h.Layer = LayerII
	case 3:
		h.Layer = LayerI
	}

	// Protection bit is inverted: 0 means a CRC16 follows the header.
	h.Protected = raw>>16&0x1 == 0

	bitrateIdx := int(raw >> 12 & 0xF)
	switch bitrateIdx {
	case 0:
		return h, errFreeBitrate
	case 15:
		return h, errBadBitrate
	}
	h.Bitrate = bitrateFor(h.Version, h.Layer, bitrateIdx)

	srIdx := int(raw >> 10 & 0x3)
	if srIdx == 3 {
		return h, errReservedSampleRate
	}
	h.SampleRate = sampleRateFor(h.Version, srIdx)

	h.Padding = raw>>9&0x1 == 1
	h.ChannelMode = ChannelMode(raw >> 6 & 0x3)

	return h, nil
}

// bitrateFor looks up the bitrate in kbps. MPEG2.5 shares the MPEG2
// tables; Layers II and III share one table for MPEG2/2.5.
func bitrateFor(v Version, l Layer, idx int) int {
	if v == MPEG1 {
		switch l {
		case LayerI:
			return bitratesV1L1[idx]
		case LayerII:
			return bitratesV1L2[idx]
		default:
			return bitratesV1L3[idx]
		}
	}
	if l == LayerI {
		return bitratesV2L1[idx]
	}
	return bitratesV2L2[idx]
}

// sampleRateFor looks up the sample rate in Hz.
func sampleRateFor(v Version, idx int) int {
	switch v {
	case MPEG1:
		return sampleRatesV1[idx]
	case MPEG2:
		return sampleRatesV2[idx]
	default:
		return sampleRatesV25[idx]
	}
}

// FrameLength returns the frame size in bytes, sync word included.
//
// Layer I counts in 4-byte slots; Layers II and III count in bytes with
// a coefficient of 144, halved to 72 for Layer III under MPEG2/2.5
// where frames carry half the samples.
func (h FrameHeader) FrameLength() int64 {
	bps := int64(h.Bitrate) * 1000
	sr := int64(h.SampleRate)
	var pad int64
	if h.Padding {
		pad = 1
	}

	if h.Layer == LayerI {
		return (12*bps/sr + pad) * 4
	}

	coeff := int64(144)
	if h.Layer == LayerIII && h.Version != MPEG1 {
		coeff = 72
	}
	return coeff*bps/sr + pad
}

// SamplesPerFrame returns the PCM sample count one frame decodes to.
func (h FrameHeader) SamplesPerFrame() int {
	switch h.Layer {
	case LayerI:
		return 384
	case LayerII:
		return 1152
	default:
		if h.Version == MPEG1 {
			return 1152
		}
		return 576
	}
}

// SideInfoSize returns the Layer III side information size in bytes.
// It is fixed by version and channel mode and locates the Xing tag.
func (h FrameHeader) SideInfoSize() int {
	if h.Version == MPEG1 {
		if h.ChannelMode == Mono {
			return 17
		}
		return 32
	}
	if h.ChannelMode == Mono {
		return 9
	}
	return 17
}

// Channels returns the channel count reported at the boundary.
func (h FrameHeader) Channels() int {
	if h.ChannelMode == Mono {
		return 1
	}
	return 2
}
