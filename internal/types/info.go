package types

import (
	"fmt"
	"time"
)

// StreamInfo is the flat result of probing one MP3 stream.
//
// It mirrors the boundary layout consumed by hosts: plain integers plus
// a validity flag, with no optional fields. Richer internal
// representations (header enums, tag variants) never leak into it.
type StreamInfo struct {
	SampleRate    int           // Hz
	Channels      int           // 1 or 2
	BitsPerSample int           // always 16 for MP3 PCM-equivalent reporting
	Bitrate       int           // bps, averaged for VBR streams
	Duration      time.Duration // millisecond precision
	DataSize      int64         // audio region size in bytes, tags excluded
	VBR           bool
	Valid         bool
}

// Milliseconds returns the duration in whole milliseconds, the unit the
// boundary reports in.
func (i StreamInfo) Milliseconds() int64 {
	return i.Duration.Milliseconds()
}

// String returns a human-readable representation of the stream info.
// Example output: "MP3 44.1kHz 16-bit stereo 128kbps".
func (i StreamInfo) String() string {
	if !i.Valid {
		return "MP3 (invalid)"
	}

	sampleRate := fmt.Sprintf("%.1fkHz", float64(i.SampleRate)/1000)

	bitDepth := ""
	if i.BitsPerSample > 0 {
		bitDepth = fmt.Sprintf("%d-bit", i.BitsPerSample)
	}

	channels := channelDescription(i.Channels)

	quality := ""
	if i.Bitrate > 0 {
		quality = fmt.Sprintf("%dkbps", i.Bitrate/1000)
		if i.VBR {
			quality += " VBR"
		}
	}

	parts := []string{"MP3", sampleRate, bitDepth, channels, quality}
	return join(parts, " ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	var result string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if result != "" {
			result += sep
		}
		result += part
	}
	return result
}
