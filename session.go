package mp3probe

import (
	"time"

	binutil "github.com/simonhull/mp3probe/internal/binary"
	"github.com/simonhull/mp3probe/internal/id3"
	"github.com/simonhull/mp3probe/internal/mpeg"
	"github.com/simonhull/mp3probe/internal/types"
	"github.com/simonhull/mp3probe/internal/vbr"
)

// scanWindowSize is the scratch buffer the frame scanner reads through.
const scanWindowSize = 8192

type sessionState int

const (
	stateCreated sessionState = iota
	stateScanning
	stateDone
	stateFailed
	stateClosed
)

// Session analyzes one MP3 source.
//
// Create it with NewSession, call Run to get the stream info, and Close
// to release scratch memory back to the allocator. Run may be called
// again; the source is re-read from scratch and an unchanged source
// yields an identical result.
//
// A Session is not safe for concurrent use. For one-off work prefer
// Analyze or Probe.
type Session struct {
	opts   *sessionOptions
	sr     *binutil.SafeReader
	window []byte
	state  sessionState
}

// NewSession creates a session over src.
func NewSession(src Source, opts ...Option) (*Session, error) {
	if src == nil {
		return nil, &types.ContractError{Op: "NewSession", Reason: "nil source", Pointer: true}
	}

	options := defaultSessionOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Session{
		opts: options,
		sr:   binutil.NewSafeReader(src, options.alloc, options.name, options.retries),
	}, nil
}

// Run analyzes the source and returns its stream info.
//
// The pass skips ID3 tags, locates the first pair of consecutive valid
// frames, reads a VBR tag when one is present and estimates duration
// and average bitrate from whichever is available.
func (s *Session) Run() (StreamInfo, error) {
	if s.state == stateClosed {
		return StreamInfo{}, &types.ContractError{Op: "Run", Reason: "session is closed"}
	}

	s.state = stateScanning
	info, err := s.analyze()
	if err != nil {
		s.state = stateFailed
		s.opts.logger.Logf("[WARN] %s: analysis failed: %v", s.opts.name, err)
		return StreamInfo{}, err
	}

	s.state = stateDone
	s.opts.logger.Logf("[DEBUG] %s: %s, %v", s.opts.name, info.String(), info.Duration)
	return info, nil
}

// Close releases the scan window back to the allocator. The session
// cannot be used afterwards.
func (s *Session) Close() error {
	if s.state == stateClosed {
		return &types.ContractError{Op: "Close", Reason: "session already closed"}
	}
	if s.window != nil {
		s.sr.Free(s.window)
		s.window = nil
	}
	s.state = stateClosed
	return nil
}

func (s *Session) analyze() (StreamInfo, error) {
	region, err := id3.FindRegion(s.sr)
	if err != nil {
		return StreamInfo{}, err
	}
	s.opts.logger.Logf("[DEBUG] %s: audio region [%d, %d)", s.opts.name, region.Start, region.End)

	if s.window == nil {
		w, err := s.sr.Alloc(scanWindowSize, "scan window")
		if err != nil {
			return StreamInfo{}, err
		}
		s.window = w
	}

	scanner := mpeg.NewScanner(s.sr, region.Start, region.End, s.window)
	frame, err := scanner.NextFrame(region.Start)
	if err != nil {
		return StreamInfo{}, err
	}
	s.opts.logger.Logf("[DEBUG] %s: first frame at %d: %s %s %d kbps %d Hz",
		s.opts.name, frame.Offset, frame.Header.Version, frame.Header.Layer,
		frame.Header.Bitrate, frame.Header.SampleRate)

	tag, err := vbr.ReadTag(s.sr, frame)
	if err != nil {
		return StreamInfo{}, err
	}
	if tag.Kind != vbr.TagNone {
		s.opts.logger.Logf("[DEBUG] %s: %s tag, frames=%d bytes=%d",
			s.opts.name, tag.Kind, tag.Frames, tag.Bytes)
	}

	return s.estimate(region, frame, tag)
}

// estimate derives duration and average bitrate. All arithmetic is on
// whole milliseconds, matching the precision the result reports.
func (s *Session) estimate(region id3.Region, frame mpeg.Frame, tag vbr.Tag) (StreamInfo, error) {
	hdr := frame.Header
	if hdr.SampleRate == 0 || hdr.Bitrate == 0 {
		return StreamInfo{}, s.formatErr(frame.Offset, "frame header with zero rate")
	}

	// The audio payload runs from the first frame to the region end.
	// With an unknown source size, a tag-declared byte count stands in.
	var dataSize int64
	if region.End >= 0 {
		dataSize = region.End - frame.Offset
	} else if tag.HasBytes {
		dataSize = int64(tag.Bytes)
	}

	info := StreamInfo{
		SampleRate:    hdr.SampleRate,
		Channels:      hdr.Channels(),
		BitsPerSample: 16,
		DataSize:      dataSize,
	}

	if tag.IsVBR() && tag.HasFrames && tag.Frames > 0 {
		durationMS := int64(tag.Frames) * int64(hdr.SamplesPerFrame()) * 1000 / int64(hdr.SampleRate)
		if durationMS <= 0 {
			return StreamInfo{}, s.formatErr(frame.Offset, "VBR tag yields zero duration")
		}
		info.VBR = true
		info.Duration = time.Duration(durationMS) * time.Millisecond
		if dataSize > 0 {
			info.Bitrate = int(dataSize * 8 * 1000 / durationMS)
		}
		info.Valid = true
		return info, nil
	}

	// Constant bitrate estimate from the payload size. A frameless VBR
	// tag degrades to this path and the stream is reported CBR.
	if dataSize <= 0 {
		return StreamInfo{}, s.formatErr(frame.Offset, "constant bitrate stream with unknown size")
	}
	durationMS := dataSize * 8 / int64(hdr.Bitrate)
	if durationMS <= 0 {
		return StreamInfo{}, s.formatErr(frame.Offset, "audio region shorter than one millisecond")
	}
	info.Duration = time.Duration(durationMS) * time.Millisecond
	info.Bitrate = hdr.Bitrate * 1000
	info.Valid = true
	return info, nil
}

func (s *Session) formatErr(off int64, reason string) error {
	return &types.FormatError{Name: s.opts.name, Offset: off, Reason: reason}
}
