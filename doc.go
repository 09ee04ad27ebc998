// Package mp3probe detects the duration and technical properties of
// MPEG audio streams without decoding them.
//
// mp3probe answers one question fast: how long is this MP3, and what
// does it look like on the inside? It reads frame headers, not audio,
// so a multi-hour file is analyzed in a handful of small reads.
//
// # Quick Start
//
// Probing a file on disk:
//
//	info, err := mp3probe.Probe("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s, %v\n", info, info.Duration)
//
// # What It Handles
//
//   - MPEG1, MPEG2 and MPEG2.5, Layers I, II and III
//   - CBR streams, with duration estimated from the payload size
//   - VBR streams carrying Xing, Info or VBRI tags
//   - Leading ID3v2 tags (with footers) and trailing ID3v1 tags
//   - Garbage before the first frame, resolved by resynchronization
//
// # Custom Sources
//
// The analysis reads through the Source interface, so the bytes can
// live anywhere: a file, a memory buffer, an object store. Implement
// two methods and hand the source to a session:
//
//	sess, err := mp3probe.NewSession(src)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sess.Close()
//
//	info, err := sess.Run()
//
// A Source with an unknown size (Size() == 0) still works for VBR
// streams whose tags declare their own byte and frame counts.
//
// # Error Handling
//
// Failures are typed: IOError for host read failures, FormatError for
// streams that are not MP3, ResourceError for allocator failures,
// ContractError for API misuse. A stream with no audio is a
// FormatError wrapping ErrNoAudioFrames:
//
//	if errors.Is(err, mp3probe.ErrNoAudioFrames) {
//		fmt.Println("not an MP3")
//	}
//
// CodeOf collapses any of them into a small closed code set for hosts
// that report results over a narrow ABI.
//
// # Concurrency
//
// Sessions are single-goroutine, but independent sessions are fully
// parallel. ProbeMany fans a batch of files across runtime.NumCPU()
// workers:
//
//	infos, err := mp3probe.ProbeMany(ctx, paths...)
//
// # Performance
//
// mp3probe is designed for speed:
//
//   - Header-only: audio payloads are never read
//   - Windowed scanning: the sync search reads in 8 KB chunks
//   - Constant memory: one scan window per session, freed on Close
//   - Tag shortcut: a VBR tag resolves duration from the first frame
package mp3probe
