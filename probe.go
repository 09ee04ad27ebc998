package mp3probe

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Analyze runs a one-shot analysis of src.
//
// It is shorthand for NewSession, Run, Close. Hosts that re-analyze the
// same source repeatedly should hold a Session instead so the scan
// window is allocated once.
//
// Example:
//
//	info, err := mp3probe.Analyze(src)
//	if err != nil {
//		return err
//	}
//	fmt.Println(info.Duration)
func Analyze(src Source, opts ...Option) (StreamInfo, error) {
	sess, err := NewSession(src, opts...)
	if err != nil {
		return StreamInfo{}, err
	}
	defer sess.Close()
	return sess.Run()
}

// fileSource adapts an open file to the Source interface.
type fileSource struct {
	f    *os.File
	size int64
}

func (fs *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return fs.f.ReadAt(p, off)
}

func (fs *fileSource) Size() int64 { return fs.size }

// Probe opens the file at path and analyzes it.
//
// The stream name defaults to the path; pass WithName to override it.
//
// Example:
//
//	info, err := mp3probe.Probe("song.mp3")
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s (%v)\n", info, info.Duration)
func Probe(path string, opts ...Option) (StreamInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return StreamInfo{}, fmt.Errorf("stat file: %w", err)
	}

	src := &fileSource{f: f, size: stat.Size()}
	opts = append([]Option{WithName(path)}, opts...)
	return Analyze(src, opts...)
}

// ProbeContext probes a file with context support for cancellation.
//
// It checks the context before starting; the analysis itself is a
// short synchronous pass over the file.
func ProbeContext(ctx context.Context, path string, opts ...Option) (StreamInfo, error) {
	if err := ctx.Err(); err != nil {
		return StreamInfo{}, err
	}
	return Probe(path, opts...)
}

// ProbeMany analyzes multiple files concurrently.
//
// Files are analyzed in parallel using up to runtime.NumCPU()
// goroutines. Results are returned in the same order as the input
// paths. The first failure cancels the remaining work and is returned,
// wrapped with its path.
//
// Example:
//
//	infos, err := mp3probe.ProbeMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for i, info := range infos {
//		fmt.Printf("%s: %v\n", paths[i], info.Duration)
//	}
func ProbeMany(ctx context.Context, paths ...string) ([]StreamInfo, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]StreamInfo, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			info, err := Probe(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
