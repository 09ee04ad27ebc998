package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/mp3probe"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Probe every MP3 under a directory and summarize",
	Long: `Walk a directory tree, probe each .mp3 file and print a report
with duration, sample rate, channels, bitrate and status per file.

The exit code is non-zero when any file fails to probe.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Int("workers", runtime.NumCPU(), "concurrent probes")
	mustBindPFlag("workers", scanCmd.Flags().Lookup("workers"))
	viper.SetDefault("workers", runtime.NumCPU())
}

// scanResult is one row of the report.
type scanResult struct {
	path string
	info mp3probe.StreamInfo
	err  error
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	paths, err := collectMP3s(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no MP3 files under %s", dir)
	}
	log.Printf("[INFO] scanning %d files under %s", len(paths), dir)

	results := probeAll(cmd.Context(), paths, viper.GetInt("workers"))
	failed := renderScanReport(cmd.OutOrStdout(), results)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// collectMP3s walks dir and returns every .mp3 path in lexical order.
func collectMP3s(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return paths, nil
}

// probeAll probes paths concurrently, keeping input order. A bad file
// lands in its result row instead of aborting the batch.
func probeAll(ctx context.Context, paths []string, workers int) []scanResult {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]scanResult, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			info, err := mp3probe.ProbeContext(ctx, path, probeOptions()...)
			if err != nil {
				log.Printf("[WARN] %s: %v", path, err)
			}
			results[i] = scanResult{path: path, info: info, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// renderScanReport writes the table and summary line, returning the
// failure count.
func renderScanReport(w io.Writer, results []scanResult) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tDURATION\tRATE\tCH\tBITRATE\tSTATUS")

	passed, failed := 0, 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%s\n", r.path, mp3probe.CodeOf(r.err))
			continue
		}
		passed++
		fmt.Fprintf(tw, "%s\t%v\t%d Hz\t%d\t%d kbps\tOK\n",
			r.path, r.info.Duration, r.info.SampleRate, r.info.Channels,
			r.info.Bitrate/1000)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d passed, %d failed\n", passed, failed)
	return failed
}
