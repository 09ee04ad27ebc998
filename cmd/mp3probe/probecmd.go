package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/mp3probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Probe a single MP3 file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

var probeJSON bool

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "emit the report as JSON")
}

// probeReport is the JSON shape of one probed file.
type probeReport struct {
	File          string `json:"file"`
	DurationMS    int64  `json:"duration_ms"`
	SampleRate    int    `json:"sample_rate"`
	Channels      int    `json:"channels"`
	BitsPerSample int    `json:"bits_per_sample"`
	Bitrate       int    `json:"bitrate"`
	VBR           bool   `json:"vbr"`
	DataSize      int64  `json:"data_size"`
}

func buildReport(path string, info mp3probe.StreamInfo) probeReport {
	return probeReport{
		File:          path,
		DurationMS:    info.Milliseconds(),
		SampleRate:    info.SampleRate,
		Channels:      info.Channels,
		BitsPerSample: info.BitsPerSample,
		Bitrate:       info.Bitrate,
		VBR:           info.VBR,
		DataSize:      info.DataSize,
	}
}

func runProbe(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := mp3probe.ProbeContext(cmd.Context(), path, probeOptions()...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if probeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(buildReport(path, info))
	}

	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  %s\n", info)
	fmt.Fprintf(out, "  duration:  %v (%d ms)\n", info.Duration, info.Milliseconds())
	fmt.Fprintf(out, "  data size: %d bytes\n", info.DataSize)
	return nil
}
