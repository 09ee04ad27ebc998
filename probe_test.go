package mp3probe_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonhull/mp3probe"
)

func writeMP3(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestProbe(t *testing.T) {
	path := writeMP3(t, t.TempDir(), "song.mp3", cbrStream(100))

	info, err := mp3probe.Probe(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := info.Milliseconds(); got != 2606 {
		t.Errorf("expected 2606 ms, got %d", got)
	}
}

func TestProbe_MissingFile(t *testing.T) {
	_, err := mp3probe.Probe(filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if mp3probe.CodeOf(err) != mp3probe.CodeIO {
		t.Errorf("expected CodeIO, got %s", mp3probe.CodeOf(err))
	}
}

func TestProbe_NameInErrors(t *testing.T) {
	path := writeMP3(t, t.TempDir(), "broken.mp3", make([]byte, 1024))

	_, err := mp3probe.Probe(path)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "broken.mp3") {
		t.Errorf("expected the path in the error, got: %v", err)
	}
}

func TestProbeContext_Canceled(t *testing.T) {
	path := writeMP3(t, t.TempDir(), "song.mp3", cbrStream(10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mp3probe.ProbeContext(ctx, path); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProbeMany(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeMP3(t, dir, "a.mp3", cbrStream(100)),
		writeMP3(t, dir, "b.mp3", cbrStream(200)),
		writeMP3(t, dir, "c.mp3", cbrStream(50)),
	}

	infos, err := mp3probe.ProbeMany(context.Background(), paths...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 results, got %d", len(infos))
	}

	wantMS := []int64{2606, 5212, 1303}
	for i, want := range wantMS {
		if got := infos[i].Milliseconds(); got != want {
			t.Errorf("result %d: expected %d ms, got %d", i, want, got)
		}
	}
}

func TestProbeMany_FailureCarriesPath(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeMP3(t, dir, "good.mp3", cbrStream(10)),
		writeMP3(t, dir, "bad.mp3", make([]byte, 512)),
	}

	_, err := mp3probe.ProbeMany(context.Background(), paths...)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "bad.mp3") {
		t.Errorf("expected the failing path in the error, got: %v", err)
	}
	if !errors.Is(err, mp3probe.ErrNoAudioFrames) {
		t.Errorf("expected ErrNoAudioFrames in the chain, got: %v", err)
	}
}

func TestProbeMany_Empty(t *testing.T) {
	infos, err := mp3probe.ProbeMany(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if infos != nil {
		t.Errorf("expected nil results, got %v", infos)
	}
}
