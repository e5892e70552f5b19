package commands

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/junsooki/framepace/internal/source"
)

func TestWriteStream(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	s := source.Stream{Path: "clip.mp4", Duration: 10 * time.Second, FrameCount: 100, Width: 640, Height: 360}
	if err := writeStream(cmd, s); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"clip.mp4", "640x360", "10s", "100", "100ms"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestProbeMissingFile(t *testing.T) {
	err := runProbe(probeCmd, []string{filepath.Join(t.TempDir(), "missing.mp4")})
	if !errors.Is(err, source.ErrStreamOpen) {
		t.Fatalf("err = %v, want ErrStreamOpen", err)
	}
}

func TestRootRequiresPath(t *testing.T) {
	if err := rootCmd.Args(rootCmd, nil); err == nil {
		t.Error("expected an error without a video path")
	}
	if err := rootCmd.Args(rootCmd, []string{"a", "b"}); err == nil {
		t.Error("expected an error with two paths")
	}
}
