package main

import (
	"bytes"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/lifecube/pkg/field"
	"github.com/taigrr/lifecube/pkg/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestExportAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "life.glb")
	_, err := execute(t, "export", path, "--grid", "4", "--threshold", "10", "--log-level", "error")
	require.NoError(t, err)

	pc, err := models.LoadGLB(path)
	require.NoError(t, err)
	assert.Equal(t, 64, pc.Len())
	assert.Equal(t, "life", pc.Name)

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "points: 64")
	assert.Contains(t, out, "colors: 64")
}

func TestDobAndThresholdExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.glb")
	_, err := execute(t, "export", path, "--dob", "1992-04-18", "--threshold", "10")
	assert.Error(t, err)
}

func TestInvalidBackground(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.glb")
	_, err := execute(t, "export", path, "--bg", "1,2", "--log-level", "error")
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lifecube.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[field]\ngrid_size = 3\n[host]\ndob = \"\"\n"), 0o644))

	out := filepath.Join(dir, "cube.glb")
	_, err := execute(t, "export", out, "--config", cfgPath, "--log-level", "error")
	require.NoError(t, err)
	pc, err := models.LoadGLB(out)
	require.NoError(t, err)
	assert.Equal(t, 27, pc.Len())

	_, err = execute(t, "export", out, "--config", cfgPath, "--grid", "2", "--log-level", "error")
	require.NoError(t, err)
	pc, err = models.LoadGLB(out)
	require.NoError(t, err)
	assert.Equal(t, 8, pc.Len(), "flag overrides file")
}

func TestSnapshot(t *testing.T) {
	cfg := field.DefaultConfig()
	cfg.GridSize = 4
	cfg.Threshold = 20
	cfg.Total = 64
	cfg.Palette.Background = color.RGBA{10, 20, 30, 255}

	canvas, err := snapshot(cfg, snapshotOptions{width: 200, height: 120, frames: 80, density: 1}, time.Unix(0, 0))
	require.NoError(t, err)

	fb := canvas.Framebuffer()
	assert.Equal(t, 200, fb.Width)
	assert.Equal(t, 120, fb.Height)

	lit := 0
	for _, p := range fb.Pixels {
		if p != cfg.Palette.Background {
			lit++
		}
	}
	assert.Positive(t, lit, "points drawn")

	var texts []string
	for _, l := range canvas.Labels() {
		texts = append(texts, l.Text)
	}
	assert.Contains(t, texts, "CURRENT WEEK")
	assert.Contains(t, texts, "W: 20 / 64")
}

func TestSnapshotRejectsBadSize(t *testing.T) {
	_, err := snapshot(field.DefaultConfig(), snapshotOptions{width: 0, height: 10, frames: 1}, time.Now())
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
	_, err = snapshot(field.DefaultConfig(), snapshotOptions{width: 10, height: 10, frames: 0}, time.Now())
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestSnapshotCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	_, err := execute(t, "snapshot", path, "--grid", "3", "--threshold", "5",
		"--width", "120", "--height", "80", "--frames", "10", "--log-level", "error")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSummary(t *testing.T) {
	pc := pointCloud(field.Config{GridSize: 2, Spacing: 1, Threshold: 1, Palette: field.DefaultPalette()}, "s")
	s := summary(pc)
	assert.True(t, strings.HasPrefix(s, "name:   s\n"))
	assert.Contains(t, s, "bounds: (-0.500, -0.500, -0.500) - (0.500, 0.500, 0.500)")
}
