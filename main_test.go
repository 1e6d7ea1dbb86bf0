package main

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-raycaster/pkg/loaders"
)

const sphereScene = `# Scene: White Sphere
camera_position 0 0 5
camera_look 0 0 0
camera_fov 60
background 0.2 0.2 0.8
sphere 1 0 0 0 1 1 1
light 0 10 0 1 1 1
resolution 48 32
`

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sphere.scene")
	require.NoError(t, os.WriteFile(path, []byte(sphereScene), 0o644))
	return path
}

func TestRun_Help(t *testing.T) {
	code, stdout, _ := runArgs(t, "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "raycast")
	assert.Contains(t, stdout, "--blocksize")
}

func TestRun_OptionErrors(t *testing.T) {
	scenePath := writeScene(t)
	out := filepath.Join(t.TempDir(), "out.bmp")

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing input", []string{"-o", out}, `required flag(s) "input" not set`},
		{"unknown flag", []string{"-i", scenePath, "--samples", "4"}, "unknown flag"},
		{"bad threads", []string{"-i", scenePath, "-o", out, "-t", "many"}, "invalid argument"},
		{"negative threads", []string{"-i", scenePath, "-o", out, "-t", "-2"}, "threads"},
		{"zero blocksize", []string{"-i", scenePath, "-o", out, "-b", "0"}, "blocksize"},
		{"bad mode", []string{"-i", scenePath, "-o", out, "--mode", "fast"}, "unknown mode"},
		{"bad output format", []string{"-i", scenePath, "-o", filepath.Join(t.TempDir(), "out.gif")}, "unsupported image format"},
		{"stray argument", []string{"-i", scenePath, "extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runArgs(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, "Error:")
			assert.Contains(t, stderr, tt.message)
			assert.Contains(t, stderr, "Usage:")
		})
	}

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "nothing is rendered when options are invalid")
}

func TestRun_SceneErrorsSkipUsage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.scene")
	require.NoError(t, os.WriteFile(bad, []byte("camera_fov 60\n"), 0o644))
	huge := filepath.Join(dir, "huge.scene")
	require.NoError(t, os.WriteFile(huge,
		[]byte(strings.Replace(sphereScene, "resolution 48 32", "resolution 4294967296 4294967296", 1)), 0o644))

	for _, input := range []string{bad, huge, filepath.Join(dir, "missing.scene")} {
		code, _, stderr := runArgs(t, "-i", input, "-o", filepath.Join(dir, "out.png"))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Error:")
		assert.NotContains(t, stderr, "Usage:")
	}
}

func TestRun_RendersBuiltInScene(t *testing.T) {
	out := filepath.Join(t.TempDir(), "default.bmp")

	code, _, stderr := runArgs(t, "-i", "default", "-o", out)
	require.Equal(t, 0, code, stderr)

	img, err := loaders.LoadImage(out)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{51, 51, 204, 255}, img.RGBAAt(0, 0))
}

func TestRun_ThreadsDoNotChangeOutput(t *testing.T) {
	scenePath := writeScene(t)
	dir := t.TempDir()
	single := filepath.Join(dir, "single.png")
	parallel := filepath.Join(dir, "parallel.png")

	code, _, stderr := runArgs(t, "-i", scenePath, "-o", single)
	require.Equal(t, 0, code, stderr)
	code, _, stderr = runArgs(t, "-i", scenePath, "-o", parallel, "-t", "4", "-b", "8", "-v")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "render complete")

	a, err := loaders.LoadImage(single)
	require.NoError(t, err)
	b, err := loaders.LoadImage(parallel)
	require.NoError(t, err)
	assert.Equal(t, 48, a.Bounds().Dx())
	assert.Equal(t, 32, a.Bounds().Dy())
	assert.Equal(t, a.Pix, b.Pix)
}

func TestRun_Quiet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	code, _, stderr := runArgs(t, "-i", "default", "-o", out, "-q")
	require.Equal(t, 0, code)
	assert.Empty(t, stderr)
}

func TestRun_Scenes(t *testing.T) {
	dir := filepath.Dir(writeScene(t))

	code, stdout, _ := runArgs(t, "scenes", dir)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "default")
	assert.Contains(t, stdout, "spheregrid")
	assert.Contains(t, stdout, "sphere")

	code, _, _ = runArgs(t, "scenes", "a", "b")
	assert.Equal(t, 1, code)
}

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		vv, v, q bool
		expected slog.Level
	}{
		{false, false, false, slog.LevelWarn},
		{false, true, false, slog.LevelInfo},
		{true, false, false, slog.LevelDebug},
		{false, false, true, slog.LevelError},
		{true, false, true, slog.LevelDebug},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, levelFromFlags(tt.vv, tt.v, tt.q))
	}
}

func TestResolveThreads(t *testing.T) {
	n, err := resolveThreads(3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = resolveThreads(0)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	_, err = resolveThreads(-1)
	assert.Error(t, err)
}

func TestWatchScene(t *testing.T) {
	path := writeScene(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	var renders atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchScene(ctx, path, logger, func() error {
			renders.Add(1)
			return nil
		})
	}()

	// Keep touching the file until the watcher is up and reacts
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(sphereScene), 0o644)
		return renders.Load() > 0
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchScene_MissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := watchScene(context.Background(), filepath.Join(t.TempDir(), "gone.scene"), logger, func() error { return nil })
	assert.Error(t, err)
}
