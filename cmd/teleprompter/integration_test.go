package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/teleprompter/internal/storage"
	"github.com/csheth/teleprompter/internal/tuitest"
)

func TestTeleprompterScrollsLoadedScript(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	dir := t.TempDir()
	script := filepath.Join(dir, "keynote.txt")
	require.NoError(t, os.WriteFile(script, []byte("Good evening everyone.\nThank you for coming.\n"), 0o644))
	statePath := filepath.Join(dir, "state.json")

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--no-alt-screen", "--state", statePath, "--speed", "90", script},
		Dir:     dir,
		Env:     []string{"XDG_CONFIG_HOME=" + dir},
		Width:   80,
		Height:  20,
		Steps: []tuitest.Step{
			{WaitFor: "PAUSED"},
			{Input: tuitest.KeySpace},
			{WaitFor: "SCROLLING"},
			{Delay: 100 * time.Millisecond, Input: tuitest.Type("q")},
		},
		Timeout: 15 * time.Second,
	})
	require.NoError(t, err)

	_, ok := rec.LastFrameContaining("Good evening everyone.")
	assert.True(t, ok, "script text should be rendered")
	assert.Contains(t, rec.Plain(), "Speed 90")

	state := readState(t, statePath)
	assert.Equal(t, "90", state[storage.KeySpeed])
	assert.Equal(t, "Good evening everyone.\nThank you for coming.\n", state[storage.KeyText])
}

func TestTeleprompterLoadsDroppedFile(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	dir := t.TempDir()
	script := filepath.Join(dir, "dropped script.txt")
	require.NoError(t, os.WriteFile(script, []byte("Dropped onto the terminal"), 0o644))
	statePath := filepath.Join(dir, "state.json")

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--no-alt-screen", "--no-mouse", "--state", statePath},
		Dir:     dir,
		Env:     []string{"XDG_CONFIG_HOME=" + dir},
		Width:   80,
		Height:  20,
		Steps: []tuitest.Step{
			{WaitFor: "Drag and drop a text file here."},
			{Input: tuitest.Paste("'" + script + "'")},
			{WaitFor: "Dropped onto the terminal"},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	require.NoError(t, err)

	frame, ok := rec.LastFrameContaining("Dropped onto the terminal")
	require.True(t, ok)
	assert.Contains(t, frame.Plain, "dropped script.txt")
	assert.Equal(t, "Dropped onto the terminal", readState(t, statePath)[storage.KeyText])
}

func TestResetCommandClearsState(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	store := storage.NewFile(statePath, nil)
	require.NoError(t, store.Set(storage.KeySpeed, "80"))
	require.NoError(t, store.Set(storage.KeyText, "Old script"))
	t.Setenv("XDG_CONFIG_HOME", dir)

	root := newRootCmd()
	out := &stringWriter{}
	root.SetOut(out)
	root.SetArgs([]string{"reset", "--state", statePath})
	require.NoError(t, root.Execute())

	assert.Equal(t, "App settings cleared.\n", out.String())
	assert.Empty(t, readState(t, statePath))
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teleprompter.log")

	logger, closeLog, err := newLogger(path, true)
	require.NoError(t, err)
	logger.Debug("tick schedule rebuilt", "speed", 73)
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick schedule rebuilt")
	assert.Contains(t, string(data), "speed=73")
}

func TestNewLoggerDiscardsWithoutFile(t *testing.T) {
	logger, closeLog, err := newLogger("", false)
	require.NoError(t, err)
	defer closeLog()
	assert.False(t, logger.Enabled(context.Background(), 0))
}

type stringWriter struct {
	data []byte
}

func (w *stringWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *stringWriter) String() string {
	return string(w.data)
}

func readState(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	state := map[string]string{}
	require.NoError(t, json.Unmarshal(data, &state))
	return state
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "teleprompter-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
