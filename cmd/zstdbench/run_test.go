package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/zstdbench"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run",
		"--profile", "interleaved",
		"--size", "64KiB",
		"--levels", "1,3,999",
		"--format", "json",
		"--log-level", "error",
	)
	require.NoError(t, err)

	var rep struct {
		Compressor string `json:"compressor"`
		Profile    string `json:"profile"`
		Size       int    `json:"size"`
		Records    []struct {
			Level int    `json:"level"`
			Error string `json:"error"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, zstdbench.DefaultCompressor, rep.Compressor)
	assert.Equal(t, "interleaved", rep.Profile)
	assert.Equal(t, 64<<10, rep.Size)
	require.Len(t, rep.Records, 3)
	assert.Empty(t, rep.Records[0].Error)
	assert.Empty(t, rep.Records[1].Error)
	assert.Equal(t, "Parameter is out of bound", rep.Records[2].Error)
}

func TestRunExternalMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "File.wav")
	out, err := execute(t, "run", "--preset", "wav", "--input", missing, "--log-level", "error")
	var ioe *zstdbench.IOError
	require.ErrorAs(t, err, &ioe)
	assert.Equal(t, missing, ioe.Path)
	assert.Empty(t, out)
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
preset: gradient
size: 256KiB
levels: [1]
compressor: flate
gradient:
  unit: 16384
  copyLen: 2048
`), 0o600))

	out, err := execute(t, "run", "-c", path, "--levels", "1,2", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Lvl 1  |")
	assert.Contains(t, out, "Lvl 2  |")
}

func TestRunInvalidFlags(t *testing.T) {
	f := func(args ...string) {
		t.Helper()
		_, err := execute(t, append([]string{"run", "--log-level", "error"}, args...)...)
		assert.Error(t, err, args)
	}
	f("--preset", "nope")
	f("--profile", "zip")
	f("--size", "huge")
	f("--levels", "9-1")
	f("--format", "xml")
	f("--compressor", "lzma", "--size", "1KiB")
	f("--config", "missing.yaml")

	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: 1KiB\n"), 0o600))
	f("--config", path, "--preset", "wav")
}

func TestListCommands(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range zstdbench.Presets() {
		assert.Contains(t, out, name)
	}

	out, err = execute(t, "compressors")
	require.NoError(t, err)
	for _, name := range zstdbench.Compressors() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Min level")

	out, err = execute(t, "levels")
	require.NoError(t, err)
	assert.Contains(t, out, "btultra2")
	assert.Contains(t, out, "Target len")
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := newLogger(os.Stderr, "loud")
	assert.Error(t, err)
}
