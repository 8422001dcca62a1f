package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanboi7/chyp8/emu/config"
	"github.com/beanboi7/chyp8/emu/cpu"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		cfgFile = ""
		startCmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestStartNeedsROM(t *testing.T) {
	err := run(t, "start")
	assert.Error(t, err)
}

func TestStartMissingROM(t *testing.T) {
	err := run(t, "start", filepath.Join(t.TempDir(), "missing.ch8"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStartROMTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.ch8")
	require.NoError(t, os.WriteFile(path, make([]byte, cpu.MemorySize), 0o644))

	err := run(t, "start", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, cpu.ErrROMTooLarge)
}

func TestStartInvalidScale(t *testing.T) {
	err := run(t, "start", "pong.ch8", "--scale", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestConfigFileFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chyp8.yaml")
	require.NoError(t, os.WriteFile(path, []byte("refresh: 0\n"), 0o644))

	err := run(t, "--config", path, "start", "pong.ch8")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}
