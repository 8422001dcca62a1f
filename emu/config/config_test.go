package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper(), "pong.ch8")
	require.NoError(t, err)

	assert.Equal(t, "pong.ch8", cfg.ROMPath)
	assert.Equal(t, DefaultScale, cfg.Scale)
	assert.Equal(t, DefaultRefresh, cfg.Refresh)
	assert.False(t, cfg.WrapYByWidth)
	assert.Empty(t, cfg.Keys)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".chyp8.yaml")
	data := []byte("scale: 10\nrefresh: 120\nwrap-y-by-width: true\nkeys:\n  j: \"4\"\n  k: \"6\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v, "pong.ch8")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Scale)
	assert.Equal(t, 120, cfg.Refresh)
	assert.True(t, cfg.WrapYByWidth)
	assert.Equal(t, map[string]string{"j": "4", "k": "6"}, cfg.Keys)
}

func TestLoadOverride(t *testing.T) {
	v := newViper()
	v.Set(KeyScale, 4)

	cfg, err := Load(v, "pong.ch8")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Scale)
}

func TestValidate(t *testing.T) {
	valid := Config{ROMPath: "a.ch8", Scale: DefaultScale, Refresh: DefaultRefresh}

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"no rom", func(c *Config) { c.ROMPath = "" }, ErrNoROM},
		{"zero scale", func(c *Config) { c.Scale = 0 }, ErrInvalidValue},
		{"huge scale", func(c *Config) { c.Scale = maxScale + 1 }, ErrInvalidValue},
		{"zero refresh", func(c *Config) { c.Refresh = 0 }, ErrInvalidValue},
		{"huge refresh", func(c *Config) { c.Refresh = maxRefresh + 1 }, ErrInvalidValue},
		{"debug and quiet", func(c *Config) { c.Debug, c.Quiet = true, true }, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCreateLogger(t *testing.T) {
	assert.Equal(t, log.DebugLevel, CreateLogger(true, false).Level())
	assert.Equal(t, log.InfoLevel, CreateLogger(false, false).Level())
	assert.Equal(t, log.ErrorLevel, CreateLogger(false, true).Level())
	assert.False(t, CreateLogger(false, true).Enabled(log.InfoLevel))
}
