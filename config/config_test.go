package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dragbox/pointer"
	"github.com/lixenwraith/dragbox/shape"
)

// isolate keeps the user's real config directory out of the search path
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("dragbox", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, pointer.Anchored, cfg.Policy())
}

func TestLoad_NilFlagSet(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Flags(t *testing.T) {
	isolate(t)

	cfg, err := Load(flags(t, "--width=30", "--x=2", "--backend=TCELL", "--drag-policy=baseline", "--log-file=/tmp/d.log"))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
	assert.Equal(t, 2, cfg.X)
	assert.Equal(t, BackendTcell, cfg.Backend)
	assert.Equal(t, pointer.Baseline, cfg.Policy())
	assert.Equal(t, "/tmp/d.log", cfg.Logging().Path)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("DRAGBOX_HEIGHT", "4")
	t.Setenv("DRAGBOX_DRAG_POLICY", "baseline")

	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Height)
	assert.Equal(t, "baseline", cfg.DragPolicy)
}

func TestLoad_FlagBeatsEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DRAGBOX_WIDTH", "4")

	cfg, err := Load(flags(t, "--width=8"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = 7\nlog_level = \"debug\"\nbackend = \"tcell\"\n"), 0644))
	t.Setenv("DRAGBOX_BACKEND", "ansi")

	cfg, err := Load(flags(t, "--config="+path))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Width)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendANSI, cfg.Backend, "environment overrides the file")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(flags(t, "--config="+filepath.Join(t.TempDir(), "absent.toml")))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][]string{
		"backend":   {"--backend=curses"},
		"policy":    {"--drag-policy=sticky"},
		"log level": {"--log-level=chatty"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			_, err := Load(flags(t, args...))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidate_Geometry(t *testing.T) {
	cfg := Default()
	cfg.Width = -3
	cfg.X = 1 << 20
	assert.NoError(t, cfg.Validate(), "coordinates and negative sizes are clamped, not rejected")

	cfg = Default()
	cfg.Width, cfg.Height = shape.MaxCoord, shape.MaxCoord
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestLoad_OversizedShape(t *testing.T) {
	isolate(t)

	_, err := Load(flags(t, "--width=65535", "--height=65535"))
	assert.ErrorIs(t, err, ErrInvalid)
}
