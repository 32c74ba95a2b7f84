package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeySource, DefaultSource, "")
	fs.String(KeyFormat, DefaultFormat, "")
	fs.String(KeyDB, DefaultDB, "")
	fs.Bool(KeyVerbose, false, "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avrconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSource, cfg.Source)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultDB, cfg.DB)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, "source: /etc/avrdude.conf\nformat: json\nverbose: true\n")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/avrdude.conf", cfg.Source)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "avrconf.yaml"), []byte("db: snap.db\n"), 0o644))
	t.Chdir(dir)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "snap.db", cfg.DB)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	path := writeConfig(t, "source: from-env-file.conf\n")
	t.Setenv("AVRCONF_CONFIG", path)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env-file.conf", cfg.Source)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "source: file.conf\nformat: json\ndb: file.db\n")
	t.Setenv("AVRCONF_SOURCE", "env.conf")
	t.Setenv("AVRCONF_DB", "env.db")

	fs := newFlags()
	require.NoError(t, fs.Set(KeySource, "flag.conf"))

	l := NewLoader()
	require.NoError(t, l.BindFlags(fs))
	cfg, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "flag.conf", cfg.Source, "explicit flag beats env")
	assert.Equal(t, "env.db", cfg.DB, "env beats file")
	assert.Equal(t, "json", cfg.Format, "file beats flag default")
}

func TestBindFlags_IgnoresMissingFlags(t *testing.T) {
	fs := pflag.NewFlagSet("partial", pflag.ContinueOnError)
	fs.String(KeyFormat, DefaultFormat, "")
	assert.NoError(t, NewLoader().BindFlags(fs))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid text", Config{Source: "a.conf", Format: "text"}, ""},
		{"valid json", Config{Source: "a.conf", Format: "json"}, ""},
		{"bad format", Config{Source: "a.conf", Format: "xml"}, "invalid format"},
		{"empty source", Config{Source: "  ", Format: "text"}, "source must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
