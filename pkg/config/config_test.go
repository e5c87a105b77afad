package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/xmerge/pkg/diff"
	"github.com/odvcencio/xmerge/pkg/diff3"
)

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(`
[merge]
algorithm = "histogram"
style = "zdiff3"
favor = "union"
level = "zealous"
marker_size = 9

[diff]
context = 5
`))
	require.NoError(t, err)

	opts, err := cfg.MergeOptions()
	require.NoError(t, err)
	assert.Equal(t, diff.Histogram, opts.Algorithm)
	assert.Equal(t, diff3.StyleZealousDiff3, opts.Style)
	assert.Equal(t, diff3.FavorUnion, opts.Favor)
	assert.Equal(t, diff3.LevelZealous, opts.Level)
	assert.Equal(t, 9, opts.MarkerSize)

	alg, err := cfg.DiffAlgorithm()
	require.NoError(t, err)
	assert.Equal(t, diff.Histogram, alg)
	assert.Equal(t, 5, cfg.Diff.Context)
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	opts, err := cfg.MergeOptions()
	require.NoError(t, err)
	assert.Equal(t, diff3.DefaultOptions(), opts)

	alg, err := cfg.DiffAlgorithm()
	require.NoError(t, err)
	assert.Equal(t, diff.Myers, alg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"unknown key", "[merge]\nalgoritm = \"myers\"\n", "merge.algoritm"},
		{"unknown section", "[rebase]\nx = 1\n", "rebase"},
		{"bad algorithm", "[merge]\nalgorithm = \"quantum\"\n", "quantum"},
		{"bad style", "[merge]\nstyle = \"fancy\"\n", "fancy"},
		{"negative marker", "[merge]\nmarker_size = -2\n", "marker size"},
		{"negative context", "[diff]\ncontext = -1\n", "context"},
		{"syntax", "[merge\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLocate(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	path, required := Locate("", getenv)
	assert.Equal(t, LocalFile, path)
	assert.False(t, required)

	env[EnvVar] = "/etc/xmerge.toml"
	path, required = Locate("", getenv)
	assert.Equal(t, "/etc/xmerge.toml", path)
	assert.True(t, required)

	path, required = Locate("mine.toml", getenv)
	assert.Equal(t, "mine.toml", path)
	assert.True(t, required)
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Chdir(t.TempDir())

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(LocalFile, []byte("[diff]\ncontext = 1\n"), 0o644))
	cfg, path, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, LocalFile, path)
	assert.Equal(t, 1, cfg.Diff.Context)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
