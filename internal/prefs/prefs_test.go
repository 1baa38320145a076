package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrefs(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, p.Theme)

	writePrefs(t, filepath.Join(home, ".config", "gcpsettings", "prefs.toml"), "theme = \"Slate\"\n")

	p, err = Load("  ")
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)
}

func TestLoad_FileContents(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Prefs
	}{
		{
			name:    "trimmed selections",
			content: "theme = \"Slate\"\nlast_account = \" ada@example.com \"\nlast_printer = \" p1 \"\n",
			want:    Prefs{Theme: "Slate", LastAccount: "ada@example.com", LastPrinter: "p1"},
		},
		{
			name:    "blank theme",
			content: "theme = \"  \"\n",
			want:    Prefs{Theme: DefaultTheme},
		},
		{
			name:    "malformed",
			content: "not valid toml {{{\n",
			want:    Prefs{Theme: DefaultTheme},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "custom.toml")
			writePrefs(t, path, tt.content)

			p, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestSave_CreatesOwnerOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")
	require.NoError(t, Save(path, Prefs{Theme: "Slate"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)
}

func TestUpdate_PreservesOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, Save(path, Prefs{Theme: "Kanagawa", LastAccount: "ada@example.com"}))
	require.NoError(t, Update(path, func(p *Prefs) { p.LastPrinter = "printer-1" }))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Prefs{Theme: "Kanagawa", LastAccount: "ada@example.com", LastPrinter: "printer-1"}, p)
}

func TestUpdate_MissingFileStartsFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new", "prefs.toml")
	require.NoError(t, Update(path, func(p *Prefs) { p.LastAccount = " bob@example.com " }))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, p.Theme)
	assert.Equal(t, "bob@example.com", p.LastAccount)
}
