package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()

	assert.Equal(t, 6, c.Len())
	assert.Equal(t, types.AppSports, c.Default().ID)
	assert.Equal(t, 3, c.Cards(types.AppSports))
	assert.Equal(t, 1, c.Cards(types.AppNIL))
	assert.Equal(t, 1, c.Cards("unheard-of"))

	app, ok := c.Lookup(types.AppBoard)
	require.True(t, ok)
	assert.Equal(t, "Board", app.Title)

	apps := c.Apps()
	assert.Equal(t, types.AppSports, apps[0].ID)
	assert.Equal(t, types.AppBrowser, apps[len(apps)-1].ID)
}

func TestParseTOML(t *testing.T) {
	data := []byte(`
default = "deck"

[[apps]]
id = "deck"
title = "Deck"
cards = 5

[[apps]]
id = "notes"
`)
	c, err := Parse(data, FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, types.AppID("deck"), c.Default().ID)
	assert.Equal(t, 5, c.Cards("deck"))

	notes, ok := c.Lookup("notes")
	require.True(t, ok)
	assert.Equal(t, "NOTES", notes.Title)
	assert.Equal(t, 1, notes.Cards)
}

func TestParseDefaultsToFirstApp(t *testing.T) {
	c, err := Parse([]byte("apps:\n  - id: board\n  - id: nil\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, types.AppBoard, c.Default().ID)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"empty", "apps: []\n", FormatYAML},
		{"duplicate", "apps:\n  - id: a\n  - id: a\n", FormatYAML},
		{"bad id", "apps:\n  - id: \"a b\"\n", FormatYAML},
		{"negative cards", "apps:\n  - id: a\n    cards: -1\n", FormatYAML},
		{"missing default", "default: z\napps:\n  - id: a\n", FormatYAML},
		{"unknown field", "apps:\n  - id: a\n    colour: red\n", FormatYAML},
		{"toml unknown field", "[[apps]]\nid = \"a\"\nsize = 3\n", FormatTOML},
		{"malformed toml", "[[apps]\n", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}

	_, err := Parse([]byte("{}"), "json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps.yml")
	require.NoError(t, os.WriteFile(path, []byte("default: nil\napps:\n  - id: nil\n    cards: 2\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, types.AppNIL, c.Default().ID)
	assert.Equal(t, 2, c.Cards(types.AppNIL))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "apps.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = Load(txt)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadDirectoryMerges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10-core.yaml"),
		[]byte("default: sports\napps:\n  - id: sports\n    cards: 3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20-extra.toml"),
		[]byte("default = \"board\"\n[[apps]]\nid = \"board\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, types.AppBoard, c.Default().ID)
	assert.Equal(t, 3, c.Cards(types.AppSports))
}

func TestLoadOrBuiltin(t *testing.T) {
	c, err := LoadOrBuiltin("")
	require.NoError(t, err)
	assert.Equal(t, types.AppSports, c.Default().ID)
}
