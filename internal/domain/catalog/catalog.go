package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/utils"
)

//go:embed catalog.yaml
var builtin []byte

var (
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// Format is a catalog file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// document is the on-disk shape shared by both encodings
type document struct {
	Default types.AppID           `yaml:"default" toml:"default"`
	Apps    []types.AppDefinition `yaml:"apps" toml:"apps"`
}

// Catalog is an immutable set of application definitions
type Catalog struct {
	apps     map[types.AppID]types.AppDefinition
	order    []types.AppID
	fallback types.AppID
}

// Builtin returns the embedded catalog
func Builtin() *Catalog {
	c, err := Parse(builtin, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Parse decodes and validates a catalog document
func Parse(data []byte, format Format) (*Catalog, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	return build(doc)
}

// Load reads a catalog from path. A directory is read as a set of
// documents whose applications are merged in file-name order; the last
// non-empty default wins.
func Load(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog: %w", err)
	}
	if !info.IsDir() {
		doc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		return build(doc)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := FormatFromPath(entry.Name()); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var merged document
	for _, name := range names {
		doc, err := readFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		merged.Apps = append(merged.Apps, doc.Apps...)
		if doc.Default != "" {
			merged.Default = doc.Default
		}
	}
	return build(merged)
}

// LoadOrBuiltin loads path when set, otherwise returns the embedded catalog
func LoadOrBuiltin(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	return Load(path)
}

func readFile(path string) (document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return document{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	doc, err := decode(data, format)
	if err != nil {
		return document{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

func decode(data []byte, format Format) (document, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
			return document{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return document{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
	default:
		return document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return doc, nil
}

func build(doc document) (*Catalog, error) {
	if len(doc.Apps) == 0 {
		return nil, fmt.Errorf("%w: no applications", ErrInvalidCatalog)
	}

	c := &Catalog{apps: make(map[types.AppID]types.AppDefinition, len(doc.Apps))}
	for i, app := range doc.Apps {
		if err := utils.ValidateID(string(app.ID), fmt.Sprintf("apps[%d].id", i), true); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		if _, dup := c.apps[app.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate application %q", ErrInvalidCatalog, app.ID)
		}
		if app.Cards < 0 {
			return nil, fmt.Errorf("%w: %s declares %d cards", ErrInvalidCatalog, app.ID, app.Cards)
		}
		if app.Cards == 0 {
			app.Cards = 1
		}
		if app.Title == "" {
			app.Title = strings.ToUpper(string(app.ID))
		} else if err := utils.ValidateTitle(app.Title); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		c.apps[app.ID] = app
		c.order = append(c.order, app.ID)
	}

	c.fallback = doc.Default
	if c.fallback == "" {
		c.fallback = c.order[0]
	}
	if _, ok := c.apps[c.fallback]; !ok {
		return nil, fmt.Errorf("%w: default %q is not declared", ErrInvalidCatalog, c.fallback)
	}
	return c, nil
}

// Lookup returns the definition for appID
func (c *Catalog) Lookup(appID types.AppID) (types.AppDefinition, bool) {
	app, ok := c.apps[appID]
	return app, ok
}

// Cards returns the declared card count, 1 for unknown applications
func (c *Catalog) Cards(appID types.AppID) int {
	if app, ok := c.apps[appID]; ok {
		return app.Cards
	}
	return 1
}

// Default returns the application booted on an empty desktop
func (c *Catalog) Default() types.AppDefinition {
	return c.apps[c.fallback]
}

// Apps returns every definition in declaration order
func (c *Catalog) Apps() []types.AppDefinition {
	out := make([]types.AppDefinition, len(c.order))
	for i, appID := range c.order {
		out[i] = c.apps[appID]
	}
	return out
}

// Len returns the number of applications
func (c *Catalog) Len() int {
	return len(c.order)
}
