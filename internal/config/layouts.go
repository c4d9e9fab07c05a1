package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/couchcryptid/temperature-heatmap/internal/scale"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultLayoutName is the preset used when LAYOUT is unset.
const DefaultLayoutName = "compact"

// BuiltinLayouts are always available. A layout file may override them by name.
var BuiltinLayouts = []scale.Layout{
	{Name: "compact", Width: 600, Height: 520, Padding: 80},
	{Name: "wide", Width: 700, Height: 550, Padding: 60},
}

var validate = validator.New()

// layoutFile is the YAML shape of LAYOUT_FILE.
type layoutFile struct {
	Layouts []scale.Layout `yaml:"layouts"`
}

// Layouts is a thread-safe registry of named layout presets.
type Layouts struct {
	mu      sync.RWMutex
	presets map[string]scale.Layout
}

// NewLayouts creates a registry holding the built-ins overlaid with extra.
func NewLayouts(extra ...scale.Layout) *Layouts {
	l := &Layouts{}
	l.Replace(extra)
	return l
}

// LoadLayouts builds the registry from the built-ins and, when path is set, the YAML file.
func LoadLayouts(path string) (*Layouts, error) {
	if path == "" {
		return NewLayouts(), nil
	}
	extra, err := ReadLayoutFile(path)
	if err != nil {
		return nil, err
	}
	return NewLayouts(extra...), nil
}

// Get returns the preset named name.
func (l *Layouts) Get(name string) (scale.Layout, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	layout, ok := l.presets[name]
	return layout, ok
}

// Names returns the preset names in sorted order.
func (l *Layouts) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.presets))
	for name := range l.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Replace resets the registry to the built-ins overlaid with extra.
func (l *Layouts) Replace(extra []scale.Layout) {
	presets := make(map[string]scale.Layout, len(BuiltinLayouts)+len(extra))
	for _, layout := range BuiltinLayouts {
		presets[layout.Name] = layout
	}
	for _, layout := range extra {
		presets[layout.Name] = layout
	}

	l.mu.Lock()
	l.presets = presets
	l.mu.Unlock()
}

// ReadLayoutFile parses and validates a YAML layout file.
func ReadLayoutFile(path string) ([]scale.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout file: %w", err)
	}
	return ParseLayouts(data)
}

// ParseLayouts decodes YAML layout presets and rejects invalid or duplicate entries.
func ParseLayouts(data []byte) ([]scale.Layout, error) {
	var file layoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse layout file: %w", err)
	}

	seen := make(map[string]bool, len(file.Layouts))
	for i, layout := range file.Layouts {
		if err := ValidateLayout(layout); err != nil {
			return nil, fmt.Errorf("layout %d: %w", i, err)
		}
		if seen[layout.Name] {
			return nil, fmt.Errorf("layout %d: duplicate name %q", i, layout.Name)
		}
		seen[layout.Name] = true
	}
	return file.Layouts, nil
}

// ValidateLayout checks field constraints and that padding leaves a plot area.
func ValidateLayout(layout scale.Layout) error {
	if err := validate.Struct(layout); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("layout %q: field %s failed %q", layout.Name, verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	return layout.CheckPlotArea()
}
