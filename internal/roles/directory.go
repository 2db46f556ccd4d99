package roles

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category groups roles by the configuration surface that owns them.
type Category string

const (
	CategoryClimate     Category = "climate_actuators"
	CategoryIrrigation  Category = "irrigation"
	CategoryLighting    Category = "lighting"
	CategoryVentilation Category = "ventilation"
	CategoryNutrients   Category = "nutrients"
	CategorySetpoints   Category = "setpoints"
	CategoryUnknown     Category = "unknown"
)

// Valid returns true when the category is a known grouping.
func (c Category) Valid() bool {
	switch c {
	case CategoryClimate, CategoryIrrigation, CategoryLighting,
		CategoryVentilation, CategoryNutrients, CategorySetpoints:
		return true
	default:
		return false
	}
}

// ParseCategory maps a raw string to a known category, or Unknown.
func ParseCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c.Valid() {
		return c
	}
	return CategoryUnknown
}

// Entry binds a role key to its owning category.
type Entry struct {
	Role     string   `yaml:"role" json:"role"`
	Category Category `yaml:"category" json:"category"`
}

// Directory is an insertion-ordered role registry. The first registration of
// a role wins; later registrations of the same key are ignored. Iteration
// order is registration order, which makes free-text role matching
// deterministic. A Directory is built once at startup and must not be
// mutated while runs are in flight.
type Directory struct {
	entries []Entry
	index   map[string]int
}

// NewDirectory constructs an empty directory.
func NewDirectory() *Directory {
	return &Directory{index: make(map[string]int)}
}

// Register adds a role under a category. Returns false when the role is
// already present.
func (d *Directory) Register(role string, category Category) bool {
	if d == nil || role == "" {
		return false
	}
	key := strings.ToLower(strings.TrimSpace(role))
	if key == "" {
		return false
	}
	if _, ok := d.index[key]; ok {
		return false
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Role: key, Category: category})
	return true
}

// Category looks up the category owning a role.
func (d *Directory) Category(role string) (Category, bool) {
	if d == nil {
		return CategoryUnknown, false
	}
	i, ok := d.index[strings.ToLower(role)]
	if !ok {
		return CategoryUnknown, false
	}
	return d.entries[i].Category, true
}

// Entries returns all entries in registration order.
func (d *Directory) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Roles returns the role keys in registration order.
func (d *Directory) Roles() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.entries))
	for i, entry := range d.entries {
		out[i] = entry.Role
	}
	return out
}

// Len returns the number of registered roles.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// LoadFile reads a directory from a yaml file of role/category entries.
func LoadFile(path string) (*Directory, error) {
	if path == "" {
		return nil, errors.New("roles: empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		Role     string `yaml:"role"`
		Category string `yaml:"category"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("roles: parse %s: %w", path, err)
	}
	dir := NewDirectory()
	for _, entry := range raw {
		if entry.Role == "" {
			return nil, fmt.Errorf("roles: entry with empty role in %s", path)
		}
		dir.Register(entry.Role, ParseCategory(entry.Category))
	}
	if dir.Len() == 0 {
		return nil, fmt.Errorf("roles: no entries in %s", path)
	}
	return dir, nil
}

// DefaultDirectory returns the built-in role set for a grow room.
func DefaultDirectory() *Directory {
	dir := NewDirectory()
	dir.Register("air_circulation", CategoryClimate)
	dir.Register("exhaust_fan", CategoryVentilation)
	dir.Register("humidifier", CategoryClimate)
	dir.Register("dehumidifier", CategoryClimate)
	dir.Register("heater", CategoryClimate)
	dir.Register("co2_valve", CategoryClimate)
	dir.Register("irrigation_pump", CategoryIrrigation)
	dir.Register("nutrient_dosing", CategoryNutrients)
	dir.Register("light_intensity", CategoryLighting)
	dir.Register("target_temperature", CategorySetpoints)
	dir.Register("target_humidity", CategorySetpoints)
	dir.Register("target_co2", CategorySetpoints)
	return dir
}
