package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/SweetsNSavories/timeline/internal/record"
)

// FacetGroupConfig declares one facet dropdown: its display name, the payload
// field it filters on, and optionally a fixed option list. Groups without
// options get theirs from the distinct values observed in the snapshot.
type FacetGroupConfig struct {
	Name    string   `json:"name"`
	Field   string   `json:"field"`
	Options []string `json:"options,omitempty"`
}

// Config holds application configuration.
type Config struct {
	// DefaultPageSize is used when a request carries no positive page size.
	DefaultPageSize int `json:"default_page_size"`

	// MaxPageSize caps the per-request page size.
	MaxPageSize int `json:"max_page_size"`

	// Entity is the backing-store collection queried by the fetch gateway.
	Entity string `json:"entity"`

	// SelectFields is the field-selection list sent with the backing query.
	SelectFields []string `json:"select_fields,omitempty"`

	// SearchFields are the payload fields concatenated for keyword search.
	SearchFields []string `json:"search_fields,omitempty"`

	// FacetGroups describes the available facet dropdowns.
	FacetGroups []FacetGroupConfig `json:"facet_groups,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		Entity:          "shipments",
		SelectFields: []string{
			record.FieldID,
			record.FieldSubject,
			record.FieldStatus,
			record.FieldRecipient,
			record.FieldTracking,
			record.FieldDescription,
			record.FieldCreatedAt,
		},
		SearchFields: []string{
			record.FieldSubject,
			record.FieldStatus,
			record.FieldRecipient,
			record.FieldTracking,
		},
		FacetGroups: []FacetGroupConfig{
			{Name: "Status", Field: record.FieldStatus},
		},
	}
}

// Load loads configuration from baseDir/config.json, merged over defaults.
// Returns default config if the file doesn't exist. The baseDir parameter
// allows tests to use t.TempDir() instead of ~/.timeline.
func Load(baseDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values take precedence
// when non-zero; slices are replaced wholesale when the overlay sets them
// (field and option order is meaningful, so no set-merge here).
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DefaultPageSize = overlay.DefaultPageSize
	if result.DefaultPageSize == 0 {
		result.DefaultPageSize = base.DefaultPageSize
	}

	result.MaxPageSize = overlay.MaxPageSize
	if result.MaxPageSize == 0 {
		result.MaxPageSize = base.MaxPageSize
	}

	result.Entity = overlay.Entity
	if result.Entity == "" {
		result.Entity = base.Entity
	}

	result.SelectFields = overlay.SelectFields
	if len(result.SelectFields) == 0 {
		result.SelectFields = base.SelectFields
	}

	result.SearchFields = overlay.SearchFields
	if len(result.SearchFields) == 0 {
		result.SearchFields = base.SearchFields
	}

	result.FacetGroups = overlay.FacetGroups
	if len(result.FacetGroups) == 0 {
		result.FacetGroups = base.FacetGroups
	}

	return result
}
