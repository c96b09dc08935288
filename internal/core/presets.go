package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a named, reusable cleaning configuration.
type Preset struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Config      CleaningConfig `json:"config" yaml:"config"`
}

// presetFile is the on-disk YAML layout:
//
//	presets:
//	  - name: crm-standard
//	    description: Dedupe and trim before CRM import
//	    config:
//	      remove_duplicates: true
//	      trim_whitespace: true
type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// DefaultPresets returns the built-in presets, mirroring the toggles
// the UI pre-selects for a fresh upload.
func DefaultPresets() []Preset {
	return []Preset{
		{
			Name:        "standard",
			Description: "Remove duplicate rows and trim whitespace",
			Config: CleaningConfig{
				RemoveDuplicates: true,
				TrimWhitespace:   true,
			},
		},
		{
			Name:        "crm-full",
			Description: "Full CRM formatting: dedupe, drop empty rows, trim, title-case names",
			Config: CleaningConfig{
				RemoveDuplicates: true,
				DropEmptyRows:    true,
				TrimWhitespace:   true,
				TitleCaseNames:   true,
			},
		},
	}
}

// LoadPresets reads named cleaning presets from a YAML file.
// Preset names must be unique and non-empty.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets parses YAML preset definitions.
func ParsePresets(data []byte) ([]Preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	seen := make(map[string]bool, len(file.Presets))
	for _, p := range file.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("parse presets: preset with empty name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("parse presets: duplicate preset %q", p.Name)
		}
		seen[p.Name] = true
	}

	return file.Presets, nil
}
