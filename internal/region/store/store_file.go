package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegionFile is the YAML layout of a region overrides file:
//
//	regions:
//	  "110000": 北京市
//	  "110105": 朝阳区
type RegionFile struct {
	Regions map[string]string `yaml:"regions"`
}

// LoadFile reads region entries from a YAML file.
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 - path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read region file: %w", err)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (map[string]string, error) {
	var f RegionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse region file: %w", err)
	}
	entries := make(map[string]string, len(f.Regions))
	for code, name := range f.Regions {
		code = strings.TrimSpace(code)
		name = strings.TrimSpace(name)
		if !ValidCode(code) {
			return nil, fmt.Errorf("region file: invalid code %q", code)
		}
		if name == "" {
			return nil, fmt.Errorf("region file: empty name for code %s", code)
		}
		entries[code] = name
	}
	return entries, nil
}
