package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ZoneOverlay maps the receiver board's configured local zone onto an
// IANA zone name. The BPC protocol itself carries no time-zone
// information (spec §3: the decoded frame is civil time as broadcast);
// this is a receiver-board concern layered on top, kept in its own small
// file with its own independent YAML decoder.
type ZoneOverlay struct {
	Name string `yaml:"zone"`
}

// LoadZoneOverlay reads a zone-overlay file. A missing file is not an
// error: it just means LocalTime in pkg/bpcport falls back to
// time.Local.
func LoadZoneOverlay(path string) (*time.Location, error) {
	if path == "" {
		return time.Local, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return time.Local, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: open zone overlay %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var overlay ZoneOverlay
	if err := yaml.NewDecoder(f).Decode(&overlay); err != nil {
		return nil, fmt.Errorf("config: decode zone overlay %q: %w", path, err)
	}

	loc, err := time.LoadLocation(overlay.Name)
	if err != nil {
		return nil, fmt.Errorf("config: unknown zone %q: %w", overlay.Name, err)
	}
	return loc, nil
}
