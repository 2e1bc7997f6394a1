package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-servicemanager/framework/container"
)

// Manifest declares aliases outside of code.
//
//	aliases:
//	  - source: github.com/acme/app.Greeter
//	    target: github.com/acme/app.ServiceA
//	    overwrite: true
type Manifest struct {
	Aliases []AliasSpec `yaml:"aliases"`
}

// AliasSpec is one manifest alias.
type AliasSpec struct {
	Source    container.TypeID `yaml:"source"`
	Target    container.TypeID `yaml:"target"`
	Overwrite bool             `yaml:"overwrite"`
}

// Aliaser is the part of a container a manifest is applied to.
type Aliaser interface {
	AddAlias(source, target container.TypeID, overwrite bool) bool
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest YAML. Entries without a source or target
// are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for i, a := range m.Aliases {
		if a.Source == "" || a.Target == "" {
			return nil, fmt.Errorf("parse manifest: alias #%d needs both source and target", i+1)
		}
	}
	return &m, nil
}

// Apply records every alias in order and returns how many were recorded.
func (m *Manifest) Apply(c Aliaser) int {
	n := 0
	for _, a := range m.Aliases {
		if c.AddAlias(a.Source, a.Target, a.Overwrite) {
			n++
		}
	}
	return n
}
