package panel

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ServiceManifest models a YAML document listing the backend services shown
// on the status section and their static health flags.
type ServiceManifest struct {
	Version  string          `json:"version" yaml:"version"`
	Name     string          `json:"name,omitempty" yaml:"name,omitempty"`
	Services []ServiceStatus `json:"services" yaml:"services"`
	Source   string          `json:"-" yaml:"-"`
}

// ReadServiceManifest loads a manifest file from disk.
func ReadServiceManifest(path string) (*ServiceManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("panel: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeServiceManifest(f)
	if err != nil {
		return nil, fmt.Errorf("panel: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeServiceManifest reads a manifest from any reader. Unknown fields are
// rejected so typos fail loudly at startup.
func DecodeServiceManifest(r io.Reader) (*ServiceManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ServiceManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("panel: manifest is empty")
		}
		return nil, fmt.Errorf("panel: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ServiceManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("panel: unsupported manifest version %q", doc.Version)
	}
	if len(doc.Services) == 0 {
		return fmt.Errorf("panel: manifest lists no services")
	}
	seen := make(map[string]struct{}, len(doc.Services))
	for idx, svc := range doc.Services {
		if svc.Name == "" {
			return fmt.Errorf("panel: manifest service at index %d is missing name", idx)
		}
		if _, exists := seen[svc.Name]; exists {
			return fmt.Errorf("panel: manifest duplicates service %s", svc.Name)
		}
		seen[svc.Name] = struct{}{}
	}
	return nil
}

// HealthSource builds a static source over the manifest's service list.
func (doc *ServiceManifest) HealthSource() HealthSource {
	return StaticHealthSource{Items: append([]ServiceStatus(nil), doc.Services...)}
}

func (doc *ServiceManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
