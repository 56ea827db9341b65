package api

import (
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// LoadManifest reads template.yaml from fsys, checks it against the schema and validates it.
func LoadManifest(fsys fs.FS, filename string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", filename, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	m.FilePath = path.Clean(filename)

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", filename, err)
	}

	return &m, nil
}

// LoadManifestDir loads template.yaml from a template directory on disk.
func LoadManifestDir(dir string) (*Manifest, error) {
	return LoadManifest(os.DirFS(dir), ManifestFilename)
}
