package trust

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// Registry loads the manually maintained known-sources list
type Registry struct {
	path string
}

// NewRegistry creates a registry backed by a YAML file. An empty path means
// no registry is configured.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

type registryFile struct {
	Sources []model.KnownSource `yaml:"sources"`
}

// Load reads the registry. A missing file is an empty registry, not an
// error; the trust profile simply has no manual seed.
func (r *Registry) Load() ([]model.KnownSource, error) {
	if r == nil || r.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	out := make([]model.KnownSource, 0, len(file.Sources))
	for _, src := range file.Sources {
		if src.Domain == "" {
			continue
		}
		src.Domain = NormalizeDomain(src.Domain)
		out = append(out, src)
	}
	return out, nil
}
