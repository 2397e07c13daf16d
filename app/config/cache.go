package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// OverrideCache loads per-title override files once and serves them to the
// enrichment sweeps. Run may be called again (the sync task does) to pick up
// edits without restarting.
type OverrideCache struct {
	overridesDir string
	cache        map[string]*Override
	mu           sync.RWMutex
}

func NewOverrideCache(overridesDir string) *OverrideCache {
	return &OverrideCache{
		overridesDir: overridesDir,
		cache:        make(map[string]*Override),
	}
}

func (oc *OverrideCache) Run() error {
	if _, err := os.Stat(oc.overridesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(oc.overridesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}
	yamlFiles, err := filepath.Glob(filepath.Join(oc.overridesDir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	loaded := make(map[string]*Override, len(files))
	for _, file := range files {
		slug := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

		override, err := oc.parseFile(file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}
		override.Slug = slug
		loaded[slug] = override

		slog.Debug("Override loaded", "slug", slug, "tmdb_id", override.TMDBID, "skip", override.Skip)
	}

	oc.mu.Lock()
	oc.cache = loaded
	oc.mu.Unlock()

	return nil
}

func (oc *OverrideCache) parseFile(path string) (*Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var override Override
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&override); err != nil {
		return nil, err
	}

	return &override, nil
}

func validate(override *Override) error {
	if override.TMDBID < 0 {
		return fmt.Errorf("tmdb_id must be non-negative")
	}
	switch override.Kind {
	case "", "show", "movie":
	default:
		return fmt.Errorf("invalid kind: %s", override.Kind)
	}
	return nil
}

// GetOverride returns the override for a slug, if one exists.
func (oc *OverrideCache) GetOverride(slug string) (*Override, bool) {
	oc.mu.RLock()
	defer oc.mu.RUnlock()

	override, ok := oc.cache[slug]
	return override, ok
}

func (oc *OverrideCache) GetOverrideCount() int {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return len(oc.cache)
}
