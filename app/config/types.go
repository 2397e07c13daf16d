package config

// Override pins or adjusts enrichment behavior for a single title. One YAML
// file per title in the overrides directory; the slug comes from the filename.
type Override struct {
	Slug        string // Derived from filename (without .yml extension)
	TMDBID      int64  `yaml:"tmdb_id"`      // Pin an explicit metadata source id, skipping title search
	Kind        string `yaml:"kind"`         // show | movie (optional, informational)
	SearchTitle string `yaml:"search_title"` // Query this title instead of the stored one
	Skip        bool   `yaml:"skip"`         // Exclude the title from enrichment sweeps entirely
}
