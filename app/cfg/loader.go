package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Record store configuration
	StorePath    string `long:"store-path" env:"STORE_PATH" default:"./data/streamvault.json" description:"Path to the JSON record store document"`
	OverridesDir string `long:"overrides-dir" env:"OVERRIDES_DIR" default:"./overrides" description:"Directory containing per-title enrichment override files"`

	// Metadata source configuration
	TMDBAPIKey    string `long:"tmdb-api-key" env:"TMDB_API_KEY" description:"TMDB API key (required for enrichment jobs)"`
	TMDBBaseUrl   string `long:"tmdb-base-url" env:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3" description:"TMDB API base URL"`
	TMDBImageBase string `long:"tmdb-image-base" env:"TMDB_IMAGE_BASE" default:"https://image.tmdb.org/t/p" description:"TMDB image base URL"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://streamvault.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for maintenance sweeps"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Scheduler interval in seconds"`
	CallDelayMs       int    `long:"call-delay-ms" env:"CALL_DELAY_MS" default:"250" description:"Courtesy delay in milliseconds between metadata API calls"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`
	Job               string `long:"job" env:"JOB" description:"Run a single maintenance job and exit (enrich-shows, enrich-movies, backfill-episodes, dedupe-episodes, backfill-timestamps)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"StreamVault/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		StorePath:         raw.StorePath,
		OverridesDir:      raw.OverridesDir,
		TMDBAPIKey:        raw.TMDBAPIKey,
		TMDBBaseUrl:       raw.TMDBBaseUrl,
		TMDBImageBase:     raw.TMDBImageBase,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		CallDelayMs:       raw.CallDelayMs,
		APIAccessKey:      raw.APIAccessKey,
		Job:               raw.Job,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
