package cfg

type Cfg struct {
	// Record store configuration
	StorePath    string
	OverridesDir string

	// Metadata source configuration
	TMDBAPIKey    string
	TMDBBaseUrl   string
	TMDBImageBase string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	CallDelayMs       int
	APIAccessKey      string
	Job               string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
