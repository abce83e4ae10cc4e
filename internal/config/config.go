// Package config defines service configuration and its loading order.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Env distinguishes production from development. The refresh
	// endpoint's bearer check only applies in production.
	Env string `koanf:"env"`

	// RosterPath points at the team roster YAML file.
	RosterPath string `koanf:"roster_path"`

	// StoreBackend selects the persistence backend: "file" or "sqlite".
	StoreBackend string `koanf:"store_backend"`

	// StorePath is the JSON file or SQLite database path.
	StorePath string `koanf:"store_path"`

	// GithubToken raises GitHub rate limits and enables the GraphQL
	// metadata path. Optional.
	GithubToken string `koanf:"github_token"`

	// OpenAIAPIKey authenticates the LLM completion API.
	OpenAIAPIKey string `koanf:"openai_api_key"`

	// OpenAIBaseURL optionally points at a compatible endpoint.
	OpenAIBaseURL string `koanf:"openai_base_url"`

	// OpenAIModel selects the completion model.
	OpenAIModel string `koanf:"openai_model"`

	// LLMMaxTokens bounds scoring completion output.
	LLMMaxTokens int `koanf:"llm_max_tokens"`

	// RefreshSecret is the shared bearer secret for /api/refresh in
	// production. Optional; when empty the check is skipped.
	RefreshSecret string `koanf:"refresh_secret"`

	// BatchSize bounds concurrent outbound analyses per refresh batch.
	BatchSize int `koanf:"batch_size"`

	// CommentaryLimit caps commentary entries returned by the
	// leaderboard endpoint.
	CommentaryLimit int `koanf:"commentary_limit"`

	// KeyFileLimit bounds key files fetched per snapshot.
	KeyFileLimit int `koanf:"key_file_limit"`

	// TruncateBytes is the per-field snapshot content byte ceiling.
	TruncateBytes int `koanf:"truncate_bytes"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		Env:             "development",
		RosterPath:      "./teams.yml",
		StoreBackend:    "file",
		StorePath:       "./data/scores.json",
		OpenAIModel:     "gpt-4o-mini",
		LLMMaxTokens:    1200,
		BatchSize:       5,
		CommentaryLimit: 20,
		KeyFileLimit:    6,
		TruncateBytes:   4000,
	}
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
