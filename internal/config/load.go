package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"NewsGenie/internal/validation"
)

// ConfigPathEnv overrides the config file location.
const ConfigPathEnv = "NEWSGENIE_CONFIG"

// DefaultConfigPaths are searched in order when ConfigPathEnv is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/newsgenie/config.yaml",
}

// envMappings maps the supported environment variables to config paths.
// Anything not listed is ignored.
var envMappings = map[string]string{
	"newsgenie_host":          "server.host",
	"newsgenie_port":          "server.port",
	"newsgenie_version":       "server.version",
	"cors_origins":            "server.corsOrigins",
	"rate_limit_requests":     "server.rateLimitRequests",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
	"ranking_topic_boost":     "ranking.topicBoost",
	"ranking_concurrency":     "ranking.concurrency",
	"summarizer_provider":     "summarizer.provider",
	"summary_max_length":      "summarizer.maxLength",
	"summary_timeout":         "summarizer.timeout",
	"inference_url":           "ml.inferenceUrl",
	"inference_api_key":       "ml.apiKey",
	"openai_api_key":          "chatgpt.apiKey",
	"openai_model":            "chatgpt.model",
	"openai_base_url":         "chatgpt.endpoint",
	"news_api_key":            "providers.newsApiKey",
	"news_api_url":            "providers.newsApiUrl",
	"store_refresh_schedule":  "store.refreshSchedule",
	"store_timezone":          "store.timezone",
	"store_refresh_topics":    "store.refreshTopics",
	"store_fixtures_path":     "store.fixturesPath",
	"store_enrich_content":    "store.enrichContent",
	"interactions_backend":    "interactions.backend",
	"interactions_dsn":        "interactions.dsn",
	"profiles_seed_mock":      "profiles.seedMock",
	"store_filter_by_topic":   "store.filterByTopic",
	"store_snapshot_size":     "store.snapshotSize",
	"summary_fallback_length": "summarizer.fallbackLength",
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"server.corsOrigins",
	"store.refreshTopics",
}

// Load layers defaults, the optional YAML file and environment variables,
// in that order of precedence, then validates the result.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := splitSliceFields(k); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDerivedDefaults()
	if err := cfg.bindTimezone(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks struct rules and the cross-field provider requirements.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	switch c.Summarizer.Provider {
	case "inference":
		if c.ML.InferenceURL == "" {
			return fmt.Errorf("summarizer provider inference requires INFERENCE_URL")
		}
	case "openai":
		if c.ChatGPT.APIKey == "" {
			return fmt.Errorf("summarizer provider openai requires OPENAI_API_KEY")
		}
	}

	for _, site := range c.Sites {
		if site.Scanner == "newsapi" && c.Providers.NewsAPIKey == "" {
			return fmt.Errorf("site %s uses newsapi but NEWS_API_KEY is empty", site.Name)
		}
	}
	return nil
}

func (c *Config) applyDerivedDefaults() {
	if len(c.Sites) == 0 {
		c.Sites = defaultSites(c.Providers)
	}
	if c.Profiles.SeedMock && len(c.Profiles.Users) == 0 {
		c.Profiles.Users = mockProfiles()
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
}

func (c *Config) bindTimezone() error {
	tz := c.Store.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("unknown store timezone %q: %w", tz, err)
	}
	c.Store.location = loc
	return nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
