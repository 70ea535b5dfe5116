package config

import (
	"strconv"
	"time"
)

const (
	defaultTimezone = "UTC"
	defaultVersion  = "1.0.0"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
	Ranking      RankingConfig      `koanf:"ranking"`
	Summarizer   SummarizerConfig   `koanf:"summarizer"`
	ML           MLConfig           `koanf:"ml"`
	ChatGPT      ChatGPTConfig      `koanf:"chatgpt"`
	Providers    ProviderConfig     `koanf:"providers"`
	Store        StoreConfig        `koanf:"store"`
	Interactions InteractionsConfig `koanf:"interactions"`
	Profiles     ProfilesConfig     `koanf:"profiles"`
	Sites        []SiteConfig       `koanf:"sites" validate:"dive"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout       time.Duration `koanf:"readTimeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"writeTimeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdownTimeout" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"corsOrigins"`
	RateLimitRequests int           `koanf:"rateLimitRequests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rateLimitWindow"`
	Version           string        `koanf:"version"`
}

// Address is the host:port the server binds to.
func (s ServerConfig) Address() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// RankingConfig tunes the ranking pipeline and relevance scorer.
type RankingConfig struct {
	DefaultMaxArticles   int  `koanf:"defaultMaxArticles" validate:"gte=1"`
	MaxArticlesLimit     int  `koanf:"maxArticlesLimit" validate:"gtefield=DefaultMaxArticles"`
	CandidateFactor      int  `koanf:"candidateFactor" validate:"gte=1"`
	Concurrency          int  `koanf:"concurrency" validate:"gte=1"`
	MaxFeatures          int  `koanf:"maxFeatures" validate:"gte=0"`
	MinDocumentFrequency int  `koanf:"minDocumentFrequency" validate:"gte=1"`
	TopicBoost           bool `koanf:"topicBoost"`
}

// SummarizerConfig selects the summarizer provider and the fallback policy.
type SummarizerConfig struct {
	Provider       string        `koanf:"provider" validate:"oneof=extractive inference openai"`
	MaxLength      int           `koanf:"maxLength" validate:"gte=1"`
	MinLength      int           `koanf:"minLength" validate:"gte=0,ltefield=MaxLength"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
	FallbackLength int           `koanf:"fallbackLength" validate:"gte=1"`
	MinInputLength int           `koanf:"minInputLength" validate:"gte=0"`
}

// MLConfig describes neural-service integration parameters.
type MLConfig struct {
	InferenceURL string        `koanf:"inferenceUrl" validate:"omitempty,url"`
	APIKey       string        `koanf:"apiKey"`
	Breaker      BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker in front of the inference service.
type BreakerConfig struct {
	FailureRatio float64       `koanf:"failureRatio" validate:"gt=0,lte=1"`
	MinRequests  uint32        `koanf:"minRequests" validate:"gte=1"`
	OpenTimeout  time.Duration `koanf:"openTimeout" validate:"gt=0"`
	Interval     time.Duration `koanf:"interval"`
}

// ChatGPTConfig defines how to contact the OpenAI chat completions API.
type ChatGPTConfig struct {
	Endpoint     string `koanf:"endpoint" validate:"omitempty,url"`
	Model        string `koanf:"model" validate:"required"`
	APIKey       string `koanf:"apiKey"`
	SystemPrompt string `koanf:"systemPrompt"`
}

// ProviderConfig groups settings for article sources.
type ProviderConfig struct {
	NewsAPIURL string `koanf:"newsApiUrl" validate:"omitempty,url"`
	NewsAPIKey string `koanf:"newsApiKey"`
}

// StoreConfig describes the candidate article store.
type StoreConfig struct {
	// RefreshSchedule is a cron expression; empty serves candidates live from the sites.
	RefreshSchedule string         `koanf:"refreshSchedule"`
	Timezone        string         `koanf:"timezone"`
	RefreshTopics   []string       `koanf:"refreshTopics"`
	SnapshotSize    int            `koanf:"snapshotSize" validate:"gte=1"`
	FilterByTopic   bool           `koanf:"filterByTopic"`
	FixturesPath    string         `koanf:"fixturesPath"`
	EnrichContent   bool           `koanf:"enrichContent"`
	EnrichMinLength int            `koanf:"enrichMinLength" validate:"gte=0"`
	FetchTimeout    time.Duration  `koanf:"fetchTimeout" validate:"gt=0"`
	location        *time.Location `koanf:"-"`
}

// Location resolves the store timezone string to a time.Location.
func (s StoreConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// InteractionsConfig picks the interaction log backend.
type InteractionsConfig struct {
	Backend string `koanf:"backend" validate:"oneof=memory sqlite"`
	DSN     string `koanf:"dsn" validate:"required_if=Backend sqlite"`
}

// ProfilesConfig seeds the profile store.
type ProfilesConfig struct {
	SeedMock bool          `koanf:"seedMock"`
	Users    []ProfileSeed `koanf:"users" validate:"dive"`
}

// ProfileSeed is one preloaded user with optional seeded interactions.
type ProfileSeed struct {
	UserID          string   `koanf:"userId" validate:"required"`
	PreferredTopics []string `koanf:"preferredTopics"`
	Clicks          []string `koanf:"clicks"`
	Favorites       []string `koanf:"favorites"`
}

// SiteConfig describes a single site with its scanner strategy.
type SiteConfig struct {
	Name       string            `koanf:"name" validate:"required"`
	Scanner    string            `koanf:"scanner" validate:"required"`
	Categories []CategoryConfig  `koanf:"categories"`
	Options    map[string]string `koanf:"options"`
}

// CategoryConfig holds the concrete endpoints to crawl (e.g., arXiv category URLs).
type CategoryConfig struct {
	Name string `koanf:"name"`
	URL  string `koanf:"url" validate:"omitempty,url"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8000,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			Version:           defaultVersion,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Ranking: RankingConfig{
			DefaultMaxArticles:   10,
			MaxArticlesLimit:     50,
			CandidateFactor:      2,
			Concurrency:          4,
			MaxFeatures:          1000,
			MinDocumentFrequency: 1,
		},
		Summarizer: SummarizerConfig{
			Provider:       "extractive",
			MaxLength:      150,
			MinLength:      30,
			Timeout:        10 * time.Second,
			FallbackLength: 200,
			MinInputLength: 50,
		},
		ML: MLConfig{
			InferenceURL: "",
			Breaker: BreakerConfig{
				FailureRatio: 0.6,
				MinRequests:  5,
				OpenTimeout:  30 * time.Second,
				Interval:     time.Minute,
			},
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You summarize news articles in a few neutral sentences.",
		},
		Providers: ProviderConfig{NewsAPIURL: "https://newsapi.org"},
		Store: StoreConfig{
			Timezone:        defaultTimezone,
			RefreshTopics:   []string{"technology", "business", "science", "health", "politics"},
			SnapshotSize:    200,
			FilterByTopic:   true,
			EnrichMinLength: 200,
			FetchTimeout:    10 * time.Second,
		},
		Interactions: InteractionsConfig{
			Backend: "memory",
			DSN:     "file:newsgenie?mode=memory&cache=shared",
		},
		Profiles: ProfilesConfig{SeedMock: true},
	}
}

func defaultSites(p ProviderConfig) []SiteConfig {
	if p.NewsAPIKey != "" {
		return []SiteConfig{{Name: "NewsAPI", Scanner: "newsapi"}}
	}
	return []SiteConfig{{Name: "Mock Feed", Scanner: "mock"}}
}

func mockProfiles() []ProfileSeed {
	return []ProfileSeed{
		{
			UserID:          "user123",
			PreferredTopics: []string{"AI", "technology", "machine learning"},
			Clicks:          []string{"article1", "article3"},
			Favorites:       []string{"article1"},
		},
		{
			UserID:          "user456",
			PreferredTopics: []string{"politics", "economics", "business"},
			Clicks:          []string{"article2", "article4"},
			Favorites:       []string{"article2"},
		},
		{
			UserID:          "user789",
			PreferredTopics: []string{"sports", "entertainment", "health"},
			Clicks:          []string{"article5"},
		},
	}
}
