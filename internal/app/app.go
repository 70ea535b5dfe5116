package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsGenie/internal/api"
	"NewsGenie/internal/config"
	"NewsGenie/internal/domain"
	"NewsGenie/internal/infrastructure/extract"
	"NewsGenie/internal/infrastructure/llm"
	"NewsGenie/internal/infrastructure/ml"
	"NewsGenie/internal/infrastructure/parser"
	"NewsGenie/internal/infrastructure/scheduler"
	"NewsGenie/internal/infrastructure/storage"
	"NewsGenie/internal/logging"
	"NewsGenie/internal/ports"
	"NewsGenie/internal/relevance"
	"NewsGenie/internal/scanner"
	"NewsGenie/internal/supervisor"
	"NewsGenie/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	handler   http.Handler
	scheduler *usecase.Scheduler
	closers   []func() error
}

// New builds every adapter from cfg. Seeded interactions are recorded before
// New returns.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	registry, err := a.buildRegistry()
	if err != nil {
		return nil, err
	}

	source, err := a.buildSource(registry)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:           source,
		Scorer:           a.buildScorer(),
		Summarizer:       a.buildSummarizer(),
		Logger:           baseLogger.With("component", "pipeline"),
		SummaryMaxLength: cfg.Summarizer.MaxLength,
		SummaryTimeout:   cfg.Summarizer.Timeout,
		CandidateFactor:  cfg.Ranking.CandidateFactor,
		FallbackLength:   cfg.Summarizer.FallbackLength,
		MinSummaryInput:  cfg.Summarizer.MinInputLength,
		Concurrency:      cfg.Ranking.Concurrency,
	})

	interactions, err := a.buildInteractions(ctx)
	if err != nil {
		return nil, err
	}

	seed := make(map[string][]string, len(cfg.Profiles.Users))
	for _, user := range cfg.Profiles.Users {
		seed[user.UserID] = user.PreferredTopics
	}
	profiles := usecase.NewProfiles(interactions, storage.NewMemoryProfiles(seed), baseLogger.With("component", "profiles"))
	if err := seedInteractions(ctx, profiles, cfg.Profiles.Users); err != nil {
		_ = a.Close()
		return nil, err
	}

	handler := api.NewHandler(pipeline, profiles, api.Options{
		Version:            cfg.Server.Version,
		DefaultMaxArticles: cfg.Ranking.DefaultMaxArticles,
		MaxArticlesLimit:   cfg.Ranking.MaxArticlesLimit,
		DefaultSummaryLen:  cfg.Summarizer.MaxLength,
	}, baseLogger.With("component", "api"))

	a.handler = api.NewRouter(handler, api.RouterConfig{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	}, baseLogger.With("component", "http"))

	return a, nil
}

// Handler exposes the HTTP router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP, and the refresh scheduler when configured, until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	tree := supervisor.NewTree(a.logger.With("component", "supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	})

	server := &http.Server{
		Addr:              a.cfg.Server.Address(),
		Handler:           a.handler,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, a.cfg.Server.ShutdownTimeout))
	if a.scheduler != nil {
		tree.AddDataService(supervisor.NewSchedulerService(a.scheduler, a.cfg.Server.ShutdownTimeout))
	}

	a.logger.InfoContext(ctx, "newsgenie listening",
		"addr", server.Addr,
		"version", a.cfg.Server.Version,
		"summarizer", a.cfg.Summarizer.Provider,
		"interactions", a.cfg.Interactions.Backend,
		"refresh_schedule", a.cfg.Store.RefreshSchedule,
	)

	err := tree.Serve(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Close releases storage handles.
func (a *Application) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *Application) buildRegistry() (*scanner.Registry, error) {
	cfg := a.cfg

	var fixtures []parser.MockArticle
	if cfg.Store.FixturesPath != "" {
		loaded, err := parser.LoadMockArticles(cfg.Store.FixturesPath)
		if err != nil {
			return nil, err
		}
		fixtures = loaded
	}

	httpClient := &http.Client{Timeout: cfg.Store.FetchTimeout}
	return scanner.NewRegistry(
		parser.NewMockScanner(fixtures),
		parser.NewArxivScanner(httpClient),
		parser.NewNewsAPIScanner(httpClient, cfg.Providers.NewsAPIURL, cfg.Providers.NewsAPIKey, a.logger.With("component", "scanner.newsapi")),
	), nil
}

// buildSource serves candidates live from the sites, or from a snapshot
// refreshed on store.refreshSchedule when one is set.
func (a *Application) buildSource(registry *scanner.Registry) (ports.ArticleSource, error) {
	cfg := a.cfg.Store
	snapshotMode := cfg.RefreshSchedule != ""

	opts := parser.StrategyOptions{
		FilterByTopic:   cfg.FilterByTopic && !snapshotMode,
		EnrichMinLength: cfg.EnrichMinLength,
	}
	if cfg.EnrichContent {
		opts.Extractor = extract.NewReadabilityExtractor(nil, cfg.FetchTimeout)
	}
	strategy := parser.NewStrategySource(registry, a.cfg.Sites, opts, a.logger.With("component", "source"))
	if !snapshotMode {
		return strategy, nil
	}

	snapshot := storage.NewSnapshot(strategy, storage.SnapshotOptions{
		Topics:        cfg.RefreshTopics,
		Size:          cfg.SnapshotSize,
		FilterByTopic: cfg.FilterByTopic,
	}, a.logger.With("component", "snapshot"))

	driver, err := scheduler.NewCronScheduler(cfg.RefreshSchedule, cfg.Location(), true)
	if err != nil {
		return nil, err
	}
	a.scheduler = usecase.NewScheduler(driver, snapshot, a.logger.With("component", "scheduler"))
	return snapshot, nil
}

func (a *Application) buildScorer() ports.RelevanceScorer {
	vectorizer := relevance.NewTFIDF(relevance.TFIDFConfig{
		MaxFeatures:          a.cfg.Ranking.MaxFeatures,
		MinDocumentFrequency: a.cfg.Ranking.MinDocumentFrequency,
	})
	return relevance.NewScorer(vectorizer, relevance.WithTopicBoost(a.cfg.Ranking.TopicBoost))
}

func (a *Application) buildSummarizer() ports.Summarizer {
	cfg := a.cfg
	log := a.logger.With("component", "summarizer")

	switch cfg.Summarizer.Provider {
	case "inference":
		client := ml.NewClient(cfg.ML.InferenceURL, cfg.ML.APIKey, cfg.Summarizer.MinLength, nil)
		return ml.NewBreakerSummarizer("inference", client, cfg.ML.Breaker, log)
	case "openai":
		client := llm.NewChatGPTSummarizer(cfg.ChatGPT, nil)
		return ml.NewBreakerSummarizer("openai", client, cfg.ML.Breaker, log)
	default:
		return usecase.ExtractiveSummarizer{}
	}
}

func (a *Application) buildInteractions(ctx context.Context) (ports.InteractionStore, error) {
	switch a.cfg.Interactions.Backend {
	case "sqlite":
		store, err := storage.OpenSQLInteractions(ctx, a.cfg.Interactions.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return storage.NewMemoryInteractions(), nil
	}
}

func seedInteractions(ctx context.Context, profiles *usecase.Profiles, users []config.ProfileSeed) error {
	for _, user := range users {
		for _, link := range user.Clicks {
			if err := profiles.RecordInteraction(ctx, user.UserID, string(domain.ActionClick), link); err != nil {
				return fmt.Errorf("seed click for %s: %w", user.UserID, err)
			}
		}
		for _, link := range user.Favorites {
			if err := profiles.RecordInteraction(ctx, user.UserID, string(domain.ActionFavorite), link); err != nil {
				return fmt.Errorf("seed favorite for %s: %w", user.UserID, err)
			}
		}
	}
	return nil
}
