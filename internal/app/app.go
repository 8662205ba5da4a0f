// Package app builds every component from the loaded configuration and
// drives pipeline runs on their cron triggers.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sashabaranov/go-openai"

	"github.com/yudhis/autopress/internal/config"
	"github.com/yudhis/autopress/internal/imagegen"
	"github.com/yudhis/autopress/internal/metrics"
	"github.com/yudhis/autopress/internal/pipeline"
	"github.com/yudhis/autopress/internal/retry"
	"github.com/yudhis/autopress/internal/rewrite"
	"github.com/yudhis/autopress/internal/scraper"
	"github.com/yudhis/autopress/internal/storage"
	"github.com/yudhis/autopress/internal/topic"
	"github.com/yudhis/autopress/internal/wordpress"
)

// App owns the wired pipeline and its schedule.
type App struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	closers  []func()
}

// New constructs all collaborators once; nothing reads the environment
// after this point.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	store, err := a.buildStore()
	if err != nil {
		return nil, err
	}

	var openaiClient *openai.Client
	if cfg.OpenAIAPIKey != "" {
		openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
	}

	source, err := a.buildSource(store, openaiClient)
	if err != nil {
		return nil, err
	}

	rewriter, err := a.buildRewriter(ctx, openaiClient)
	if err != nil {
		return nil, err
	}

	var illustrator imagegen.Generator
	if cfg.RunwareAPIKey != "" {
		illustrator = imagegen.NewRunwareClient(cfg.RunwareAPIKey, cfg.RequestTimeout, logger.With("component", "imagegen"))
	} else {
		logger.Info("image generation disabled (no RUNWARE_API_KEY)")
	}

	publisher := wordpress.New(
		cfg.WordPressURL, cfg.WordPressUser, cfg.WordPressPassword,
		cfg.RequestTimeout,
		retry.Config{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true},
		logger.With("component", "wordpress"),
	)

	a.pipeline = pipeline.New(pipeline.Deps{
		Store:          store,
		Source:         source,
		Rewriter:       rewriter,
		Illustrator:    illustrator,
		Publisher:      publisher,
		Logger:         logger.With("component", "pipeline"),
		ForcedCategory: cfg.ForcedCategory,
	})

	return a, nil
}

func (a *App) buildStore() (storage.TitleStore, error) {
	if a.cfg.DatabaseURL != "" {
		store, err := storage.NewPostgresStore(a.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open title store: %w", err)
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		a.logger.Info("using Postgres title store", "titles", store.Len())
		return store, nil
	}

	store := storage.NewFileStore(a.cfg.UsedTitlesPath)
	a.logger.Info("using file title store", "path", a.cfg.UsedTitlesPath, "titles", store.Len())
	return store, nil
}

func (a *App) buildSource(store storage.TitleStore, openaiClient *openai.Client) (topic.Source, error) {
	switch a.cfg.TopicSource {
	case config.TopicSourceFeeds:
		feeds, err := topic.LoadFeeds(a.cfg.FeedsConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load feeds config: %w", err)
		}
		sc := scraper.New(&http.Client{Timeout: a.cfg.RequestTimeout})
		return topic.NewFeedSource(feeds, a.cfg.Topic, store, sc, a.logger.With("component", "topic.feeds")), nil
	case config.TopicSourceModel:
		return topic.NewModelSource(openaiClient, a.cfg.OpenAISearchModel, a.cfg.Topic, a.cfg.PostLanguage,
			store, a.logger.With("component", "topic.model")), nil
	default:
		return nil, fmt.Errorf("unknown topic source %q", a.cfg.TopicSource)
	}
}

func (a *App) buildRewriter(ctx context.Context, openaiClient *openai.Client) (rewrite.Rewriter, error) {
	switch a.cfg.LLMProvider {
	case config.ProviderOpenAI:
		return rewrite.NewOpenAIRewriter(openaiClient, a.cfg.OpenAIModel, a.cfg.PostLanguage,
			a.cfg.AllowedSlugs, a.logger.With("component", "rewrite.openai")), nil
	case config.ProviderGemini:
		r, err := rewrite.NewGeminiRewriter(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel, a.cfg.PostLanguage,
			a.cfg.AllowedSlugs, a.logger.With("component", "rewrite.gemini"))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, r.Close)
		return r, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", a.cfg.LLMProvider)
	}
}

// RunPipeline executes one run and reports its outcome. Run errors are
// logged, never escalated: the process keeps waiting for the next trigger.
func (a *App) RunPipeline(ctx context.Context) {
	metrics.Global.RunStarted()
	started := time.Now()

	res, err := a.pipeline.Run(ctx)
	metrics.Global.RecordRunDuration(time.Since(started))

	for _, w := range res.Warnings {
		a.logger.Warn("run warning", "warning", w)
	}

	if err != nil {
		metrics.Global.RunFailed(err.Error())
		a.logger.Error("pipeline run failed", "stage", string(res.FailedStage), "error", err)
		return
	}

	metrics.Global.PostPublished(res.PostURL)
	a.logger.Info("article published",
		"title", res.Title,
		"category", fmt.Sprintf("%s -> %d", res.CategorySlug, res.CategoryID),
		"meta_image", res.ImageURL,
		"link", res.PostURL)
}

// Start blocks: either a single immediate run, or cron-scheduled runs until
// the context is cancelled.
func (a *App) Start(ctx context.Context) error {
	defer a.close()

	if a.cfg.RunOnce {
		a.RunPipeline(ctx)
		return nil
	}

	c := cron.New()
	for _, spec := range a.cfg.Schedules {
		spec := spec
		if _, err := c.AddFunc(spec, func() {
			a.logger.Info("schedule fired", "cron", spec)
			a.RunPipeline(context.Background())
		}); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", spec, err)
		}
		a.logger.Info("schedule registered", "cron", spec)
	}

	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

func (a *App) close() {
	for _, fn := range a.closers {
		fn()
	}
}
