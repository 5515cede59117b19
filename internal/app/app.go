package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"VentureScanner/internal/config"
	"VentureScanner/internal/curation"
	"VentureScanner/internal/editorial"
	"VentureScanner/internal/feedback"
	"VentureScanner/internal/infrastructure/images"
	"VentureScanner/internal/infrastructure/llm"
	"VentureScanner/internal/infrastructure/sources"
	"VentureScanner/internal/infrastructure/storage"
	"VentureScanner/internal/infrastructure/telegram"
	"VentureScanner/internal/logging"
	"VentureScanner/internal/ports"
	"VentureScanner/internal/review"
	"VentureScanner/internal/usecase"
)

const (
	httpTimeout    = 20 * time.Second
	dailySearchDay = 1
	seedSearchDays = 365
)

// Application wires configuration to adapters and use cases.
type Application struct {
	cfg      config.Config
	db       *sql.DB
	pipeline *usecase.Pipeline
	seeder   *usecase.Seeder
	reviews  *review.Service
}

// New opens storage, builds every adapter, and assembles the use cases.
// The caller owns the returned Application and must Close it.
func New(cfg config.Config, logger *slog.Logger) (*Application, error) {
	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	pendingRepo := storage.NewPendingRepository(db)
	postedRepo := storage.NewPostedRepository(db)
	feedbackRepo := storage.NewFeedbackRepository(db)

	client := &http.Client{Timeout: httpTimeout}
	share := curation.NewShareabilityScorer(cfg.Editorial)
	relevance := curation.NewRelevanceFilter(cfg.Editorial)

	rss := sources.NewRSSSource(cfg.Feeds, client, share, logging.Component(logger, "source.rss"))
	search := sources.NewSearchSource(cfg.Search, dailySearchDay, client, logging.Component(logger, "source.search"))
	scrape := sources.NewScrapeSource(cfg.Sites, client, logging.Component(logger, "source.scrape"))

	generator := llm.NewGroqClient(cfg.Generator)
	judge := llm.NewDuplicateJudge(generator)
	msgr := telegram.NewMessenger(cfg.Notifications.Telegram)
	imageFinder := images.NewFinder(cfg.Images, client)

	drafts := editorial.NewDraftGenerator(generator, editorial.NewQualityScorer(cfg.Editorial), logging.Component(logger, "editorial"))
	dedup := curation.NewDeduplicator(pendingRepo, postedRepo, feedbackRepo, judge, logging.Component(logger, "dedup"))

	reviews := review.NewService(pendingRepo, postedRepo, feedbackRepo, msgr, share,
		cfg.Editorial.VaguePhrases, logging.Component(logger, "review"), nil)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Sources:      []ports.CandidateSource{rss, search},
		TopUpSources: []ports.CandidateSource{scrape},
		Pending:      pendingRepo,
		Feedback:     feedbackRepo,
		Filter:       relevance,
		Priorities:   curation.NewPriorityResolver(cfg.Editorial),
		Dedup:        dedup,
		Shareability: share,
		IntentParser: feedback.NewIntentParser(cfg.Editorial),
		Drafts:       drafts,
		Images:       imageFinder,
		Messenger:    msgr,
		ExpireStale:  reviews.ExpireStale,
		Logger:       logging.Component(logger, "pipeline"),
	})

	seeder := usecase.NewSeeder(usecase.SeederDeps{
		Source:       sources.NewSearchSource(cfg.Search, seedSearchDays, client, logging.Component(logger, "source.archive")),
		Pending:      pendingRepo,
		Posted:       postedRepo,
		Filter:       relevance,
		Shareability: share,
		Drafts:       drafts,
		Messenger:    msgr,
		Logger:       logging.Component(logger, "seeder"),
	})

	return &Application{
		cfg:      cfg,
		db:       db,
		pipeline: pipeline,
		seeder:   seeder,
		reviews:  reviews,
	}, nil
}

// Run executes one daily curation cycle.
func (a *Application) Run(ctx context.Context) error {
	return a.pipeline.Run(ctx)
}

// Seed executes one archive seeding pass for the bulk review lane.
func (a *Application) Seed(ctx context.Context) error {
	return a.seeder.Run(ctx)
}

// Reviews exposes the approval service for the feedback surface.
func (a *Application) Reviews() *review.Service {
	return a.reviews
}

// Close releases the database handle.
func (a *Application) Close() error {
	return a.db.Close()
}
