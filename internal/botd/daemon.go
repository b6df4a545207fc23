package botd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribe-bot/scribe/internal/airtable"
	"github.com/scribe-bot/scribe/internal/catalog"
	"github.com/scribe-bot/scribe/internal/config"
	"github.com/scribe-bot/scribe/internal/db"
	"github.com/scribe-bot/scribe/internal/dialog"
	"github.com/scribe-bot/scribe/internal/logging"
	"github.com/scribe-bot/scribe/internal/session"
	"github.com/scribe-bot/scribe/internal/sink"
	"github.com/scribe-bot/scribe/internal/telegram"
)

// Daemon is the long-running process wiring the transport, dialogue
// controller and collaborators together.
type Daemon struct {
	cfg    *config.Config
	logger zerolog.Logger

	database   *db.DB
	sessions   *session.Store
	dispatcher *Dispatcher
	bot        *telegram.Bot
}

// New constructs a daemon from validated configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.Component("botd")

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := database.MigrateUp(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	var airtableClient *airtable.Client
	if cfg.Catalog.Source == config.BackendAirtable || cfg.SinkBackend == config.BackendAirtable {
		airtableClient = airtable.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID)
	}

	var cat catalog.Catalog
	switch cfg.Catalog.Source {
	case config.BackendAirtable:
		cat = catalog.NewAirtableCatalog(airtableClient, cfg.Airtable.SamplesTable)
	default:
		cat = catalog.NewFileCatalog(cfg.Catalog.Dir)
	}

	var submissionSink sink.Sink
	switch cfg.SinkBackend {
	case config.BackendAirtable:
		submissionSink = sink.NewAirtableSink(airtableClient, cfg.Airtable.SubmissionsTable)
	default:
		submissionSink = sink.NewSQLiteSink(db.NewSubmissionRepository(database))
	}

	sessions := session.NewStore()
	controller := dialog.NewController(sessions, cat, submissionSink, dialog.Options{
		CallTimeout: cfg.CallTimeout,
		Events:      db.NewEventRepository(database),
	})

	dispatcher := NewDispatcher(controller, DefaultDispatcherConfig())
	bot := telegram.NewBot(telegram.NewClient(cfg.Telegram.Token), dispatcher, cfg.Telegram.PollTimeout)

	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		database:   database,
		sessions:   sessions,
		dispatcher: dispatcher,
		bot:        bot,
	}, nil
}

// Run starts the dispatcher and polling loop, blocking until the
// context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	if err := d.dispatcher.Start(ctx); err != nil {
		return err
	}

	d.logger.Info().
		Str("catalog", d.cfg.Catalog.Source).
		Str("sink", d.cfg.SinkBackend).
		Msg("scribe bot starting")

	reapCtx, stopReaper := context.WithCancel(ctx)
	go d.reapSessions(reapCtx)

	err := d.bot.Run(ctx)

	stopReaper()
	if stopErr := d.dispatcher.Stop(); stopErr != nil && !errors.Is(stopErr, ErrDispatcherNotRunning) {
		d.logger.Warn().Err(stopErr).Msg("dispatcher stop failed")
	}
	if closeErr := d.database.Close(); closeErr != nil {
		d.logger.Warn().Err(closeErr).Msg("database close failed")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	d.logger.Info().Msg("scribe bot shutdown complete")
	return nil
}

// reapSessions periodically drops sessions idle beyond the configured
// TTL so abandoned dialogues don't accumulate.
func (d *Daemon) reapSessions(ctx context.Context) {
	ttl := d.cfg.SessionTTL
	if ttl <= 0 {
		return
	}

	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if reaped := d.sessions.ReapIdle(ttl); len(reaped) > 0 {
				d.logger.Debug().Int("count", len(reaped)).Msg("idle sessions reaped")
			}
		}
	}
}
