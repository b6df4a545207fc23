package dialog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scribe-bot/scribe/internal/catalog"
	"github.com/scribe-bot/scribe/internal/events"
	"github.com/scribe-bot/scribe/internal/logging"
	"github.com/scribe-bot/scribe/internal/models"
	"github.com/scribe-bot/scribe/internal/session"
	"github.com/scribe-bot/scribe/internal/sink"
	"github.com/scribe-bot/scribe/internal/template"
)

// User-facing notice texts.
const (
	NoticeCatalogUnavailable = "Каталог временно недоступен. Попробуйте ещё раз."
	NoticeNoCategories       = "Каталог шаблонов пуст. Попробуйте позже."
	NoticeNoTemplates        = "В этой категории пока нет шаблонов."
	NoticeTemplateNotFound   = "Шаблон не найден. Выберите шаблон из списка."
	NoticeCategoryUnknown    = "Такой категории нет. Выберите категорию из списка."
	NoticeCanceled           = "Диалог сброшен. Отправьте /start, чтобы начать заново."
)

const defaultCallTimeout = 15 * time.Second

// Options configure optional controller behavior.
type Options struct {
	// CallTimeout bounds each catalog/sink call. Default 15s.
	CallTimeout time.Duration

	// Events receives dialogue lifecycle events. Optional; event log
	// failures are logged and never affect the dialogue.
	Events events.Repository
}

// Controller is the dialogue state machine. It owns session mutation:
// every inbound event acquires the user's session, validates the event
// against the current state, and emits transport-agnostic replies.
// Events for one user are serialized by the session lock; distinct
// users proceed in parallel.
type Controller struct {
	sessions    *session.Store
	catalog     catalog.Catalog
	sink        sink.Sink
	eventRepo   events.Repository
	callTimeout time.Duration
	logger      zerolog.Logger
}

// NewController creates a dialogue controller.
func NewController(sessions *session.Store, cat catalog.Catalog, snk sink.Sink, opts Options) *Controller {
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Controller{
		sessions:    sessions,
		catalog:     cat,
		sink:        snk,
		eventRepo:   opts.Events,
		callTimeout: timeout,
		logger:      logging.Component("dialog"),
	}
}

// Handle processes one inbound event and returns the replies to show
// the user. It never returns an error: every failure is mapped to a
// notice that leaves the session retryable.
func (c *Controller) Handle(ctx context.Context, event Event) []Reply {
	sess, release := c.sessions.Acquire(event.UserID)
	defer release()

	switch event.Kind {
	case EventStart:
		return c.handleStart(ctx, sess)
	case EventCancel:
		return c.handleCancel(ctx, sess)
	case EventCategoryChosen:
		return c.handleCategory(ctx, sess, event.Text)
	case EventTemplateChosen:
		return c.handleTemplate(ctx, sess, event.Text)
	case EventFieldValue:
		return c.handleFieldValue(ctx, sess, event.Text)
	default:
		c.logger.Debug().Str("kind", string(event.Kind)).Msg("ignoring unknown event kind")
		return nil
	}
}

// handleStart restarts the cycle from any state: the category menu is
// recomputed from the full catalog on every start.
func (c *Controller) handleStart(ctx context.Context, sess *models.Session) []Reply {
	sess.Reset()

	defs, err := c.listAll(ctx)
	if err != nil {
		return []Reply{Notice{Message: NoticeCatalogUnavailable}}
	}

	categories := catalog.Categories(defs)
	if len(categories) == 0 {
		return []Reply{Notice{Message: NoticeNoCategories}}
	}

	sess.State = models.SessionStateAwaitingCategory
	c.logEvent(func(logCtx context.Context) error {
		return events.LogSessionStarted(logCtx, c.eventRepo, sess.UserID)
	})
	return []Reply{CategoryList{Categories: categories}}
}

func (c *Controller) handleCancel(ctx context.Context, sess *models.Session) []Reply {
	sess.Reset()
	return []Reply{Notice{Message: NoticeCanceled}}
}

func (c *Controller) handleCategory(ctx context.Context, sess *models.Session, category string) []Reply {
	if sess.State != models.SessionStateAwaitingCategory {
		c.logger.Debug().Str("state", string(sess.State)).Msg("ignoring category event out of state")
		return nil
	}

	// Refresh on every turn so the menu tracks catalog changes.
	defs, err := c.listAll(ctx)
	if err != nil {
		// State is untouched so the same selection can be retried.
		return []Reply{Notice{Message: NoticeCatalogUnavailable}}
	}
	if len(catalog.Categories(defs)) == 0 {
		return []Reply{Notice{Message: NoticeNoCategories}}
	}

	matched := catalog.InCategory(defs, category)
	if len(matched) == 0 {
		known := false
		for _, name := range catalog.Categories(defs) {
			if name == category {
				known = true
				break
			}
		}
		if !known {
			return []Reply{Notice{Message: NoticeCategoryUnknown}}
		}
		return []Reply{Notice{Message: NoticeNoTemplates}}
	}

	refs := make([]models.TemplateRef, 0, len(matched))
	for _, def := range matched {
		refs = append(refs, def.Ref())
	}

	sess.Category = category
	sess.State = models.SessionStateAwaitingTemplate
	return []Reply{TemplateList{Category: category, Templates: refs}}
}

func (c *Controller) handleTemplate(ctx context.Context, sess *models.Session, id string) []Reply {
	if sess.State != models.SessionStateAwaitingTemplate {
		c.logger.Debug().Str("state", string(sess.State)).Msg("ignoring template event out of state")
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	def, err := c.catalog.Get(callCtx, id)
	cancel()
	if err != nil {
		if errors.Is(err, catalog.ErrTemplateNotFound) {
			// Stale selection: stay at the selection step.
			return []Reply{Notice{Message: NoticeTemplateNotFound}}
		}
		c.logCatalogFailure(err, "get")
		return []Reply{Notice{Message: NoticeCatalogUnavailable}}
	}

	sess.TemplateID = def.ID
	sess.Template = def
	sess.PendingFields = append([]string(nil), def.RequiredFields...)
	sess.Values = make(map[string]string, len(def.RequiredFields))

	field, ok := sess.CurrentField()
	if !ok {
		// Nothing to collect: render immediately.
		return c.render(ctx, sess)
	}

	sess.State = models.SessionStateAwaitingFieldValue
	return []Reply{
		Notice{Message: "Вы выбрали: " + def.DisplayName + ". Введите данные для заполнения."},
		FieldPrompt{Field: field},
	}
}

func (c *Controller) handleFieldValue(ctx context.Context, sess *models.Session, text string) []Reply {
	if sess.State != models.SessionStateAwaitingFieldValue {
		c.logger.Debug().Str("state", string(sess.State)).Msg("ignoring field value out of state")
		return nil
	}

	if !sess.AcceptValue(text) {
		// Defensive: no field is pending; ignore the event.
		c.logger.Warn().Str("user_id", sess.UserID).Msg("field value with empty pending queue")
		return nil
	}

	if field, ok := sess.CurrentField(); ok {
		return []Reply{FieldPrompt{Field: field}}
	}
	return c.render(ctx, sess)
}

// render finishes the cycle: substitute values into the definition
// snapshot, persist the submission best-effort, deliver the text, and
// reset the session to idle.
func (c *Controller) render(ctx context.Context, sess *models.Session) []Reply {
	sess.State = models.SessionStateRendering

	def := sess.Template
	if def == nil {
		// Queue was populated without a selection; invariant violation.
		c.logger.Error().Str("user_id", sess.UserID).Msg("rendering without template snapshot")
		sess.Reset()
		return []Reply{Notice{Message: NoticeTemplateNotFound}}
	}

	fields := make(map[string]string, len(sess.Values))
	for name, value := range sess.Values {
		fields[name] = value
	}

	submission := &models.Submission{
		ID:           uuid.New().String(),
		TemplateID:   def.ID,
		UserID:       sess.UserID,
		CreatedAt:    time.Now().UTC(),
		Fields:       fields,
		RenderedText: template.RenderBody(def.Body, fields),
	}

	// Persistence is best-effort relative to user-visible delivery:
	// a sink failure is reported through the event log, never to the
	// user, and is not retried inline.
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	err := c.sink.Create(callCtx, submission)
	cancel()
	if err != nil {
		c.logger.Error().Err(err).
			Str("submission_id", submission.ID).
			Str("user_id", sess.UserID).
			Msg("submission sink failed")
		c.logEvent(func(logCtx context.Context) error {
			return events.LogSinkFailure(logCtx, c.eventRepo, submission.ID, err)
		})
	} else {
		c.logEvent(func(logCtx context.Context) error {
			return events.LogSubmissionCreated(logCtx, c.eventRepo, submission)
		})
	}

	c.logEvent(func(logCtx context.Context) error {
		return events.LogSessionCompleted(logCtx, c.eventRepo, sess.UserID, models.SessionCompletedPayload{
			TemplateID:   def.ID,
			SubmissionID: submission.ID,
			FieldCount:   len(fields),
		})
	})

	sess.Reset()
	return []Reply{RenderedText{Text: submission.RenderedText, SubmissionID: submission.ID}}
}

func (c *Controller) listAll(ctx context.Context) ([]*models.TemplateDefinition, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	defs, err := c.catalog.ListAll(callCtx)
	if err != nil {
		c.logCatalogFailure(err, "list")
		return nil, err
	}
	return defs, nil
}

func (c *Controller) logCatalogFailure(cause error, operation string) {
	c.logger.Warn().Err(cause).Str("operation", operation).Msg("catalog call failed")
	c.logEvent(func(logCtx context.Context) error {
		return events.LogCatalogFailure(logCtx, c.eventRepo, operation, cause)
	})
}

// logEvent writes to the event log when one is configured. The write
// uses its own short deadline and never affects dialogue flow.
func (c *Controller) logEvent(write func(context.Context) error) {
	if c.eventRepo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := write(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("event log write failed")
	}
}
