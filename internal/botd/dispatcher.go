// Package botd provides the daemon scaffolding for the Scribe bot
// service.
package botd

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribe-bot/scribe/internal/dialog"
	"github.com/scribe-bot/scribe/internal/logging"
)

// Dispatcher errors.
var (
	ErrDispatcherAlreadyRunning = errors.New("dispatcher already running")
	ErrDispatcherNotRunning     = errors.New("dispatcher not running")
	ErrMailboxFull              = errors.New("user mailbox is full")
)

// Handler processes one dialogue event.
type Handler interface {
	Handle(ctx context.Context, event dialog.Event) []dialog.Reply
}

// DispatcherConfig contains dispatcher configuration.
type DispatcherConfig struct {
	// MailboxSize bounds the per-user event queue. Default: 16.
	MailboxSize int

	// HandleTimeout is the maximum time allowed for a single event,
	// including collaborator calls. Default: 60 seconds.
	HandleTimeout time.Duration

	// WorkerIdleTTL is how long an idle per-user worker lingers before
	// shutting down. Default: 5 minutes.
	WorkerIdleTTL time.Duration
}

// DefaultDispatcherConfig returns sensible default configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		MailboxSize:   16,
		HandleTimeout: 60 * time.Second,
		WorkerIdleTTL: 5 * time.Minute,
	}
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	defaults := DefaultDispatcherConfig()
	if c.MailboxSize <= 0 {
		c.MailboxSize = defaults.MailboxSize
	}
	if c.HandleTimeout <= 0 {
		c.HandleTimeout = defaults.HandleTimeout
	}
	if c.WorkerIdleTTL <= 0 {
		c.WorkerIdleTTL = defaults.WorkerIdleTTL
	}
	return c
}

type mailboxItem struct {
	event   dialog.Event
	deliver func([]dialog.Reply)
}

type userWorker struct {
	mailbox chan mailboxItem
}

// Dispatcher serializes dialogue events per user identity: each user
// gets one mailbox goroutine, so no two events for the same user are
// processed concurrently while distinct users proceed in parallel.
type Dispatcher struct {
	handler Handler
	config  DispatcherConfig
	logger  zerolog.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	workers map[string]*userWorker
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher for the given handler.
func NewDispatcher(handler Handler, config DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		config:  config.withDefaults(),
		logger:  logging.Component("dispatch"),
		workers: make(map[string]*userWorker),
	}
}

// Start makes the dispatcher accept events.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrDispatcherAlreadyRunning
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.running = true
	return nil
}

// Stop rejects new events and waits for in-flight workers to drain.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrDispatcherNotRunning
	}
	d.running = false
	d.cancel()
	d.mu.Unlock()

	d.wg.Wait()
	return nil
}

// ActiveWorkers reports how many per-user workers are alive.
func (d *Dispatcher) ActiveWorkers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.workers)
}

// Submit queues one event for the user's worker, creating the worker
// on first use. Returns ErrMailboxFull when the user already has a
// full queue of unprocessed events.
func (d *Dispatcher) Submit(event dialog.Event, deliver func([]dialog.Reply)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return ErrDispatcherNotRunning
	}

	w, ok := d.workers[event.UserID]
	if !ok {
		w = &userWorker{mailbox: make(chan mailboxItem, d.config.MailboxSize)}
		d.workers[event.UserID] = w
		d.wg.Add(1)
		go d.runWorker(event.UserID, w)
	}

	select {
	case w.mailbox <- mailboxItem{event: event, deliver: deliver}:
		return nil
	default:
		return ErrMailboxFull
	}
}

// runWorker drains one user's mailbox. The worker exits when the
// dispatcher stops or after sitting idle with an empty mailbox; exit
// and submit both happen under the dispatcher lock, so no queued
// event is ever orphaned.
func (d *Dispatcher) runWorker(userID string, w *userWorker) {
	defer d.wg.Done()

	idle := time.NewTimer(d.config.WorkerIdleTTL)
	defer idle.Stop()

	for {
		select {
		case item := <-w.mailbox:
			d.process(item)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(d.config.WorkerIdleTTL)
		case <-idle.C:
			d.mu.Lock()
			if len(w.mailbox) == 0 {
				delete(d.workers, userID)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			idle.Reset(d.config.WorkerIdleTTL)
		case <-d.ctx.Done():
			d.mu.Lock()
			delete(d.workers, userID)
			d.mu.Unlock()
			return
		}
	}
}

func (d *Dispatcher) process(item mailboxItem) {
	ctx, cancel := context.WithTimeout(d.ctx, d.config.HandleTimeout)
	defer cancel()

	started := time.Now()
	replies := d.handler.Handle(ctx, item.event)
	d.logger.Debug().
		Str("user_id", item.event.UserID).
		Str("kind", string(item.event.Kind)).
		Dur("duration", time.Since(started)).
		Int("replies", len(replies)).
		Msg("event handled")

	if item.deliver != nil && len(replies) > 0 {
		item.deliver(replies)
	}
}
