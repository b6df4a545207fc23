package botd

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/scribe-bot/scribe/internal/dialog"
)

// recordingHandler tracks per-user concurrency and handled events.
type recordingHandler struct {
	mu       sync.Mutex
	inFlight map[string]int
	handled  map[string][]dialog.Event
	overlap  bool
	delay    time.Duration
}

func newRecordingHandler(delay time.Duration) *recordingHandler {
	return &recordingHandler{
		inFlight: make(map[string]int),
		handled:  make(map[string][]dialog.Event),
		delay:    delay,
	}
}

func (h *recordingHandler) Handle(ctx context.Context, event dialog.Event) []dialog.Reply {
	h.mu.Lock()
	h.inFlight[event.UserID]++
	if h.inFlight[event.UserID] > 1 {
		h.overlap = true
	}
	h.mu.Unlock()

	if h.delay > 0 {
		time.Sleep(h.delay)
	}

	h.mu.Lock()
	h.inFlight[event.UserID]--
	h.handled[event.UserID] = append(h.handled[event.UserID], event)
	h.mu.Unlock()

	return []dialog.Reply{dialog.Notice{Message: "ok"}}
}

func (h *recordingHandler) events(userID string) []dialog.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]dialog.Event(nil), h.handled[userID]...)
}

func (h *recordingHandler) sawOverlap() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.overlap
}

func startedDispatcher(t *testing.T, handler Handler, config DispatcherConfig) *Dispatcher {
	t.Helper()
	d := NewDispatcher(handler, config)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Stop(); err != nil && !errors.Is(err, ErrDispatcherNotRunning) {
			t.Errorf("Stop: %v", err)
		}
	})
	return d
}

func TestDispatcherSerializesPerUser(t *testing.T) {
	handler := newRecordingHandler(5 * time.Millisecond)
	d := startedDispatcher(t, handler, DispatcherConfig{MailboxSize: 64})

	for i := 0; i < 10; i++ {
		if err := d.Submit(dialog.Event{UserID: "user-1", Kind: dialog.EventFieldValue}, nil); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	deadline := time.After(5 * time.Second)
	for len(handler.events("user-1")) < 10 {
		select {
		case <-deadline:
			t.Fatalf("timed out, handled %d events", len(handler.events("user-1")))
		case <-time.After(10 * time.Millisecond):
		}
	}

	if handler.sawOverlap() {
		t.Fatal("events for one user overlapped")
	}
}

func TestDispatcherParallelAcrossUsers(t *testing.T) {
	handler := newRecordingHandler(50 * time.Millisecond)
	d := startedDispatcher(t, handler, DispatcherConfig{})

	started := time.Now()
	for _, user := range []string{"a", "b", "c", "d"} {
		if err := d.Submit(dialog.Event{UserID: user, Kind: dialog.EventStart}, nil); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	deadline := time.After(5 * time.Second)
	for {
		done := 0
		for _, user := range []string{"a", "b", "c", "d"} {
			done += len(handler.events(user))
		}
		if done == 4 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for events")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Four 50ms events handled in parallel should finish well before
	// the 200ms a serial run would take.
	if elapsed := time.Since(started); elapsed > 150*time.Millisecond {
		t.Fatalf("expected parallel handling, took %v", elapsed)
	}
}

func TestDispatcherDelivery(t *testing.T) {
	handler := newRecordingHandler(0)
	d := startedDispatcher(t, handler, DispatcherConfig{})

	delivered := make(chan []dialog.Reply, 1)
	err := d.Submit(dialog.Event{UserID: "user-1", Kind: dialog.EventStart}, func(replies []dialog.Reply) {
		delivered <- replies
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case replies := <-delivered:
		if len(replies) != 1 {
			t.Fatalf("expected 1 reply, got %d", len(replies))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestDispatcherMailboxFull(t *testing.T) {
	handler := newRecordingHandler(time.Second)
	d := startedDispatcher(t, handler, DispatcherConfig{MailboxSize: 1})

	// First submit may begin processing immediately; fill the mailbox
	// until the bounded queue rejects.
	var rejected bool
	for i := 0; i < 10; i++ {
		if err := d.Submit(dialog.Event{UserID: "user-1", Kind: dialog.EventFieldValue}, nil); err != nil {
			if !errors.Is(err, ErrMailboxFull) {
				t.Fatalf("unexpected error: %v", err)
			}
			rejected = true
			break
		}
	}
	if !rejected {
		t.Fatal("expected ErrMailboxFull")
	}
}

func TestDispatcherLifecycle(t *testing.T) {
	handler := newRecordingHandler(0)
	d := NewDispatcher(handler, DispatcherConfig{})

	if err := d.Submit(dialog.Event{UserID: "u"}, nil); !errors.Is(err, ErrDispatcherNotRunning) {
		t.Fatalf("expected ErrDispatcherNotRunning, got %v", err)
	}
	if err := d.Stop(); !errors.Is(err, ErrDispatcherNotRunning) {
		t.Fatalf("expected ErrDispatcherNotRunning, got %v", err)
	}

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.Start(context.Background()); !errors.Is(err, ErrDispatcherAlreadyRunning) {
		t.Fatalf("expected ErrDispatcherAlreadyRunning, got %v", err)
	}
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if d.ActiveWorkers() != 0 {
		t.Fatalf("expected no workers after stop, got %d", d.ActiveWorkers())
	}
}
