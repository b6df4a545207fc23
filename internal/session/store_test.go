package session

import (
	"sync"
	"testing"
	"time"

	"github.com/scribe-bot/scribe/internal/models"
)

func TestAcquireCreatesIdleSession(t *testing.T) {
	store := NewStore()

	sess, release := store.Acquire("user-1")
	defer release()

	if sess.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", sess.UserID)
	}
	if sess.State != models.SessionStateIdle {
		t.Fatalf("expected idle state, got %q", sess.State)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}
}

func TestAcquireReturnsSameSession(t *testing.T) {
	store := NewStore()

	sess, release := store.Acquire("user-1")
	sess.State = models.SessionStateAwaitingCategory
	release()

	again, release := store.Acquire("user-1")
	defer release()
	if again.State != models.SessionStateAwaitingCategory {
		t.Fatalf("expected state to persist, got %q", again.State)
	}
}

func TestResetDiscardsProgress(t *testing.T) {
	store := NewStore()

	sess, release := store.Acquire("user-1")
	sess.State = models.SessionStateAwaitingFieldValue
	sess.TemplateID = "t1"
	sess.PendingFields = []string{"b"}
	sess.Values["a"] = "1"
	release()

	store.Reset("user-1")

	sess, release = store.Acquire("user-1")
	defer release()
	if sess.State != models.SessionStateIdle {
		t.Fatalf("expected idle after reset, got %q", sess.State)
	}
	if sess.TemplateID != "" || len(sess.PendingFields) != 0 || len(sess.Values) != 0 {
		t.Fatalf("expected progress discarded, got %+v", sess)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	store := NewStore()

	a, release := store.Acquire("alice")
	a.Values["ФИО"] = "Алиса"
	release()

	b, release := store.Acquire("bob")
	if _, ok := b.Values["ФИО"]; ok {
		t.Fatal("bob's session sees alice's values")
	}
	release()

	store.Reset("bob")

	a, release = store.Acquire("alice")
	defer release()
	if a.Values["ФИО"] != "Алиса" {
		t.Fatal("resetting bob clobbered alice's session")
	}
}

func TestAcquireSerializesPerUser(t *testing.T) {
	store := NewStore()

	const workers = 8
	const rounds = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				sess, release := store.Acquire("shared")
				// Non-atomic read-modify-write; only safe if the
				// store serializes same-key access.
				n := len(sess.PendingFields)
				sess.PendingFields = append(sess.PendingFields, "f")
				if len(sess.PendingFields) != n+1 {
					t.Error("lost update on session")
				}
				release()
			}
		}()
	}
	wg.Wait()

	sess, release := store.Acquire("shared")
	defer release()
	if len(sess.PendingFields) != workers*rounds {
		t.Fatalf("expected %d appends, got %d", workers*rounds, len(sess.PendingFields))
	}
}

func TestReapIdle(t *testing.T) {
	store := NewStore()

	sess, release := store.Acquire("stale")
	sess.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	release()

	_, release = store.Acquire("fresh")
	release()

	reaped := store.ReapIdle(30 * time.Minute)
	if len(reaped) != 1 || reaped[0] != "stale" {
		t.Fatalf("expected [stale], got %v", reaped)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 remaining session, got %d", store.Len())
	}
}
