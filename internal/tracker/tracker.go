package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmercer/grantscout/internal/models"
)

// Tracker holds the application funnel for one server session: the latest
// attempt per grant plus per-user queues of success messages. A retry
// replaces the earlier attempt in place; a first attempt goes to the front
// of the list.
type Tracker struct {
	mu       sync.RWMutex
	apps     []models.Application
	messages map[uuid.UUID][]string
}

func New() *Tracker {
	return &Tracker{
		messages: make(map[uuid.UUID][]string),
	}
}

// Upsert records an attempt. If the grant already has an entry it is
// replaced in place, keeping its position; otherwise the attempt is
// prepended so the newest grant shows first.
func (t *Tracker) Upsert(app models.Application) {
	if app.Timestamp.IsZero() {
		app.Timestamp = time.Now().UTC()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.apps {
		if t.apps[i].GrantID == app.GrantID {
			t.apps[i] = app
			return
		}
	}
	t.apps = append([]models.Application{app}, t.apps...)
}

// Get returns the latest attempt for a grant.
func (t *Tracker) Get(grantID int64) (models.Application, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, a := range t.apps {
		if a.GrantID == grantID {
			return a, true
		}
	}
	return models.Application{}, false
}

// List returns all applications, newest grant first.
func (t *Tracker) List() []models.Application {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Application, len(t.apps))
	copy(out, t.apps)
	return out
}

// HasSucceeded reports whether a grant has an application that did not fail.
// Used to hide already-applied grants from the match list.
func (t *Tracker) HasSucceeded(grantID int64) bool {
	app, ok := t.Get(grantID)
	return ok && app.Status.Succeeded()
}

// PushMessage queues a success notification for one user.
func (t *Tracker) PushMessage(userID uuid.UUID, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages[userID] = append(t.messages[userID], msg)
}

// DrainMessages returns and clears the user's queued notifications.
func (t *Tracker) DrainMessages(userID uuid.UUID) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.messages[userID]
	delete(t.messages, userID)
	return out
}
