package tracker

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/nmercer/grantscout/internal/models"
)

func TestUpsertPrependsNewGrants(t *testing.T) {
	tr := New()
	tr.Upsert(models.Application{GrantID: 1, GrantTitle: "First", Status: models.StatusStarted})
	tr.Upsert(models.Application{GrantID: 2, GrantTitle: "Second", Status: models.StatusStarted})
	tr.Upsert(models.Application{GrantID: 3, GrantTitle: "Third", Status: models.StatusStarted})

	got := tr.List()
	want := []int64{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %d applications, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].GrantID != id {
			t.Errorf("List()[%d].GrantID = %d, want %d", i, got[i].GrantID, id)
		}
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	tr := New()
	tr.Upsert(models.Application{GrantID: 1, Status: models.StatusFailed})
	tr.Upsert(models.Application{GrantID: 2, Status: models.StatusStarted})

	// Retry grant 1: replaces the old attempt but keeps its position.
	tr.Upsert(models.Application{GrantID: 1, Status: models.StatusSubmitted})

	got := tr.List()
	if len(got) != 2 {
		t.Fatalf("got %d applications, want 2", len(got))
	}
	if got[0].GrantID != 2 {
		t.Errorf("List()[0].GrantID = %d, want 2", got[0].GrantID)
	}
	if got[1].GrantID != 1 || got[1].Status != models.StatusSubmitted {
		t.Errorf("List()[1] = {%d %s}, want {1 %s}", got[1].GrantID, got[1].Status, models.StatusSubmitted)
	}
}

func TestHasSucceeded(t *testing.T) {
	tr := New()
	tr.Upsert(models.Application{GrantID: 1, Status: models.StatusSubmitted})
	tr.Upsert(models.Application{GrantID: 2, Status: models.StatusFailed})

	if !tr.HasSucceeded(1) {
		t.Error("grant 1 submitted, HasSucceeded = false")
	}
	if tr.HasSucceeded(2) {
		t.Error("grant 2 failed, HasSucceeded = true")
	}
	if tr.HasSucceeded(99) {
		t.Error("unknown grant, HasSucceeded = true")
	}
}

func TestMessagesPerUser(t *testing.T) {
	tr := New()
	alice := uuid.New()
	bob := uuid.New()

	tr.PushMessage(alice, "Application submitted for Museum Assistance Program")
	tr.PushMessage(alice, "Application submitted for Young Canada Works")
	tr.PushMessage(bob, "Application submitted for Community Heritage Investment Program")

	got := tr.DrainMessages(alice)
	if len(got) != 2 {
		t.Fatalf("got %d messages for first user, want 2", len(got))
	}
	if rest := tr.DrainMessages(alice); len(rest) != 0 {
		t.Errorf("second drain returned %d messages, want 0", len(rest))
	}

	// One user's drain never touches another's queue.
	if got := tr.DrainMessages(bob); len(got) != 1 {
		t.Errorf("got %d messages for second user, want 1", len(got))
	}
}

func TestCoinFlipSimulatorConcurrent(t *testing.T) {
	sim := NewCoinFlipSimulator(1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				status := sim.SimulateOutcome(models.Application{})
				if status != models.StatusSubmitted && status != models.StatusFailed {
					t.Errorf("unexpected status %q", status)
				}
			}
		}()
	}
	wg.Wait()
}

func TestCoinFlipSimulatorDistribution(t *testing.T) {
	sim := NewCoinFlipSimulator(42)
	submitted := 0
	const n = 1000
	for i := 0; i < n; i++ {
		if sim.SimulateOutcome(models.Application{}) == models.StatusSubmitted {
			submitted++
		}
	}
	// 70% success rate with generous slack for the fixed seed.
	if submitted < 600 || submitted > 800 {
		t.Errorf("submitted %d of %d, want roughly 700", submitted, n)
	}
}
