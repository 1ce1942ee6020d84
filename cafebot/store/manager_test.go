package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/netcafe-dev/cafebot/cafebot/game"
)

func TestUpdatePersistsMutation(t *testing.T) {
	m := NewManager(newTestStore(t))
	ctx := context.Background()

	got, err := m.Update(ctx, "1001", func(rec *game.Record) error {
		rec.Cash += 60
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Cash != 100 {
		t.Errorf("returned cash = %d, want 100", got.Cash)
	}

	view, _ := m.View(ctx, "1001")
	if view.Cash != 100 {
		t.Errorf("stored cash = %d, want 100", view.Cash)
	}
}

func TestUpdateErrorDiscardsMutation(t *testing.T) {
	m := NewManager(newTestStore(t))
	ctx := context.Background()

	boom := errors.New("nope")
	_, err := m.Update(ctx, "1001", func(rec *game.Record) error {
		rec.Cash = 999999
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	view, _ := m.View(ctx, "1001")
	if view.Cash != 40 {
		t.Errorf("stored cash = %d, want untouched baseline 40", view.Cash)
	}
}

func TestViewReturnsACopy(t *testing.T) {
	m := NewManager(newTestStore(t))
	ctx := context.Background()

	view, _ := m.View(ctx, "1001")
	view.Cash = 123456
	view.Shop["gaming_rig"] = 9

	again, _ := m.View(ctx, "1001")
	if again.Cash != 40 || again.Shop["gaming_rig"] != 0 {
		t.Errorf("mutating a view leaked into the store: %+v", again)
	}
}

// Concurrent increments through Update must not lose writes; this is the
// lost-update hazard between the tick path and the command path.
func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	m := NewManager(newTestStore(t))
	ctx := context.Background()

	const workers = 16
	const perWorker = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := m.Update(ctx, "1001", func(rec *game.Record) error {
					rec.Cash++
					return nil
				})
				if err != nil {
					t.Errorf("Update: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	view, _ := m.View(ctx, "1001")
	if got, want := view.Cash, int64(40+workers*perWorker); got != want {
		t.Errorf("cash = %d, want %d (lost updates)", got, want)
	}
}

func TestIDsAndSnapshot(t *testing.T) {
	m := NewManager(newTestStore(t))
	ctx := context.Background()

	m.View(ctx, "a")
	m.View(ctx, "b")

	ids, err := m.IDs(ctx)
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v, want two entries", ids)
	}

	snap, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	snap["a"].Cash = 1
	again, _ := m.View(ctx, "a")
	if again.Cash != 40 {
		t.Errorf("snapshot is not a deep copy")
	}
}
