package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rl1809/axion/internal/core/domain"
)

type countingMetrics struct {
	writes, failures int
}

func (c *countingMetrics) ObserveWrite(_ time.Duration, err error) {
	c.writes++
	if err != nil {
		c.failures++
	}
}

func (c *countingMetrics) ObserveMutation(string) {}

func TestPersistQueue_WritesInOrderWithoutOverlap(t *testing.T) {
	repo := newMockProductRepo()
	repo.delay = 2 * time.Millisecond

	q := NewPersistQueue(repo, NewSyncIndicator(0), 4, time.Second, nil)
	defer q.Close()

	var expected [][]string
	list := []domain.Product{}
	for i := 0; i < 20; i++ {
		list = append([]domain.Product{{ID: strconv.Itoa(i)}}, list...)
		expected = append(expected, ids(list))
		q.Enqueue(append([]domain.Product{}, list...))
	}

	if err := q.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	saves := repo.savesSnapshot()
	if len(saves) != len(expected) {
		t.Fatalf("expected %d writes (no coalescing), got %d", len(expected), len(saves))
	}
	for i := range saves {
		if got := ids(saves[i]); len(got) != len(expected[i]) || got[0] != expected[i][0] {
			t.Errorf("write %d: expected %v, got %v", i, expected[i], got)
		}
	}

	if repo.maxInFlight != 1 {
		t.Errorf("expected writes to be serialized, saw %d in flight", repo.maxInFlight)
	}

	stored := repo.storedSnapshot()
	if stored[0].ID != "19" || len(stored) != 20 {
		t.Errorf("expected last write to reflect last mutation, got %v", ids(stored))
	}
}

func TestPersistQueue_DoneSignal(t *testing.T) {
	repo := newMockProductRepo()
	q := NewPersistQueue(repo, NewSyncIndicator(0), 1, time.Second, nil)
	defer q.Close()

	done := q.Enqueue([]domain.Product{{ID: "a"}})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write never completed")
	}

	if len(repo.savesSnapshot()) != 1 {
		t.Error("expected one write")
	}
}

func TestPersistQueue_FailuresAreCountedNotReturned(t *testing.T) {
	repo := newMockProductRepo()
	repo.saveErr = errors.New("disk full")
	metrics := &countingMetrics{}
	indicator := NewSyncIndicator(0)

	q := NewPersistQueue(repo, indicator, 1, time.Second, metrics)

	<-q.Enqueue([]domain.Product{{ID: "a"}})
	q.Close()

	if metrics.writes != 1 || metrics.failures != 1 {
		t.Errorf("expected 1 failed write, got %+v", metrics)
	}
	if indicator.Syncing() {
		t.Error("expected indicator cleared after a failed write")
	}
}

func TestPersistQueue_CloseDrainsAndRejects(t *testing.T) {
	repo := newMockProductRepo()
	repo.delay = time.Millisecond
	q := NewPersistQueue(repo, NewSyncIndicator(0), 8, time.Second, nil)

	for i := 0; i < 5; i++ {
		q.Enqueue([]domain.Product{{ID: strconv.Itoa(i)}})
	}
	q.Close()

	if n := len(repo.savesSnapshot()); n != 5 {
		t.Errorf("expected queued writes to drain, got %d", n)
	}

	// Enqueue after close is a no-op with a closed channel
	select {
	case <-q.Enqueue([]domain.Product{{ID: "late"}}):
	default:
		t.Error("expected closed done channel after Close")
	}
	if n := len(repo.savesSnapshot()); n != 5 {
		t.Errorf("expected no write after close, got %d", n)
	}

	q.Close()
}

func TestPersistQueue_FlushHonoursContext(t *testing.T) {
	repo := newMockProductRepo()
	repo.delay = 200 * time.Millisecond
	q := NewPersistQueue(repo, NewSyncIndicator(0), 1, time.Second, nil)
	defer q.Close()

	q.Enqueue([]domain.Product{{ID: "slow"}})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := q.Flush(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got: %v", err)
	}
}
