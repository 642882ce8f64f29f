package snapshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/SweetsNSavories/timeline/internal/record"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testSnapshot(n int) *Snapshot {
	records := make([]record.Record, n)
	for i := range records {
		records[i] = record.Record{ID: string(rune('a' + i))}
	}
	return &Snapshot{Records: records, FetchedAt: time.Now()}
}

func TestCache_GetSet(t *testing.T) {
	c := NewCache()

	if _, ok := c.Get(); ok {
		t.Error("empty cache reported a snapshot")
	}

	snap := testSnapshot(2)
	c.Set(snap)

	got, ok := c.Get()
	if !ok {
		t.Fatal("cache empty after Set")
	}
	if got != snap {
		t.Error("Get returned a different snapshot")
	}

	// Wholesale replacement
	next := testSnapshot(3)
	c.Set(next)
	got, _ = c.Get()
	if got != next {
		t.Error("Set did not replace the snapshot")
	}
}

func TestCache_LoadPopulatesOnce(t *testing.T) {
	c := NewCache()
	var calls atomic.Int32

	populate := func(ctx context.Context) (*Snapshot, error) {
		calls.Add(1)
		return testSnapshot(1), nil
	}

	for i := 0; i < 5; i++ {
		if _, err := c.Load(context.Background(), populate); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("populate called %d times, want 1", got)
	}
}

func TestCache_LoadCoalescesConcurrentCallers(t *testing.T) {
	c := NewCache()
	var calls atomic.Int32
	release := make(chan struct{})

	populate := func(ctx context.Context) (*Snapshot, error) {
		calls.Add(1)
		<-release // hold the fetch open so callers pile up
		return testSnapshot(4), nil
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*Snapshot, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.Load(context.Background(), populate)
			if err != nil {
				t.Errorf("Load failed: %v", err)
				return
			}
			results[i] = s
		}(i)
	}

	// Give the goroutines time to queue behind the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("populate called %d times for %d concurrent callers, want 1", got, callers)
	}
	for i, s := range results {
		if s != results[0] {
			t.Errorf("caller %d got a different snapshot", i)
		}
	}
}

func TestCache_LoadError(t *testing.T) {
	c := NewCache()
	boom := errors.New("boom")
	var calls atomic.Int32

	populate := func(ctx context.Context) (*Snapshot, error) {
		calls.Add(1)
		return nil, boom
	}

	if _, err := c.Load(context.Background(), populate); !errors.Is(err, boom) {
		t.Fatalf("Load error = %v, want boom", err)
	}

	// An error does not install a snapshot; the next Load may retry.
	if _, ok := c.Get(); ok {
		t.Error("failed populate installed a snapshot")
	}
	if _, err := c.Load(context.Background(), populate); !errors.Is(err, boom) {
		t.Fatalf("second Load error = %v, want boom", err)
	}
	if calls.Load() != 2 {
		t.Errorf("populate called %d times, want 2", calls.Load())
	}
}

func TestCache_LoadPrefersExistingSnapshot(t *testing.T) {
	c := NewCache()
	snap := testSnapshot(2)
	c.Set(snap)

	got, err := c.Load(context.Background(), func(ctx context.Context) (*Snapshot, error) {
		t.Error("populate called despite existing snapshot")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != snap {
		t.Error("Load returned a different snapshot")
	}
}
