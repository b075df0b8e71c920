package convcache

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 11, 11, 0, 0, time.UTC)}
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	clock := newClock()
	c := New[int64, string](time.Minute, 0, WithClock(clock.Now))

	c.Set(1, "a")
	if v, ok := c.Get(1); !ok || v != "a" {
		t.Fatalf("Get(1) = %q, %v", v, ok)
	}

	clock.Advance(59 * time.Second)
	if _, ok := c.Get(1); !ok {
		t.Fatal("entry expired early")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get(1); ok {
		t.Fatal("entry survived its TTL")
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, expired entry not dropped on Get", c.Len())
	}
}

func TestSetRefreshesTTL(t *testing.T) {
	t.Parallel()

	clock := newClock()
	c := New[string, int](time.Minute, 0, WithClock(clock.Now))

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	if v, ok := c.Get("k"); !ok || v != 2 {
		t.Fatalf("Get(k) = %d, %v", v, ok)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	c := New[int64, []string](time.Hour, 0)
	push := func(msg string) func([]string, bool) []string {
		return func(old []string, _ bool) []string {
			return append([]string{msg}, old...)
		}
	}
	c.Update(7, push("first"))
	got := c.Update(7, push("second"))

	if diff := cmp.Diff([]string{"second", "first"}, got); diff != "" {
		t.Errorf("Update mismatch (-want +got):\n%s", diff)
	}

	var sawMissing bool
	c.Update(8, func(old []string, ok bool) []string {
		sawMissing = !ok && old == nil
		return nil
	})
	if !sawMissing {
		t.Error("Update on a new key reported a value")
	}
}

func TestCapacityEvictsSoonestExpiry(t *testing.T) {
	t.Parallel()

	clock := newClock()
	c := New[string, int](time.Minute, 2, WithClock(clock.Now))

	c.Set("old", 1)
	clock.Advance(10 * time.Second)
	c.Set("new", 2)
	clock.Advance(10 * time.Second)
	c.Set("newest", 3)

	keys := c.Keys()
	slices.Sort(keys)
	if diff := cmp.Diff([]string{"new", "newest"}, keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}

	// Overwriting an existing key never evicts.
	c.Set("new", 4)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d", c.Len())
	}
	if _, ok := c.Get("newest"); !ok {
		t.Fatal("overwrite evicted another key")
	}
}

func TestCapacityPrefersExpired(t *testing.T) {
	t.Parallel()

	clock := newClock()
	c := New[string, int](time.Minute, 2, WithClock(clock.Now))

	c.Set("a", 1)
	clock.Advance(30 * time.Second)
	c.Set("b", 2)
	clock.Advance(31 * time.Second) // a expired, b alive
	c.Set("c", 3)

	if _, ok := c.Get("b"); !ok {
		t.Fatal("live entry evicted while an expired one existed")
	}
}

func TestPruneAndKeys(t *testing.T) {
	t.Parallel()

	clock := newClock()
	c := New[int, int](time.Minute, 0, WithClock(clock.Now))
	for i := range 5 {
		c.Set(i, i)
		clock.Advance(20 * time.Second)
	}
	// Entries were written at 0,20,40,60,80s; now is 100s.
	keys := c.Keys()
	slices.Sort(keys)
	if diff := cmp.Diff([]int{3, 4}, keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}

	if n := c.Prune(clock.Now()); n != 3 {
		t.Errorf("Prune() = %d, want 3", n)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d after prune", c.Len())
	}

	c.Delete(3)
	if _, ok := c.Get(3); ok {
		t.Error("deleted key still present")
	}
}

func TestConcurrentUse(t *testing.T) {
	t.Parallel()

	c := New[int, int](time.Hour, 50)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				c.Set(g*1000+i, i)
				c.Get(i)
				c.Update(g, func(old int, _ bool) int { return old + 1 })
				c.Keys()
			}
		}()
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Fatalf("Len() = %d, exceeds capacity", c.Len())
	}
}
