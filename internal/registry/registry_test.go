package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// Compile-time interface check.
var _ Conn = (*recordingConn)(nil)

// recordingConn captures what was sent or injected through it.
type recordingConn struct {
	mu       sync.Mutex
	sent     []string
	injected []string
	fail     error
}

func (c *recordingConn) Send(payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.sent = append(c.sent, payload)
	return nil
}

func (c *recordingConn) Receive(payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.injected = append(c.injected, payload)
	return nil
}

func TestSetOverwrites(t *testing.T) {
	r := New()
	c1 := &recordingConn{}
	c2 := &recordingConn{}

	r.Set("worker", c1)
	r.Set("worker", c2)

	got, ok := r.Current("worker")
	if !ok {
		t.Fatal("no current connection after Set")
	}
	if got != Conn(c2) {
		t.Error("Current returned the overwritten connection")
	}
}

func TestIdentitiesAreIsolated(t *testing.T) {
	r := New()
	c1 := &recordingConn{}

	r.Set("a", c1)

	if _, ok := r.Current("b"); ok {
		t.Error("identity b observes a's mapping")
	}
	if err := r.Send("b", "say hi"); !errors.Is(err, ErrNoConn) {
		t.Errorf("Send for unmapped identity: got %v, want ErrNoConn", err)
	}
	if err := r.Receive("b", "say hi"); !errors.Is(err, ErrNoConn) {
		t.Errorf("Receive for unmapped identity: got %v, want ErrNoConn", err)
	}
}

func TestUnset(t *testing.T) {
	r := New()
	r.Set("worker", &recordingConn{})

	if err := r.Unset("worker"); err != nil {
		t.Fatalf("Unset: %v", err)
	}
	if _, ok := r.Current("worker"); ok {
		t.Error("mapping survived Unset")
	}
	if err := r.Unset("worker"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second Unset: got %v, want ErrNotRegistered", err)
	}
}

func TestSendReceiveDelegate(t *testing.T) {
	r := New()
	c := &recordingConn{}
	r.Set("worker", c)

	if err := r.Send("worker", "say hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := r.Receive("worker", "mv 1 2"); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	if len(c.sent) != 1 || c.sent[0] != "say hello" {
		t.Errorf("sent = %q", c.sent)
	}
	if len(c.injected) != 1 || c.injected[0] != "mv 1 2" {
		t.Errorf("injected = %q", c.injected)
	}

	// Connection failures pass through untouched.
	c.fail = errors.New("broken pipe")
	if err := r.Send("worker", "x"); !errors.Is(err, c.fail) {
		t.Errorf("Send error = %v, want passthrough", err)
	}
}

func TestWithReleasesOnError(t *testing.T) {
	r := New()
	c := &recordingConn{}

	boom := errors.New("boom")
	err := r.With("worker", c, func() error {
		if _, ok := r.Current("worker"); !ok {
			t.Error("mapping absent inside With")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("With: got %v, want fn's error", err)
	}
	if _, ok := r.Current("worker"); ok {
		t.Error("mapping survived a failed With")
	}
}

func TestWithReleasesOnPanic(t *testing.T) {
	r := New()

	func() {
		defer func() { _ = recover() }()
		_ = r.With("worker", &recordingConn{}, func() error {
			panic("handler blew up")
		})
	}()

	if _, ok := r.Current("worker"); ok {
		t.Error("mapping survived a panicking With")
	}
}

func TestDefaultHelpers(t *testing.T) {
	c := &recordingConn{}

	err := With("helper-test", c, func() error {
		if err := Send("helper-test", "say hi"); err != nil {
			return err
		}
		return Receive("helper-test", "cond 1 2 3")
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if _, ok := Current("helper-test"); ok {
		t.Error("default registry mapping survived With")
	}
	if len(c.sent) != 1 || len(c.injected) != 1 {
		t.Errorf("sent=%q injected=%q", c.sent, c.injected)
	}
}

// TestConcurrentAccess hammers one registry from many goroutines; run with
// -race to verify the locking.
func TestConcurrentAccess(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("worker-%d", i)
			c := &recordingConn{}
			for j := 0; j < 100; j++ {
				r.Set(id, c)
				if err := r.Send(id, "say hi"); err != nil {
					t.Errorf("%s: Send: %v", id, err)
					return
				}
				if _, ok := r.Current(id); !ok {
					t.Errorf("%s: mapping lost", id)
					return
				}
				if err := r.Unset(id); err != nil {
					t.Errorf("%s: Unset: %v", id, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
