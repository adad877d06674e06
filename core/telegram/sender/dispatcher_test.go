package sender

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		if err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
			ran.Add(1)
			return nil
		}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	d.Close()
	if got := ran.Load(); got != 5 {
		t.Errorf("expected 5 jobs to run, got %d", got)
	}
}

func TestDispatcherClosedQueue(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	d.Close()
	err := d.Enqueue(context.Background(), "send.text", "", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	block := make(chan struct{})
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	defer func() {
		close(block)
		d.Close()
	}()

	// First job occupies the worker, second fills the queue.
	_ = d.Enqueue(context.Background(), "a", "", func() error { <-block; return nil })
	// Give the worker a moment to pick up the first job.
	time.Sleep(10 * time.Millisecond)
	_ = d.Enqueue(context.Background(), "b", "", func() error { return nil })

	err := d.Enqueue(context.Background(), "c", "", func() error { return nil })
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcherEnqueueDuringClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, QueueSize: 4})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				err := d.Enqueue(context.Background(), "send.text", "", func() error { return nil })
				if errors.Is(err, ErrQueueClosed) {
					return
				}
			}
		}()
	}

	// Closing while producers are mid-enqueue must not panic; after Close
	// every enqueue reports a closed queue.
	d.Close()
	wg.Wait()

	if err := d.Enqueue(context.Background(), "send.text", "", func() error { return nil }); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed after close, got %v", err)
	}
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	if err := d.Enqueue(context.Background(), "send.text", "", func() error {
		return errors.New("forbidden: bot can't initiate conversation with a user")
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d.Close()
	if got := d.ErrorCount(); got != 1 {
		t.Errorf("expected error count 1, got %d", got)
	}
}

func TestDispatcherNilRun(t *testing.T) {
	d := NewDispatcher(Options{})
	defer d.Close()
	if err := d.Enqueue(context.Background(), "x", "", nil); err == nil {
		t.Error("expected error for nil run function")
	}
}

func TestRedactToken(t *testing.T) {
	err := fmt.Errorf("telegram: Post \"https://api.telegram.org/bot12345:AAexample_tokn/sendMessage\": timeout")
	got := RedactToken(err)
	if got != "telegram: Post \"https://api.telegram.org/bot<redacted>/sendMessage\": timeout" {
		t.Errorf("token not redacted: %s", got)
	}
	if RedactToken(nil) != "" {
		t.Error("nil error should redact to empty string")
	}
}
