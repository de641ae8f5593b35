package worker

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stop must cancel the context the workers block on, so a BLPop in flight
// returns immediately instead of running out its 30s timeout.
func TestStop_CancelsWorkerContext(t *testing.T) {
	p := NewPool(nil, nil, 0)

	select {
	case <-p.ctx.Done():
		t.Fatal("Worker context canceled before Stop")
	default:
	}

	p.Stop()

	select {
	case <-p.ctx.Done():
	default:
		t.Error("Stop did not cancel the worker context")
	}
}

func TestStop_UnblocksIdleWorker(t *testing.T) {
	// An unreachable redis makes BLPop block in dial/retry; the worker must
	// still exit promptly once Stop cancels its context.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	p := NewPool(client, nil, 1)
	done := make(chan struct{})
	go func() {
		p.worker(0)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	p.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Worker did not exit within 2s of Stop")
	}
}
