package cronrunner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunnerRunsJobWithBaseContext(t *testing.T) {
	type key struct{}
	base := context.WithValue(context.Background(), key{}, "base")
	r := New(zap.NewNop(), base)

	var runs int32
	seen := make(chan any, 1)
	if _, err := r.Add("tick", "@every 1s", func(ctx context.Context) {
		if atomic.AddInt32(&runs, 1) == 1 {
			seen <- ctx.Value(key{})
		}
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	r.Start()
	defer r.Stop()

	select {
	case v := <-seen:
		if v != "base" {
			t.Fatalf("expected base context, got %v", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestRunnerRejectsBadSpec(t *testing.T) {
	r := New(nil, nil)
	if _, err := r.Add("bad", "not a spec", func(context.Context) {}); err == nil {
		t.Fatal("expected parse error")
	}
	if r.Len() != 0 {
		t.Fatalf("expected no entries, got %d", r.Len())
	}
}

func TestRunnerAcceptsFiveAndSixFieldSpecs(t *testing.T) {
	r := New(nil, nil)
	for _, spec := range []string{"*/5 * * * *", "0 */30 * * * *", "@hourly"} {
		if _, err := r.Add(spec, spec, func(context.Context) {}); err != nil {
			t.Fatalf("spec %q: %v", spec, err)
		}
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", r.Len())
	}
}

func TestRunnerSkipsAfterBaseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(nil, ctx)
	var runs int32
	if _, err := r.Add("tick", "@every 1s", func(context.Context) { atomic.AddInt32(&runs, 1) }); err != nil {
		t.Fatalf("add: %v", err)
	}
	cancel()
	r.Start()
	time.Sleep(1500 * time.Millisecond)
	r.Stop()
	if n := atomic.LoadInt32(&runs); n != 0 {
		t.Fatalf("expected no runs after cancel, got %d", n)
	}
}
