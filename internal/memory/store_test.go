package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeBackend struct {
	data    map[string]History
	failing bool
	loads   int
	saves   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[string]History)}
}

func (f *fakeBackend) Load(_ context.Context, id string) (History, bool, error) {
	f.loads++
	if f.failing {
		return nil, false, errors.New("backend down")
	}
	h, ok := f.data[id]
	return h, ok, nil
}

func (f *fakeBackend) Save(_ context.Context, id string, h History, _ time.Duration) error {
	f.saves++
	if f.failing {
		return errors.New("backend down")
	}
	f.data[id] = h
	return nil
}

func nopLog() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func TestLocalPutThenGet(t *testing.T) {
	m := NewManager(nopLog(), nil, 8)
	ctx := context.Background()
	h := History{}.Append(RoleUser, "q").Append(RoleAssistant, "a")

	m.Put(ctx, "1", h, time.Minute)
	got := m.Get(ctx, "1")
	if len(got) != 2 || got[0].Content != "q" || got[1].Content != "a" {
		t.Fatalf("unexpected history: %+v", got)
	}
	if len(m.Get(ctx, "2")) != 0 {
		t.Fatalf("absent id should read empty")
	}
}

func TestLocalTTLExpiry(t *testing.T) {
	m := NewManager(nopLog(), nil, 8)
	ctx := context.Background()

	m.Put(ctx, "1", History{}.Append(RoleUser, "q"), 20*time.Millisecond)
	if len(m.Get(ctx, "1")) != 1 {
		t.Fatalf("entry should be readable before ttl")
	}
	time.Sleep(40 * time.Millisecond)
	if len(m.Get(ctx, "1")) != 0 {
		t.Fatalf("entry should expire as a unit after ttl")
	}
}

func TestDurableUsedWhileHealthy(t *testing.T) {
	be := newFakeBackend()
	m := NewManager(nopLog(), be, 8)
	ctx := context.Background()
	h := History{}.Append(RoleUser, "q")

	m.Put(ctx, "1", h, time.Minute)
	got := m.Get(ctx, "1")
	if len(got) != 1 {
		t.Fatalf("unexpected history: %+v", got)
	}
	if be.saves != 1 || be.loads != 1 {
		t.Fatalf("durable backend not used: saves=%d loads=%d", be.saves, be.loads)
	}
}

func TestDemotionIsOneWay(t *testing.T) {
	be := newFakeBackend()
	be.failing = true
	m := NewManager(nopLog(), be, 8)
	ctx := context.Background()
	h := History{}.Append(RoleUser, "q")

	// First Put hits the failing backend, demotes, lands in the cache.
	m.Put(ctx, "1", h, time.Minute)
	if be.saves != 1 {
		t.Fatalf("expected one save attempt, got %d", be.saves)
	}

	// Backend recovers, but the manager must stay demoted.
	be.failing = false
	if got := m.Get(ctx, "1"); len(got) != 1 {
		t.Fatalf("cached history lost after demotion: %+v", got)
	}
	m.Put(ctx, "2", h, time.Minute)
	if got := m.Get(ctx, "2"); len(got) != 1 {
		t.Fatalf("post-demotion write not readable: %+v", got)
	}
	if be.loads != 0 || be.saves != 1 {
		t.Fatalf("durable store contacted after demotion: loads=%d saves=%d", be.loads, be.saves)
	}
}

func TestDemotionOnFailingGet(t *testing.T) {
	be := newFakeBackend()
	be.failing = true
	m := NewManager(nopLog(), be, 8)
	ctx := context.Background()

	if got := m.Get(ctx, "1"); len(got) != 0 {
		t.Fatalf("failing durable get should read empty, got %+v", got)
	}
	be.failing = false
	m.Put(ctx, "1", History{}.Append(RoleUser, "q"), time.Minute)
	if be.saves != 0 {
		t.Fatalf("durable store contacted after demotion")
	}
	if len(m.Get(ctx, "1")) != 1 {
		t.Fatalf("cache write after demotion not readable")
	}
}
