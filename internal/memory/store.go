package memory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Store keeps per-conversation transcripts. Get never fails outward:
// absent, expired and undecodable entries all read as an empty history.
type Store interface {
	Get(ctx context.Context, id string) History
	Put(ctx context.Context, id string, h History, ttl time.Duration)
}

// Backend is a durable remote store for histories.
type Backend interface {
	Load(ctx context.Context, id string) (History, bool, error)
	Save(ctx context.Context, id string, h History, ttl time.Duration) error
}

// Manager prefers the durable backend and demotes itself to the local
// cache on the first operational failure. Demotion is one-way: once
// demoted the durable store is never tried again for the process
// lifetime, even if it recovers.
type Manager struct {
	durable Backend // nil when no durable store is configured
	cache   *localCache
	demoted atomic.Bool
	log     *zap.SugaredLogger
}

func NewManager(log *zap.SugaredLogger, durable Backend, cacheSize int) *Manager {
	m := &Manager{durable: durable, cache: newLocalCache(cacheSize), log: log}
	if durable == nil {
		m.demoted.Store(true)
	}
	return m
}

func (m *Manager) Get(ctx context.Context, id string) History {
	if !m.demoted.Load() {
		h, ok, err := m.durable.Load(ctx, id)
		if err == nil {
			if !ok {
				return nil
			}
			return h
		}
		m.demote(err)
	}
	return m.cache.get(id, time.Now())
}

func (m *Manager) Put(ctx context.Context, id string, h History, ttl time.Duration) {
	if !m.demoted.Load() {
		err := m.durable.Save(ctx, id, h, ttl)
		if err == nil {
			return
		}
		m.demote(err)
	}
	m.cache.put(id, h, ttl, time.Now())
}

func (m *Manager) demote(err error) {
	if m.demoted.CompareAndSwap(false, true) {
		m.log.Warnw("durable memory store failed, demoting to local cache for process lifetime", "err", err)
	}
}

// StartSweep schedules periodic eviction of expired local cache entries.
// The caller owns the returned cron and stops it on shutdown.
func (m *Manager) StartSweep() *cron.Cron {
	c := cron.New()
	_, _ = c.AddFunc("@every 1m", func() {
		if n := m.cache.sweep(time.Now()); n > 0 {
			m.log.Debugw("memory sweep", "evicted", n)
		}
	})
	c.Start()
	return c
}
