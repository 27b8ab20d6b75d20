package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/undock/pkg/dock"
)

// Autosaver handles debounced layout saves.
type Autosaver struct {
	store    *Store
	name     string
	interval time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	dirty  bool
	latest dock.LayoutSnapshot
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAutosaver creates an autosaver that writes to st under name.
func NewAutosaver(st *Store, name string, intervalMs int, log zerolog.Logger) *Autosaver {
	if intervalMs <= 0 {
		intervalMs = 2000
	}
	return &Autosaver{
		store:    st,
		name:     name,
		interval: time.Duration(intervalMs) * time.Millisecond,
		log:      log,
	}
}

// Start begins accepting dirty marks.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ctx, a.cancel = context.WithCancel(ctx)
	a.log.Debug().Dur("interval", a.interval).Str("layout", a.name).Msg("autosave started")
}

// Stop stops the autosaver and saves final state.
func (a *Autosaver) Stop(ctx context.Context) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	// Final save on shutdown
	return a.SaveNow(ctx)
}

// MarkDirty signals that the layout changed, handing over the snapshot
// to save. Debounces writes; the latest snapshot wins.
func (a *Autosaver) MarkDirty(snap dock.LayoutSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.dirty = true
	a.latest = snap

	// Reset or create timer
	if a.timer != nil {
		a.timer.Stop()
	}

	a.timer = time.AfterFunc(a.interval, func() {
		a.mu.Lock()
		ctx := a.ctx
		a.mu.Unlock()

		if ctx == nil {
			return
		}

		if err := a.save(ctx); err != nil {
			a.log.Error().Err(err).Str("layout", a.name).Msg("failed to autosave layout")
		}
	})
}

// SaveNow forces an immediate save of any pending snapshot.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	dirty := a.dirty
	a.mu.Unlock()

	if !dirty {
		return nil
	}

	return a.save(ctx)
}

func (a *Autosaver) save(ctx context.Context) error {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return nil
	}
	a.dirty = false
	snap := a.latest
	a.mu.Unlock()

	return a.store.Save(ctx, a.name, snap)
}
