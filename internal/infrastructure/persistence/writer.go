package persistence

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"coown-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 5 * time.Second

// WriterStats counts what happened to submitted snapshots.
type WriterStats struct {
	Saved      uint64 `json:"saved"`
	Failed     uint64 `json:"failed"`
	Superseded uint64 `json:"superseded"`
	// LastError is the error of the most recent save, empty after a success.
	LastError  string `json:"last_error,omitempty"`
}

// Writer saves submitted snapshots in the background. It holds at most one
// pending snapshot; a newer submission replaces an unsaved older one. Each
// snapshot is saved at most once and failures are logged, never retried.
type Writer struct {
	adapter Adapter
	timeout time.Duration
	pending chan queued

	// mu keeps a save and a reset from interleaving.
	mu sync.Mutex
	// gen is bumped by Reset; snapshots queued under an older gen are dropped.
	gen atomic.Uint64

	saved      atomic.Uint64
	failed     atomic.Uint64
	superseded atomic.Uint64
	lastErr    atomic.Value
}

type queued struct {
	gen  uint64
	snap domain.Snapshot
}

func NewWriter(adapter Adapter, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Writer{
		adapter: adapter,
		timeout: timeout,
		pending: make(chan queued, 1),
	}
}

// Adapter returns the backend the writer saves to.
func (w *Writer) Adapter() Adapter {
	return w.adapter
}

// Submit queues snap for saving without blocking.
func (w *Writer) Submit(snap domain.Snapshot) {
	q := queued{gen: w.gen.Load(), snap: snap}
	for {
		select {
		case w.pending <- q:
			return
		default:
		}
		select {
		case <-w.pending:
			w.superseded.Add(1)
		default:
		}
	}
}

// Run saves pending snapshots until ctx is done, then flushes the last one.
func (w *Writer) Run(ctx context.Context) error {
	log.Info().Str("backend", w.adapter.Name()).Msg("persistence writer started")
	for {
		select {
		case <-ctx.Done():
			w.Flush()
			log.Info().Str("backend", w.adapter.Name()).Msg("persistence writer stopped")
			return nil
		case q := <-w.pending:
			w.save(q)
		}
	}
}

// Flush saves the pending snapshot, if any, on the calling goroutine.
func (w *Writer) Flush() {
	select {
	case q := <-w.pending:
		w.save(q)
	default:
	}
}

func (w *Writer) save(q queued) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if q.gen != w.gen.Load() {
		w.superseded.Add(1)
		return
	}
	snap := q.snap

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.adapter.Save(ctx, snap); err != nil {
		w.failed.Add(1)
		w.lastErr.Store(err.Error())
		log.Warn().Err(err).Str("backend", w.adapter.Name()).Msg("snapshot save failed")
		return
	}
	w.saved.Add(1)
	w.lastErr.Store("")
	log.Debug().
		Str("backend", w.adapter.Name()).
		Int("events", len(snap.DemandEvents)).
		Int64("ms", time.Since(start).Milliseconds()).
		Msg("snapshot saved")
}

// Reset drops any pending snapshot and clears the backend. A snapshot
// submitted before Reset is never saved after it, even when a save loop has
// already dequeued it.
func (w *Writer) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen.Add(1)
	select {
	case <-w.pending:
		w.superseded.Add(1)
	default:
	}
	return w.adapter.Reset(ctx)
}

func (w *Writer) Stats() WriterStats {
	s := WriterStats{
		Saved:      w.saved.Load(),
		Failed:     w.failed.Load(),
		Superseded: w.superseded.Load(),
	}
	if v, ok := w.lastErr.Load().(string); ok {
		s.LastError = v
	}
	return s
}
