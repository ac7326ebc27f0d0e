package embedding

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// State describes where a LazyEmbedder is in its lifecycle.
type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LazyEmbedder defers construction of an Embedder until the first Embed,
// EmbedBatch, or Warm call. Loading a model can take seconds, so the load
// happens at most once while it keeps succeeding; concurrent first calls
// block behind a single load rather than each constructing the resource.
//
// A failed load does not wedge the process: the next call after the current
// backoff window retries the load, with the window doubling per failure up to
// maxBackoff. Calls inside the window fail fast with the last load error.
type LazyEmbedder struct {
	factory    func() (Embedder, error)
	modelID    string
	dimensions int
	logger     *zap.Logger

	initialBackoff time.Duration
	maxBackoff     time.Duration

	state atomic.Int32

	mu        sync.Mutex
	emb       Embedder
	lastErr   error
	backoff   time.Duration
	nextRetry time.Time
	loadTime  time.Duration
}

// NewLazyEmbedder wraps factory in a lazily initialized embedder. modelID and
// dimensions are reported until the underlying embedder exists and takes over.
func NewLazyEmbedder(factory func() (Embedder, error), modelID string, dimensions int, initialBackoff, maxBackoff time.Duration, logger *zap.Logger) *LazyEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if initialBackoff <= 0 {
		initialBackoff = 5 * time.Second
	}
	if maxBackoff < initialBackoff {
		maxBackoff = initialBackoff
	}
	return &LazyEmbedder{
		factory:        factory,
		modelID:        modelID,
		dimensions:     dimensions,
		logger:         logger,
		initialBackoff: initialBackoff,
		maxBackoff:     maxBackoff,
	}
}

// ensure returns the underlying embedder, loading it if necessary.
// The mutex is held for the whole load so concurrent first calls serialize.
func (l *LazyEmbedder) ensure(ctx context.Context) (Embedder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.emb != nil {
		return l.emb, nil
	}

	if State(l.state.Load()) == StateFailed && time.Now().Before(l.nextRetry) {
		return nil, fmt.Errorf("embedder unavailable (retry in %s): %w",
			time.Until(l.nextRetry).Round(time.Millisecond), l.lastErr)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.state.Store(int32(StateLoading))
	l.logger.Info("loading embedding model", zap.String("model", l.modelID))
	start := time.Now()

	emb, err := l.factory()
	if err != nil {
		if l.backoff == 0 {
			l.backoff = l.initialBackoff
		} else if l.backoff < l.maxBackoff {
			l.backoff *= 2
			if l.backoff > l.maxBackoff {
				l.backoff = l.maxBackoff
			}
		}
		l.lastErr = err
		l.nextRetry = time.Now().Add(l.backoff)
		l.state.Store(int32(StateFailed))
		l.logger.Error("embedding model load failed",
			zap.String("model", l.modelID),
			zap.Duration("next_retry_in", l.backoff),
			zap.Error(err))
		return nil, err
	}

	l.emb = emb
	l.loadTime = time.Since(start)
	l.backoff = 0
	l.lastErr = nil
	l.state.Store(int32(StateReady))
	l.logger.Info("embedding model loaded",
		zap.String("model", emb.ModelID()),
		zap.Int("dimensions", emb.Dimensions()),
		zap.Duration("load_time", l.loadTime))
	return emb, nil
}

// Warm forces initialization without embedding anything. Used by the health
// check and by eager startup.
func (l *LazyEmbedder) Warm(ctx context.Context) error {
	_, err := l.ensure(ctx)
	return err
}

// Embed embeds a single text, loading the model first if needed.
func (l *LazyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	emb, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return emb.Embed(ctx, text)
}

// EmbedBatch embeds texts in order, loading the model first if needed.
func (l *LazyEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	emb, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return emb.EmbedBatch(ctx, texts)
}

// Dimensions returns the loaded embedder's dimensionality, or the configured
// value before the model is loaded.
func (l *LazyEmbedder) Dimensions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.emb != nil {
		return l.emb.Dimensions()
	}
	return l.dimensions
}

// ModelID returns the model identifier.
func (l *LazyEmbedder) ModelID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.emb != nil {
		return l.emb.ModelID()
	}
	return l.modelID
}

// State returns the current lifecycle state. Safe to call while a load is in
// progress.
func (l *LazyEmbedder) State() State {
	return State(l.state.Load())
}

// LoadDuration returns how long the successful load took, or zero.
func (l *LazyEmbedder) LoadDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadTime
}

// Close closes the underlying embedder if it was loaded.
func (l *LazyEmbedder) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.emb == nil {
		return nil
	}
	err := l.emb.Close()
	l.emb = nil
	l.state.Store(int32(StateUninitialized))
	return err
}
