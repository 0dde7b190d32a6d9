package remote

import (
	"context"
	"time"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/logger"
)

// LoggingStore records every call with its latency and outcome.
type LoggingStore struct {
	inner Store
	log   *logger.Logger
}

// WithLogging wraps a Store with structured call logging.
func WithLogging(s Store, log *logger.Logger) Store {
	return &LoggingStore{inner: s, log: log.With("component", "remote_progress")}
}

func (l *LoggingStore) SetLessonFlag(ctx context.Context, key catalog.SlotKey) error {
	start := time.Now()
	err := l.inner.SetLessonFlag(ctx, key)
	fields := []interface{}{"slot_key", key.String(), "latency_ms", time.Since(start).Milliseconds()}
	if err != nil {
		l.log.Warn("set lesson flag failed", append(fields, "error", err)...)
		return err
	}
	l.log.Debug("set lesson flag", fields...)
	return nil
}

func (l *LoggingStore) ProgressSnapshot(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	snap, err := l.inner.ProgressSnapshot(ctx)
	fields := []interface{}{"latency_ms", time.Since(start).Milliseconds()}
	if err != nil {
		l.log.Warn("progress snapshot failed", append(fields, "error", err)...)
		return nil, err
	}
	l.log.Debug("progress snapshot", append(fields, "flags", len(snap))...)
	return snap, nil
}

// New builds the decorated client used by the application:
// logging(retry(ratelimit(http))).
func New(cfg Config, tokens TokenSource, log *logger.Logger) Store {
	var s Store = NewClient(cfg, tokens)
	s = WithRateLimit(s, cfg.WritesPerSecond, cfg.WriteBurst)
	s = WithRetry(s, cfg.Retry)
	return WithLogging(s, log)
}
