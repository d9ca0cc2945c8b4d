package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/spacedrep"
)

// LoggingSink is a decorator that logs every batch of stored results.
type LoggingSink struct {
	inner  PersistenceSink
	logger *slog.Logger
}

// WithLogging wraps a PersistenceSink with structured logging.
func WithLogging(sink PersistenceSink, logger *slog.Logger) PersistenceSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingSink{inner: sink, logger: logger.With("component", "sink")}
}

func (l *LoggingSink) SaveResults(ctx context.Context, userID, sessionID string, results []grading.ItemResult) ([]spacedrep.Move, error) {
	start := time.Now()
	moves, err := l.inner.SaveResults(ctx, userID, sessionID, results)

	attrs := []any{
		"user", userID,
		"session", sessionID,
		"results", len(results),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		l.logger.Error("save results failed", append(attrs, "error", err)...)
		return moves, err
	}

	promoted, demoted := 0, 0
	for _, mv := range moves {
		switch {
		case mv.To > mv.From:
			promoted++
		case mv.To < mv.From:
			demoted++
		}
	}
	l.logger.Info("results saved", append(attrs, "boxes_up", promoted, "boxes_down", demoted)...)
	return moves, nil
}
