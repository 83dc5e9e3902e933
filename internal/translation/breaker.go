package translation

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	breakerTrips   = 3
	breakerTimeout = 30 * time.Second
)

type breakerTranslator struct {
	next Translator
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps a translator in a circuit breaker that opens after a
// few consecutive failures. While open, Translate fails immediately with
// gobreaker.ErrOpenState.
func WithBreaker(name string, next Translator, logger *zap.Logger) Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Translation circuit breaker changed state",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &breakerTranslator{next: next, cb: cb}
}

func (b *breakerTranslator) Translate(ctx context.Context, word string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, word)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
