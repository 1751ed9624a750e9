package ocr

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/vopet/internal/language"
)

// Breaker stops calling a failing OCR service for a while. Images without
// text are not failures.
type Breaker struct {
	next Extractor
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next. The circuit opens after three consecutive failures.
func NewBreaker(next Extractor, timeout time.Duration, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Breaker{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ocr",
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			IsSuccessful: func(err error) bool {
				var oErr *Error
				return err == nil || !errors.As(err, &oErr)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("ocr circuit changed state", "from", from.String(), "to", to.String())
			},
		}),
	}
}

// ExtractText calls the wrapped extractor unless the circuit is open.
func (b *Breaker) ExtractText(ctx context.Context, image []byte, lang language.Language) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ExtractText(ctx, image, lang)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &Error{Engine: "all", Message: "service temporarily unavailable", Err: err}
		}
		return "", err
	}
	return out.(string), nil
}
