package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sandevgo/parley/pkg/log"
)

type Operation = func() error

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error as is.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Config controls exponential backoff. MaxRetries counts retries after the
// first attempt.
type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    5,
		BackoffFactor: 2.15,
		InitialDelay:  300 * time.Millisecond,
		MaxDelay:      20 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

// NewQuickConfig is tuned for interactive lookups that must answer within seconds.
func NewQuickConfig() *Config {
	return &Config{
		MaxRetries:    1,
		BackoffFactor: 2,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

// delay returns the wait before retry number n (0-based), capped at
// MaxDelay before jitter is added.
func (c *Config) delay(n int) time.Duration {
	d := float64(c.InitialDelay)
	for range n {
		d *= c.BackoffFactor
		if d >= float64(c.MaxDelay) {
			d = float64(c.MaxDelay)
			break
		}
	}
	if c.Jitter > 0 {
		d += float64(rand.Int64N(int64(c.Jitter)))
	}
	return time.Duration(d)
}

type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	if config == nil {
		config = NewDefaultConfig()
	}
	return &Retrier{
		config: config,
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// Do runs op until it succeeds, returns a permanent error, the retry budget
// is spent or ctx is done.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	logger := log.FromCtx(ctx)

	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= r.config.MaxRetries {
			return err
		}

		wait := r.config.delay(attempt)
		logger.Debug().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
