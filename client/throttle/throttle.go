package throttle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the per-domain Requests Per Second and Burst Rate.
type Config struct {
	RPS   int `json:"rps" yaml:"rps"`
	Burst int `json:"burst" yaml:"burst"`
}

// Limiter hands out one token bucket per domain.
type Limiter struct {
	rps   int
	burst int
	logFn func() *slog.Logger

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// New returns a Limiter. logFn lazily resolves the logger at wait time;
// a nil-returning logFn disables the exhaustion logs.
func New(rps, burst int, logFn func() *slog.Logger) (*Limiter, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}

	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	l := Limiter{
		rps:     rps,
		burst:   burst,
		logFn:   logFn,
		buckets: make(map[string]*rate.Limiter),
	}

	return &l, nil
}

// Wait blocks until domain has a token available.
func (l *Limiter) Wait(ctx context.Context, domain string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	bucket := l.bucket(domain)

	var waited time.Duration
	logger := l.logFn()
	if logger != nil && bucket.Tokens() < 1 {
		logger.Info("throttle tokens exhausted", "domain", domain, "rate", l.rps, "burst", l.burst)

		defer func() {
			logger.Info("throttle wait complete", "domain", domain, "waited", waited.String())
		}()
	}

	start := time.Now()

	err := bucket.Wait(ctx)
	waited = time.Since(start)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return nil
}

// Domains returns the number of domains with an allocated bucket.
func (l *Limiter) Domains() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.buckets)
}

func (l *Limiter) bucket(domain string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[domain]
	if !ok {
		b = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.buckets[domain] = b
	}

	return b
}
