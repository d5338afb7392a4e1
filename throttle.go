package networth

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Throttle spaces out requests to remote price sources.
//
// Every Wait is admitted by a rate limiter, then, except for the first one, delayed by
// a random duration in [MinDelay, MaxDelay].
type Throttle struct {
	limiter  *rate.Limiter
	minDelay time.Duration
	maxDelay time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	calls int
}

// NewThrottle returns a throttle admitting at most one request every interval, and
// waiting a random delay in [minDelay, maxDelay] between consecutive requests.
func NewThrottle(interval, minDelay, maxDelay time.Duration, logger *zap.Logger) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Throttle{
		limiter:  rate.NewLimiter(limit, 1),
		minDelay: minDelay,
		maxDelay: maxDelay,
		logger:   logger,
	}
}

// Wait blocks until the next request may be sent, or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limit wait")
	}
	t.mu.Lock()
	first := t.calls == 0
	t.calls++
	t.mu.Unlock()
	if first {
		return nil
	}

	d := t.delay()
	if d <= 0 {
		return nil
	}
	t.logger.Debug("throttling remote request", zap.Duration("delay", d))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *Throttle) delay() time.Duration {
	if t.maxDelay <= t.minDelay {
		return t.minDelay
	}
	return t.minDelay + rand.N(t.maxDelay-t.minDelay)
}

// Throttled returns a PriceFetcher calling f once t admits the request.
func Throttled(f PriceFetcher, t *Throttle) PriceFetcher { return &throttled{fetcher: f, throttle: t} }

type throttled struct {
	fetcher  PriceFetcher
	throttle *Throttle
}

func (t *throttled) FetchHistory(ctx context.Context, symbol, currency string, lookbackYears int) (*date.History[decimal.Decimal], error) {
	if err := t.throttle.Wait(ctx); err != nil {
		return nil, err
	}
	return t.fetcher.FetchHistory(ctx, symbol, currency, lookbackYears)
}

func (t *throttled) FetchLatest(ctx context.Context, symbol, currency string) (Quote, error) {
	if err := t.throttle.Wait(ctx); err != nil {
		return Quote{}, err
	}
	return t.fetcher.FetchLatest(ctx, symbol, currency)
}
