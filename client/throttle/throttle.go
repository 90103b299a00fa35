package throttle

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config holds the limiter's requests per second and burst capacity.
type Config struct {
	RPS   int
	Burst int
}

type roundTripper struct {
	cfg     Config
	limiter *rate.Limiter
	next    http.RoundTripper
	logFn   func() *slog.Logger
}

// NewRoundTripper returns an [http.RoundTripper] that holds every request
// until the token bucket grants it, then hands it to next. logFn is called
// per request so the logger can be swapped after construction; a nil
// logger disables the wait records.
func NewRoundTripper(rps, burst int, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}
	if next == nil {
		next = http.DefaultTransport
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	return &roundTripper{
		cfg:     Config{RPS: rps, Burst: burst},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		next:    next,
		logFn:   logFn,
	}, nil
}

func (rt *roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	res := rt.limiter.Reserve()
	if !res.OK() {
		return nil, fmt.Errorf("%w: burst %d cannot grant a token", ErrWaitingFailed, rt.cfg.Burst)
	}

	delay := res.Delay()
	if delay == 0 {
		return rt.next.RoundTrip(r)
	}

	log := rt.logFn()
	if log != nil {
		log.Info("throttle tokens exhausted", "host", r.URL.Host, "path", r.URL.Path, "rate", rt.cfg.RPS, "burst", rt.cfg.Burst, "delay", delay.String())
	}

	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < delay {
		res.Cancel()
		return nil, fmt.Errorf("%w: delay %s exceeds context deadline", ErrWaitingFailed, delay)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		res.Cancel()
		return nil, fmt.Errorf("%w: %w", ErrContextEnded, ctx.Err())
	}

	if log != nil {
		log.Info("throttle wait complete", "host", r.URL.Host, "waited", delay.String())
	}

	return rt.next.RoundTrip(r)
}
