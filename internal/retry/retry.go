// Package retry retries job-posting fetches that fail transiently.
// LLM calls are never wrapped: a failed analysis is reported as is.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/amishk599/jdskills/internal/model"
)

// Fetcher decorates a DescriptionFetcher with exponential backoff and jitter.
type Fetcher struct {
	inner      model.DescriptionFetcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewFetcher wraps inner with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewFetcher(inner model.DescriptionFetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// FetchDescription fetches the posting, retrying on transient errors.
func (f *Fetcher) FetchDescription(ctx context.Context) (model.JobDescription, error) {
	jd, err := f.inner.FetchDescription(ctx)
	if err == nil || !isRetryable(err) {
		return jd, err
	}

	lastErr := err
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		delay := f.backoffDelay(attempt, lastErr)
		f.logger.Warn("retrying job posting fetch",
			"attempt", attempt,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return model.JobDescription{}, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		jd, err = f.inner.FetchDescription(ctx)
		if err == nil || !isRetryable(err) {
			return jd, err
		}
		lastErr = err
	}
	return model.JobDescription{}, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After duration carried by the error takes precedence.
func (f *Fetcher) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := f.baseDelay << (attempt - 1)
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether err is a transient failure worth retrying:
// 429, 5xx, or a network error. Cancellation, other 4xx and invalid
// sources are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, model.ErrEmptyDescription) || errors.Is(err, model.ErrInvalidSource) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return true
}
