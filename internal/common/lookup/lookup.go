// Package lookup centralizes the fetch-or-absent handling shared by every
// enrichment source.
package lookup

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"prospect-enricher/internal/common/errors"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/metrics"
)

// Func is one source lookup. A nil or empty result with a nil error means
// the source had nothing for this contact.
type Func[T any] func(ctx context.Context) (T, error)

// OrAbsent runs fn with its own timeout and races it against that timer.
// Any failure, panic or timeout is logged and reported as absent; the zero
// value and false are returned and the caller carries on.
func OrAbsent[T any](ctx context.Context, log logger.Logger, source string, timeout time.Duration, fn Func[T]) (T, bool) {
	var zero T
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic in %s lookup: %v", source, r)}
			}
		}()
		v, err := fn(callCtx)
		done <- result{value: v, err: err}
	}()

	var (
		res     result
		outcome string
	)
	select {
	case res = <-done:
		switch {
		case res.err != nil && callCtx.Err() == context.DeadlineExceeded:
			outcome = metrics.OutcomeTimeout
		case res.err != nil:
			outcome = metrics.OutcomeError
		case isEmpty(res.value):
			outcome = metrics.OutcomeAbsent
		default:
			outcome = metrics.OutcomeFound
		}
	case <-callCtx.Done():
		outcome = metrics.OutcomeTimeout
	}

	elapsed := time.Since(start)
	metrics.SourceLookups.WithLabelValues(source, outcome).Inc()
	metrics.SourceLookupDuration.WithLabelValues(source).Observe(elapsed.Seconds())

	fields := map[string]interface{}{
		"source":     source,
		"outcome":    outcome,
		"durationMs": elapsed.Milliseconds(),
	}
	switch outcome {
	case metrics.OutcomeFound:
		log.Debug("Source lookup succeeded", fields)
		return res.value, true
	case metrics.OutcomeAbsent:
		log.Debug("Source returned no data", fields)
	case metrics.OutcomeTimeout:
		log.WithError(errors.NewSourceTimeoutError(source, timeout)).Warn("Source lookup timed out", fields)
	default:
		log.WithError(errors.NewSourceUnavailableError(source, res.err)).Warn("Source lookup failed", fields)
	}
	return zero, false
}

func isEmpty(v interface{}) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return rv.IsNil()
	case reflect.Slice:
		return rv.Len() == 0
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}
