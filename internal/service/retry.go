package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"golang.org/x/text/currency"
)

func newBackOff(maxElapsed time.Duration) backoff.BackOff {
	if maxElapsed < 0 {
		return &backoff.StopBackOff{}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 25 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = maxElapsed
	b.Reset()

	return b
}

// retryConflicts reruns fn while it fails with ErrStorageConflict, at most maxRetries more times.
func retryConflicts[T any](ctx context.Context, maxRetries uint64, fn func() (T, error)) (T, error) {
	var result T

	op := func() error {
		var err error
		result, err = fn()
		if err == nil || errors.Is(err, domain.ErrStorageConflict) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(newBackOff(0), maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

func checkCurrency(want currency.Unit, total domain.Money) error {
	if want == (currency.Unit{}) || total.Currency == want {
		return nil
	}
	return fmt.Errorf("total is in %s, store charges in %s: %w", total.Currency, want, domain.ErrValidation)
}
