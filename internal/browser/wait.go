package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const DefaultPollInterval = 250 * time.Millisecond

// Poll evaluates cond until it returns true, returns an error or timeout has
// passed. The evaluations are spaced out by interval, the first one happens
// immediately.
func Poll(ctx context.Context, timeout, interval time.Duration, cond func(ctx context.Context) (bool, error)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// burst of 1 is consumed by the first evaluation, every following
	// evaluation waits for a fresh token.
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for {
		err := limiter.Wait(ctx)
		if err != nil {
			return waitError(ctx, err)
		}
		done, err := cond(ctx)
		if err != nil && ctx.Err() != nil {
			return waitError(ctx, err)
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if ctx.Err() != nil {
			return waitError(ctx, ctx.Err())
		}
	}
}

// the limiter refuses to wait past the deadline with its own error, so the
// deadline has to be inspected to tell a timeout apart from cancellation.
func waitError(ctx context.Context, err error) error {
	parentCancelled := ctx.Err() == context.Canceled
	if parentCancelled {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %s", ErrTimeout, err.Error())
}

// Find waits up to timeout for sel to match and returns the first match.
func Find(ctx context.Context, s Session, sel Selector, timeout, interval time.Duration) (Element, error) {
	elements, err := FindAll(ctx, s, sel, timeout, interval)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sel)
	}
	return elements[0], nil
}

// FindAll waits up to timeout for sel to match at least one element. Unlike
// Find, running out of time is not an error, an empty list is returned.
func FindAll(ctx context.Context, s Session, sel Selector, timeout, interval time.Duration) ([]Element, error) {
	var found []Element
	err := Poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		elements, err := s.FindAll(ctx, sel)
		if err != nil {
			return false, err
		}
		found = elements
		return len(found) > 0, nil
	})
	if err != nil && !isTimeout(err) {
		return nil, err
	}
	return found, nil
}

// WaitURLChange waits for the current url to differ from `from`, it returns
// false if the url never changed.
func WaitURLChange(ctx context.Context, s Session, from string, timeout, interval time.Duration) (bool, error) {
	err := Poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		current, err := s.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return current != from, nil
	})
	if isTimeout(err) {
		return false, nil
	}
	return err == nil, err
}

func isTimeout(err error) bool {
	return err != nil && errors.Is(err, ErrTimeout)
}
