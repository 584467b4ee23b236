package lightning

import (
	"context"
	"errors"
	"time"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/cenkalti/backoff/v4"
	"github.com/golang/glog"
)

// Poll defaults used by WaitUntilOnline
const (
	DefaultPollInterval = 3 * time.Second
	DefaultPollTimeout  = 120 * time.Second
)

// ProbeFunc is a readiness check, nil error means ready
type ProbeFunc func(ctx context.Context) error

// WaitFor invokes probe every interval (constant, no jitter) until it succeeds or timeout elapses.
// On timeout ErrTimeout wrapping the last probe failure is returned. Credential and configuration
// failures stop the polling immediately. Cancelling ctx stops it after at most one in-flight probe.
// A non-positive interval means DefaultPollInterval.
func WaitFor(ctx context.Context, probe ProbeFunc, interval, timeout time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		return classify(ErrTimeout, ErrNetwork)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last error
	attempt := 0

	b := backoff.WithContext(backoff.NewConstantBackOff(interval), pollCtx)
	err := backoff.Retry(func() error {
		attempt++
		err := probe(pollCtx)
		if err == nil {
			return nil
		}

		if last == nil || !errors.Is(err, context.DeadlineExceeded) {
			last = err
		}

		if IsConfigurationError(err) || errors.Is(err, ErrAuth) {
			return backoff.Permanent(err)
		}

		glog.V(3).Infof("Probe attempt %d failed: %v", attempt, err)
		return err
	}, b)

	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if IsConfigurationError(err) || errors.Is(err, ErrAuth) {
		return err
	}

	if last == nil {
		last = ErrNetwork
	}

	return classify(ErrTimeout, last)
}

func waitUntilOnline(ctx context.Context, l LightningService, node *entities.NodeDescriptor, interval, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	err := WaitFor(ctx, func(ctx context.Context) error {
		_, err := l.GetInfo(ctx, node)
		return err
	}, interval, timeout)

	return decorate(node, "waitUntilOnline", err)
}
