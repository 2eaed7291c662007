package onboarding

import (
	"context"
	"sync"

	stderrors "errors"

	"github.com/go-drift/onboarding/pkg/errors"
	"github.com/go-drift/onboarding/pkg/platform"
)

// Dispatcher routes permission requests to the right adapter and delivers
// the completion callback exactly once per call, regardless of whether the
// user granted, denied, or the flow was cut short.
//
// Concurrent requests for distinct kinds are independent and may overlap
// freely. Concurrent requests for the same kind are serialized by the
// adapter's own request lock.
type Dispatcher struct {
	oracles Oracles

	// always, when set, escalates a granted foreground-location request to
	// background (always) authorization before completing.
	always platform.Permission
}

// NewDispatcher returns a dispatcher over the given oracles. The always
// permission may be nil, in which case location requests stop at
// when-in-use.
func NewDispatcher(oracles Oracles, always platform.Permission) *Dispatcher {
	return &Dispatcher{oracles: oracles, always: always}
}

// RequestPermission triggers the prompt flow for exactly one kind and
// invokes onComplete exactly once with the resulting status, delivered
// through the registered dispatch function. The sentinel KindCompleted
// completes immediately without contacting any adapter.
func (d *Dispatcher) RequestPermission(ctx context.Context, kind Kind, onComplete func(platform.Status)) {
	complete := completeOnce(onComplete)

	if kind.IsSentinel() {
		platform.Dispatch(func() { complete(platform.StatusAuthorized) })
		return
	}

	oracle, ok := d.oracles[kind]
	if !ok {
		platform.Dispatch(func() { complete(platform.StatusUnknown) })
		return
	}

	go func() {
		// A panicking adapter must not cost the caller its completion: the
		// callback fires with Unknown after the panic is reported.
		defer errors.RecoverWithCallback("dispatcher.request", func(any) {
			platform.Dispatch(func() { complete(platform.StatusUnknown) })
		})

		status := d.request(ctx, kind, oracle)
		platform.Dispatch(func() { complete(status) })
	}()
}

func (d *Dispatcher) request(ctx context.Context, kind Kind, oracle platform.Permission) platform.Status {
	status, err := oracle.Request(ctx)
	if err != nil && !stderrors.Is(err, platform.ErrCanceled) {
		errors.Report(&errors.OnboardingError{
			Op:   "dispatcher.request." + kind.Key(),
			Kind: errors.KindPlatform,
			Err:  err,
		})
	}

	// Foreground grant unlocks the always escalation. Its outcome becomes
	// the completion status; a refused escalation still completes the call.
	if kind == KindLocation && d.always != nil && status.Granted() {
		alwaysStatus, err := d.always.Request(ctx)
		if err != nil && !stderrors.Is(err, platform.ErrCanceled) {
			errors.Report(&errors.OnboardingError{
				Op:   "dispatcher.requestAlways",
				Kind: errors.KindPlatform,
				Err:  err,
			})
		}
		return alwaysStatus
	}

	return status
}

// completeOnce wraps the callback so it fires at most once. A nil callback
// yields a no-op.
func completeOnce(fn func(platform.Status)) func(platform.Status) {
	if fn == nil {
		return func(platform.Status) {}
	}
	var once sync.Once
	return func(status platform.Status) {
		once.Do(func() { fn(status) })
	}
}
