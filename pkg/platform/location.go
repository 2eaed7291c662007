package platform

import (
	"context"

	"github.com/go-drift/onboarding/pkg/errors"
)

// LocationService exposes the two location permission levels.
type LocationService struct {
	// WhenInUse permission for foreground location access.
	WhenInUse Permission
	// Always permission for background location access.
	// On iOS, WhenInUse must be granted before requesting Always.
	Always Permission
}

// Location is the singleton location service. Both adapters require full
// accuracy for a grant; use the constructors to accept reduced accuracy.
var Location *LocationService

func init() {
	Location = &LocationService{
		WhenInUse: NewWhenInUsePermission(true),
		Always:    NewAlwaysPermission(true),
	}
}

// locationPermission is the foreground location adapter. On platforms with
// reduced-accuracy grants, a grant only counts when full accuracy was given,
// unless requireFullAccuracy is disabled.
type locationPermission struct {
	*permissionType
	requireFullAccuracy bool
}

// NewWhenInUsePermission returns a foreground-location permission adapter.
func NewWhenInUsePermission(requireFullAccuracy bool) Permission {
	return &locationPermission{
		permissionType:      newPermission("location"),
		requireFullAccuracy: requireFullAccuracy,
	}
}

// Accuracy returns the current location accuracy sub-status.
func (l *locationPermission) Accuracy(ctx context.Context) (Accuracy, error) {
	result, err := l.channel.Invoke("check", map[string]any{
		"permission": l.name,
	})
	if err != nil {
		return AccuracyFull, err
	}
	return parseAccuracy(result), nil
}

// IsGranted returns true if location is authorized with sufficient accuracy.
func (l *locationPermission) IsGranted(ctx context.Context) bool {
	result, err := l.channel.Invoke("check", map[string]any{
		"permission": l.name,
	})
	if err != nil {
		return false
	}
	if !parseStatus(result).Granted() {
		return false
	}
	if l.requireFullAccuracy && parseAccuracy(result) != AccuracyFull {
		return false
	}
	return true
}

// alwaysLocationPermission is the background location adapter. Requesting
// always-authorization may send the user to the system Settings app, so the
// request resolves on whichever fires first: a status-change event for
// "location_always" or the app returning to the foreground.
type alwaysLocationPermission struct {
	inner *locationPermission
}

// NewAlwaysPermission returns a background-location permission adapter.
func NewAlwaysPermission(requireFullAccuracy bool) Permission {
	return &alwaysLocationPermission{
		inner: &locationPermission{
			permissionType:      newPermission("location_always"),
			requireFullAccuracy: requireFullAccuracy,
		},
	}
}

func (p *alwaysLocationPermission) Status(ctx context.Context) (Status, error) {
	return p.inner.Status(ctx)
}

func (p *alwaysLocationPermission) IsGranted(ctx context.Context) bool {
	return p.inner.IsGranted(ctx)
}

func (p *alwaysLocationPermission) IsDetermined(ctx context.Context) bool {
	return p.inner.IsDetermined(ctx)
}

func (p *alwaysLocationPermission) Listen(handler func(Status)) (unsubscribe func()) {
	return p.inner.Listen(handler)
}

// Request requests always-authorization and blocks until the escalation
// resolves. If the current status is already denied or restricted no prompt
// is possible and the current status is returned immediately.
func (p *alwaysLocationPermission) Request(ctx context.Context) (Status, error) {
	inner := p.inner.permissionType
	inner.requestMu.Lock()
	defer inner.requestMu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}

	currentStatus, err := p.inner.Status(ctx)
	if err != nil {
		return StatusUnknown, err
	}
	if currentStatus == StatusDenied || isTerminalStatus(currentStatus) {
		return currentStatus, nil
	}

	resultChan := make(chan Status, 1)

	// Subscribe to status changes before triggering the native request.
	sub := inner.changes.Listen(EventHandler{
		OnEvent: func(data any) {
			change, ok := parseStatusChange(data)
			if ok && change.Permission == inner.name {
				select {
				case resultChan <- change.Status:
				default:
				}
			}
		},
		OnError: func(err error) {
			errors.Report(&errors.OnboardingError{
				Op:      "permissions.requestAlways",
				Kind:    errors.KindPlatform,
				Channel: permissionChangesChannel,
				Err:     err,
			})
		},
	})
	defer sub.Cancel()

	// The escalation can move the user to Settings without ever producing a
	// change event. Returning to the foreground is then the completion
	// signal; the handler is removed once the request resolves so unrelated
	// resumes do not leak into later requests.
	removeResume := Lifecycle.AddHandler(func(state LifecycleState) {
		if state != LifecycleStateResumed {
			return
		}
		status, err := p.inner.Status(context.Background())
		if err != nil {
			status = StatusUnknown
		}
		select {
		case resultChan <- status:
		default:
		}
	})
	defer removeResume()

	_, err = inner.channel.Invoke("request", map[string]any{
		"permission": inner.name,
	})
	if err != nil {
		return StatusUnknown, err
	}

	select {
	case result := <-resultChan:
		return result, nil
	case <-ctx.Done():
		if finalStatus, err := p.inner.Status(context.Background()); err == nil && isTerminalStatus(finalStatus) {
			return finalStatus, nil
		}
		if ctx.Err() == context.DeadlineExceeded {
			return StatusUnknown, ErrTimeout
		}
		return StatusUnknown, ErrCanceled
	}
}
