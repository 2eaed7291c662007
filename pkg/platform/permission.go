package platform

import (
	"context"
	"sync"
	"time"

	"github.com/go-drift/onboarding/pkg/errors"
)

// Channel names for permission plumbing.
const (
	permissionsChannel       = "onboarding/permissions"
	permissionChangesChannel = "onboarding/permissions/changes"
)

// DefaultRequestTimeout bounds Request when the caller's context carries no
// deadline of its own.
const DefaultRequestTimeout = 30 * time.Second

// Permission provides access to a single runtime permission. Use Status to
// check current state, Request to prompt the user, and Listen to observe
// changes.
//
// Implementations never propagate platform failures from the convenience
// predicates: an oracle that cannot answer reports not granted and not
// determined, which is indistinguishable from "not yet asked".
type Permission interface {
	// Status returns the current authorization status.
	Status(ctx context.Context) (Status, error)

	// Request prompts the user for permission and blocks until they respond
	// or the context is canceled/times out. If already in a terminal state,
	// returns immediately without showing a dialog.
	Request(ctx context.Context) (Status, error)

	// IsGranted returns true if the permission currently counts as granted.
	// Best-effort convenience: returns false on any error.
	IsGranted(ctx context.Context) bool

	// IsDetermined returns true if the user has been asked for this
	// permission. Best-effort convenience: returns false on any error.
	IsDetermined(ctx context.Context) bool

	// Listen subscribes to status changes for this permission.
	// Returns an unsubscribe function. Multiple listeners receive all events.
	Listen(handler func(Status)) (unsubscribe func())
}

var (
	permissionChangesOnce    sync.Once
	permissionChangesChan    *EventChannel
	permissionMethodChanOnce sync.Once
	permissionMethodChan     *MethodChannel
)

func permissionChanges() *EventChannel {
	permissionChangesOnce.Do(func() {
		permissionChangesChan = NewEventChannel(permissionChangesChannel)
	})
	return permissionChangesChan
}

func permissionMethods() *MethodChannel {
	permissionMethodChanOnce.Do(func() {
		permissionMethodChan = NewMethodChannel(permissionsChannel)
	})
	return permissionMethodChan
}

// permissionType is the basic channel-backed Permission implementation. One
// instance exists per permission name; all instances share the permissions
// method channel and the changes event channel, filtering events by name.
type permissionType struct {
	name    string
	channel *MethodChannel
	changes *EventChannel

	// Serializes requests for this permission: only one dialog can be shown
	// at a time per kind.
	requestMu sync.Mutex
}

func newPermission(name string) *permissionType {
	return &permissionType{
		name:    name,
		channel: permissionMethods(),
		changes: permissionChanges(),
	}
}

// Status returns the current status of the permission.
func (p *permissionType) Status(ctx context.Context) (Status, error) {
	result, err := p.channel.Invoke("check", map[string]any{
		"permission": p.name,
	})
	if err != nil {
		return StatusUnknown, err
	}
	return parseStatus(result), nil
}

// Request requests the permission from the user and blocks until the user
// responds, the context is canceled, or its deadline is exceeded. A context
// without a deadline gets DefaultRequestTimeout.
func (p *permissionType) Request(ctx context.Context) (Status, error) {
	return p.request(ctx, nil)
}

// request implements Request with optional extra arguments forwarded to the
// native request call (used by the notification adapter for its options).
func (p *permissionType) request(ctx context.Context, extraArgs map[string]any) (Status, error) {
	p.requestMu.Lock()
	defer p.requestMu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}

	// Return immediately if already in a terminal state.
	currentStatus, err := p.Status(ctx)
	if err != nil {
		return StatusUnknown, err
	}
	if isTerminalStatus(currentStatus) {
		return currentStatus, nil
	}

	// Subscribe before triggering the native request so the change event
	// cannot slip between request and subscription.
	resultChan := make(chan Status, 1)
	sub := p.changes.Listen(EventHandler{
		OnEvent: func(data any) {
			change, ok := parseStatusChange(data)
			if ok && change.Permission == p.name {
				select {
				case resultChan <- change.Status:
				default:
				}
			}
		},
		OnError: func(err error) {
			errors.Report(&errors.OnboardingError{
				Op:      "permissions.request",
				Kind:    errors.KindPlatform,
				Channel: permissionChangesChannel,
				Err:     err,
			})
		},
	})
	defer sub.Cancel()

	args := map[string]any{"permission": p.name}
	for k, v := range extraArgs {
		args[k] = v
	}
	_, err = p.channel.Invoke("request", args)
	if err != nil {
		return StatusUnknown, err
	}

	select {
	case result := <-resultChan:
		return result, nil
	case <-ctx.Done():
		// Re-check status in case we missed the event.
		if finalStatus, err := p.Status(context.Background()); err == nil && isTerminalStatus(finalStatus) {
			return finalStatus, nil
		}
		if ctx.Err() == context.DeadlineExceeded {
			return StatusUnknown, ErrTimeout
		}
		return StatusUnknown, ErrCanceled
	}
}

// IsGranted returns true if the permission is currently granted.
func (p *permissionType) IsGranted(ctx context.Context) bool {
	status, err := p.Status(ctx)
	if err != nil {
		return false
	}
	return status.Granted()
}

// IsDetermined returns true if the user has been asked for this permission.
func (p *permissionType) IsDetermined(ctx context.Context) bool {
	status, err := p.Status(ctx)
	if err != nil {
		return false
	}
	return status.Determined()
}

// Listen subscribes to status changes for this permission.
func (p *permissionType) Listen(handler func(Status)) (unsubscribe func()) {
	sub := p.changes.Listen(EventHandler{
		OnEvent: func(data any) {
			change, ok := parseStatusChange(data)
			if !ok {
				errors.Report(&errors.OnboardingError{
					Op:      "permissions.parseChange",
					Kind:    errors.KindParsing,
					Channel: permissionChangesChannel,
					Err: &errors.ParseError{
						Channel:  permissionChangesChannel,
						DataType: "statusChange",
						Got:      data,
					},
				})
				return
			}
			if change.Permission == p.name {
				handler(change.Status)
			}
		},
		OnError: func(err error) {
			errors.Report(&errors.OnboardingError{
				Op:      "permissions.streamError",
				Kind:    errors.KindPlatform,
				Channel: permissionChangesChannel,
				Err:     err,
			})
		},
	})
	return sub.Cancel
}

// ShouldShowRationale returns whether the app should show a rationale before
// requesting this permission. Android-specific; always false on iOS.
func (p *permissionType) ShouldShowRationale(ctx context.Context) bool {
	result, err := p.channel.Invoke("shouldShowRationale", map[string]any{
		"permission": p.name,
	})
	if err != nil {
		return false
	}
	if m, ok := result.(map[string]any); ok {
		return parseBool(m["shouldShow"])
	}
	return false
}

// Basic permission adapters. Location, motion, and notifications have
// dedicated adapters in their own files.
var (
	// BackgroundRefresh reports background app refresh availability. The
	// native side has no dialog for it; a request resolves with the current
	// status.
	BackgroundRefresh Permission = newPermission("background_refresh")

	// Media reports photo library authorization.
	Media Permission = newPermission("media_library")

	// Microphone reports microphone authorization.
	Microphone Permission = newPermission("microphone")

	// Camera reports camera authorization.
	Camera Permission = newPermission("camera")
)

// OpenAppSettings opens the system settings page for this app, where users
// can manage permissions manually. Use this when a permission is denied or
// restricted and the app cannot request it again.
func OpenAppSettings(ctx context.Context) error {
	_, err := permissionMethods().Invoke("openSettings", nil)
	return err
}
