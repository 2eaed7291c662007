package platform

import "context"

// NotificationOptions configures which notification capabilities to request
// (iOS only). On Android all capabilities are granted together and these
// options are ignored.
type NotificationOptions struct {
	// Alert enables visible notifications (banners, alerts).
	Alert bool
	// Sound enables notification sounds.
	Sound bool
	// Badge enables badge count updates on the app icon.
	Badge bool
	// Provisional requests provisional authorization (iOS 12+). Notifications
	// are delivered quietly to Notification Center. The user can later
	// promote or disable.
	Provisional bool
}

// DefaultNotificationOptions enables alert, sound, and badge.
func DefaultNotificationOptions() NotificationOptions {
	return NotificationOptions{Alert: true, Sound: true, Badge: true}
}

// NotificationPermission extends Permission with notification-specific
// request options.
type NotificationPermission interface {
	Permission

	// RequestWithOptions prompts for notification permission with
	// iOS-specific options. Zero values mean the capability is NOT
	// requested; use Request for defaults.
	RequestWithOptions(ctx context.Context, opts NotificationOptions) (Status, error)
}

// Notifications is the singleton notification permission adapter.
var Notifications NotificationPermission = NewNotificationPermission(DefaultNotificationOptions())

// notificationPermission adapts the notification permission, forwarding
// capability options to the native request.
type notificationPermission struct {
	*permissionType
	defaults NotificationOptions
}

// NewNotificationPermission returns a notification permission adapter whose
// plain Request uses the given default options.
func NewNotificationPermission(defaults NotificationOptions) NotificationPermission {
	return &notificationPermission{
		permissionType: newPermission("notifications"),
		defaults:       defaults,
	}
}

// Request requests notification permission with the adapter's default
// options.
func (n *notificationPermission) Request(ctx context.Context) (Status, error) {
	return n.RequestWithOptions(ctx, n.defaults)
}

// RequestWithOptions requests notification permission with explicit options.
func (n *notificationPermission) RequestWithOptions(ctx context.Context, opts NotificationOptions) (Status, error) {
	return n.request(ctx, map[string]any{
		"alert":       opts.Alert,
		"sound":       opts.Sound,
		"badge":       opts.Badge,
		"provisional": opts.Provisional,
	})
}
