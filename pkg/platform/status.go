package platform

// Status represents the current authorization state of a permission.
type Status string

// Authorization status constants.
const (
	// StatusNotDetermined indicates the user has not yet been asked. Calling
	// Request will show the system permission dialog.
	StatusNotDetermined Status = "not_determined"

	// StatusDenied indicates the user denied the permission.
	StatusDenied Status = "denied"

	// StatusRestricted indicates a system policy prevents granting (parental
	// controls, MDM, enterprise policy). The user cannot change this; no
	// dialog will be shown.
	StatusRestricted Status = "restricted"

	// StatusAuthorized indicates full access has been granted.
	StatusAuthorized Status = "authorized"

	// StatusProvisional indicates provisional notification authorization
	// (iOS only). Notifications are delivered quietly to Notification Center
	// without alerting the user.
	StatusProvisional Status = "provisional"

	// StatusUnknown indicates the status could not be determined, typically
	// because the native bridge is unavailable. Treated like
	// StatusNotDetermined for aggregation: not determined, not granted.
	StatusUnknown Status = "unknown"
)

// Granted reports whether the status counts as a grant. Provisional counts:
// quiet notification delivery is still delivery.
func (s Status) Granted() bool {
	return s == StatusAuthorized || s == StatusProvisional
}

// Determined reports whether the user has been asked for this permission.
func (s Status) Determined() bool {
	return s != StatusNotDetermined && s != StatusUnknown
}

// Accuracy represents the location accuracy sub-status on platforms that
// support reduced-accuracy grants.
type Accuracy string

const (
	// AccuracyFull indicates precise location access.
	AccuracyFull Accuracy = "full"

	// AccuracyReduced indicates the user granted only approximate location.
	AccuracyReduced Accuracy = "reduced"
)

// isTerminalStatus returns true if the status is a terminal state that won't
// change from showing a permission dialog. Denied is not terminal: the
// native side may still be able to re-prompt (Android).
func isTerminalStatus(status Status) bool {
	switch status {
	case StatusAuthorized, StatusProvisional, StatusRestricted:
		return true
	default:
		return false
	}
}

// statusChange represents a permission status change event (internal use).
type statusChange struct {
	Permission string
	Status     Status
}

func parseStatus(result any) Status {
	if m, ok := result.(map[string]any); ok {
		if status := parseString(m["status"]); status != "" {
			return Status(status)
		}
	}
	return StatusUnknown
}

func parseAccuracy(result any) Accuracy {
	if m, ok := result.(map[string]any); ok {
		if acc := parseString(m["accuracy"]); acc != "" {
			return Accuracy(acc)
		}
	}
	return AccuracyFull
}

func parseStatusChange(data any) (statusChange, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return statusChange{}, false
	}
	return statusChange{
		Permission: parseString(m["permission"]),
		Status:     Status(parseString(m["status"])),
	}, true
}
