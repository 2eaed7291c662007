// Package onboarding tracks a linear permission-onboarding sequence: which
// OS permissions have been asked for, whether they were granted, and which
// step of the sequence the user last reached.
package onboarding

// Kind identifies one permission step of the onboarding sequence.
//
// The ordering is append-only: existing kinds keep their position across
// versions, and new kinds are appended before KindCompleted. Persisted
// progress is stored as a kind's stable key, so keys are immutable too.
type Kind int

const (
	// KindLocation is foreground (and optionally background) location access.
	KindLocation Kind = iota
	// KindMotionAndFitness is motion and fitness activity access.
	KindMotionAndFitness
	// KindBackgroundRefresh is background app refresh availability.
	KindBackgroundRefresh
	// KindNotifications is user notification delivery.
	KindNotifications
	// KindMedia is photo library access.
	KindMedia
	// KindMicrophone is microphone access.
	KindMicrophone
	// KindCamera is camera access.
	KindCamera
	// KindCompleted is the sentinel marking the sequence finished. It is not
	// backed by a real OS permission and always reports granted and
	// determined.
	KindCompleted
)

var kindKeys = map[Kind]string{
	KindLocation:          "location",
	KindMotionAndFitness:  "motion_fitness",
	KindBackgroundRefresh: "background_refresh",
	KindNotifications:     "notifications",
	KindMedia:             "media_library",
	KindMicrophone:        "microphone",
	KindCamera:            "camera",
	KindCompleted:         "completed",
}

var kindDisplayNames = map[Kind]string{
	KindLocation:          "Location",
	KindMotionAndFitness:  "Motion & Fitness",
	KindBackgroundRefresh: "Background App Refresh",
	KindNotifications:     "Notifications",
	KindMedia:             "Media Library",
	KindMicrophone:        "Microphone",
	KindCamera:            "Camera",
	KindCompleted:         "Completed",
}

// Kinds returns the non-sentinel kinds in onboarding order.
func Kinds() []Kind {
	return []Kind{
		KindLocation,
		KindMotionAndFitness,
		KindBackgroundRefresh,
		KindNotifications,
		KindMedia,
		KindMicrophone,
		KindCamera,
	}
}

// DisplayNames returns the display-name lookup table for all kinds,
// including the sentinel.
func DisplayNames() map[Kind]string {
	names := make(map[Kind]string, len(kindDisplayNames))
	for k, v := range kindDisplayNames {
		names[k] = v
	}
	return names
}

// Key returns the kind's stable string identifier, used as its persisted
// representation.
func (k Kind) Key() string {
	if key, ok := kindKeys[k]; ok {
		return key
	}
	return "unknown"
}

// DisplayName returns the kind's human-readable name.
func (k Kind) DisplayName() string {
	if name, ok := kindDisplayNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k Kind) String() string {
	return k.Key()
}

// IsSentinel reports whether the kind is the Completed sentinel.
func (k Kind) IsSentinel() bool {
	return k == KindCompleted
}

// Valid reports whether the kind is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindKeys[k]
	return ok
}

// KindFromKey resolves a persisted key back to its kind. Unknown keys return
// false; callers fall back to their policy decision.
func KindFromKey(key string) (Kind, bool) {
	for k, v := range kindKeys {
		if v == key {
			return k, true
		}
	}
	return KindLocation, false
}
