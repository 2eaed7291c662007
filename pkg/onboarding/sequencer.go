package onboarding

import "context"

// Persistence keys. The sequencer stores only a kind key; history and
// timestamps are deliberately absent.
const (
	// LastScreenKey holds the key of the last kind the user was shown.
	LastScreenKey = "onboarding.last_screen"

	// FirstLaunchKey marks that the app has been launched before.
	FirstLaunchKey = "onboarding.first_launch"
)

// Store is the key-value persistence collaborator. A missing key is a
// valid, commonly-hit state (first run). platform.Preferences satisfies it.
type Store interface {
	// Get returns the value for the key and whether it was present.
	Get(key string) (string, bool)

	// Set stores the value under the key, overwriting any previous value.
	Set(key, value string) error
}

// Sequencer maps persisted onboarding progress back to a permission kind.
type Sequencer struct {
	store Store
	agg   *Aggregator
}

// NewSequencer returns a sequencer over the given store and aggregator.
func NewSequencer(store Store, agg *Aggregator) *Sequencer {
	return &Sequencer{store: store, agg: agg}
}

// ResolveResumeScreen returns the kind of the screen onboarding should
// resume at.
//
// A valid persisted value is returned unchanged: it records the user's
// last-seen position and is not re-derived from live permission state. When
// the value is absent or unknown (corrupted or from a removed kind), the
// fallback consults live state: everything granted means the sequence is
// done, otherwise it starts over at the first kind.
func (s *Sequencer) ResolveResumeScreen(ctx context.Context) Kind {
	if raw, ok := s.store.Get(LastScreenKey); ok {
		if kind, known := KindFromKey(raw); known {
			return kind
		}
	}
	if s.agg.IsAllPermissionsAvailable(ctx) {
		return KindCompleted
	}
	return KindLocation
}

// Advance records that the user reached the given kind's screen,
// overwriting any previous position.
func (s *Sequencer) Advance(kind Kind) error {
	return s.store.Set(LastScreenKey, kind.Key())
}

// FirstLaunch reports whether the first-launch marker has not been set yet.
func (s *Sequencer) FirstLaunch() bool {
	_, ok := s.store.Get(FirstLaunchKey)
	return !ok
}

// MarkLaunched sets the first-launch marker.
func (s *Sequencer) MarkLaunched() error {
	return s.store.Set(FirstLaunchKey, "true")
}
