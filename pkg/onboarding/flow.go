package onboarding

import (
	"context"

	"github.com/go-drift/onboarding/pkg/errors"
	"github.com/go-drift/onboarding/pkg/platform"
)

// Flow is the public surface of the onboarding helper. It ties the
// aggregator, dispatcher, and sequencer together over one set of oracles
// and one progress store.
type Flow struct {
	cfg  *Config
	agg  *Aggregator
	disp *Dispatcher
	seq  *Sequencer
}

// Options configures a Flow. Zero fields get platform-backed defaults, so
// tests can substitute fakes per dependency.
type Options struct {
	// Oracles supplies the per-kind permission adapters. Nil uses the
	// platform adapters configured per Config.
	Oracles Oracles

	// Always supplies the background-location adapter used for the
	// escalation after a granted foreground request. Only consulted when
	// Config.Location.RequestAlways is set; nil uses the platform adapter.
	Always platform.Permission

	// Store supplies the progress persistence. Nil uses
	// platform.Preferences.
	Store Store

	// Config adjusts request behavior. Nil uses DefaultConfig.
	Config *Config
}

// NewFlow constructs a Flow from the given options.
func NewFlow(opts Options) *Flow {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.LogLevel != "" {
		errors.ConfigureLogger(errors.LogConfig{Level: cfg.LogLevel})
	}

	oracles := opts.Oracles
	if oracles == nil {
		oracles = defaultOracles(cfg)
	}

	always := opts.Always
	if cfg.Location.RequestAlways {
		if always == nil {
			always = platform.NewAlwaysPermission(!cfg.Location.AllowReducedAccuracy)
		}
	} else {
		always = nil
	}

	store := opts.Store
	if store == nil {
		store = platform.Preferences
	}

	agg := NewAggregator(oracles)
	return &Flow{
		cfg:  cfg,
		agg:  agg,
		disp: NewDispatcher(oracles, always),
		seq:  NewSequencer(store, agg),
	}
}

// defaultOracles wires every kind to its platform adapter.
func defaultOracles(cfg *Config) Oracles {
	requireFullAccuracy := !cfg.Location.AllowReducedAccuracy
	return Oracles{
		KindLocation:          platform.NewWhenInUsePermission(requireFullAccuracy),
		KindMotionAndFitness:  platform.Motion,
		KindBackgroundRefresh: platform.BackgroundRefresh,
		KindNotifications:     platform.NewNotificationPermission(cfg.notificationOptions()),
		KindMedia:             platform.Media,
		KindMicrophone:        platform.Microphone,
		KindCamera:            platform.Camera,
	}
}

// IsFreshInstall reports whether any permission has never been asked.
func (f *Flow) IsFreshInstall(ctx context.Context) bool {
	return f.agg.IsFreshInstall(ctx)
}

// IsAllPermissionsAvailable reports whether every permission counts as
// granted.
func (f *Flow) IsAllPermissionsAvailable(ctx context.Context) bool {
	return f.agg.IsAllPermissionsAvailable(ctx)
}

// CheckPermissionAvailable reports whether one kind counts as granted.
func (f *Flow) CheckPermissionAvailable(ctx context.Context, kind Kind) bool {
	return f.agg.CheckPermissionAvailable(ctx, kind)
}

// RequestPermission triggers the prompt flow for one kind, invoking
// onComplete exactly once when it resolves. The configured request timeout,
// if any, bounds the flow when ctx carries no deadline.
func (f *Flow) RequestPermission(ctx context.Context, kind Kind, onComplete func(platform.Status)) {
	if timeout := f.cfg.requestTimeout(); timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			inner := onComplete
			// The dispatcher fires the completion exactly once on every
			// path, which releases the timeout context.
			f.disp.RequestPermission(ctx, kind, func(status platform.Status) {
				cancel()
				if inner != nil {
					inner(status)
				}
			})
			return
		}
	}
	f.disp.RequestPermission(ctx, kind, onComplete)
}

// ResolveResumeScreen returns the kind of the screen onboarding should
// resume at.
func (f *Flow) ResolveResumeScreen(ctx context.Context) Kind {
	return f.seq.ResolveResumeScreen(ctx)
}

// Advance records that the user reached the given kind's screen.
func (f *Flow) Advance(kind Kind) error {
	return f.seq.Advance(kind)
}

// FirstLaunch reports whether the first-launch marker is unset.
func (f *Flow) FirstLaunch() bool {
	return f.seq.FirstLaunch()
}

// MarkLaunched sets the first-launch marker.
func (f *Flow) MarkLaunched() error {
	return f.seq.MarkLaunched()
}

// DisplayNames returns the display-name lookup table for all kinds,
// including the sentinel.
func (f *Flow) DisplayNames() map[Kind]string {
	return DisplayNames()
}
