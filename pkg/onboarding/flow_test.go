package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/go-drift/onboarding/pkg/platform"
)

func newTestFlow(oracles Oracles, store Store, cfg *Config) *Flow {
	// Always is stubbed denied so default-config flows never touch the
	// platform-backed escalation.
	return NewFlow(Options{
		Oracles: oracles,
		Always:  fakeWithStatus(platform.StatusDenied),
		Store:   store,
		Config:  cfg,
	})
}

func TestFlowAggregateQueries(t *testing.T) {
	oracles := allGrantedOracles()
	oracles[KindMicrophone] = fakeWithStatus(platform.StatusNotDetermined)

	flow := newTestFlow(oracles, newMemoryStore(), nil)
	ctx := context.Background()

	if !flow.IsFreshInstall(ctx) {
		t.Error("expected fresh install with one undetermined kind")
	}
	if flow.IsAllPermissionsAvailable(ctx) {
		t.Error("expected not all available")
	}
	if !flow.CheckPermissionAvailable(ctx, KindCamera) {
		t.Error("expected camera available")
	}
	if flow.CheckPermissionAvailable(ctx, KindMicrophone) {
		t.Error("expected microphone unavailable")
	}
}

func TestFlowRequestAndResume(t *testing.T) {
	oracle := fakeWithStatus(platform.StatusNotDetermined)
	oracle.outcome = platform.StatusAuthorized
	oracles := allGrantedOracles()
	oracles[KindNotifications] = oracle

	store := newMemoryStore()
	flow := newTestFlow(oracles, store, nil)
	ctx := context.Background()

	rec := newCompletionRecorder()
	flow.RequestPermission(ctx, KindNotifications, rec.callback)
	if got := rec.wait(t); got != platform.StatusAuthorized {
		t.Errorf("completion = %v, want %v", got, platform.StatusAuthorized)
	}

	if err := flow.Advance(KindNotifications); err != nil {
		t.Fatal(err)
	}
	if got := flow.ResolveResumeScreen(ctx); got != KindNotifications {
		t.Errorf("ResolveResumeScreen = %v, want %v", got, KindNotifications)
	}
}

func TestFlowRequestTimeoutFromConfig(t *testing.T) {
	oracle := fakeWithStatus(platform.StatusNotDetermined)
	oracle.outcome = platform.StatusAuthorized
	oracle.delay = 5 * time.Second
	oracles := allGrantedOracles()
	oracles[KindCamera] = oracle

	cfg := DefaultConfig()
	cfg.RequestTimeout = "50ms"
	flow := newTestFlow(oracles, newMemoryStore(), cfg)

	rec := newCompletionRecorder()
	flow.RequestPermission(context.Background(), KindCamera, rec.callback)

	if got := rec.wait(t); got != platform.StatusUnknown {
		t.Errorf("completion = %v, want %v after timeout", got, platform.StatusUnknown)
	}
}

func TestFlowCallerDeadlineWins(t *testing.T) {
	oracle := fakeWithStatus(platform.StatusNotDetermined)
	oracle.outcome = platform.StatusAuthorized
	oracle.delay = 100 * time.Millisecond
	oracles := allGrantedOracles()
	oracles[KindCamera] = oracle

	cfg := DefaultConfig()
	cfg.RequestTimeout = "10ms"
	flow := newTestFlow(oracles, newMemoryStore(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rec := newCompletionRecorder()
	flow.RequestPermission(ctx, KindCamera, rec.callback)

	// The caller's roomier deadline applies, so the slow prompt resolves.
	if got := rec.wait(t); got != platform.StatusAuthorized {
		t.Errorf("completion = %v, want %v", got, platform.StatusAuthorized)
	}
}

func TestFlowAlwaysDisabledByConfig(t *testing.T) {
	foreground := fakeWithStatus(platform.StatusNotDetermined)
	foreground.outcome = platform.StatusAuthorized
	oracles := allGrantedOracles()
	oracles[KindLocation] = foreground

	always := fakeWithStatus(platform.StatusNotDetermined)
	cfg := DefaultConfig()
	cfg.Location.RequestAlways = false

	flow := NewFlow(Options{
		Oracles: oracles,
		Always:  always,
		Store:   newMemoryStore(),
		Config:  cfg,
	})

	rec := newCompletionRecorder()
	flow.RequestPermission(context.Background(), KindLocation, rec.callback)
	if got := rec.wait(t); got != platform.StatusAuthorized {
		t.Errorf("completion = %v, want %v", got, platform.StatusAuthorized)
	}
	if always.requestCount() != 0 {
		t.Error("escalation must be skipped when disabled")
	}
}

func TestFlowAlwaysEscalationThroughFacade(t *testing.T) {
	foreground := fakeWithStatus(platform.StatusNotDetermined)
	foreground.outcome = platform.StatusAuthorized
	oracles := allGrantedOracles()
	oracles[KindLocation] = foreground

	always := fakeWithStatus(platform.StatusNotDetermined)
	always.outcome = platform.StatusAuthorized

	flow := NewFlow(Options{
		Oracles: oracles,
		Always:  always,
		Store:   newMemoryStore(),
	})

	rec := newCompletionRecorder()
	flow.RequestPermission(context.Background(), KindLocation, rec.callback)
	if got := rec.wait(t); got != platform.StatusAuthorized {
		t.Errorf("completion = %v, want %v", got, platform.StatusAuthorized)
	}
	if always.requestCount() != 1 {
		t.Errorf("always request count = %d, want 1", always.requestCount())
	}
}

func TestFlowFirstLaunch(t *testing.T) {
	store := newMemoryStore()
	flow := newTestFlow(allGrantedOracles(), store, nil)

	if !flow.FirstLaunch() {
		t.Error("expected first launch on an empty store")
	}
	if err := flow.MarkLaunched(); err != nil {
		t.Fatal(err)
	}
	if flow.FirstLaunch() {
		t.Error("expected FirstLaunch false after MarkLaunched")
	}
}

func TestFlowDisplayNames(t *testing.T) {
	flow := newTestFlow(allGrantedOracles(), newMemoryStore(), nil)
	names := flow.DisplayNames()

	if names[KindMotionAndFitness] != "Motion & Fitness" {
		t.Errorf("display name = %q, want %q", names[KindMotionAndFitness], "Motion & Fitness")
	}
	if names[KindCompleted] != "Completed" {
		t.Errorf("display name = %q, want %q", names[KindCompleted], "Completed")
	}
	if len(names) != len(Kinds())+1 {
		t.Errorf("len(names) = %d, want %d", len(names), len(Kinds())+1)
	}
}
