package platform

import "testing"

func emitLifecycleState(t *testing.T, state LifecycleState) {
	t.Helper()
	data, err := DefaultCodec.Encode(map[string]any{"state": string(state)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := HandleEvent(lifecycleEventsChannel, data); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
}

func TestLifecycleInitialState(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	if !Lifecycle.IsResumed() {
		t.Error("expected initial state to be resumed")
	}
}

func TestLifecycleStateTransitions(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	emitLifecycleState(t, LifecycleStatePaused)
	if Lifecycle.State() != LifecycleStatePaused {
		t.Errorf("expected paused, got %q", Lifecycle.State())
	}

	emitLifecycleState(t, LifecycleStateResumed)
	if !Lifecycle.IsResumed() {
		t.Error("expected resumed after resume event")
	}
}

func TestLifecycleHandlersNotifiedOnChange(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	var got []LifecycleState
	remove := Lifecycle.AddHandler(func(state LifecycleState) {
		got = append(got, state)
	})

	emitLifecycleState(t, LifecycleStatePaused)
	// Same state again: no transition, no notification.
	emitLifecycleState(t, LifecycleStatePaused)
	emitLifecycleState(t, LifecycleStateResumed)

	if len(got) != 2 || got[0] != LifecycleStatePaused || got[1] != LifecycleStateResumed {
		t.Errorf("expected [paused resumed], got %v", got)
	}

	remove()
	emitLifecycleState(t, LifecycleStateInactive)
	if len(got) != 2 {
		t.Errorf("expected no notifications after removal, got %v", got)
	}

	// Removal is safe to call twice.
	remove()
}

func TestLifecycleIgnoresMalformedEvents(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	data, err := DefaultCodec.Encode("not a map")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := HandleEvent(lifecycleEventsChannel, data); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if !Lifecycle.IsResumed() {
		t.Error("malformed event must not change state")
	}
}
