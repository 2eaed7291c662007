package platform

import (
	"errors"
	"sync"
	"testing"
)

// recordingBridge records invocations and returns canned responses keyed by
// method name.
type recordingBridge struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]any
	err       error
}

func (b *recordingBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	b.mu.Lock()
	b.calls = append(b.calls, channel+"/"+method)
	b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return DefaultCodec.Encode(b.responses[method])
}
func (b *recordingBridge) StartEventStream(string) error { return nil }
func (b *recordingBridge) StopEventStream(string) error  { return nil }

func (b *recordingBridge) calledMethods() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

func TestMethodChannelInvokeWithoutBridge(t *testing.T) {
	t.Cleanup(ResetForTest)
	SetNativeBridge(nil)

	ch := NewMethodChannel("onboarding/test/nobridge")
	_, err := ch.Invoke("ping", nil)
	if !errors.Is(err, ErrPlatformUnavailable) {
		t.Errorf("expected ErrPlatformUnavailable, got %v", err)
	}
}

func TestMethodChannelInvokeRoundTrip(t *testing.T) {
	bridge := &recordingBridge{responses: map[string]any{
		"ping": map[string]any{"pong": true},
	}}
	SetupTestBridge(t.Cleanup)
	SetNativeBridge(bridge)

	ch := NewMethodChannel("onboarding/test/roundtrip")
	result, err := ch.Invoke("ping", map[string]any{"n": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := result.(map[string]any)
	if !ok || !parseBool(m["pong"]) {
		t.Errorf("expected pong response, got %v", result)
	}
}

func TestEventChannelDispatchAndCancel(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	ch := NewEventChannel("onboarding/test/events")
	var got []string
	sub := ch.Listen(EventHandler{
		OnEvent: func(data any) {
			got = append(got, parseString(data))
		},
	})

	ch.dispatchEvent("one")
	sub.Cancel()
	ch.dispatchEvent("two")

	if len(got) != 1 || got[0] != "one" {
		t.Errorf("expected exactly [one], got %v", got)
	}
	if !sub.IsCanceled() {
		t.Error("expected subscription to be canceled")
	}
	// Cancel is idempotent.
	sub.Cancel()
}

func TestHandleEventDecodesAndDispatches(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	ch := NewEventChannel("onboarding/test/handle")
	var got any
	ch.Listen(EventHandler{
		OnEvent: func(data any) { got = data },
	})

	data, err := DefaultCodec.Encode(map[string]any{"state": "resumed"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := HandleEvent("onboarding/test/handle", data); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	m, ok := got.(map[string]any)
	if !ok || parseString(m["state"]) != "resumed" {
		t.Errorf("expected decoded event, got %v", got)
	}
}

func TestHandleEventUnknownChannel(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	err := HandleEvent("onboarding/test/definitely-unregistered", nil)
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestHandleEventDoneCancelsSubscribers(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	ch := NewEventChannel("onboarding/test/done")
	doneCalled := false
	sub := ch.Listen(EventHandler{
		OnDone: func() { doneCalled = true },
	})

	if err := HandleEventDone("onboarding/test/done"); err != nil {
		t.Fatalf("HandleEventDone: %v", err)
	}
	if !doneCalled {
		t.Error("expected OnDone to be called")
	}
	if !sub.IsCanceled() {
		t.Error("expected subscription to be canceled after done")
	}
}

func TestDispatchRunsSynchronouslyWithoutDispatcher(t *testing.T) {
	t.Cleanup(ResetForTest)
	RegisterDispatch(nil)

	ran := false
	if ok := Dispatch(func() { ran = true }); !ok {
		t.Error("expected Dispatch to accept the callback")
	}
	if !ran {
		t.Error("expected callback to run synchronously without a dispatcher")
	}
	if Dispatch(nil) {
		t.Error("expected nil callback to be rejected")
	}
}

func TestDispatchUsesRegisteredFunction(t *testing.T) {
	t.Cleanup(ResetForTest)

	var queued []func()
	RegisterDispatch(func(cb func()) { queued = append(queued, cb) })

	ran := false
	Dispatch(func() { ran = true })
	if ran {
		t.Error("expected callback to be deferred to the dispatch function")
	}
	if len(queued) != 1 {
		t.Fatalf("expected 1 queued callback, got %d", len(queued))
	}
	queued[0]()
	if !ran {
		t.Error("expected queued callback to run")
	}
}
