package platform

import (
	"encoding/json"
	"sync"
	"testing"
)

// preferencesBridge scripts the native preference store with an in-memory
// map.
type preferencesBridge struct {
	mu     sync.Mutex
	values map[string]string
}

func (b *preferencesBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	var m map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &m); err != nil {
			return nil, err
		}
	}
	key, _ := m["key"].(string)

	b.mu.Lock()
	defer b.mu.Unlock()
	switch method {
	case "get":
		value, exists := b.values[key]
		return DefaultCodec.Encode(map[string]any{"value": value, "exists": exists})
	case "set":
		value, _ := m["value"].(string)
		b.values[key] = value
		return DefaultCodec.Encode(nil)
	case "remove":
		delete(b.values, key)
		return DefaultCodec.Encode(nil)
	default:
		return DefaultCodec.Encode(nil)
	}
}
func (b *preferencesBridge) StartEventStream(string) error { return nil }
func (b *preferencesBridge) StopEventStream(string) error  { return nil }

func TestPreferencesMissingKey(t *testing.T) {
	SetupTestBridge(t.Cleanup)
	SetNativeBridge(&preferencesBridge{values: map[string]string{}})

	if _, ok := Preferences.Get("nope"); ok {
		t.Error("expected missing key to report absent")
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	SetupTestBridge(t.Cleanup)
	SetNativeBridge(&preferencesBridge{values: map[string]string{}})

	if err := Preferences.Set("onboarding.last_screen", "camera"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := Preferences.Get("onboarding.last_screen")
	if !ok {
		t.Fatal("expected key to exist after set")
	}
	if got != "camera" {
		t.Errorf("expected %q, got %q", "camera", got)
	}

	if err := Preferences.Set("onboarding.last_screen", "completed"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := Preferences.Get("onboarding.last_screen"); got != "completed" {
		t.Errorf("expected overwrite to %q, got %q", "completed", got)
	}
}

func TestPreferencesRemove(t *testing.T) {
	SetupTestBridge(t.Cleanup)
	SetNativeBridge(&preferencesBridge{values: map[string]string{"a": "1"}})

	if err := Preferences.Remove("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := Preferences.Get("a"); ok {
		t.Error("expected key to be gone after remove")
	}
}

func TestPreferencesUnavailableBridge(t *testing.T) {
	t.Cleanup(ResetForTest)
	SetNativeBridge(nil)

	if _, ok := Preferences.Get("anything"); ok {
		t.Error("expected absent when the bridge is unavailable")
	}
	if err := Preferences.Set("anything", "x"); err == nil {
		t.Error("expected an error when the bridge is unavailable")
	}
}
