// Package platform provides the channel plumbing between Go and native
// permission APIs. It lets the onboarding packages query authorization
// status, trigger permission prompts, and receive status-change events from
// the native platform without containing any OS-specific logic themselves.
package platform

import (
	"encoding/json"
	"errors"
)

// MessageCodec encodes and decodes messages for platform channel communication.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to native code.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from native code to a Go value.
	Decode(data []byte) (any, error)
}

// JsonCodec implements MessageCodec using JSON encoding.
// JSON prioritizes interoperability and minimal native dependencies.
type JsonCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value.
func (c JsonCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DefaultCodec is the codec used by platform channels.
var DefaultCodec MessageCodec = JsonCodec{}

// Sentinel errors for platform channel operations.
var (
	// ErrChannelNotFound indicates an event arrived for a channel nothing
	// registered.
	ErrChannelNotFound = errors.New("platform channel not found")

	// ErrPlatformUnavailable indicates no native bridge is connected. Oracles
	// translate this into StatusUnknown rather than surfacing it to callers.
	ErrPlatformUnavailable = errors.New("platform unavailable")

	// ErrTimeout is returned when a permission request exceeds its deadline.
	ErrTimeout = errors.New("permission request timed out")

	// ErrCanceled is returned when a permission request context is canceled.
	ErrCanceled = errors.New("permission request canceled")
)
