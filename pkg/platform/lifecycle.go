package platform

import (
	"sync"

	"github.com/go-drift/onboarding/pkg/errors"
)

const lifecycleEventsChannel = "onboarding/lifecycle/events"

// Lifecycle tracks the host app's lifecycle state. The always-location
// adapter uses the resume transition to detect the user returning from the
// system Settings app.
var Lifecycle = &LifecycleService{
	events:   NewEventChannel(lifecycleEventsChannel),
	state:    LifecycleStateResumed,
	handlers: make(map[int]LifecycleHandler),
}

// LifecycleService manages app lifecycle events.
type LifecycleService struct {
	events      *EventChannel
	state       LifecycleState
	handlers    map[int]LifecycleHandler
	nextHandler int
	mu          sync.RWMutex
}

// LifecycleState represents the current app lifecycle state.
type LifecycleState string

const (
	// LifecycleStateResumed indicates the app is visible and responding to
	// user input.
	LifecycleStateResumed LifecycleState = "resumed"

	// LifecycleStateInactive indicates the app is transitioning; on iOS this
	// occurs while a system dialog (including a permission prompt) is shown.
	LifecycleStateInactive LifecycleState = "inactive"

	// LifecycleStatePaused indicates the app is not visible but still running.
	LifecycleStatePaused LifecycleState = "paused"
)

// LifecycleHandler is called when lifecycle state changes.
type LifecycleHandler func(state LifecycleState)

func init() {
	listen := func() {
		Lifecycle.events.Listen(EventHandler{
			OnEvent: func(data any) {
				m, ok := data.(map[string]any)
				if !ok {
					errors.Report(&errors.OnboardingError{
						Op:      "lifecycle.parseEvent",
						Kind:    errors.KindParsing,
						Channel: lifecycleEventsChannel,
						Err: &errors.ParseError{
							Channel:  lifecycleEventsChannel,
							DataType: "LifecycleState",
							Got:      data,
						},
					})
					return
				}
				state := parseString(m["state"])
				if state == "" {
					return
				}
				Lifecycle.updateState(LifecycleState(state))
			},
			OnError: func(err error) {
				errors.Report(&errors.OnboardingError{
					Op:      "lifecycle.streamError",
					Kind:    errors.KindPlatform,
					Channel: lifecycleEventsChannel,
					Err:     err,
				})
			},
		})
	}
	listen()
	registerBuiltinInit(listen)
}

// State returns the current lifecycle state.
func (l *LifecycleService) State() LifecycleState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// IsResumed returns true if the app is in the resumed state.
func (l *LifecycleService) IsResumed() bool {
	return l.State() == LifecycleStateResumed
}

// AddHandler registers a handler to be called on lifecycle changes.
// Returns a function that removes the handler; it is safe to call more than
// once.
func (l *LifecycleService) AddHandler(handler LifecycleHandler) func() {
	l.mu.Lock()
	id := l.nextHandler
	l.nextHandler++
	l.handlers[id] = handler
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.handlers, id)
		l.mu.Unlock()
	}
}

// updateState updates the lifecycle state and notifies handlers.
func (l *LifecycleService) updateState(newState LifecycleState) {
	l.mu.Lock()
	if l.state == newState {
		l.mu.Unlock()
		return
	}
	l.state = newState
	handlers := make([]LifecycleHandler, 0, len(l.handlers))
	for _, h := range l.handlers {
		handlers = append(handlers, h)
	}
	l.mu.Unlock()

	for _, h := range handlers {
		h(newState)
	}
}

func (l *LifecycleService) resetForTest() {
	l.mu.Lock()
	l.state = LifecycleStateResumed
	l.handlers = make(map[int]LifecycleHandler)
	l.nextHandler = 0
	l.mu.Unlock()
}
