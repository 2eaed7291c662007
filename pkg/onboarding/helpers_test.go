package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/go-drift/onboarding/pkg/platform"
)

// fakePermission is a scripted oracle. Request transitions the status to
// outcome after an optional delay.
type fakePermission struct {
	mu      sync.Mutex
	status  platform.Status
	outcome platform.Status
	delay   time.Duration
	err     error

	// grantedOverride forces IsGranted, modeling per-kind rules like the
	// location full-accuracy requirement.
	grantedOverride *bool

	requests int
}

func fakeWithStatus(status platform.Status) *fakePermission {
	return &fakePermission{status: status, outcome: status}
}

func (f *fakePermission) Status(ctx context.Context) (platform.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return platform.StatusUnknown, f.err
	}
	return f.status, nil
}

func (f *fakePermission) Request(ctx context.Context) (platform.Status, error) {
	f.mu.Lock()
	f.requests++
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return platform.StatusUnknown, platform.ErrCanceled
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return platform.StatusUnknown, f.err
	}
	f.status = f.outcome
	return f.status, nil
}

func (f *fakePermission) IsGranted(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.grantedOverride != nil {
		return *f.grantedOverride
	}
	if f.err != nil {
		return false
	}
	return f.status.Granted()
}

func (f *fakePermission) IsDetermined(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false
	}
	return f.status.Determined()
}

func (f *fakePermission) Listen(handler func(platform.Status)) (unsubscribe func()) {
	return func() {}
}

func (f *fakePermission) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// allGrantedOracles returns a full oracle set with every kind authorized.
func allGrantedOracles() Oracles {
	oracles := make(Oracles, len(Kinds()))
	for _, kind := range Kinds() {
		oracles[kind] = fakeWithStatus(platform.StatusAuthorized)
	}
	return oracles
}

// memoryStore is an in-memory Store.
type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
