package platform

import "sync"

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch sets the dispatch function used to schedule callbacks on
// the caller's thread context (the UI thread in a mobile host). This should
// be called once by the host application during initialization.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch schedules a callback through the registered dispatch function.
// If no dispatch function is registered, the callback runs synchronously on
// the calling goroutine. Returns false if the callback is nil.
func Dispatch(callback func()) bool {
	if callback == nil {
		return false
	}
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil {
		callback()
		return true
	}
	fn(callback)
	return true
}
