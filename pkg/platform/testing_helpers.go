package platform

// stubBridge answers every invoke with an empty response and accepts all
// stream requests, so adapters behave as if a native side is connected but
// has nothing to say. Tests that need scripted responses install their own
// bridge on top.
type stubBridge struct{}

func (stubBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	return DefaultCodec.Encode(nil)
}

func (stubBridge) StartEventStream(string) error { return nil }
func (stubBridge) StopEventStream(string) error  { return nil }

// SetupTestBridge prepares the package for a test: it connects a stub
// bridge, makes Dispatch run callbacks inline, forces the shared permission
// channels to exist so scripted change events have somewhere to land, and
// registers ResetForTest through cleanup (normally testing.T.Cleanup):
//
//	platform.SetupTestBridge(t.Cleanup)
//	platform.SetNativeBridge(myScriptedBridge)
func SetupTestBridge(cleanup func(func())) {
	SetNativeBridge(stubBridge{})
	RegisterDispatch(func(callback func()) { callback() })
	permissionMethods()
	permissionChanges()
	cleanup(ResetForTest)
}
