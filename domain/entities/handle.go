package entities

// Instance is an opaque handle to one chain instance.
type Instance uint64

// Session is an opaque handle to a session created from an Instance.
type Session uint64

// NullInstance is the null instance handle. Lookups made before an instance
// exists pass it.
const NullInstance Instance = 0

// NullSession is the null session handle.
const NullSession Session = 0

// Time is a runtime timestamp in nanoseconds.
type Time int64

// FrameEndInfo describes a frame submission.
type FrameEndInfo struct {
	DisplayTime          Time
	EnvironmentBlendMode uint32
	LayerCount           uint32
}

// EventDataBuffer receives one event from PollEvent.
type EventDataBuffer struct {
	Type uint32
	Data []byte
}

// ApplicationInfo identifies the application creating an instance.
type ApplicationInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         Version
}

// InstanceCreateInfo carries the application's instance-creation parameters.
// EnabledExtensionNames is rewritten by layers that implement some of the
// requested extensions before it is passed further down the chain.
type InstanceCreateInfo struct {
	ApplicationInfo       ApplicationInfo
	EnabledAPILayerNames  []string
	EnabledExtensionNames []string
	CreateFlags           uint64
}

// Clone returns a copy whose slices do not alias the receiver's.
func (i *InstanceCreateInfo) Clone() *InstanceCreateInfo {
	if i == nil {
		return nil
	}
	c := *i
	c.EnabledAPILayerNames = append([]string(nil), i.EnabledAPILayerNames...)
	c.EnabledExtensionNames = append([]string(nil), i.EnabledExtensionNames...)
	return &c
}
