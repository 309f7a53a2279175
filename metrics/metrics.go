package metrics

import "time"

// Recorder receives client events. The default is NoopRecorder.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
