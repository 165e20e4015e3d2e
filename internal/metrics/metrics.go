package metrics

import "time"

// Recorder receives operation counters and latencies. Labels not known to an
// implementation are ignored.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Label keys understood by the Prometheus recorder.
const (
	LabelChain   = "chain"
	LabelOutcome = "outcome"
)
