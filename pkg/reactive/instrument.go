package reactive

import "sync/atomic"

// Kind names a reactive primitive in instrumentation output.
type Kind string

const (
	KindCell    Kind = "cell"
	KindList    Kind = "list"
	KindDerived Kind = "derived"
	KindEvent   Kind = "event"
)

// Instrumentation receives observations from the reactive core. Implementations
// must be safe for concurrent use and must not call back into the primitive
// that produced the observation.
//
// The telemetry package provides Prometheus and OpenTelemetry implementations.
type Instrumentation interface {
	// Created is called once per primitive construction.
	Created(kind Kind)

	// Subscribed is called when a callback is registered.
	Subscribed(kind Kind)

	// Unsubscribed is called when a callback is removed.
	Unsubscribed(kind Kind)

	// Notified is called after one mutation's fan-out completes, with the
	// number of callbacks invoked and the wall time spent in them.
	Notified(kind Kind, fanout int, seconds float64)
}

// instrumentation holds the active hook. Nil means instrumentation is off,
// which is the default and costs a single atomic load per operation.
var instrumentation atomic.Value // of instrumentationBox

// instrumentationBox lets atomic.Value hold differing concrete types,
// including nil.
type instrumentationBox struct {
	in Instrumentation
}

// SetInstrumentation installs the package-wide instrumentation hook.
// This should be set at startup and not changed during runtime.
// Passing nil turns instrumentation off.
func SetInstrumentation(in Instrumentation) {
	instrumentation.Store(instrumentationBox{in: in})
}

func currentInstrumentation() Instrumentation {
	if v := instrumentation.Load(); v != nil {
		return v.(instrumentationBox).in
	}
	return nil
}

func instrumentCreated(kind Kind) {
	if in := currentInstrumentation(); in != nil {
		in.Created(kind)
	}
}

func instrumentSubscribed(kind Kind) {
	if in := currentInstrumentation(); in != nil {
		in.Subscribed(kind)
	}
}

func instrumentUnsubscribed(kind Kind) {
	if in := currentInstrumentation(); in != nil {
		in.Unsubscribed(kind)
	}
}
