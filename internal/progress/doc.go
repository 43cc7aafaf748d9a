// Package progress provides the event primitives, non-blocking hub, and emitter
// interfaces that workers use to report digest run progress. It batches events
// on a background goroutine and fans them out to pluggable sinks such as
// Prometheus collectors, structured logs, or the run snapshot store.
package progress
