// Package sinks holds the progress.Sink implementations wired into a digest
// run: zap structured logging, Prometheus collectors, and the run snapshot
// store behind the /v1/runs API.
package sinks
