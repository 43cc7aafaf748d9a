// Package api hosts the HTTP server, middleware, and REST handlers for operator
// access. Notable routes:
//   - GET /healthz / readyz for probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/runs/latest and /v1/runs/{run_id} for run snapshots via the
//     RunRepository interface.
//   - GET /digests/* serving the rendered output directory.
package api
