// Package server provides the HTTP API for the drafter application.
//
// # Key Components
//
// ServerContext wires the request handlers to their dependencies: the
// Sheets client (lazily built from the service account key), the per-client
// session registry, and the instrumentation provider.
//
// The router exposes the JSON API:
//   - POST /api/load-sheet loads and normalizes a spreadsheet
//   - POST /api/drafts runs a draft batch for the authenticated client
//   - GET  /api/health reports liveness for the front end
//
// HealthChecker adds /healthz, /readyz and /healthz/detailed for
// Kubernetes probes, and MetricsServer serves Prometheus metrics on a
// dedicated port so operational data never shares a listener with user
// traffic.
//
// SessionRegistry tracks one session manager and batch runner per client
// access token, so repeated requests from the same signed-in user reuse
// their runner. Tokens are identified by hash only; raw tokens are never
// used as map keys or logged.
package server
