// Package server exposes the reconciler over HTTP for inspection and for
// remote hosts.
//
// Routes:
//
//	POST /patch    {"old": tree, "new": tree} -> journal, hook trace, stats, html
//	GET  /ws       WebSocket session; each text message is a tree, each reply
//	               is one or more binary mutation frames
//	GET  /metrics  Prometheus metrics (when a collector is configured)
//	GET  /healthz  liveness
//
// Trees use the JSON document format of package treefile.
//
// Each WebSocket session owns an in-memory arena and engine and keeps the
// last tree it was sent. A message is patched against that tree and the
// drained mutation journal is sent as a protocol batch with an increasing
// sequence number, so a client replaying batches in order mirrors the
// arena. Malformed documents produce a non-fatal error frame. A failed
// patch leaves the arena in an unknown state, so it produces a fatal
// error frame and the session is closed.
package server
