// Package cli implements the interactive territory keeper client: a REPL
// over the local record store with commands for record and row CRUD,
// stats, CSV export, snapshot sharing and narrative report generation.
//
// All record edits are local-first; only the share commands talk to the
// server. Pending debounced saves are flushed when the REPL exits.
package cli
