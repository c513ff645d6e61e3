// Package kv defines the narrow key-value primitive surface that the rest
// of seqstore is built on: a strongly-consistent single-item store offering
// conditional put, projected get, atomic list append and atomic conditional
// increment, plus a best-effort bulk get.
//
// Two implementations are provided: lib/kv/memory, a sharded in-process
// engine for tests and single-node deployments, and lib/kv/raftkv, a RAFT
// replicated engine for multi-node deployments. Callers of this package
// never need to know which one they are talking to.
package kv
