// Package listproto implements the append/page-rollover protocol and the
// reverse multi-page retrieval engine for a logical, horizontally scalable
// append-only sequence ("list") layered on top of a kv.Gateway.
//
// A list is materialized as a family of kv.Gateway items sharing a common
// id prefix: one summary item holding the list's currentPage counter, and
// zero or more numbered data pages each holding up to Config.MaxElementPerPage
// values. Engine is the single entry point: it is constructed once per
// kv.Gateway/table pair and carries its Config for its whole lifetime, with
// no package-level mutable state.
//
// The protocol uses only three kv.Gateway primitives as writes - PutIfAbsent,
// AppendToList and IncrementIfAtLeast - and never takes a lock. Concurrent appenders can
// produce blank pages, over-full pages and, on caller-level retry,
// duplicate items; all three are accepted outcomes, not bugs, and every
// read path tolerates them silently.
package listproto
