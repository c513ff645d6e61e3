// Package memory implements kv.Gateway as a sharded, in-process store.
// It is the engine used for tests and single-node deployments: every
// primitive is a single atomic compute over one shard's concurrent map, so
// no cross-shard locking is ever needed.
package memory
