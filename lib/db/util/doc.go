// Package util provides small utility functions shared across the db
// package hierarchy: a seeded FNV-1a string hash (used to derive stable
// numeric IDs, e.g. a RAFT replica ID from a human-readable node name) and a
// cryptographically seeded uint64 generator.
package util
