// Package common provides core data structures and utilities shared across
// the append-only list store's RPC layer. It defines the wire message, the
// server and client configuration structures, and a custom logger integrated
// with Dragonboat.
//
// The package focuses on:
//   - Message protocol definition for inter-component communication
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with Dragonboat
//   - Utilities for Dragonboat (RAFT) integration
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication between
//     components. It carries every listproto.Engine operation's arguments and
//     results; complex values (a Summary, an AppendResult, a DataPage, a
//     retrieval result) are gob-encoded into Value/Payload by the adapter and
//     client packages rather than modeled as their own fields. Message does
//     not reference listproto; RetrieveResult (values.go) does.
//
//   - MessageType: Enumeration of the listproto.Engine operations exposed
//     over RPC, plus control messages.
//
//   - ServerConfig: Configuration for a server process, describing the
//     shards it hosts (each a listproto.Engine over a local or raft-replicated
//     kv.Gateway), RAFT parameters, and its transport listener. Provides
//     utilities for converting to Dragonboat-specific configurations.
//
//   - ClientConfig: Configuration for client components, controlling
//     connection parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging system while providing consistent formatting across the application.
package common
