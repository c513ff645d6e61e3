// Package server implements the RPC server for the append-only list store.
// It provides an adapter that dispatches Messages onto a shard's
// listproto.Engine, along with the core server implementation that manages
// shards and request routing.
//
// The package focuses on:
//   - Server-side RPC request handling for listproto.Engine operations
//   - Adapter pattern to decouple application logic from RPC mechanisms
//   - Flexible shard configuration with support for local and raft-replicated
//     kv.Gateway backends
//   - Dynamic construction of each shard's Engine and Gateway from configuration
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a
//     shard's *listproto.Engine.
//
//   - NewListProtoServerAdapter: Factory function creating the adapter that
//     translates RPC requests to listproto.Engine method calls.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Shards: []common.ServerShard{
//	    {ShardID: 100, Type: common.ShardTypeLocal, Region: "eu", TableName: "events"},
//	    {ShardID: 200, Type: common.ShardTypeRaft, Region: "eu", TableName: "orders"},
//	  },
//	  Transport: common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(64*1024, 8),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// The server supports two types of shards, which can be mixed within a
// single server:
//
//   - ShardTypeLocal: an in-process, non-replicated kv.Gateway (lib/kv/memory),
//     suitable for single-node deployments or development environments.
//
//   - ShardTypeRaft: a kv.Gateway replicated via a dragonboat replica group
//     (lib/kv/raftkv), providing strong consistency across multiple nodes.
//     When using this type, RAFT configuration (RTTMillisecond, SnapshotEntries,
//     CompactionOverhead, DataDir, ReplicaID, and ClusterMembers) must be
//     properly configured.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	Across multiple connections. Each request is processed independently.
//	The Serve method is not thread-safe and should be called only once.
package server
