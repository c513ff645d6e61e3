// Package client implements an RPC client for the append-only list store.
// It provides an implementation of IListClient that forwards
// listproto.Engine operations to a remote shard via RPC.
//
// The package focuses on:
//   - Transparent RPC access to a remote shard's listproto.Engine
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between RPC and domain errors
//
// Key Components:
//
//   - NewRPCListClient: Factory function that creates a client implementing
//     IListClient. This client forwards all operations to a remote server via
//     the configured transport layer, addressed by shard ID.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:5000"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create a serializer
//	ser := serializer.NewBinarySerializer()
//
//	// Create the client for shard 1
//	listClient, _ := client.NewRPCListClient(1, config, tcp.NewTCPClientTransport(), ser)
//
//	// Use the client
//	summary, _ := listClient.IdempotentCreate(ctx, "orders", nil)
//	result, _ := listClient.AtomicAppend(ctx, "orders", "order-42")
//
// Performance Considerations:
//
//   - For applications that frequently send large payloads, increasing ConnectionsPerEndpoint
//     can improve throughput by allowing parallel requests.
//
//   - For small messages, a single connection per endpoint is often more efficient due to
//     reduced connection overhead.
//
//   - The choice of serializer significantly affects performance. The binary serializer
//     provides the best performance and smallest payload size.
//
// Thread Safety:
//
//	The client implementation is thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization.
package client
