package common

import (
	"fmt"
	"github.com/lni/dragonboat/v4/config"
	"math"
	"sort"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// helper functions for to interface with Dragonboat (for the server util)
// --------------------------------------------------------------------------

// Dragonboat uses RTT (Round Trip Time) to determine the timing of elections and heartbeats.
// These default values are selected according to the RAFT Paper
const (
	electionRTTFactor  = 10
	heartbeatRTTFactor = 1
)

// ToDragonboatConfig converts the ServerConfig to Dragonboat Config
func (c *ServerConfig) ToDragonboatConfig(shardId uint64) config.Config {
	return config.Config{
		ReplicaID:          c.ReplicaID,
		ShardID:            shardId,
		ElectionRTT:        electionRTTFactor,  // = c.RTTMillisecond * 10
		HeartbeatRTT:       heartbeatRTTFactor, // = c.RTTMillisecond * 1
		CheckQuorum:        true,
		SnapshotEntries:    c.SnapshotEntries,
		CompactionOverhead: c.CompactionOverhead,
		MaxInMemLogSize:    0,
	}
}

// ToNodeHostConfig creates a NodeHostConfig for Dragonboat
func (c *ServerConfig) ToNodeHostConfig() config.NodeHostConfig {
	return config.NodeHostConfig{
		WALDir:         c.DataDir,
		NodeHostDir:    c.DataDir,
		RTTMillisecond: c.RTTMillisecond,
		RaftAddress:    c.ClusterMembers[c.ReplicaID],
	}
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerShardType selects which kv.Gateway backs a shard's listproto.Engine.
type ServerShardType string

const (
	// ShardTypeLocal backs the shard's Engine with an in-process, non-replicated
	// kv.Gateway (lib/kv/memory).
	ShardTypeLocal ServerShardType = "local"
	// ShardTypeRaft backs the shard's Engine with a dragonboat replica group
	// (lib/kv/raftkv), replicated across ClusterMembers.
	ShardTypeRaft ServerShardType = "raft"
)

// ServerShard describes one hosted shard: its ID, which kv.Gateway backend it
// runs on, and the region/table/page-size the shard's listproto.Engine
// addresses.
type ServerShard struct {
	// ShardID is the ID of the shard
	ShardID uint64
	// Type selects the shard's kv.Gateway backend
	Type ServerShardType

	// Region and TableName are the list namespace this shard's Engine addresses
	Region    string
	TableName string
	// MaxElementPerPage overrides the Engine's page-size threshold; <= 0 keeps
	// the Engine default
	MaxElementPerPage int
}

// ServerTransportConfig configures the listener socket a server transport
// binds and, for stream transports, the per-connection socket tuning applied
// after accept.
type ServerTransportConfig struct {
	// Endpoint is the address (host:port for tcp/http, socket path for unix)
	// to listen on
	Endpoint string

	// TCPConf/SocketConf tuning, ignored by transports that don't apply
	TCPNoDelay      bool
	WriteBufferSize int
	ReadBufferSize  int
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// ServerConfig holds all configuration parameters for the RAFT cluster.
type ServerConfig struct {
	// The shards hosted by this server process
	Shards []ServerShard

	// Dragenboat parameters
	RTTMillisecond     uint64
	SnapshotEntries    uint64
	CompactionOverhead uint64
	DataDir            string
	ReplicaID          uint64
	ClusterMembers     map[uint64]string

	// remote kvStore parameters
	TimeoutSecond int64

	// Transport listener settings
	Transport ServerTransportConfig

	// Logging configuration
	LogLevel string
}

// HasRemoteShard checks if the configuration contains any raft-backed shards
func (c *ServerConfig) HasRemoteShard() bool {
	for _, shard := range c.Shards {
		if shard.Type == ShardTypeRaft {
			return true
		}
	}
	return false
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Shards
	addSection("Shards")
	for _, shard := range c.Shards {
		addField(strconv.FormatUint(shard.ShardID, 10),
			fmt.Sprintf("%s region=%s table=%s", shard.Type, shard.Region, shard.TableName))
	}

	if c.HasRemoteShard() {
		// Node Identity
		addSection("Node Identity")
		addField("RAFT Address", c.ClusterMembers[c.ReplicaID])
		addField("Node ID", strconv.FormatUint(c.ReplicaID, 10))

		// RAFT parameters
		addSection("RAFT Parameters")
		addField("Round Trip Time (ms)", fmt.Sprintf("%d ms", c.RTTMillisecond))
		addField("Election RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*electionRTTFactor))
		addField("Heartbeat RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*heartbeatRTTFactor))
		addField("Check Quorum", fmt.Sprintf("%t", true))
		addField("Snapshot Entries", fmt.Sprintf("%d", c.SnapshotEntries))
		addField("Compaction Overhead", fmt.Sprintf("%d", c.CompactionOverhead))
		addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

		// Storage
		addSection("Storage")
		addField("Data Directory", c.DataDir)

		// ConfServerModeMultiNode configuration
		addSection("ConfServerModeMultiNode")
		sb.WriteString("  Initial ConfServerModeMultiNode Members:\n")

		// Sort keys for consistent output
		var keys []uint64
		for k := range c.ClusterMembers {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("    Node %d: %s\n", k, c.ClusterMembers[k]))
		}
	}
	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// SocketConf tunes the OS-level read/write buffer sizes of a stream connection.
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf tunes TCP-specific socket options of a stream connection.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// ClientTransportConfig configures how a client transport reaches its
// server(s): the endpoints to dial, how many connections to keep per
// endpoint, retry behavior, and per-connection socket tuning.
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf             SocketConf
	TCPConf                TCPConf
}

// ClientConfig holds all configuration a client-side transport needs.
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
