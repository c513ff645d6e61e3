package server

import (
	"fmt"
	"github.com/nilfjord/seqstore/lib/kv"
	"github.com/nilfjord/seqstore/lib/kv/memory"
	"github.com/nilfjord/seqstore/lib/kv/raftkv"
	"github.com/nilfjord/seqstore/lib/listproto"
	"github.com/nilfjord/seqstore/rpc/common"
	"github.com/nilfjord/seqstore/rpc/serializer"
	"github.com/nilfjord/seqstore/rpc/transport"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"runtime"
	"os/signal"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("rpc")

// serverShard is a struct that represents a shard in the RPC server
// It contains the listproto.Engine it hosts and the adapter
// that handles requests for that engine
type serverShard struct {
	Engine  *listproto.Engine
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create shards map
	shardMap := xsync.NewMapOf[uint64, serverShard]()

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     shardMap,
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(shardId uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		// Get appropriate shard
		shard, ok := s.shards.Load(shardId)

		// Case shard does not exist -> error
		if !ok {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     "shard not found",
			}
		} else {
			// Decode the request
			err := s.serializer.Deserialize(req, &msg)

			if err != nil {
				respMsg = common.Message{
					MsgType: common.MsgTError,
					Err:     fmt.Sprintf("failed to deserialize request: %s", err),
				}
			} else {
				// Let the adapter handle the request
				respMsg = *shard.Adapter.Handle(&msg, shard.Engine)
			}
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to serialize response: %s", err),
			}
		}
		return val
	})
}

func (s *rpcServer) init() error {

	// Init logger
	common.InitLoggers(s.config)

	// Create the Dragonboat NodeHost
	var nodeHost *dragonboat.NodeHost
	var err error
	if s.config.HasRemoteShard() {
		// Only create the NodeHost if we have raft-backed shards
		nodeHost, err = dragonboat.NewNodeHost(s.config.ToNodeHostConfig())
		if err != nil {
			return fmt.Errorf("failed to create node host: %w", err)
		}
	}

	// Configure the timeout for raft proposals and linearizable reads
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	// CREATE SHARDS

	/*
		Note: A single RPC Server can have any number of local and/or raft
		shards. Each shard hosts its own listproto.Engine over its own
		kv.Gateway: local shards use an in-process, non-replicated Gateway,
		raft shards replicate their Gateway across ClusterMembers via a
		dragonboat replica group. The following loop creates all the shards
		and stores them for the RPC server.
	*/

	for _, shardConfig := range s.config.Shards {
		engine, err := s.buildEngine(nodeHost, timeout, shardConfig)
		if err != nil {
			return err
		}

		s.shards.Store(shardConfig.ShardID, serverShard{
			Engine:  engine,
			Adapter: NewListProtoServerAdapter(),
		})
		Logger.Infof("created %s shard %d (region=%s table=%s)",
			shardConfig.Type, shardConfig.ShardID, shardConfig.Region, shardConfig.TableName)
	}

	Logger.Infof("seqstore setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// buildEngine constructs the listproto.Engine backing one shard, choosing a
// local or raft-replicated kv.Gateway per the shard's configured type.
func (s *rpcServer) buildEngine(nodeHost *dragonboat.NodeHost, timeout time.Duration, shardConfig common.ServerShard) (*listproto.Engine, error) {
	var gw kv.Gateway

	switch shardConfig.Type {
	case common.ShardTypeLocal:
		gw = memory.NewGateway(nil)

	case common.ShardTypeRaft:
		if nodeHost == nil {
			return nil, fmt.Errorf("node host is nil, cannot create raft shard %d", shardConfig.ShardID)
		}

		gatewayFactory := func() kv.Gateway { return memory.NewGateway(nil) }
		if err := nodeHost.StartConcurrentReplica(
			s.config.ClusterMembers, false,
			raftkv.CreateStateMachineFactory(gatewayFactory),
			s.config.ToDragonboatConfig(shardConfig.ShardID),
		); err != nil {
			return nil, fmt.Errorf("failed to start shard %d: %w", shardConfig.ShardID, err)
		}

		gw = raftkv.NewGateway(nodeHost, shardConfig.ShardID, &raftkv.Options{Timeout: timeout})

	default:
		return nil, fmt.Errorf("invalid shard type: %s", shardConfig.Type)
	}

	engine := listproto.NewEngine(gw, shardConfig.Region, shardConfig.TableName)
	if shardConfig.MaxElementPerPage > 0 {
		engine.ConfigureMaximumNumberOfElementPerPage(shardConfig.MaxElementPerPage)
	}
	return engine, nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}
