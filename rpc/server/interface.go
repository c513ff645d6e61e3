package server

import (
	"github.com/nilfjord/seqstore/lib/listproto"
	"github.com/nilfjord/seqstore/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It takes a Message and the shard's Engine as parameters.
	// It returns a Message as a response
	// If an error occurs, it should be set in the response
	Handle(req *common.Message, engine *listproto.Engine) (resp *common.Message)
}
