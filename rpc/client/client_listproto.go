package client

import (
	"context"

	"github.com/nilfjord/seqstore/lib/listproto"
	"github.com/nilfjord/seqstore/rpc/common"
	"github.com/nilfjord/seqstore/rpc/serializer"
	"github.com/nilfjord/seqstore/rpc/transport"
)

// IListClient mirrors the subset of *listproto.Engine's operations that make
// sense across an RPC boundary. CreatePage,
// ConfigureStore/ConfigureMaximumNumberOfElementPerPage, GetConstants,
// GetCurrentConfiguration and AtomicBulkAppendBulk are not exposed.
type IListClient interface {
	IdempotentCreate(ctx context.Context, listID string, metadata []byte) (listproto.Summary, error)
	AtomicAppend(ctx context.Context, listID string, value any) (listproto.AppendResult, error)
	GetCurrentPage(ctx context.Context, listID string) (int64, error)
	GetSummary(ctx context.Context, listID string) (listproto.Summary, error)
	GetDataPage(ctx context.Context, listID string, pageNumber int64) (listproto.DataPage, error)
	RetrieveLastMostRecent(ctx context.Context, listID string, n int) ([]listproto.Item, listproto.Cursor, error)
	RetrieveNextMostRecent(ctx context.Context, listID string, cursor listproto.Cursor, n int) ([]listproto.Item, listproto.Cursor, error)
}

// NewRPCListClient creates a new RPC-backed IListClient bound to one remote shard.
func NewRPCListClient(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (IListClient, error) {
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &rpcListClient{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

type rpcListClient struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see lib/listproto's Engine)
// --------------------------------------------------------------------------

func (c *rpcListClient) IdempotentCreate(ctx context.Context, listID string, metadata []byte) (listproto.Summary, error) {
	if err := ctx.Err(); err != nil {
		return listproto.Summary{}, err
	}
	req := common.NewIdempotentCreateRequest(listID, metadata)
	resp, err := invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
	if err != nil {
		return listproto.Summary{}, err
	}
	var summary listproto.Summary
	if err := common.DecodeGob(resp.Payload, &summary); err != nil {
		return listproto.Summary{}, err
	}
	return summary, nil
}

func (c *rpcListClient) AtomicAppend(ctx context.Context, listID string, value any) (listproto.AppendResult, error) {
	if err := ctx.Err(); err != nil {
		return listproto.AppendResult{}, err
	}
	encodedValue, err := common.EncodeGob(&value)
	if err != nil {
		return listproto.AppendResult{}, err
	}
	req := common.NewAtomicAppendRequest(listID, encodedValue)
	resp, err := invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
	if err != nil {
		return listproto.AppendResult{}, err
	}
	var result listproto.AppendResult
	if err := common.DecodeGob(resp.Payload, &result); err != nil {
		return listproto.AppendResult{}, err
	}
	return result, nil
}

func (c *rpcListClient) GetCurrentPage(ctx context.Context, listID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	req := common.NewGetCurrentPageRequest(listID)
	resp, err := invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.N, nil
}

func (c *rpcListClient) GetSummary(ctx context.Context, listID string) (listproto.Summary, error) {
	if err := ctx.Err(); err != nil {
		return listproto.Summary{}, err
	}
	req := common.NewGetSummaryRequest(listID)
	resp, err := invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
	if err != nil {
		return listproto.Summary{}, err
	}
	var summary listproto.Summary
	if err := common.DecodeGob(resp.Payload, &summary); err != nil {
		return listproto.Summary{}, err
	}
	return summary, nil
}

func (c *rpcListClient) GetDataPage(ctx context.Context, listID string, pageNumber int64) (listproto.DataPage, error) {
	if err := ctx.Err(); err != nil {
		return listproto.DataPage{}, err
	}
	req := common.NewGetDataPageRequest(listID, pageNumber)
	resp, err := invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
	if err != nil {
		return listproto.DataPage{}, err
	}
	var page listproto.DataPage
	if err := common.DecodeGob(resp.Payload, &page); err != nil {
		return listproto.DataPage{}, err
	}
	return page, nil
}

func (c *rpcListClient) RetrieveLastMostRecent(ctx context.Context, listID string, n int) ([]listproto.Item, listproto.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, listproto.Cursor{}, err
	}
	req := common.NewRetrieveLastMostRecentRequest(listID, int64(n))
	resp, err := invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
	if err != nil {
		return nil, listproto.Cursor{}, err
	}
	var result common.RetrieveResult
	if err := common.DecodeGob(resp.Payload, &result); err != nil {
		return nil, listproto.Cursor{}, err
	}
	return result.Items, result.Cursor, nil
}

func (c *rpcListClient) RetrieveNextMostRecent(ctx context.Context, listID string, cursor listproto.Cursor, n int) ([]listproto.Item, listproto.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, listproto.Cursor{}, err
	}
	req := common.NewRetrieveNextMostRecentRequest(listID, cursor.PageID, int64(cursor.SequenceID), int64(n))
	resp, err := invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
	if err != nil {
		return nil, listproto.Cursor{}, err
	}
	var result common.RetrieveResult
	if err := common.DecodeGob(resp.Payload, &result); err != nil {
		return nil, listproto.Cursor{}, err
	}
	return result.Items, result.Cursor, nil
}
