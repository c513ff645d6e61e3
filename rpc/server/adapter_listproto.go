package server

import (
	"context"
	"fmt"

	"github.com/nilfjord/seqstore/lib/listproto"
	"github.com/nilfjord/seqstore/rpc/common"
)

// NewListProtoServerAdapter creates the RPC adapter that dispatches Messages
// onto a shard's listproto.Engine.
func NewListProtoServerAdapter() IRPCServerAdapter {
	return &listProtoServerAdapterImpl{}
}

type listProtoServerAdapterImpl struct{}

func (adapter *listProtoServerAdapterImpl) Handle(req *common.Message, engine *listproto.Engine) *common.Message {
	if engine == nil {
		return common.NewErrorResponse("handler: engine is nil")
	}

	ctx := context.Background()

	switch req.MsgType {
	case common.MsgTIdempotentCreate:
		summary, err := engine.IdempotentCreate(ctx, req.ListID, req.Value)
		return common.NewIdempotentCreateResponse(mustEncode(summary, err))

	case common.MsgTAtomicAppend:
		var value any
		if err := common.DecodeGob(req.Value, &value); err != nil {
			return common.NewErrorResponse(fmt.Sprintf("decode append value: %v", err))
		}
		result, err := engine.AtomicAppend(ctx, req.ListID, value)
		return common.NewAtomicAppendResponse(mustEncode(result, err))

	case common.MsgTGetCurrentPage:
		p, err := engine.GetCurrentPage(ctx, req.ListID)
		return common.NewGetCurrentPageResponse(p, err)

	case common.MsgTGetSummary:
		summary, err := engine.GetSummary(ctx, req.ListID)
		return common.NewGetSummaryResponse(mustEncode(summary, err))

	case common.MsgTGetDataPage:
		page, err := engine.GetDataPage(ctx, req.ListID, req.N)
		return common.NewGetDataPageResponse(mustEncode(page, err))

	case common.MsgTRetrieveLastMostRecent:
		items, cursor, err := engine.RetrieveLastMostRecent(ctx, req.ListID, int(req.N))
		result := common.RetrieveResult{Items: items, Cursor: cursor}
		return common.NewRetrieveLastMostRecentResponse(mustEncode(result, err))

	case common.MsgTRetrieveNextMostRecent:
		cursor := listproto.Cursor{PageID: req.CursorPageID, SequenceID: int(req.CursorSequenceID)}
		items, next, err := engine.RetrieveNextMostRecent(ctx, req.ListID, cursor, int(req.N))
		result := common.RetrieveResult{Items: items, Cursor: next}
		return common.NewRetrieveNextMostRecentResponse(mustEncode(result, err))

	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC ListProtoAdapter - unsupported message type: %s", req.MsgType),
		)
	}
}

// mustEncode gob-encodes v for a response's Payload, returning the pair
// unchanged if v could not be applied (err != nil) so the caller's factory
// still surfaces err rather than an encode failure.
func mustEncode(v any, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	payload, encErr := common.EncodeGob(v)
	if encErr != nil {
		return nil, encErr
	}
	return payload, nil
}
