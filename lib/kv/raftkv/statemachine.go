package raftkv

import (
	"context"
	"fmt"
	"io"

	"github.com/nilfjord/seqstore/lib/kv"
	"github.com/nilfjord/seqstore/lib/kv/raftkv/internal"

	sm "github.com/lni/dragonboat/v4/statemachine"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// GatewayStateMachine is a dragonboat state machine that applies Gateway
// writes deterministically from the replicated log. Each replica holds its
// own local in-process Gateway and only ever mutates it from Update/
// RecoverFromSnapshot, so every replica converges to the same state.
type GatewayStateMachine struct {
	replicaID uint64
	shardID   uint64
	gateway   kv.Gateway // the local, non-replicated backing store for this replica
}

// CreateStateMachineFactory returns a function dragonboat uses to create a
// new state machine per node host. The factory pattern lets the caller
// choose the in-process Gateway implementation backing each replica.
func CreateStateMachineFactory(gatewayFactory func() kv.Gateway) func(shardID, replicaID uint64) sm.IConcurrentStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return &GatewayStateMachine{
			replicaID: replicaID,
			shardID:   shardID,
			gateway:   gatewayFactory(),
		}
	}
}

// Lookup handles read-only queries by mapping each Query operation onto the
// local Gateway.
func (fsm *GatewayStateMachine) Lookup(itf interface{}) (interface{}, error) {
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, fmt.Errorf("invalid Query type: %T", itf)
	}

	ctx := context.Background()

	switch q.Type {
	case internal.QueryTGet:
		item, err := fsm.gateway.Get(ctx, q.Key, q.Projection)
		if kv.IsKind(err, kv.KindNotFound) {
			return internal.QueryResult{Found: false}, nil
		}
		if err != nil {
			return nil, err
		}
		return internal.QueryResult{Found: true, Item: item.Attributes}, nil

	case internal.QueryTBulkGet:
		items, err := fsm.gateway.BulkGet(ctx, q.Keys)
		if err != nil {
			return nil, err
		}
		res := internal.QueryResult{Found: true, Items: make([]internal.ItemResult, len(items))}
		for i, it := range items {
			res.Items[i] = internal.ItemResult{Key: it.Key, Attributes: it.Attributes}
		}
		return res, nil

	default:
		return nil, fmt.Errorf("unknown Query operation: %d", q.Type)
	}
}

// Update handles write commands on the local Gateway. All write operations
// are serialized into []byte and are accessible via the entries struct.
func (fsm *GatewayStateMachine) Update(entries []sm.Entry) ([]sm.Entry, error) {
	ctx := context.Background()

	for idx, e := range entries {
		cmd := internal.Command{}
		if err := cmd.Deserialize(e.Cmd); err != nil {
			entries[idx].Result = sm.Result{Data: (&internal.CommandResult{
				ErrKind: uint8(kv.KindUnknown),
				ErrMsg:  fmt.Sprintf("failed to deserialize command: %v", err),
			}).Serialize()}
			continue
		}

		switch cmd.Type {
		case internal.CommandTPutIfAbsent:
			err := fsm.gateway.PutIfAbsent(ctx, kv.Item{Key: cmd.Key, Attributes: cmd.Item})
			entries[idx].Result = sm.Result{Data: resultFromErr(err, 0, 0)}

		case internal.CommandTAppendToList:
			n, err := fsm.gateway.AppendToList(ctx, cmd.Key, cmd.Attribute, cmd.Values)
			entries[idx].Result = sm.Result{Data: resultFromErr(err, n, 0)}

		case internal.CommandTIncrementIfAtLeast:
			v, err := fsm.gateway.IncrementIfAtLeast(ctx, cmd.Key, cmd.Attribute, cmd.Floor)
			entries[idx].Result = sm.Result{Data: resultFromErr(err, 0, v)}

		default:
			entries[idx].Result = sm.Result{Data: (&internal.CommandResult{
				ErrKind: uint8(kv.KindUnknown),
				ErrMsg:  fmt.Sprintf("unknown Command operation: %s", cmd.Type),
			}).Serialize()}
		}
	}

	return entries, nil
}

func resultFromErr(err error, newLength int, newValue int64) []byte {
	res := internal.CommandResult{NewLength: newLength, NewValue: newValue}
	if kvErr, ok := err.(*kv.Error); ok {
		res.ErrKind = uint8(kvErr.Kind)
		res.ErrMsg = kvErr.Msg
	} else if err != nil {
		res.ErrKind = uint8(kv.KindUnavailable)
		res.ErrMsg = err.Error()
	}
	return res.Serialize()
}

// PrepareSnapshot returns nil; snapshots are not supported, see SaveSnapshot.
func (fsm *GatewayStateMachine) PrepareSnapshot() (interface{}, error) {
	return nil, nil
}

// SaveSnapshot is not implemented: the in-process Gateway backends carry no
// persistence of their own, matching the teacher's maple engine before a
// Save/Load-capable backend is plugged in. A raftkv deployment relies on
// replaying the raft log (or, on compaction, on a future snapshot-capable
// Gateway) rather than on a snapshot image.
func (fsm *GatewayStateMachine) SaveSnapshot(_ interface{}, _ io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	return fmt.Errorf("raftkv: snapshotting is not supported by the in-process gateway backend")
}

// RecoverFromSnapshot is not implemented, see SaveSnapshot.
func (fsm *GatewayStateMachine) RecoverFromSnapshot(_ io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	return fmt.Errorf("raftkv: snapshot recovery is not supported by the in-process gateway backend")
}

// Close performs any necessary cleanup.
func (fsm *GatewayStateMachine) Close() error {
	return nil
}
