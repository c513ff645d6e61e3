// Package raftkv implements kv.Gateway over a dragonboat RAFT replica
// group: every write is proposed to the replicated log and applied by
// GatewayStateMachine on every replica, and every read is served through
// either a linearizable or a stale read against the local replica.
package raftkv

import (
	"context"
	"errors"
	"time"

	"github.com/nilfjord/seqstore/lib/kv"
	"github.com/nilfjord/seqstore/lib/kv/raftkv/internal"

	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	retries = 5
	log     = logger.GetLogger("kv/raftkv")
)

// gatewayImpl implements kv.Gateway over a dragonboat NodeHost.
type gatewayImpl struct {
	nh      *dragonboat.NodeHost
	shardID uint64
	cs      *client.Session
	timeout time.Duration
	stale   bool // whether reads may be served without going through raft
}

// Options configures a Gateway backed by a replica group.
type Options struct {
	Timeout time.Duration // per-request timeout for proposals and linearizable reads
	Stale   bool          // serve Get/BulkGet with StaleRead instead of SyncRead
}

// DefaultOptions returns the default raftkv Gateway options.
func DefaultOptions() *Options {
	return &Options{Timeout: 3 * time.Second}
}

// NewGateway creates a kv.Gateway backed by the given shard of nh. The
// shard's state machine must have been created with
// CreateStateMachineFactory.
func NewGateway(nh *dragonboat.NodeHost, shardID uint64, opts *Options) kv.Gateway {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &gatewayImpl{
		nh:      nh,
		shardID: shardID,
		cs:      nh.GetNoOPSession(shardID),
		timeout: opts.Timeout,
		stale:   opts.Stale,
	}
}

// --------------------------------------------------------------------------
// Internal write and read helpers
// --------------------------------------------------------------------------

// propose serializes cmd, proposes it via SyncPropose and decodes the
// resulting internal.CommandResult, retrying on a busy cluster.
func (g *gatewayImpl) propose(ctx context.Context, cmd internal.Command) (internal.CommandResult, error) {
	payload, err := cmd.Serialize()
	if err != nil {
		return internal.CommandResult{}, kv.NewError(kv.KindUnavailable, cmd.Key, err.Error())
	}

	for i := 0; i < retries; i++ {
		propCtx, cancel := context.WithTimeout(ctx, g.timeout)
		res, err := g.nh.SyncPropose(propCtx, g.cs, payload)
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncPropose: system busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(g.timeout / 10)
			continue
		}
		if err != nil {
			return internal.CommandResult{}, kv.NewError(kv.KindUnavailable, cmd.Key, err.Error())
		}

		result, err := internal.DeserializeCommandResult(res.Data)
		if err != nil {
			return internal.CommandResult{}, kv.NewError(kv.KindUnavailable, cmd.Key, err.Error())
		}
		return result, nil
	}
	return internal.CommandResult{}, kv.NewError(kv.KindUnavailable, cmd.Key, "timeout proposing command")
}

// read queries the state machine, using SyncRead by default or StaleRead if
// the Gateway was configured for stale reads, retrying on a busy cluster.
func (g *gatewayImpl) read(ctx context.Context, q internal.Query) (internal.QueryResult, error) {
	for i := 0; i < retries; i++ {
		var (
			res interface{}
			err error
		)

		if g.stale {
			res, err = g.nh.StaleRead(g.shardID, q)
		} else {
			readCtx, cancel := context.WithTimeout(ctx, g.timeout)
			res, err = g.nh.SyncRead(readCtx, g.shardID, q)
			cancel()
		}

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncRead: system busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(g.timeout / 10)
			continue
		}
		if err != nil {
			return internal.QueryResult{}, kv.NewError(kv.KindUnavailable, q.Key, err.Error())
		}

		casted, ok := res.(internal.QueryResult)
		if !ok {
			return internal.QueryResult{}, kv.NewError(kv.KindUnavailable, q.Key, "unexpected state machine response type")
		}
		return casted, nil
	}
	return internal.QueryResult{}, kv.NewError(kv.KindUnavailable, q.Key, "timeout reading from state machine")
}

// errFromResult turns a CommandResult's error fields back into a *kv.Error,
// returning nil if the command succeeded.
func errFromResult(key string, res internal.CommandResult) error {
	if res.ErrKind == uint8(kv.KindUnknown) && res.ErrMsg == "" {
		return nil
	}
	return kv.NewError(kv.Kind(res.ErrKind), key, res.ErrMsg)
}

// --------------------------------------------------------------------------
// kv.Gateway Implementation
// --------------------------------------------------------------------------

func (g *gatewayImpl) PutIfAbsent(ctx context.Context, item kv.Item) error {
	res, err := g.propose(ctx, internal.Command{
		Type: internal.CommandTPutIfAbsent,
		Key:  item.Key,
		Item: item.Attributes,
	})
	if err != nil {
		return err
	}
	return errFromResult(item.Key, res)
}

func (g *gatewayImpl) Get(ctx context.Context, key string, projection []string) (kv.Item, error) {
	res, err := g.read(ctx, internal.Query{Type: internal.QueryTGet, Key: key, Projection: projection})
	if err != nil {
		return kv.Item{}, err
	}
	if !res.Found {
		return kv.Item{}, kv.NewError(kv.KindNotFound, key, "item not found")
	}
	return kv.Item{Key: key, Attributes: res.Item}, nil
}

func (g *gatewayImpl) AppendToList(ctx context.Context, key, attr string, values []any) (int, error) {
	res, err := g.propose(ctx, internal.Command{
		Type:      internal.CommandTAppendToList,
		Key:       key,
		Attribute: attr,
		Values:    values,
	})
	if err != nil {
		return 0, err
	}
	if cmdErr := errFromResult(key, res); cmdErr != nil {
		return 0, cmdErr
	}
	return res.NewLength, nil
}

func (g *gatewayImpl) IncrementIfAtLeast(ctx context.Context, key, attr string, floor int64) (int64, error) {
	res, err := g.propose(ctx, internal.Command{
		Type:      internal.CommandTIncrementIfAtLeast,
		Key:       key,
		Attribute: attr,
		Floor:     floor,
	})
	if err != nil {
		return 0, err
	}
	if cmdErr := errFromResult(key, res); cmdErr != nil {
		return res.NewValue, cmdErr
	}
	return res.NewValue, nil
}

func (g *gatewayImpl) BulkGet(ctx context.Context, keys []string) ([]kv.Item, error) {
	res, err := g.read(ctx, internal.Query{Type: internal.QueryTBulkGet, Keys: keys})
	if err != nil {
		return nil, err
	}
	items := make([]kv.Item, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, kv.Item{Key: it.Key, Attributes: it.Attributes})
	}
	return items, nil
}
