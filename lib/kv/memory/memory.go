package memory

import (
	"context"
	"runtime"

	"github.com/nilfjord/seqstore/lib/db/util"
	"github.com/nilfjord/seqstore/lib/kv"
	"github.com/puzpuzpuz/xsync/v3"
)

// shard is one partition of the gateway's keyspace: an independent
// concurrent map so that operations on keys in different shards never
// contend with each other.
type shard struct {
	data *xsync.MapOf[string, kv.Item]
}

// gatewayImpl implements kv.Gateway over a sharded in-process map.
type gatewayImpl struct {
	seed   uint64
	shards []*shard
}

// Options configures a Gateway's shard count.
type Options struct {
	NumShards int // number of shards (0 = auto, based on CPU count)
}

// DefaultOptions returns the default memory Gateway options.
func DefaultOptions() *Options {
	return &Options{NumShards: runtime.NumCPU()}
}

// NewGateway creates a new in-process kv.Gateway.
//
// Thread-safety: the returned Gateway is safe for concurrent use. Each call
// returns an independent, empty Gateway.
func NewGateway(opts *Options) kv.Gateway {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.NumShards < 1 {
		opts.NumShards = runtime.NumCPU()
	}

	shards := make([]*shard, opts.NumShards)
	for i := range shards {
		shards[i] = &shard{data: xsync.NewMapOf[string, kv.Item]()}
	}

	return &gatewayImpl{
		seed:   util.GenerateSeed(),
		shards: shards,
	}
}

func (g *gatewayImpl) shardFor(key string) *shard {
	h := util.HashString(key, g.seed)
	return g.shards[uint64(h)%uint64(len(g.shards))]
}

// --------------------------------------------------------------------------
// kv.Gateway Implementation
// --------------------------------------------------------------------------

func (g *gatewayImpl) PutIfAbsent(_ context.Context, item kv.Item) error {
	s := g.shardFor(item.Key)

	var existed bool
	s.data.Compute(item.Key, func(old kv.Item, loaded bool) (kv.Item, bool) {
		if loaded {
			existed = true
			return old, false
		}
		return item.Clone(), false
	})

	if existed {
		return kv.NewError(kv.KindAlreadyExists, item.Key, "item already exists")
	}
	return nil
}

func (g *gatewayImpl) Get(_ context.Context, key string, projection []string) (kv.Item, error) {
	s := g.shardFor(key)

	item, ok := s.data.Load(key)
	if !ok {
		return kv.Item{}, kv.NewError(kv.KindNotFound, key, "item not found")
	}

	return project(item, projection), nil
}

func (g *gatewayImpl) AppendToList(_ context.Context, key, attr string, values []any) (int, error) {
	s := g.shardFor(key)

	var (
		newLength int
		missing   bool
	)
	s.data.Compute(key, func(old kv.Item, loaded bool) (kv.Item, bool) {
		if !loaded {
			missing = true
			return old, false
		}

		updated := old.Clone()
		existing, _ := updated.Attributes[attr].([]any)
		merged := make([]any, len(existing), len(existing)+len(values))
		copy(merged, existing)
		merged = append(merged, values...)
		updated.Attributes[attr] = merged
		newLength = len(merged)
		return updated, false
	})

	if missing {
		return 0, kv.NewError(kv.KindItemMissing, key, "item not found")
	}
	return newLength, nil
}

func (g *gatewayImpl) IncrementIfAtLeast(_ context.Context, key, attr string, floor int64) (int64, error) {
	s := g.shardFor(key)

	var (
		newValue        int64
		missing         bool
		preconditionErr bool
	)
	s.data.Compute(key, func(old kv.Item, loaded bool) (kv.Item, bool) {
		if !loaded {
			missing = true
			return old, false
		}

		current, _ := toInt64(old.Attributes[attr])
		if current != floor {
			preconditionErr = true
			newValue = current
			return old, false
		}

		updated := old.Clone()
		newValue = current + 1
		updated.Attributes[attr] = newValue
		return updated, false
	})

	switch {
	case missing:
		return 0, kv.NewError(kv.KindItemMissing, key, "item not found")
	case preconditionErr:
		return newValue, kv.NewError(kv.KindPreconditionFailed, key, "attribute is not at the expected floor value")
	default:
		return newValue, nil
	}
}

func (g *gatewayImpl) BulkGet(_ context.Context, keys []string) ([]kv.Item, error) {
	items := make([]kv.Item, 0, len(keys))
	for _, key := range keys {
		s := g.shardFor(key)
		if item, ok := s.data.Load(key); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func project(item kv.Item, projection []string) kv.Item {
	if len(projection) == 0 {
		return item.Clone()
	}

	out := kv.Item{Key: item.Key, Attributes: make(map[string]any, len(projection))}
	for _, attr := range projection {
		if v, ok := item.Attributes[attr]; ok {
			out.Attributes[attr] = v
		}
	}
	return out
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
