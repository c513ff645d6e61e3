package kv

import "encoding/gob"

func init() {
	// Attribute values travel through gob at two points: raftkv's replicated
	// log (internal.Command/Query) and the RPC wire protocol. gob requires
	// every concrete type ever stored in an interface{} field to be
	// registered up front, so register the value shapes attribute maps and
	// list elements actually take on across the store.
	gob.Register("")
	gob.Register(int(0))
	gob.Register(int32(0))
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register(false)
	gob.Register([]byte(nil))
	gob.Register([]any(nil))
	gob.Register(map[string]any(nil))
}

// Item is a single record in the store: a key plus a map of named
// attributes. This mirrors the wide-column attribute maps of managed
// key-value stores (e.g. a single DynamoDB item) rather than a flat
// byte-string value, since both the summary and page records the rest of
// seqstore builds on top of this package carry several named fields.
//
// A zero Item's Attributes map is nil; callers must not rely on it being
// allocated.
type Item struct {
	Key        string
	Attributes map[string]any
}

// Clone returns a deep-enough copy of the item safe for a caller to mutate
// without affecting the Gateway's internal state. List-valued attributes
// are copied; scalar attributes are shared (they are treated as immutable
// by convention).
func (it Item) Clone() Item {
	attrs := make(map[string]any, len(it.Attributes))
	for k, v := range it.Attributes {
		if list, ok := v.([]any); ok {
			cp := make([]any, len(list))
			copy(cp, list)
			attrs[k] = cp
			continue
		}
		attrs[k] = v
	}
	return Item{Key: it.Key, Attributes: attrs}
}
