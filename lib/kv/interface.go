package kv

import "context"

// Gateway is the narrow primitive surface the append and retrieval engines
// in lib/listproto are built on. It is intentionally small: a single-item
// conditional put, a single-item projected get, an atomic list append, an
// atomic conditional increment, and a best-effort bulk get.
//
// All five operations are strongly consistent: a Get immediately following
// a successful write to the same key observes that write.
type Gateway interface {
	// PutIfAbsent creates item at item.Key only if no item currently exists
	// there. It returns a *Error with Kind KindAlreadyExists if one does.
	PutIfAbsent(ctx context.Context, item Item) error

	// Get returns the item stored at key, projected to the given attribute
	// names (a nil or empty projection returns every attribute). It returns
	// a *Error with Kind KindNotFound if no item exists at key.
	Get(ctx context.Context, key string, projection []string) (Item, error)

	// AppendToList atomically appends values to the list-valued attribute
	// attr of the item at key and returns the attribute's new length. It
	// returns a *Error with Kind KindItemMissing if no item exists at key.
	AppendToList(ctx context.Context, key, attr string, values []any) (newLength int, err error)

	// IncrementIfAtLeast atomically increments the numeric attribute attr
	// of the item at key from floor to floor+1, returning the new value. If
	// the attribute's current value is not exactly floor, it returns a
	// *Error with Kind KindPreconditionFailed and the value is unchanged.
	// It returns a *Error with Kind KindItemMissing if no item exists at key.
	IncrementIfAtLeast(ctx context.Context, key, attr string, floor int64) (newValue int64, err error)

	// BulkGet returns the items stored at the given keys. Keys with no
	// corresponding item are simply omitted from the result: a partial
	// result is a success, not an error. BulkGet never returns a
	// KindNotFound error.
	BulkGet(ctx context.Context, keys []string) ([]Item, error)
}
