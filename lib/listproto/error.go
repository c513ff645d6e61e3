package listproto

import "fmt"

// Kind identifies the category of an Error, letting callers switch on the
// failure mode instead of matching error strings.
type Kind uint8

const (
	// KindUnknown is the zero value and should not be returned by the engine.
	KindUnknown Kind = iota
	// KindCreateNewPage means AtomicAppend's create-then-retry recovery
	// failed a second time. The call is fatal; list state remains valid.
	KindCreateNewPage
	// KindStoreUnavailable means the underlying kv.Gateway returned a
	// transport/availability error. Safe to retry with backoff.
	KindStoreUnavailable
	// KindPageNotFound means the list itself has not been created, raised
	// by GetCurrentPage/GetSummary on a missing summary (and passed on by
	// AtomicAppend and RetrieveLastMostRecent, which read the current page
	// first). GetDataPage never returns it: a missing data page is never an
	// error.
	KindPageNotFound
	// KindInvalidCursor means a cursor passed to RetrieveNextMostRecent
	// has an empty or non-numeric PageID.
	KindInvalidCursor
	// KindNotImplemented is returned by AtomicBulkAppendBulk.
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindCreateNewPage:
		return "CreateNewPage"
	case KindStoreUnavailable:
		return "StoreUnavailable"
	case KindPageNotFound:
		return "PageNotFound"
	case KindInvalidCursor:
		return "InvalidCursor"
	case KindNotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every Engine method. A nil *Error
// return means success.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("listproto: %s: %s", e.Kind, e.Msg)
}

// NewError creates a new Error of the given kind.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
