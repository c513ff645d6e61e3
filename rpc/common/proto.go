package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message. Complex request
// arguments and response values (a Summary, an AppendResult, a DataPage, a
// slice of Items) are not modeled as Message fields directly: the adapter and
// client packages gob-encode them into Value (request argument) and Payload
// (response value). The Message type itself does not reference listproto;
// RetrieveResult in values.go does.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request fields
	ListID           string `json:"listId,omitempty"`           // Used for: every operation
	Value            []byte `json:"value,omitempty"`            // Used for: IdempotentCreate (metadata), AtomicAppend (gob-encoded value)
	N                int64  `json:"n,omitempty"`                 // Used for: GetDataPage (page number), RetrieveLastMostRecent/RetrieveNextMostRecent (count)
	CursorPageID     string `json:"cursorPageId,omitempty"`     // Used for: RetrieveNextMostRecent
	CursorSequenceID int64  `json:"cursorSequenceId,omitempty"` // Used for: RetrieveNextMostRecent

	// Response only fields
	Ok      bool   `json:"ok,omitempty"`      // Used for: every response, false if Err is set
	Err     string `json:"err,omitempty"`     // Empty if no error, otherwise contains the error message
	Payload []byte `json:"payload,omitempty"` // gob-encoded response value (Summary, AppendResult, DataPage, or a retrieval result)

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Unused, can be used for additional Adapters
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewIdempotentCreateRequest creates a new IdempotentCreate request. metadata
// is the caller-supplied opaque blob to associate with the list.
func NewIdempotentCreateRequest(listID string, metadata []byte) *Message {
	return &Message{
		MsgType: MsgTIdempotentCreate,
		ListID:  listID,
		Value:   metadata,
	}
}

// NewIdempotentCreateResponse creates a new IdempotentCreate response.
// payload is a gob-encoded listproto.Summary.
func NewIdempotentCreateResponse(payload []byte, err error) *Message {
	msg := &Message{MsgType: MsgTIdempotentCreate, Ok: err == nil, Payload: payload}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewAtomicAppendRequest creates a new AtomicAppend request. value is a
// gob-encoded arbitrary value to append.
func NewAtomicAppendRequest(listID string, value []byte) *Message {
	return &Message{
		MsgType: MsgTAtomicAppend,
		ListID:  listID,
		Value:   value,
	}
}

// NewAtomicAppendResponse creates a new AtomicAppend response. payload is a
// gob-encoded listproto.AppendResult.
func NewAtomicAppendResponse(payload []byte, err error) *Message {
	msg := &Message{MsgType: MsgTAtomicAppend, Ok: err == nil, Payload: payload}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewGetCurrentPageRequest creates a new GetCurrentPage request.
func NewGetCurrentPageRequest(listID string) *Message {
	return &Message{
		MsgType: MsgTGetCurrentPage,
		ListID:  listID,
	}
}

// NewGetCurrentPageResponse creates a new GetCurrentPage response.
func NewGetCurrentPageResponse(currentPage int64, err error) *Message {
	msg := &Message{MsgType: MsgTGetCurrentPage, Ok: err == nil, N: currentPage}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewGetSummaryRequest creates a new GetSummary request.
func NewGetSummaryRequest(listID string) *Message {
	return &Message{
		MsgType: MsgTGetSummary,
		ListID:  listID,
	}
}

// NewGetSummaryResponse creates a new GetSummary response. payload is a
// gob-encoded listproto.Summary.
func NewGetSummaryResponse(payload []byte, err error) *Message {
	msg := &Message{MsgType: MsgTGetSummary, Ok: err == nil, Payload: payload}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewGetDataPageRequest creates a new GetDataPage request.
func NewGetDataPageRequest(listID string, pageNumber int64) *Message {
	return &Message{
		MsgType: MsgTGetDataPage,
		ListID:  listID,
		N:       pageNumber,
	}
}

// NewGetDataPageResponse creates a new GetDataPage response. payload is a
// gob-encoded listproto.DataPage.
func NewGetDataPageResponse(payload []byte, err error) *Message {
	msg := &Message{MsgType: MsgTGetDataPage, Ok: err == nil, Payload: payload}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewRetrieveLastMostRecentRequest creates a new RetrieveLastMostRecent
// request, asking for up to n items.
func NewRetrieveLastMostRecentRequest(listID string, n int64) *Message {
	return &Message{
		MsgType: MsgTRetrieveLastMostRecent,
		ListID:  listID,
		N:       n,
	}
}

// NewRetrieveLastMostRecentResponse creates a new RetrieveLastMostRecent
// response. payload is a gob-encoded RetrieveResult.
func NewRetrieveLastMostRecentResponse(payload []byte, err error) *Message {
	msg := &Message{MsgType: MsgTRetrieveLastMostRecent, Ok: err == nil, Payload: payload}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewRetrieveNextMostRecentRequest creates a new RetrieveNextMostRecent
// request, resuming from the given cursor and asking for up to n items.
func NewRetrieveNextMostRecentRequest(listID, cursorPageID string, cursorSequenceID, n int64) *Message {
	return &Message{
		MsgType:          MsgTRetrieveNextMostRecent,
		ListID:           listID,
		CursorPageID:     cursorPageID,
		CursorSequenceID: cursorSequenceID,
		N:                n,
	}
}

// NewRetrieveNextMostRecentResponse creates a new RetrieveNextMostRecent
// response. payload is a gob-encoded RetrieveResult.
func NewRetrieveNextMostRecentResponse(payload []byte, err error) *Message {
	msg := &Message{MsgType: MsgTRetrieveNextMostRecent, Ok: err == nil, Payload: payload}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewCustomRequest creates a new Custom request
func NewCustomRequest(meta []byte) *Message {
	return &Message{
		MsgType: MsgTCustom,
		Meta:    meta,
	}
}

// NewCustomResponse creates a new Custom response
func NewCustomResponse(meta []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTCustom,
		Meta:    meta,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTIdempotentCreate:
		return "idempotentCreate"
	case MsgTAtomicAppend:
		return "atomicAppend"
	case MsgTGetCurrentPage:
		return "getCurrentPage"
	case MsgTGetSummary:
		return "getSummary"
	case MsgTGetDataPage:
		return "getDataPage"
	case MsgTRetrieveLastMostRecent:
		return "retrieveLastMostRecent"
	case MsgTRetrieveNextMostRecent:
		return "retrieveNextMostRecent"
	case MsgTCustom:
		return "custom"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "idempotentCreate":
		*t = MsgTIdempotentCreate
	case "atomicAppend":
		*t = MsgTAtomicAppend
	case "getCurrentPage":
		*t = MsgTGetCurrentPage
	case "getSummary":
		*t = MsgTGetSummary
	case "getDataPage":
		*t = MsgTGetDataPage
	case "retrieveLastMostRecent":
		*t = MsgTRetrieveLastMostRecent
	case "retrieveNextMostRecent":
		*t = MsgTRetrieveNextMostRecent
	case "custom":
		*t = MsgTCustom
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// listproto.Engine operations

	MsgTIdempotentCreate       // create a list's summary if absent
	MsgTAtomicAppend           // append a value to a list's tail page
	MsgTGetCurrentPage         // read a list's tail page index
	MsgTGetSummary             // read a list's summary item
	MsgTGetDataPage            // read one numbered data page
	MsgTRetrieveLastMostRecent // walk the most recent items backward from the tail
	MsgTRetrieveNextMostRecent // continue a backward walk from a cursor

	// Custom operations

	MsgTCustom // Custom operation type
)
