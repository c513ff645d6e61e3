package internal

import (
	"bytes"
	"encoding/gob"
)

// CommandResult carries the outcome of applying a Command back to the
// proposer through sm.Result.Data, since sm.Result.Value alone cannot carry
// a typed error plus a return value (new list length / new counter value).
type CommandResult struct {
	ErrKind   uint8 // a kv.Kind value; 0 together with an empty ErrMsg means success
	ErrMsg    string
	NewLength int
	NewValue  int64
}

// Serialize encodes the result with gob.
func (r *CommandResult) Serialize() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(r)
	return buf.Bytes()
}

// DeserializeCommandResult decodes a result previously produced by Serialize.
func DeserializeCommandResult(data []byte) (CommandResult, error) {
	var r CommandResult
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r)
	return r, err
}
