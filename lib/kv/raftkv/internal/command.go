package internal

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// CommandType defines the possible write operations applied to the
// replicated state machine.
type CommandType uint8

const (
	CommandTPutIfAbsent        CommandType = iota // create an item if it does not exist
	CommandTAppendToList                          // append values to a list attribute
	CommandTIncrementIfAtLeast                    // conditionally increment a numeric attribute
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTPutIfAbsent:
		return "PutIfAbsent"
	case CommandTAppendToList:
		return "AppendToList"
	case CommandTIncrementIfAtLeast:
		return "IncrementIfAtLeast"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// Command represents a single write to be applied by the state machine; one
// Command is one entry in the raft log.
type Command struct {
	Type       CommandType
	Key        string
	Attribute  string
	Item       map[string]any // used by CommandTPutIfAbsent
	Values     []any          // used by CommandTAppendToList
	Floor      int64          // used by CommandTIncrementIfAtLeast
}

// Serialize encodes the command with gob, the same wire encoding the RPC
// layer offers callers, since a Command's payload carries arbitrary
// attribute values that do not fit a fixed-width binary layout.
func (c *Command) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a command previously produced by Serialize.
func (c *Command) Deserialize(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(c)
}
