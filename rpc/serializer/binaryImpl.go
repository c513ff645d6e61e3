package serializer

import (
	"encoding/binary"
	"fmt"
	"github.com/nilfjord/seqstore/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	flagListID  byte = 1 << 0
	flagValue   byte = 1 << 1
	flagN       byte = 1 << 2
	flagCursor  byte = 1 << 3 // covers both CursorPageID and CursorSequenceID together
	flagOk      byte = 1 << 4
	flagErr     byte = 1 << 5
	flagPayload byte = 1 << 6
	flagMeta    byte = 1 << 7
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := 2 // Start after MsgType and flags

	// Handle ListID
	if msg.ListID != "" {
		flags |= flagListID
		idBytes := []byte(msg.ListID)
		idLen := len(idBytes)

		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(idLen))
		pos += 4
		copy(result[pos:pos+idLen], idBytes)
		pos += idLen
	}

	// Handle Value
	if msg.Value != nil {
		flags |= flagValue
		valueLen := len(msg.Value)

		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(valueLen))
		pos += 4
		if valueLen > 0 {
			copy(result[pos:pos+valueLen], msg.Value)
			pos += valueLen
		}
	}

	// Handle N
	if msg.N != 0 {
		flags |= flagN
		binary.BigEndian.PutUint64(result[pos:pos+8], uint64(msg.N))
		pos += 8
	}

	// Handle Cursor (PageID + SequenceID together)
	if msg.CursorPageID != "" {
		flags |= flagCursor
		idBytes := []byte(msg.CursorPageID)
		idLen := len(idBytes)

		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(idLen))
		pos += 4
		copy(result[pos:pos+idLen], idBytes)
		pos += idLen

		binary.BigEndian.PutUint64(result[pos:pos+8], uint64(msg.CursorSequenceID))
		pos += 8
	}

	// Handle Ok
	if msg.Ok {
		flags |= flagOk
		result[pos] = 1
		pos += 1
	}

	// Handle Err
	if msg.Err != "" {
		flags |= flagErr
		errBytes := []byte(msg.Err)
		errLen := len(errBytes)

		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(errLen))
		pos += 4
		copy(result[pos:pos+errLen], errBytes)
		pos += errLen
	}

	// Handle Payload
	if msg.Payload != nil {
		flags |= flagPayload
		payloadLen := len(msg.Payload)

		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(payloadLen))
		pos += 4
		if payloadLen > 0 {
			copy(result[pos:pos+payloadLen], msg.Payload)
			pos += payloadLen
		}
	}

	// Handle Meta
	if msg.Meta != nil {
		flags |= flagMeta
		metaLen := len(msg.Meta)

		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(metaLen))
		pos += 4
		if metaLen > 0 {
			copy(result[pos:pos+metaLen], msg.Meta)
			pos += metaLen
		}
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := data[1]

	// Initialize read position
	pos := 2

	// Read ListID if present
	if flags&flagListID != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for listId length")
		}
		idLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		if pos+int(idLen) > len(data) {
			return fmt.Errorf("data too short for listId data")
		}
		msg.ListID = string(data[pos : pos+int(idLen)])
		pos += int(idLen)
	} else {
		msg.ListID = ""
	}

	// Read Value if present
	if flags&flagValue != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for value length")
		}
		valueLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		if pos+int(valueLen) > len(data) {
			return fmt.Errorf("data too short for value data")
		}
		msg.Value = make([]byte, valueLen)
		if valueLen > 0 {
			copy(msg.Value, data[pos:pos+int(valueLen)])
		}
		pos += int(valueLen)
	} else {
		msg.Value = nil
	}

	// Read N if present
	if flags&flagN != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for N")
		}
		msg.N = int64(binary.BigEndian.Uint64(data[pos : pos+8]))
		pos += 8
	} else {
		msg.N = 0
	}

	// Read Cursor if present
	if flags&flagCursor != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for cursor page id length")
		}
		idLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		if pos+int(idLen) > len(data) {
			return fmt.Errorf("data too short for cursor page id data")
		}
		msg.CursorPageID = string(data[pos : pos+int(idLen)])
		pos += int(idLen)

		if pos+8 > len(data) {
			return fmt.Errorf("data too short for cursor sequence id")
		}
		msg.CursorSequenceID = int64(binary.BigEndian.Uint64(data[pos : pos+8]))
		pos += 8
	} else {
		msg.CursorPageID = ""
		msg.CursorSequenceID = 0
	}

	// Read Ok if present
	if flags&flagOk != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for Ok flag")
		}
		msg.Ok = data[pos] != 0
		pos += 1
	} else {
		msg.Ok = false
	}

	// Read Err if present
	if flags&flagErr != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for error length")
		}
		errLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		if pos+int(errLen) > len(data) {
			return fmt.Errorf("data too short for error data")
		}
		msg.Err = string(data[pos : pos+int(errLen)])
		pos += int(errLen)
	} else {
		msg.Err = ""
	}

	// Read Payload if present
	if flags&flagPayload != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for payload length")
		}
		payloadLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		if pos+int(payloadLen) > len(data) {
			return fmt.Errorf("data too short for payload data")
		}
		msg.Payload = make([]byte, payloadLen)
		if payloadLen > 0 {
			copy(msg.Payload, data[pos:pos+int(payloadLen)])
		}
		pos += int(payloadLen)
	} else {
		msg.Payload = nil
	}

	// Read Meta if present
	if flags&flagMeta != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for meta length")
		}
		metaLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		if pos+int(metaLen) > len(data) {
			return fmt.Errorf("data too short for meta data")
		}
		msg.Meta = make([]byte, metaLen)
		if metaLen > 0 {
			copy(msg.Meta, data[pos:pos+int(metaLen)])
		}
		pos += int(metaLen)
	} else {
		msg.Meta = nil
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.ListID != "" {
		size += 4 + len(msg.ListID)
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value)
	}
	if msg.N != 0 {
		size += 8
	}
	if msg.CursorPageID != "" {
		size += 4 + len(msg.CursorPageID) + 8
	}
	if msg.Ok {
		size += 1
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}
	if msg.Payload != nil {
		size += 4 + len(msg.Payload)
	}
	if msg.Meta != nil {
		size += 4 + len(msg.Meta)
	}

	return size
}
