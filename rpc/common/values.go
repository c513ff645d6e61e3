package common

import (
	"bytes"
	"encoding/gob"

	"github.com/nilfjord/seqstore/lib/listproto"
)

// RetrieveResult bundles a backward-walk retrieval's items and resume cursor
// into a single gob-encodable value for Message.Payload, since
// RetrieveLastMostRecent/RetrieveNextMostRecent return two values plus an
// error rather than one struct.
type RetrieveResult struct {
	Items  []listproto.Item
	Cursor listproto.Cursor
}

// EncodeGob gob-encodes v for a Message's Value or Payload field.
func EncodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeGob decodes data previously produced by EncodeGob into v.
func DecodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
