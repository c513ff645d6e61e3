package listproto

import (
	"time"

	"github.com/nilfjord/seqstore/lib/kv"
)

// Summary is the single metadata item tracked per list: its tail page
// pointer, caller metadata and creation time.
type Summary struct {
	ID          string
	CurrentPage int64
	Metadata    []byte
	SubmittedAt int64
	V           int
}

// NewSummary constructs a fresh Summary for listID with CurrentPage=0.
func NewSummary(listID string, metadata []byte) Summary {
	return Summary{
		ID:          summaryKey(listID),
		CurrentPage: 0,
		Metadata:    metadata,
		SubmittedAt: time.Now().UnixMilli(),
		V:           schemaVersion,
	}
}

func (s Summary) toItem() kv.Item {
	return kv.Item{
		Key: s.ID,
		Attributes: map[string]any{
			"id":            s.ID,
			"v":             s.V,
			currentPageAttr: s.CurrentPage,
			"metadata":      s.Metadata,
			"submittedAt":   s.SubmittedAt,
		},
	}
}

func summaryFromItem(it kv.Item) Summary {
	s := Summary{ID: it.Key}
	if v, ok := it.Attributes[currentPageAttr]; ok {
		s.CurrentPage, _ = toInt64(v)
	}
	if v, ok := it.Attributes["metadata"].([]byte); ok {
		s.Metadata = v
	}
	if v, ok := it.Attributes["submittedAt"]; ok {
		n, _ := toInt64(v)
		s.SubmittedAt = n
	}
	if v, ok := it.Attributes["v"]; ok {
		n, _ := toInt64(v)
		s.V = int(n)
	}
	return s
}

// Page is one numbered data page of a list: an ordered, append-only
// sequence of opaque values.
type Page struct {
	ID          string
	PageNumber  int64
	DataList    []any
	SubmittedAt int64
	V           int
}

// NewPage constructs a fresh, empty Page for listID at pageNumber.
func NewPage(listID string, pageNumber int64) Page {
	return Page{
		ID:          pageKey(listID, pageNumber),
		PageNumber:  pageNumber,
		DataList:    []any{},
		SubmittedAt: time.Now().UnixMilli(),
		V:           schemaVersion,
	}
}

func (p Page) toItem() kv.Item {
	return kv.Item{
		Key: p.ID,
		Attributes: map[string]any{
			"id":          p.ID,
			"v":           p.V,
			dataListAttr:  p.DataList,
			"submittedAt": p.SubmittedAt,
		},
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
