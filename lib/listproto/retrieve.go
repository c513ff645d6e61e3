package listproto

import (
	"context"
	"strconv"

	"github.com/nilfjord/seqstore/lib/kv"
)

// Item is one value returned by a retrieval operation, decorated with its
// address within the list. SequenceID is a snapshot-local offset - the
// position the value happened to occupy in the page's data_list at the
// moment it was read - not a stable identifier: a concurrently over-full
// page can yield the same SequenceID for different values across two
// separate reads.
type Item struct {
	Value            any
	PageID           string
	SequenceID       int
	ResourceIDParent string
}

// Cursor names a position in a list to resume a backward walk from, as
// returned by RetrieveLastMostRecent/RetrieveNextMostRecent. A Cursor with
// an empty PageID is considered missing by RetrieveNextMostRecent.
type Cursor struct {
	PageID     string
	SequenceID int
}

// DataPage is the result of GetDataPage: one page's values, or an empty
// Data slice if the page does not (yet, or ever) exist in the store.
type DataPage struct {
	PageID string
	Data   []Item
}

// GetCurrentPage returns listID's tail page index. It returns a
// KindPageNotFound *Error if the list has not been created.
func (e *Engine) GetCurrentPage(ctx context.Context, listID string) (int64, error) {
	it, err := e.gw.Get(ctx, summaryKey(listID), []string{currentPageAttr})
	if kv.IsKind(err, kv.KindNotFound) {
		return 0, NewError(KindPageNotFound, "list "+listID+" has not been created")
	}
	if err != nil {
		return 0, wrapErr(err)
	}
	p, _ := toInt64(it.Attributes[currentPageAttr])
	return p, nil
}

// GetSummary returns listID's summary item. It returns a KindPageNotFound
// *Error if the list has not been created. This replaces the source's
// overloaded Retrieve for the summary case with its own typed operation.
func (e *Engine) GetSummary(ctx context.Context, listID string) (Summary, error) {
	it, err := e.gw.Get(ctx, summaryKey(listID), nil)
	if kv.IsKind(err, kv.KindNotFound) {
		return Summary{}, NewError(KindPageNotFound, "list "+listID+" has not been created")
	}
	if err != nil {
		return Summary{}, wrapErr(err)
	}
	return summaryFromItem(it), nil
}

// GetDataPage returns pageNumber's values for listID. A missing page is
// not an error: invariant (2) allows "blank pages" between a counter bump
// and the page's materialization, and readers must treat them as empty.
func (e *Engine) GetDataPage(ctx context.Context, listID string, pageNumber int64) (DataPage, error) {
	pageID := strconv.FormatInt(pageNumber, 10)

	it, err := e.gw.Get(ctx, pageKey(listID, pageNumber), []string{dataListAttr})
	if kv.IsKind(err, kv.KindNotFound) {
		return DataPage{PageID: pageID}, nil
	}
	if err != nil {
		return DataPage{}, wrapErr(err)
	}

	list, _ := it.Attributes[dataListAttr].([]any)
	items := make([]Item, len(list))
	for i, v := range list {
		items[i] = Item{Value: v, PageID: pageID, SequenceID: i, ResourceIDParent: listID}
	}
	return DataPage{PageID: pageID, Data: items}, nil
}

// RetrieveLastMostRecent returns up to n of the most recently appended
// items across listID's pages, most-recent first.
func (e *Engine) RetrieveLastMostRecent(ctx context.Context, listID string, n int) ([]Item, Cursor, error) {
	p, err := e.GetCurrentPage(ctx, listID)
	if err != nil {
		return nil, Cursor{}, err
	}
	return e.retrieveNElement(ctx, listID, p, -1, n)
}

// RetrieveNextMostRecent continues a backward walk from strictly before
// cursor, returning up to n further items most-recent first. It rejects a
// Cursor with no PageID as invalid.
func (e *Engine) RetrieveNextMostRecent(ctx context.Context, listID string, cursor Cursor, n int) ([]Item, Cursor, error) {
	if cursor.PageID == "" {
		return nil, Cursor{}, NewError(KindInvalidCursor, "cursor is missing page_id")
	}
	pageID, err := strconv.ParseInt(cursor.PageID, 10, 64)
	if err != nil {
		return nil, Cursor{}, NewError(KindInvalidCursor, "cursor.page_id is not numeric")
	}

	var (
		fromPage    int64
		fromCutLen  = -1 // -1 means "no in-page cut"
	)
	if cursor.SequenceID > 0 {
		fromPage = pageID
		fromCutLen = cursor.SequenceID
	} else {
		fromPage = pageID - 1
	}
	if fromPage < 0 {
		// Clamp to the head of the list: nothing precedes element (0, 0).
		fromPage = 0
		fromCutLen = 0
	}

	return e.retrieveNElement(ctx, listID, fromPage, fromCutLen, n)
}

// retrieveNElement is the core backward walk shared by both public
// retrieval entry points. It starts at fromPage and walks toward page 0,
// reversing each page's values and concatenating them to the accumulator
// until n items are collected or pages run out. If fromCutLen is >= 0, the
// first page visited (fromPage) is truncated to its first fromCutLen
// elements before being reversed - i.e. only elements strictly older than a
// resumed cursor are kept - and the cut is applied only once, to that first
// page.
func (e *Engine) retrieveNElement(ctx context.Context, listID string, fromPage int64, fromCutLen int, n int) ([]Item, Cursor, error) {
	var acc []Item

	for p, first := fromPage, true; p >= 0 && len(acc) < n; p, first = p-1, false {
		page, err := e.GetDataPage(ctx, listID, p)
		if err != nil {
			return nil, Cursor{}, err
		}

		list := page.Data
		if first && fromCutLen >= 0 && fromCutLen < len(list) {
			list = list[:fromCutLen]
		}

		for i := len(list) - 1; i >= 0; i-- {
			acc = append(acc, list[i])
		}
	}

	if len(acc) > n {
		acc = acc[:n]
	}

	var cursor Cursor
	if len(acc) > 0 {
		last := acc[len(acc)-1]
		cursor = Cursor{PageID: last.PageID, SequenceID: last.SequenceID}
	}
	return acc, cursor, nil
}
