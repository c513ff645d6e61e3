package listproto

import (
	"context"
	"reflect"
	"testing"
)

// seedScenario2 reproduces spec scenario 2: five appends to a list with
// maxElementPerPage=2, yielding page 0 = [Hello0,Hello1], page 1 =
// [Hello2,Hello3], page 2 = [Hello4].
func seedScenario2(t *testing.T, ctx context.Context, e *Engine, listID string) {
	t.Helper()
	if _, err := e.IdempotentCreate(ctx, listID, nil); err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}
	for i, val := range []string{"Hello0", "Hello1", "Hello2", "Hello3", "Hello4"} {
		if _, err := e.AtomicAppend(ctx, listID, val); err != nil {
			t.Fatalf("AtomicAppend #%d: unexpected error: %v", i, err)
		}
	}
}

func values(items []Item) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it.Value
	}
	return out
}

func TestScenario1GetCurrentPageOnFreshList(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)

	if _, err := e.IdempotentCreate(ctx, "L", nil); err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}
	p, err := e.GetCurrentPage(ctx, "L")
	if err != nil {
		t.Fatalf("GetCurrentPage: unexpected error: %v", err)
	}
	if p != 0 {
		t.Fatalf("expected CurrentPage=0, got %d", p)
	}
}

func TestScenario2CurrentPageAfterFiveAppends(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)
	seedScenario2(t, ctx, e, "L")

	p, err := e.GetCurrentPage(ctx, "L")
	if err != nil {
		t.Fatalf("GetCurrentPage: unexpected error: %v", err)
	}
	if p != 2 {
		t.Fatalf("expected CurrentPage=2, got %d", p)
	}
}

func TestScenario3GetDataPage(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)
	seedScenario2(t, ctx, e, "L")

	page, err := e.GetDataPage(ctx, "L", 2)
	if err != nil {
		t.Fatalf("GetDataPage: unexpected error: %v", err)
	}
	if len(page.Data) != 1 {
		t.Fatalf("expected 1 item on page 2, got %d", len(page.Data))
	}
	item := page.Data[0]
	if item.Value != "Hello4" || item.PageID != "2" || item.SequenceID != 0 {
		t.Fatalf("expected Hello4@(2,0), got %+v", item)
	}
}

func TestScenario4RetrieveLastMostRecentThree(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)
	seedScenario2(t, ctx, e, "L")

	items, _, err := e.RetrieveLastMostRecent(ctx, "L", 3)
	if err != nil {
		t.Fatalf("RetrieveLastMostRecent: unexpected error: %v", err)
	}
	want := []any{"Hello4", "Hello3", "Hello2"}
	if got := values(items); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestScenario5RetrieveLastMostRecentAll(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)
	seedScenario2(t, ctx, e, "L")

	items, _, err := e.RetrieveLastMostRecent(ctx, "L", 300)
	if err != nil {
		t.Fatalf("RetrieveLastMostRecent: unexpected error: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}

	type addr struct {
		val        any
		pageID     string
		sequenceID int
	}
	want := []addr{
		{"Hello4", "2", 0},
		{"Hello3", "1", 1},
		{"Hello2", "1", 0},
		{"Hello1", "0", 1},
		{"Hello0", "0", 0},
	}
	for i, w := range want {
		got := items[i]
		if got.Value != w.val || got.PageID != w.pageID || got.SequenceID != w.sequenceID {
			t.Fatalf("item %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestScenario6CursorRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)
	seedScenario2(t, ctx, e, "L")

	first, cursor, err := e.RetrieveLastMostRecent(ctx, "L", 1)
	if err != nil {
		t.Fatalf("RetrieveLastMostRecent: unexpected error: %v", err)
	}
	if len(first) != 1 || first[0].Value != "Hello4" {
		t.Fatalf("expected [Hello4], got %+v", first)
	}
	if cursor.PageID != "2" || cursor.SequenceID != 0 {
		t.Fatalf("expected cursor (2,0), got %+v", cursor)
	}

	rest, _, err := e.RetrieveNextMostRecent(ctx, "L", cursor, 300)
	if err != nil {
		t.Fatalf("RetrieveNextMostRecent: unexpected error: %v", err)
	}
	want := []any{"Hello3", "Hello2", "Hello1", "Hello0"}
	if got := values(rest); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// No overlap between the two results.
	for _, it := range rest {
		if it.Value == first[0].Value && it.PageID == first[0].PageID && it.SequenceID == first[0].SequenceID {
			t.Fatalf("unexpected overlap: %+v appears in both results", it)
		}
	}
}

func TestRetrieveNextMostRecentClampsAtHead(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)
	seedScenario2(t, ctx, e, "L")

	items, _, err := e.RetrieveNextMostRecent(ctx, "L", Cursor{PageID: "0", SequenceID: 0}, 300)
	if err != nil {
		t.Fatalf("RetrieveNextMostRecent: unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items before the head of the list, got %+v", items)
	}
}

func TestRetrieveNextMostRecentRejectsInvalidCursor(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)
	seedScenario2(t, ctx, e, "L")

	if _, _, err := e.RetrieveNextMostRecent(ctx, "L", Cursor{}, 10); !IsKind(err, KindInvalidCursor) {
		t.Fatalf("expected KindInvalidCursor, got %v", err)
	}
}

func TestRetrievalToleratesBlankPage(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)

	if _, err := e.IdempotentCreate(ctx, "L", nil); err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}
	if err := e.CreatePage(ctx, "L", 0); err != nil {
		t.Fatalf("CreatePage(0): unexpected error: %v", err)
	}
	if _, err := e.gw.AppendToList(ctx, pageKey("L", 0), dataListAttr, []any{"Hello0", "Hello1"}); err != nil {
		t.Fatalf("seed page 0: unexpected error: %v", err)
	}

	// Advance CurrentPage to 2 without ever materializing page 1,
	// reproducing a genuine blank intermediate page: the counter moved
	// twice but CreatePage never landed for page 1.
	if _, err := e.gw.IncrementIfAtLeast(ctx, summaryKey("L"), currentPageAttr, 0); err != nil {
		t.Fatalf("IncrementIfAtLeast to page 1: unexpected error: %v", err)
	}
	if _, err := e.gw.IncrementIfAtLeast(ctx, summaryKey("L"), currentPageAttr, 1); err != nil {
		t.Fatalf("IncrementIfAtLeast to page 2: unexpected error: %v", err)
	}

	if err := e.CreatePage(ctx, "L", 2); err != nil {
		t.Fatalf("CreatePage(2): unexpected error: %v", err)
	}
	if _, err := e.gw.AppendToList(ctx, pageKey("L", 2), dataListAttr, []any{"Hello4"}); err != nil {
		t.Fatalf("seed page 2: unexpected error: %v", err)
	}

	// Page 1 was never created: GetDataPage must treat it as empty, not
	// as an error.
	missing, err := e.GetDataPage(ctx, "L", 1)
	if err != nil {
		t.Fatalf("GetDataPage(1): unexpected error: %v", err)
	}
	if len(missing.Data) != 0 {
		t.Fatalf("expected no data for the blank intermediate page, got %+v", missing.Data)
	}

	items, _, err := e.RetrieveLastMostRecent(ctx, "L", 300)
	if err != nil {
		t.Fatalf("RetrieveLastMostRecent: unexpected error: %v", err)
	}
	want := []any{"Hello4", "Hello1", "Hello0"}
	if got := values(items); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected the real items from pages 0 and 2 with blank page 1 skipped, got %v", got)
	}
}

func TestGetCurrentPageOnUncreatedList(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)

	if _, err := e.GetCurrentPage(ctx, "never-created"); !IsKind(err, KindPageNotFound) {
		t.Fatalf("expected KindPageNotFound, got %v", err)
	}
}
