package listproto

import (
	"context"
	"sync"
	"testing"

	"github.com/nilfjord/seqstore/lib/kv/memory"
)

func newTestEngine(maxPerPage int) *Engine {
	e := NewEngine(memory.NewGateway(nil), "local", "lists")
	e.ConfigureMaximumNumberOfElementPerPage(maxPerPage)
	return e
}

func TestIdempotentCreate(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(50)

	s1, err := e.IdempotentCreate(ctx, "L", []byte("first"))
	if err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}
	if s1.CurrentPage != 0 {
		t.Fatalf("expected CurrentPage=0, got %d", s1.CurrentPage)
	}

	if _, err := e.IdempotentCreate(ctx, "L", []byte("second")); err != nil {
		t.Fatalf("second IdempotentCreate: unexpected error: %v", err)
	}

	stored, err := e.GetSummary(ctx, "L")
	if err != nil {
		t.Fatalf("GetSummary: unexpected error: %v", err)
	}
	if string(stored.Metadata) != "first" {
		t.Fatalf("expected first call's metadata to win, got %q", stored.Metadata)
	}
	if stored.CurrentPage != 0 {
		t.Fatalf("expected CurrentPage=0, got %d", stored.CurrentPage)
	}
}

func TestAtomicAppendCreatesPageOnFirstUse(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(50)

	if _, err := e.IdempotentCreate(ctx, "L", nil); err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}

	res, err := e.AtomicAppend(ctx, "L", "Hello0")
	if err != nil {
		t.Fatalf("AtomicAppend: unexpected error: %v", err)
	}
	if res.PageID != "0" || res.SequenceID != 0 {
		t.Fatalf("expected {page_id:0, sequence_id:0}, got %+v", res)
	}
}

func TestAtomicAppendRecoversFromBlankPage(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(50)

	if _, err := e.IdempotentCreate(ctx, "L", nil); err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}

	// Advance the summary's CurrentPage to 1 without ever materializing
	// page 1, reproducing the "blank page" a racing appender can leave
	// behind: the counter moved but CreatePage never landed.
	if _, err := e.gw.IncrementIfAtLeast(ctx, summaryKey("L"), currentPageAttr, 0); err != nil {
		t.Fatalf("IncrementIfAtLeast: unexpected error: %v", err)
	}

	res, err := e.AtomicAppend(ctx, "L", "first")
	if err != nil {
		t.Fatalf("AtomicAppend: unexpected error: %v", err)
	}
	if res.PageID != "1" || res.SequenceID != 0 {
		t.Fatalf("expected {page_id:1, sequence_id:0} after blank-page recovery, got %+v", res)
	}

	page, err := e.GetDataPage(ctx, "L", 1)
	if err != nil {
		t.Fatalf("GetDataPage(1): unexpected error: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Value != "first" {
		t.Fatalf("expected page 1 to hold [first], got %+v", page.Data)
	}
}

func TestAtomicAppendRollsOverAtMaxElementPerPage(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)

	if _, err := e.IdempotentCreate(ctx, "L", nil); err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}

	for i, val := range []string{"Hello0", "Hello1", "Hello2", "Hello3", "Hello4"} {
		if _, err := e.AtomicAppend(ctx, "L", val); err != nil {
			t.Fatalf("AtomicAppend #%d: unexpected error: %v", i, err)
		}
	}

	p, err := e.GetCurrentPage(ctx, "L")
	if err != nil {
		t.Fatalf("GetCurrentPage: unexpected error: %v", err)
	}
	if p != 2 {
		t.Fatalf("expected CurrentPage=2 after 5 appends at maxElementPerPage=2, got %d", p)
	}

	page2, err := e.GetDataPage(ctx, "L", 2)
	if err != nil {
		t.Fatalf("GetDataPage(2): unexpected error: %v", err)
	}
	if len(page2.Data) != 1 || page2.Data[0].Value != "Hello4" {
		t.Fatalf("expected page 2 to hold [Hello4], got %+v", page2.Data)
	}
}

func TestAtomicAppendBoundedOvershootNonConcurrent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)

	if _, err := e.IdempotentCreate(ctx, "L", nil); err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}
	for _, val := range []string{"a", "b"} {
		if _, err := e.AtomicAppend(ctx, "L", val); err != nil {
			t.Fatalf("AtomicAppend: unexpected error: %v", err)
		}
	}

	page0, err := e.GetDataPage(ctx, "L", 0)
	if err != nil {
		t.Fatalf("GetDataPage(0): unexpected error: %v", err)
	}
	if len(page0.Data) != 2 {
		t.Fatalf("expected exactly 2 elements on page 0, got %d", len(page0.Data))
	}

	p, err := e.GetCurrentPage(ctx, "L")
	if err != nil {
		t.Fatalf("GetCurrentPage: unexpected error: %v", err)
	}
	if p != 1 {
		t.Fatalf("expected rollover to page 1 after the 2nd append, got CurrentPage=%d", p)
	}
	if _, err := e.gw.Get(ctx, pageKey("L", 1), nil); err != nil {
		t.Fatalf("expected page 1 to exist after rollover, got error: %v", err)
	}
}

func TestAtomicAppendConcurrentMonotoneCounterAndTotality(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(2)

	if _, err := e.IdempotentCreate(ctx, "L", nil); err != nil {
		t.Fatalf("IdempotentCreate: unexpected error: %v", err)
	}

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.AtomicAppend(ctx, "L", "x"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent AtomicAppend: unexpected error: %v", err)
	}

	// Append totality: every successful append landed in some page.
	cur, err := e.GetCurrentPage(ctx, "L")
	if err != nil {
		t.Fatalf("GetCurrentPage: unexpected error: %v", err)
	}

	var total int
	for p := int64(0); p <= cur; p++ {
		page, err := e.GetDataPage(ctx, "L", p)
		if err != nil {
			t.Fatalf("GetDataPage(%d): unexpected error: %v", p, err)
		}
		total += len(page.Data)
	}
	if total != n {
		t.Fatalf("append totality violated: expected %d elements across pages 0..%d, got %d", n, cur, total)
	}
}

func TestAtomicBulkAppendBulkNotImplemented(t *testing.T) {
	e := newTestEngine(50)
	if _, err := e.AtomicBulkAppendBulk(context.Background(), "L", []any{"x"}); !IsKind(err, KindNotImplemented) {
		t.Fatalf("expected KindNotImplemented, got %v", err)
	}
}
