package listproto

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nilfjord/seqstore/lib/kv"
)

// AppendResult identifies where AtomicAppend's value landed: the page it
// was written to and its offset within that page at the moment the append
// returned. Per the data model's invariant (4), SequenceID is a
// snapshot-local offset, not a stable rank: concurrent appenders can
// legitimately each observe a distinct "length after me", so two different
// reads of the same page may report different SequenceID values for what
// ends up being the same stored element.
type AppendResult struct {
	PageID     string
	SequenceID int
}

// IdempotentCreate creates the summary item for listID if it does not
// already exist. It is idempotent: a second call observes AlreadyExists,
// treats it as success, and still returns a locally constructed summary
// view with CurrentPage=0 - the caller only needs to know the list is
// usable, not what its actual current state is. It never touches a data
// page.
func (e *Engine) IdempotentCreate(ctx context.Context, listID string, metadata []byte) (Summary, error) {
	summary := NewSummary(listID, metadata)

	err := e.gw.PutIfAbsent(ctx, summary.toItem())
	if err != nil && !kv.IsKind(err, kv.KindAlreadyExists) {
		return Summary{}, wrapErr(err)
	}
	return summary, nil
}

// CreatePage creates an empty data page pageNumber for listID.
// AlreadyExists is swallowed: a racing appender creating the same page is
// the expected outcome, not a failure.
func (e *Engine) CreatePage(ctx context.Context, listID string, pageNumber int64) error {
	page := NewPage(listID, pageNumber)
	err := e.gw.PutIfAbsent(ctx, page.toItem())
	if err != nil && !kv.IsKind(err, kv.KindAlreadyExists) {
		return wrapErr(err)
	}
	return nil
}

// AtomicAppend appends value to the tail page of listID, rolling the list
// over to a new page if the append fills the current one. It is the hot
// path: one summary read plus one atomic list append; rollover is a rare
// cold path that never blocks a concurrent appender's own append.
//
// AtomicAppend is not idempotent: a caller that retries a failed call after
// a partial success can produce a duplicate element. Callers that need
// uniqueness must de-dupe above this layer.
func (e *Engine) AtomicAppend(ctx context.Context, listID string, value any) (AppendResult, error) {
	p, err := e.GetCurrentPage(ctx, listID)
	if err != nil {
		return AppendResult{}, err
	}

	n, err := e.gw.AppendToList(ctx, pageKey(listID, p), dataListAttr, []any{value})
	if kv.IsKind(err, kv.KindItemMissing) {
		blankPageRecoveries.Inc()
		if cerr := e.CreatePage(ctx, listID, p); cerr != nil {
			return AppendResult{}, cerr
		}

		n, err = e.gw.AppendToList(ctx, pageKey(listID, p), dataListAttr, []any{value})
		if kv.IsKind(err, kv.KindItemMissing) {
			createPageFailures.Inc()
			return AppendResult{}, NewError(KindCreateNewPage,
				fmt.Sprintf("page %d of list %q is still missing after create-then-retry", p, listID))
		}
	}
	if err != nil {
		return AppendResult{}, wrapErr(err)
	}

	result := AppendResult{PageID: strconv.FormatInt(p, 10), SequenceID: n - 1}

	if int64(n) >= int64(e.maxElementPerPage()) {
		e.rollover(ctx, listID, p)
	}

	return result, nil
}

// rollover advances the summary's CurrentPage past a full page p and
// materializes the next page. It runs after the append that filled the
// page has already succeeded, so any failure here is logged and counted
// rather than surfaced: the append itself is done, and a future appender's
// own AppendToList ItemMissing recovery (or a future rollover attempt) will
// finish the job.
func (e *Engine) rollover(ctx context.Context, listID string, p int64) {
	newValue, err := e.gw.IncrementIfAtLeast(ctx, summaryKey(listID), currentPageAttr, p)
	switch {
	case err == nil:
		rolloverTotal.Inc()
		if cerr := e.CreatePage(ctx, listID, newValue); cerr != nil {
			log.Warningf("listproto: rollover for list %q page %d: failed to create page %d: %v", listID, p, newValue, cerr)
		}
	case kv.IsKind(err, kv.KindPreconditionFailed):
		// Another appender already won this boundary's rollover.
		rolloverRaces.Inc()
	default:
		log.Warningf("listproto: rollover for list %q page %d: IncrementIfAtLeast failed: %v", listID, p, err)
	}
}

// AtomicBulkAppendBulk is reserved for a future bulk-append primitive and
// is not implemented by this protocol.
func (e *Engine) AtomicBulkAppendBulk(_ context.Context, _ string, _ []any) ([]AppendResult, error) {
	return nil, NewError(KindNotImplemented, "AtomicBulkAppendBulk is not implemented")
}
