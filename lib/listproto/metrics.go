package listproto

import "github.com/VictoriaMetrics/metrics"

// These counters track only the protocol's rare/cold paths - the hot path
// (one summary read, one AppendToList) is cheap enough that it is not worth
// a counter of its own; its volume is better observed at the kv.Gateway or
// transport layer.
var (
	// rolloverTotal counts every page boundary this process won the
	// IncrementIfAtLeast race for.
	rolloverTotal = metrics.NewCounter("seqstore_listproto_rollover_total")
	// rolloverRaces counts PreconditionFailed outcomes where a peer
	// already advanced CurrentPage past the boundary this call observed.
	rolloverRaces = metrics.NewCounter("seqstore_listproto_rollover_race_total")
	// blankPageRecoveries counts AppendToList calls that hit ItemMissing
	// and had to materialize the page before retrying.
	blankPageRecoveries = metrics.NewCounter("seqstore_listproto_blank_page_recovery_total")
	// createPageFailures counts AtomicAppend calls that failed fatally
	// with KindCreateNewPage after exhausting their one retry.
	createPageFailures = metrics.NewCounter("seqstore_listproto_create_page_failure_total")
)
