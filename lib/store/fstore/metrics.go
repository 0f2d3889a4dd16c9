package fstore

import (
	"github.com/VictoriaMetrics/metrics"
)

// Metrics of all file stores of the process, exposed by "ddoc info --metrics"
var (
	walAppends       = metrics.NewCounter(`ddoc_wal_appends_total`)
	walAppendErrors  = metrics.NewCounter(`ddoc_wal_append_errors_total`)
	snapshotWrites   = metrics.NewCounter(`ddoc_snapshot_writes_total`)
	snapshotErrors   = metrics.NewCounter(`ddoc_snapshot_errors_total`)
	snapshotDuration = metrics.NewHistogram(`ddoc_snapshot_duration_seconds`)
	recoveredRecords = metrics.NewCounter(`ddoc_recovered_records_total`)
	skippedWALLines  = metrics.NewCounter(`ddoc_wal_skipped_lines_total`)
)
