package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAggregation(t *testing.T) {
	parsedBefore := testutil.ToFloat64(FilesParsed)
	failedBefore := testutil.ToFloat64(FilesFailed)
	eventsBefore := testutil.ToFloat64(EventsProcessed)

	RecordAggregation(250*time.Millisecond, 3, 1, 42)

	if got := testutil.ToFloat64(FilesParsed) - parsedBefore; got != 3 {
		t.Errorf("files parsed delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(FilesFailed) - failedBefore; got != 1 {
		t.Errorf("files failed delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EventsProcessed) - eventsBefore; got != 42 {
		t.Errorf("events delta = %v, want 42", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hitsBefore := testutil.ToFloat64(SessionCacheHits)
	missesBefore := testutil.ToFloat64(SessionCacheMisses)

	RecordCacheLookup(true)
	RecordCacheLookup(true)
	RecordCacheLookup(false)

	if got := testutil.ToFloat64(SessionCacheHits) - hitsBefore; got != 2 {
		t.Errorf("hits delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(SessionCacheMisses) - missesBefore; got != 1 {
		t.Errorf("misses delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("/api/health", "200")
	before := testutil.ToFloat64(c)

	RecordAPIRequest("/api/health", 200)

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("api requests delta = %v, want 1", got)
	}
}
