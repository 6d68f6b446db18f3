package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackDBOperation(t *testing.T) {
	before := testutil.CollectAndCount(DBOperationDuration)

	done := TrackDBOperation("query")
	done(time.Now())

	assert.Greater(t, testutil.CollectAndCount(DBOperationDuration), before)
}

func TestRecordHelpers(t *testing.T) {
	entityBefore := testutil.ToFloat64(EntityOperationCounter.WithLabelValues("class", "create"))
	RecordEntityOperation("class", "create")
	assert.Equal(t, entityBefore+1,
		testutil.ToFloat64(EntityOperationCounter.WithLabelValues("class", "create")))

	errBefore := testutil.ToFloat64(ErrorCounter.WithLabelValues("conflict"))
	RecordError("conflict")
	assert.Equal(t, errBefore+1, testutil.ToFloat64(ErrorCounter.WithLabelValues("conflict")))

	revBefore := testutil.ToFloat64(RevalidationCounter.WithLabelValues("/classes"))
	RecordRevalidation("/classes")
	assert.Equal(t, revBefore+1, testutil.ToFloat64(RevalidationCounter.WithLabelValues("/classes")))
}
