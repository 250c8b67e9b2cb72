package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_NoAlertUnderThreshold(t *testing.T) {
	reg := New()
	alert := reg.Record("searchEndpoints", "req-1", 50*time.Millisecond, "")
	assert.Nil(t, alert)
}

func TestRecord_AlertOverThreshold(t *testing.T) {
	reg := New()
	alert := reg.Record("searchEndpoints", "req-1", 250*time.Millisecond, "")
	require.NotNil(t, alert)
	assert.Equal(t, "searchEndpoints", alert.Tool)
	assert.Equal(t, 200*time.Millisecond, alert.Threshold)

	alerts := reg.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "req-1", alerts[0].RequestID)
}

func TestRecord_UnknownToolNeverAlerts(t *testing.T) {
	reg := New()
	alert := reg.Record("someUnlistedTool", "req-1", 10*time.Hour, "")
	assert.Nil(t, alert)
}

func TestSnapshots_TracksCallsErrorsAndKinds(t *testing.T) {
	reg := New()
	reg.Record("getSchema", "r1", 10*time.Millisecond, "")
	reg.Record("getSchema", "r2", 10*time.Millisecond, "ValidationError")
	reg.Record("getSchema", "r3", 10*time.Millisecond, "ValidationError")

	snaps := reg.Snapshots()
	require.Len(t, snaps, 1)
	s := snaps[0]
	assert.Equal(t, "getSchema", s.Tool)
	assert.EqualValues(t, 3, s.Calls)
	assert.EqualValues(t, 2, s.Errors)
	assert.EqualValues(t, 2, s.ErrorKinds["ValidationError"])
}

func TestSnapshots_SortedByToolName(t *testing.T) {
	reg := New()
	reg.Record("getExample", "r1", time.Millisecond, "")
	reg.Record("getSchema", "r2", time.Millisecond, "")
	reg.Record("searchEndpoints", "r3", time.Millisecond, "")

	snaps := reg.Snapshots()
	require.Len(t, snaps, 3)
	assert.Equal(t, []string{"getExample", "getSchema", "searchEndpoints"}, []string{snaps[0].Tool, snaps[1].Tool, snaps[2].Tool})
}

func TestRecord_ReservoirOverwritesOldestSample(t *testing.T) {
	reg := New()
	for i := 0; i < reservoirSize+10; i++ {
		reg.Record("getSchema", "r", time.Duration(i)*time.Microsecond, "")
	}
	snaps := reg.Snapshots()
	require.Len(t, snaps, 1)
	assert.EqualValues(t, reservoirSize+10, snaps[0].Calls)
	// P95 should reflect recent (larger) samples, not the earliest overwritten ones.
	assert.Greater(t, snaps[0].P95Millis, 0.0)
}

func TestP95_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, p95(nil))
}
