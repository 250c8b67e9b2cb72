package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheck_AllHealthyRollsUpHealthy(t *testing.T) {
	c := New(time.Minute)
	c.Register("store", func(ctx context.Context) (Status, string) { return StatusHealthy, "ok" })
	c.Register("index", func(ctx context.Context) (Status, string) { return StatusHealthy, "ok" })

	report := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, report.Overall)
	assert.Len(t, report.Components, 2)
}

func TestCheck_WorstOfRollup(t *testing.T) {
	c := New(time.Minute)
	c.Register("store", func(ctx context.Context) (Status, string) { return StatusHealthy, "ok" })
	c.Register("index", func(ctx context.Context) (Status, string) { return StatusDegraded, "rebuilding" })

	report := c.Check(context.Background())
	assert.Equal(t, StatusDegraded, report.Overall)
}

func TestCheck_UnhealthyDominatesDegraded(t *testing.T) {
	c := New(time.Minute)
	c.Register("store", func(ctx context.Context) (Status, string) { return StatusUnhealthy, "unreachable" })
	c.Register("index", func(ctx context.Context) (Status, string) { return StatusDegraded, "rebuilding" })

	report := c.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Overall)
}

func TestCheck_CachesWithinTTL(t *testing.T) {
	calls := 0
	c := New(time.Hour)
	c.Register("store", func(ctx context.Context) (Status, string) {
		calls++
		return StatusHealthy, "ok"
	})

	first := c.Check(context.Background())
	second := c.Check(context.Background())

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.CheckedAt, second.CheckedAt)
}

func TestCheck_RefreshesAfterTTLExpires(t *testing.T) {
	calls := 0
	c := New(time.Millisecond)
	c.Register("store", func(ctx context.Context) (Status, string) {
		calls++
		return StatusHealthy, "ok"
	})

	c.Check(context.Background())
	time.Sleep(5 * time.Millisecond)
	c.Check(context.Background())

	assert.Equal(t, 2, calls)
}

func TestCheck_NoComponentsIsHealthy(t *testing.T) {
	c := New(time.Minute)
	report := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, report.Overall)
	assert.Empty(t, report.Components)
}
