package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSQLiteSinkRoundTrip(t *testing.T) {
	sink, err := NewSQLiteSink(":memory:")
	require.NoError(t, err)
	defer sink.Close(context.Background())

	ctx := context.Background()
	events := []*Event{
		{Timestamp: time.Now().UTC(), RequestID: "a", Band: "low", RawBand: "low"},
		{Timestamp: time.Now().UTC(), RequestID: "b", Band: "emergency", RawBand: "high",
			RuleIDs: []string{"cardiac_emergency_rule"}, LocaleFallback: true},
		{Timestamp: time.Now().UTC(), RequestID: "c", Band: "emergency", RawBand: "emergency"},
	}
	for _, ev := range events {
		require.NoError(t, sink.Deliver(ctx, ev))
	}

	n, err := sink.CountByBand(ctx, "emergency")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = sink.CountByBand(ctx, "low")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSQLiteSinkRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteSink("")
	require.Error(t, err)
}
