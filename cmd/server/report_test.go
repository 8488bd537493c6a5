package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"project-management-api/internal/metrics"
	"project-management-api/internal/seed"
	"project-management-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	zero, err := parseDay("", true)
	require.NoError(t, err)
	require.True(t, zero.IsZero())

	start, err := parseDay("2024-03-01", false)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)

	end, err := parseDay("2024-03-01", true)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC), end)

	_, err = parseDay("03/01/2024", false)
	require.Error(t, err)
}

func TestRenderReport_Demo(t *testing.T) {
	ds, err := seed.Demo()
	require.NoError(t, err)
	s := testutil.NewStore(t)
	_, err = seed.Apply(context.Background(), s, ds)
	require.NoError(t, err)

	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	report := metrics.GenerateReport(snap, metrics.ReportFilters{}, time.Now().UTC())

	var buf bytes.Buffer
	renderReport(&buf, report)
	out := buf.String()
	require.Contains(t, out, "Tasks: 7")
	require.Contains(t, out, "Website Redesign")
	require.Contains(t, out, "Recently completed")
}
