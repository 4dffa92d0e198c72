package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed reference time for deterministic tests: Wednesday 2021-01-06 15:30 UTC.
var refNow = time.Date(2021, 1, 6, 15, 30, 0, 0, time.UTC)

func ts(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSinceUntil(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		wantSince *time.Time
		wantUntil *time.Time
		wantErr   bool
	}{
		{
			name: "empty is open on both sides",
			expr: "",
		},
		{
			name: "no filter sentinel",
			expr: "No filter",
		},
		{
			name: "no filter is case-insensitive",
			expr: "no filter",
		},
		{
			name:      "last week",
			expr:      "Last week",
			wantSince: ts(2020, 12, 30),
			wantUntil: ts(2021, 1, 6),
		},
		{
			name:      "last day",
			expr:      "Last day",
			wantSince: ts(2021, 1, 5),
			wantUntil: ts(2021, 1, 6),
		},
		{
			name:      "last 7 days",
			expr:      "Last 7 days",
			wantSince: ts(2020, 12, 30),
			wantUntil: ts(2021, 1, 6),
		},
		{
			name:      "last month",
			expr:      "Last month",
			wantSince: ts(2020, 12, 6),
			wantUntil: ts(2021, 1, 6),
		},
		{
			name:      "last quarter",
			expr:      "Last quarter",
			wantSince: ts(2020, 10, 6),
			wantUntil: ts(2021, 1, 6),
		},
		{
			name:      "last year",
			expr:      "Last year",
			wantSince: ts(2020, 1, 6),
			wantUntil: ts(2021, 1, 6),
		},
		{
			name:      "next 30 days",
			expr:      "Next 30 days",
			wantSince: ts(2021, 1, 6),
			wantUntil: ts(2021, 2, 5),
		},
		{
			name:      "previous calendar week",
			expr:      "previous calendar week",
			wantSince: ts(2020, 12, 28),
			wantUntil: ts(2021, 1, 4),
		},
		{
			name:      "previous calendar month",
			expr:      "previous calendar month",
			wantSince: ts(2020, 12, 1),
			wantUntil: ts(2021, 1, 1),
		},
		{
			name:      "previous calendar year",
			expr:      "previous calendar year",
			wantSince: ts(2020, 1, 1),
			wantUntil: ts(2021, 1, 1),
		},
		{
			name:      "explicit range",
			expr:      "2021-01-01 : 2021-01-08",
			wantSince: ts(2021, 1, 1),
			wantUntil: ts(2021, 1, 8),
		},
		{
			name:      "explicit range with open until",
			expr:      "2021-01-01 : ",
			wantSince: ts(2021, 1, 1),
		},
		{
			name:      "bare date is open-ended since",
			expr:      "2021-01-01",
			wantSince: ts(2021, 1, 1),
		},
		{
			name:    "garbage fails",
			expr:    "definitely not a time range",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			since, until, err := SinceUntil(tt.expr, refNow)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSince, since, "since")
			assert.Equal(t, tt.wantUntil, until, "until")
		})
	}
}

func TestSinceUntilDatetimeBound(t *testing.T) {
	since, until, err := SinceUntil("2021-01-01 12:00:00 : 2021-01-02 12:00:00", refNow)
	require.NoError(t, err)
	require.NotNil(t, since)
	require.NotNil(t, until)
	assert.Equal(t, time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC), *since)
	assert.Equal(t, time.Date(2021, 1, 2, 12, 0, 0, 0, time.UTC), *until)
}

func TestSinceUntilNaturalLanguageFallback(t *testing.T) {
	since, _, err := SinceUntil("yesterday", refNow)
	require.NoError(t, err)
	require.NotNil(t, since)
	assert.Equal(t, 5, since.Day())
}
