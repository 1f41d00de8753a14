package waitlist_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/waitlist/pkg/waitlist"
)

func TestDateCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b waitlist.Date
		want int
	}{
		{"equal", waitlist.NewDate(2025, 1, 15), waitlist.NewDate(2025, 1, 15), 0},
		{"year decides", waitlist.NewDate(2024, 12, 31), waitlist.NewDate(2025, 1, 1), -1},
		{"month decides", waitlist.NewDate(2025, 3, 1), waitlist.NewDate(2025, 2, 28), 1},
		{"day decides", waitlist.NewDate(2025, 1, 2), waitlist.NewDate(2025, 1, 3), -1},
		{"no calendar validation", waitlist.NewDate(2025, 2, 31), waitlist.NewDate(2025, 3, 1), -1},
		{"negative year", waitlist.NewDate(-1, 1, 1), waitlist.NewDate(0, 1, 1), -1},
		{"month above twelve", waitlist.NewDate(2025, 13, 1), waitlist.NewDate(2026, 1, 1), -1},
		{"zero value", waitlist.Date{}, waitlist.NewDate(0, 0, 1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.want, tt.b.Compare(tt.a))
			assert.Equal(t, tt.want < 0, tt.a.Before(tt.b))
		})
	}
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "2025-01-15", waitlist.NewDate(2025, 1, 15).String())
	assert.Equal(t, "0007-03-09", waitlist.NewDate(7, 3, 9).String())
	assert.Equal(t, "12345-99-00", waitlist.NewDate(12345, 99, 0).String())
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, waitlist.NewDate(2025, 3, 7), waitlist.DateOf(ts))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    waitlist.Date
		wantErr bool
	}{
		{"2025-01-15", waitlist.NewDate(2025, 1, 15), false},
		{"2025-1-5", waitlist.NewDate(2025, 1, 5), false},
		{"2025-02-31", waitlist.NewDate(2025, 2, 31), false},
		{"-44-03-15", waitlist.NewDate(-44, 3, 15), false},
		{"0000-00-00", waitlist.Date{}, false},
		{"", waitlist.Date{}, true},
		{"2025-01", waitlist.Date{}, true},
		{"2025-01-15-01", waitlist.Date{}, true},
		{"2025-xx-15", waitlist.Date{}, true},
		{"2025-+1-15", waitlist.Date{}, true},
		{"2025--1-15", waitlist.NewDate(2025, -1, 15), false},
		{"-005--12--03", waitlist.NewDate(-5, -12, -3), false},
		{"2025---1-15", waitlist.Date{}, true},
		{"2025-01-15x", waitlist.Date{}, true},
		{"-2025-01", waitlist.Date{}, true},
		{"2025/01/15", waitlist.Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := waitlist.ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, waitlist.ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_RoundTripsString(t *testing.T) {
	dates := []waitlist.Date{
		waitlist.NewDate(1999, 12, 31),
		waitlist.NewDate(2021, -1, 1),
		waitlist.NewDate(-44, 3, -15),
		waitlist.NewDate(math.MinInt, math.MaxInt, 0),
	}
	for _, d := range dates {
		t.Run(d.String(), func(t *testing.T) {
			got, err := waitlist.ParseDate(d.String())
			require.NoError(t, err)
			assert.Equal(t, d, got)
		})
	}
}
