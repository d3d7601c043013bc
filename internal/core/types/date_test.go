package types

import (
	"testing"
	"time"
)

func TestParseImportDate_CanonicalRoundTrip(t *testing.T) {
	got, err := ParseImportDate("15-03-2027")
	if err != nil {
		t.Fatalf("ParseImportDate failed: %v", err)
	}
	if s := FormatDate(got); s != "2027-03-15" {
		t.Errorf("canonical form mismatch\nwant: 2027-03-15\ngot:  %s", s)
	}
	if got.Location() != time.UTC || got.Hour() != 0 {
		t.Errorf("date not normalized to UTC midnight: %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "whole days",
			from: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
			want: 10,
		},
		{
			name: "same day",
			from: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "partial days never round",
			from: time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC),
			to:   time.Date(2026, 8, 29, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "negative when reversed",
			from: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			want: -10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween mismatch\nwant: %d\ngot:  %d", tt.want, got)
			}
		})
	}
}
