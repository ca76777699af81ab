package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseInstantLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2021-12-25T12:20", time.Date(2021, 12, 25, 12, 20, 0, 0, time.Local)},
		{"2023-01-01", time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)},
		{"2023-06-15T09:30:45", time.Date(2023, 6, 15, 9, 30, 45, 0, time.Local)},
		{"2023-06-15T09:30:45.250", time.Date(2023, 6, 15, 9, 30, 45, 250_000_000, time.Local)},
	}
	for _, tc := range cases {
		got, err := ParseInstant(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parse %q: got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseInstantRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "2021-13-01", "2021-02-30", "2021-12-25T25:00", "2021-12-25T12:20:00Z"} {
		if _, err := ParseInstant(in); !errors.Is(err, ErrInvalidInstant) {
			t.Fatalf("expected ErrInvalidInstant for %q, got %v", in, err)
		}
	}
}

func TestFormatInstantCanonical(t *testing.T) {
	plain := time.Date(2023, 6, 15, 9, 30, 45, 0, time.Local)
	if got := FormatInstant(plain); got != "2023-06-15T09:30:45" {
		t.Fatalf("got %q", got)
	}
	withMillis := time.Date(2023, 6, 15, 9, 30, 45, 250_000_000, time.Local)
	if got := FormatInstant(withMillis); got != "2023-06-15T09:30:45.250" {
		t.Fatalf("got %q", got)
	}
}

func TestInstantRoundTrip(t *testing.T) {
	orig := time.Date(2021, 12, 26, 0, 0, 0, 0, time.Local)
	back, err := ParseInstant(FormatInstant(orig))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !back.Equal(orig) {
		t.Fatalf("round trip drifted: %v != %v", back, orig)
	}
}
