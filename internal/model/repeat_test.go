package model

import (
	"errors"
	"testing"
	"time"
)

func mustDuration(t *testing.T, text string) Duration {
	t.Helper()
	d, err := ParseDuration(text)
	if err != nil {
		t.Fatalf("parse duration %q failed: %v", text, err)
	}
	return d
}

func mustInstant(t *testing.T, text string) time.Time {
	t.Helper()
	v, err := ParseInstant(text)
	if err != nil {
		t.Fatalf("parse instant %q failed: %v", text, err)
	}
	return v
}

func weeklySchedule(t *testing.T) Schedule {
	t.Helper()
	return Schedule{
		Base:    mustInstant(t, "2023-01-01"),
		Period:  mustDuration(t, "P7D"),
		Offsets: []Duration{mustDuration(t, "P0D"), mustDuration(t, "P6D")},
	}
}

func TestFloorAligned(t *testing.T) {
	base := mustInstant(t, "2023-01-01")
	period := mustDuration(t, "P7D")

	cases := []struct {
		target string
		want   string
	}{
		{"2023-01-18", "2023-01-15"},
		{"2023-01-15", "2023-01-15"},
		{"2022-12-20", "2022-12-18"}, // floors below the anchor too
		{"2023-01-01", "2023-01-01"},
	}
	for _, tc := range cases {
		got := FloorAligned(mustInstant(t, tc.target), base, period)
		want := mustInstant(t, tc.want)
		if !got.Equal(want) {
			t.Fatalf("floor(%s): got %s want %s", tc.target, FormatInstant(got), tc.want)
		}
		if got.After(mustInstant(t, tc.target)) {
			t.Fatalf("floor(%s) exceeded target", tc.target)
		}
		if !period.AddTo(got).After(mustInstant(t, tc.target)) {
			t.Fatalf("floor(%s) not maximal", tc.target)
		}
	}
}

func TestFloorAlignedZeroPeriodIsIdentity(t *testing.T) {
	target := mustInstant(t, "2023-05-05T10:00")
	got := FloorAligned(target, mustInstant(t, "2020-01-01"), Duration{})
	if !got.Equal(target) {
		t.Fatalf("zero period floor changed target: %v", got)
	}
}

func TestFloorAlignedPanicsOnStuckPeriod(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a period that cannot advance")
		}
	}()
	// Negative period never advances a forward step.
	FloorAligned(mustInstant(t, "2023-01-18"), mustInstant(t, "2023-01-01"), mustDuration(t, "P-7D"))
}

func TestSeekOnceAndManual(t *testing.T) {
	from := mustInstant(t, "2023-01-18")
	for _, rule := range []RepeatRule{Once{}, Manual{}} {
		if _, ok := Seek(rule, from, true); ok {
			t.Fatalf("%T should have no occurrences", rule)
		}
		if _, ok := Seek(rule, from, false); ok {
			t.Fatalf("%T should have no occurrences", rule)
		}
	}
}

func TestSeekDelay(t *testing.T) {
	rule := Delay{Every: mustDuration(t, "P2DT3H")}
	from := mustInstant(t, "2023-01-18T12:00")

	next, ok := Seek(rule, from, true)
	if !ok || !next.Equal(mustInstant(t, "2023-01-20T15:00")) {
		t.Fatalf("forward delay got %s ok=%v", FormatInstant(next), ok)
	}
	prev, ok := Seek(rule, from, false)
	if !ok || !prev.Equal(mustInstant(t, "2023-01-16T09:00")) {
		t.Fatalf("backward delay got %s ok=%v", FormatInstant(prev), ok)
	}
}

func TestSeekWeeklyScheduleWithOffsets(t *testing.T) {
	rule := weeklySchedule(t)
	from := mustInstant(t, "2023-01-18")

	next, ok := Seek(rule, from, true)
	if !ok || !next.Equal(mustInstant(t, "2023-01-21")) {
		t.Fatalf("forward got %s ok=%v, want 2023-01-21", FormatInstant(next), ok)
	}
	prev, ok := Seek(rule, from, false)
	if !ok || !prev.Equal(mustInstant(t, "2023-01-15")) {
		t.Fatalf("backward got %s ok=%v, want 2023-01-15", FormatInstant(prev), ok)
	}
}

func TestSeekIsStrict(t *testing.T) {
	rule := weeklySchedule(t)
	// Exactly on an occurrence: the occurrence itself never qualifies.
	on := mustInstant(t, "2023-01-15")
	next, ok := Seek(rule, on, true)
	if !ok || !next.After(on) {
		t.Fatalf("forward from occurrence got %s ok=%v", FormatInstant(next), ok)
	}
	if !next.Equal(mustInstant(t, "2023-01-21")) {
		t.Fatalf("forward from 2023-01-15 got %s", FormatInstant(next))
	}
	prev, ok := Seek(rule, on, false)
	if !ok || !prev.Before(on) {
		t.Fatalf("backward from occurrence got %s ok=%v", FormatInstant(prev), ok)
	}
	if !prev.Equal(mustInstant(t, "2023-01-14")) {
		t.Fatalf("backward from 2023-01-15 got %s", FormatInstant(prev))
	}
}

func TestSeekTieBreakKeepsFirstCandidate(t *testing.T) {
	// Both offsets resolve to the same instant; the first in list order wins,
	// which is only observable as the search not failing or flapping.
	rule := Schedule{
		Base:    mustInstant(t, "2023-01-01"),
		Period:  mustDuration(t, "P1D"),
		Offsets: []Duration{mustDuration(t, "PT12H"), mustDuration(t, "PT12H")},
	}
	next, ok := Seek(rule, mustInstant(t, "2023-01-02"), true)
	if !ok || !next.Equal(mustInstant(t, "2023-01-02T12:00")) {
		t.Fatalf("got %s ok=%v", FormatInstant(next), ok)
	}
}

func TestRebaseSchedule(t *testing.T) {
	rule := RepeatRule(Schedule{
		Base:    mustInstant(t, "2021-12-01"),
		Period:  mustDuration(t, "P1D"),
		Offsets: []Duration{mustDuration(t, "P0D")},
	})
	near := mustInstant(t, "2021-12-25T12:20")

	rebased := Rebase(rule, &near)
	s, ok := rebased.(Schedule)
	if !ok {
		t.Fatalf("rebase changed variant: %T", rebased)
	}
	if !s.Base.Equal(mustInstant(t, "2021-12-25")) {
		t.Fatalf("rebased base got %s", FormatInstant(s.Base))
	}
	if s.Period != mustDuration(t, "P1D") || len(s.Offsets) != 1 {
		t.Fatalf("rebase touched cadence: %+v", s)
	}

	again := Rebase(rebased, &near)
	if again.(Schedule).Base != s.Base {
		t.Fatalf("rebase not idempotent: %v vs %v", again.(Schedule).Base, s.Base)
	}
}

func TestRebaseIdentityCases(t *testing.T) {
	near := mustInstant(t, "2023-01-18")
	for _, rule := range []RepeatRule{Once{}, Manual{}, Delay{Every: mustDuration(t, "P1D")}} {
		if got := Rebase(rule, &near); got != rule {
			t.Fatalf("rebase changed %T", rule)
		}
	}
	sched := RepeatRule(weeklySchedule(t))
	if got := Rebase(sched, nil); !got.(Schedule).Base.Equal(sched.(Schedule).Base) {
		t.Fatal("rebase with nil near must not move the anchor")
	}
}

func TestRepeatWireRoundTrip(t *testing.T) {
	cases := []string{
		"once",
		"manual",
		"delay P7D",
		"delay PT4H30M",
		"schedule 2023-01-01T00:00:00 P7D P0D P6D",
	}
	for _, in := range cases {
		rule, err := ParseRepeat(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		out := FormatRepeat(rule)
		back, err := ParseRepeat(out)
		if err != nil {
			t.Fatalf("reparse %q failed: %v", out, err)
		}
		if FormatRepeat(back) != out {
			t.Fatalf("wire round trip unstable: %q -> %q", out, FormatRepeat(back))
		}
	}
}

func TestParseRepeatRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"yearly",
		"once now",
		"delay",
		"delay 7days",
		"schedule 2023-01-01 P7D", // no offsets
		"schedule nonsense P7D P0D",
		"schedule 2023-01-01 X7D P0D",
	}
	for _, in := range cases {
		if _, err := ParseRepeat(in); !errors.Is(err, ErrInvalidRepeat) {
			t.Fatalf("expected ErrInvalidRepeat for %q, got %v", in, err)
		}
	}
}
