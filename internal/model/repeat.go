package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRepeat = errors.New("model: invalid repeat rule")

// RepeatRule is a closed union: Once, Manual, Delay and Schedule are the
// only variants. Consumers switch over the concrete types; the unexported
// marker method keeps the set sealed.
type RepeatRule interface {
	repeatRule()
}

// Once never recurs.
type Once struct{}

// Manual recurs only through explicit user action; it has no intrinsic
// schedule.
type Manual struct{}

// Delay schedules the next occurrence a fixed span away from whatever
// instant it is asked about.
type Delay struct {
	Every Duration
}

// Schedule produces occurrences at Base + k*Period + offset for every
// integer k and each configured offset. Offset order matters only as a
// tie-break during seeking.
type Schedule struct {
	Base    time.Time
	Period  Duration
	Offsets []Duration
}

func (Once) repeatRule()     {}
func (Manual) repeatRule()   {}
func (Delay) repeatRule()    {}
func (Schedule) repeatRule() {}

// FloorAligned returns the largest instant of the form base + k*period
// (integer k, any sign) that is not after target. A zero period makes
// stepping meaningless, so target is returned unchanged. A period that
// fails to advance the search is a construction error the editor should
// have rejected; flooring panics rather than loop forever.
func FloorAligned(target, base time.Time, period Duration) time.Time {
	if period.IsZero() {
		return target
	}
	for base.Before(target) {
		next := period.AddTo(base)
		if !next.After(base) {
			panic(fmt.Sprintf("model: schedule period %s does not advance", period))
		}
		base = next
	}
	for base.After(target) {
		prev := period.Negated().AddTo(base)
		if !prev.Before(base) {
			panic(fmt.Sprintf("model: schedule period %s does not advance", period))
		}
		base = prev
	}
	return base
}

// Seek returns the occurrence of rule nearest to from, strictly after it
// when forward is true and strictly before it otherwise. Once and Manual
// have no occurrences. For Schedule the search spans the period-aligned
// window around from plus one window on each side; equally distant
// candidates resolve to the first one found in window-then-offset order.
func Seek(rule RepeatRule, from time.Time, forward bool) (time.Time, bool) {
	switch r := rule.(type) {
	case Once, Manual:
		return time.Time{}, false
	case Delay:
		if forward {
			return r.Every.AddTo(from), true
		}
		return r.Every.Negated().AddTo(from), true
	case Schedule:
		f := FloorAligned(from, r.Base, r.Period)
		windows := [3]time.Time{r.Period.Negated().AddTo(f), f, r.Period.AddTo(f)}
		var best time.Time
		found := false
		for _, window := range windows {
			for _, offset := range r.Offsets {
				candidate := offset.AddTo(window)
				if forward && !candidate.After(from) {
					continue
				}
				if !forward && !candidate.Before(from) {
					continue
				}
				if !found || distanceMillis(candidate, from) < distanceMillis(best, from) {
					best = candidate
					found = true
				}
			}
		}
		return best, found
	default:
		return time.Time{}, false
	}
}

func distanceMillis(a, b time.Time) int64 {
	d := a.UnixMilli() - b.UnixMilli()
	if d < 0 {
		return -d
	}
	return d
}

// Rebase re-anchors a Schedule to the period-aligned instant at or before
// near, leaving the cadence (period and offsets) untouched. All other
// variants, and any rule when near is nil, pass through unchanged. The
// operation is idempotent.
func Rebase(rule RepeatRule, near *time.Time) RepeatRule {
	if near == nil {
		return rule
	}
	s, ok := rule.(Schedule)
	if !ok {
		return rule
	}
	s.Base = FloorAligned(*near, s.Base, s.Period)
	return s
}

// FormatRepeat serializes a rule to its whitespace-separated wire form.
func FormatRepeat(rule RepeatRule) string {
	switch r := rule.(type) {
	case Once:
		return "once"
	case Manual:
		return "manual"
	case Delay:
		return fmt.Sprintf("delay %s", r.Every)
	case Schedule:
		parts := make([]string, 0, 3+len(r.Offsets))
		parts = append(parts, "schedule", FormatInstant(r.Base), r.Period.String())
		for _, offset := range r.Offsets {
			parts = append(parts, offset.String())
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// ParseRepeat parses the wire form produced by FormatRepeat:
//
//	once | manual | delay <duration> | schedule <instant> <period> <offset>...
//
// A schedule requires at least one offset.
func ParseRepeat(text string) (RepeatRule, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidRepeat)
	}
	switch tokens[0] {
	case "once":
		if len(tokens) != 1 {
			return nil, fmt.Errorf("%w: once takes no arguments", ErrInvalidRepeat)
		}
		return Once{}, nil
	case "manual":
		if len(tokens) != 1 {
			return nil, fmt.Errorf("%w: manual takes no arguments", ErrInvalidRepeat)
		}
		return Manual{}, nil
	case "delay":
		if len(tokens) != 2 {
			return nil, fmt.Errorf("%w: delay takes one duration", ErrInvalidRepeat)
		}
		every, err := ParseDuration(tokens[1])
		if err != nil {
			return nil, fmt.Errorf("%w: delay: %v", ErrInvalidRepeat, err)
		}
		return Delay{Every: every}, nil
	case "schedule":
		if len(tokens) < 4 {
			return nil, fmt.Errorf("%w: schedule needs a base, a period and at least one offset", ErrInvalidRepeat)
		}
		base, err := ParseInstant(tokens[1])
		if err != nil {
			return nil, fmt.Errorf("%w: schedule base: %v", ErrInvalidRepeat, err)
		}
		period, err := ParseDuration(tokens[2])
		if err != nil {
			return nil, fmt.Errorf("%w: schedule period: %v", ErrInvalidRepeat, err)
		}
		offsets := make([]Duration, 0, len(tokens)-3)
		for _, token := range tokens[3:] {
			offset, err := ParseDuration(token)
			if err != nil {
				return nil, fmt.Errorf("%w: schedule offset: %v", ErrInvalidRepeat, err)
			}
			offsets = append(offsets, offset)
		}
		return Schedule{Base: base, Period: period, Offsets: offsets}, nil
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidRepeat, tokens[0])
	}
}
