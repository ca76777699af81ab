package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDuration = errors.New("model: invalid duration")

// Duration is a calendar-aware span with independently signed components.
// Year/month/day components move wall-clock fields; the time components
// apply as one flat millisecond offset. Absent and zero components are
// equivalent.
type Duration struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Millis  int
}

// AddTo applies the duration to t: years, then months, then days as
// field increments (day overflow normalizes the way time.AddDate does,
// e.g. Jan 31 plus one month lands in early March), then the remaining
// components as a single millisecond offset.
func (d Duration) AddTo(t time.Time) time.Time {
	out := t
	if d.Years != 0 {
		out = out.AddDate(d.Years, 0, 0)
	}
	if d.Months != 0 {
		out = out.AddDate(0, d.Months, 0)
	}
	if d.Days != 0 {
		out = out.AddDate(0, 0, d.Days)
	}
	ms := d.flatMillis()
	if ms != 0 {
		out = out.Add(time.Duration(ms) * time.Millisecond)
	}
	return out
}

func (d Duration) flatMillis() int64 {
	return ((int64(d.Hours)*60+int64(d.Minutes))*60+int64(d.Seconds))*1000 + int64(d.Millis)
}

// IsZero reports whether applying the duration to an instant leaves it
// unchanged.
func (d Duration) IsZero() bool {
	epoch := time.Unix(0, 0)
	return d.AddTo(epoch).Equal(epoch)
}

// Negated returns the component-wise negation.
func (d Duration) Negated() Duration {
	return Duration{
		Years:   -d.Years,
		Months:  -d.Months,
		Days:    -d.Days,
		Hours:   -d.Hours,
		Minutes: -d.Minutes,
		Seconds: -d.Seconds,
		Millis:  -d.Millis,
	}
}

// String serializes the duration in P[nY][nM][nD][T[nH][nM][nS]] form,
// emitting only non-zero components. The canonical all-zero form is P0D.
func (d Duration) String() string {
	var b strings.Builder
	b.WriteByte('P')
	if d.Years != 0 {
		fmt.Fprintf(&b, "%dY", d.Years)
	}
	if d.Months != 0 {
		fmt.Fprintf(&b, "%dM", d.Months)
	}
	if d.Days != 0 {
		fmt.Fprintf(&b, "%dD", d.Days)
	}
	secMillis := int64(d.Seconds)*1000 + int64(d.Millis)
	if d.Hours != 0 || d.Minutes != 0 || secMillis != 0 {
		b.WriteByte('T')
		if d.Hours != 0 {
			fmt.Fprintf(&b, "%dH", d.Hours)
		}
		if d.Minutes != 0 {
			fmt.Fprintf(&b, "%dM", d.Minutes)
		}
		if secMillis != 0 {
			b.WriteString(formatSeconds(secMillis))
		}
	}
	if b.Len() == 1 {
		return "P0D"
	}
	return b.String()
}

func formatSeconds(totalMillis int64) string {
	sign := ""
	if totalMillis < 0 {
		sign = "-"
		totalMillis = -totalMillis
	}
	whole := totalMillis / 1000
	frac := totalMillis % 1000
	if frac == 0 {
		return fmt.Sprintf("%s%dS", sign, whole)
	}
	fracText := strings.TrimRight(fmt.Sprintf("%03d", frac), "0")
	return fmt.Sprintf("%s%d.%sS", sign, whole, fracText)
}

// ParseDuration parses P[nY][nM][nD][T[nH][nM][n[.fff]S]] where every n
// may carry a sign and omitted components are zero. Fractional seconds
// round to the nearest millisecond, half away from zero; any overflow
// folds back into whole seconds so the millisecond component stays in
// [-999, 999] with the sign of the seconds.
func ParseDuration(text string) (Duration, error) {
	rest, ok := strings.CutPrefix(text, "P")
	if !ok {
		return Duration{}, fmt.Errorf("%w: %q must start with P", ErrInvalidDuration, text)
	}

	var d Duration
	datePart, timePart, hasTime := strings.Cut(rest, "T")
	if err := parseComponents(datePart, false, &d); err != nil {
		return Duration{}, fmt.Errorf("%w: %q: %v", ErrInvalidDuration, text, err)
	}
	if hasTime {
		if err := parseComponents(timePart, true, &d); err != nil {
			return Duration{}, fmt.Errorf("%w: %q: %v", ErrInvalidDuration, text, err)
		}
	}
	return d, nil
}

func parseComponents(part string, timePart bool, d *Duration) error {
	order := "YMD"
	if timePart {
		order = "HMS"
	}
	next := 0
	for len(part) > 0 {
		num, frac, designator, rest, err := scanComponent(part)
		if err != nil {
			return err
		}
		idx := strings.IndexByte(order[next:], designator)
		if idx < 0 {
			return fmt.Errorf("unexpected designator %q", string(designator))
		}
		next += idx + 1
		if frac != "" && designator != 'S' {
			return fmt.Errorf("fractional %q component", string(designator))
		}
		switch {
		case !timePart && designator == 'Y':
			d.Years = num
		case !timePart && designator == 'M':
			d.Months = num
		case !timePart && designator == 'D':
			d.Days = num
		case timePart && designator == 'H':
			d.Hours = num
		case timePart && designator == 'M':
			d.Minutes = num
		case timePart && designator == 'S':
			d.Seconds, d.Millis = normalizeSeconds(num, frac)
		}
		part = rest
	}
	return nil
}

// scanComponent splits the leading signed number (with optional fraction)
// and its designator letter off the front of part.
func scanComponent(part string) (num int, frac string, designator byte, rest string, err error) {
	i := 0
	negative := false
	if i < len(part) && (part[i] == '+' || part[i] == '-') {
		negative = part[i] == '-'
		i++
	}
	start := i
	for i < len(part) && part[i] >= '0' && part[i] <= '9' {
		num = num*10 + int(part[i]-'0')
		i++
	}
	if i == start {
		return 0, "", 0, "", fmt.Errorf("missing number in %q", part)
	}
	if i < len(part) && part[i] == '.' {
		i++
		fracStart := i
		for i < len(part) && part[i] >= '0' && part[i] <= '9' {
			i++
		}
		if i == fracStart {
			return 0, "", 0, "", fmt.Errorf("empty fraction in %q", part)
		}
		frac = part[fracStart:i]
	}
	if i >= len(part) {
		return 0, "", 0, "", fmt.Errorf("missing designator in %q", part)
	}
	if negative {
		num = -num
		if frac != "" {
			frac = "-" + frac
		}
	}
	return num, frac, part[i], part[i+1:], nil
}

// normalizeSeconds combines whole seconds with a fractional digit string,
// rounding the fraction to whole milliseconds half away from zero.
func normalizeSeconds(whole int, frac string) (seconds, millis int) {
	negative := whole < 0
	digits := frac
	if rest, ok := strings.CutPrefix(frac, "-"); ok {
		negative = true
		digits = rest
	}

	// Tenths of a millisecond are enough precision to round correctly:
	// anything beyond the fourth fractional digit can only confirm a
	// round-up that half-away-from-zero already performs.
	for len(digits) < 4 {
		digits += "0"
	}
	tenths := 0
	for _, c := range digits[:4] {
		tenths = tenths*10 + int(c-'0')
	}
	ms := (tenths + 5) / 10

	seconds = abs(whole) + ms/1000
	millis = ms % 1000
	if negative {
		seconds = -seconds
		millis = -millis
	}
	return seconds, millis
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
