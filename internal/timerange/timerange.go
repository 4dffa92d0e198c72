// Package timerange resolves the symbolic time-range expressions stored in
// chart form data ("Last week", "2021-01-01 : 2021-01-08", "No filter") into
// concrete since/until boundaries.
//
// Parsing is layered:
//  1. the no-filter sentinel and empty input resolve to open bounds,
//  2. relative grammar ("Last N days", "Next week", "previous calendar month"),
//  3. explicit "since : until" ranges,
//  4. absolute timestamps (RFC 3339, date-time, date-only),
//  5. natural-language fallback via the when parser.
package timerange

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// NoFilter is the sentinel meaning "no temporal restriction". It resolves to
// open bounds on both sides.
const NoFilter = "No filter"

// rangeSeparator splits explicit custom ranges ("<since> : <until>").
const rangeSeparator = " : "

// relativeRe matches the relative grammar: Last/Next, an optional count, and
// a calendar unit ("Last week", "Next 30 days", "last 2 quarters").
var relativeRe = regexp.MustCompile(`(?i)^(last|next)\s+(?:(\d+)\s+)?(second|minute|hour|day|week|month|quarter|year)s?$`)

// calendarRe matches "previous calendar week|month|year".
var calendarRe = regexp.MustCompile(`(?i)^previous calendar (week|month|year)$`)

// absoluteLayouts are tried in order for absolute timestamps.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// nlParser handles natural-language expressions the explicit grammar does
// not cover ("yesterday", "next monday").
var nlParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// SinceUntil resolves a time-range expression against the reference time.
// Either bound may be nil, meaning open on that side. The no-filter sentinel
// and empty input return open bounds on both sides; an expression that no
// layer can parse returns an error.
func SinceUntil(expr string, now time.Time) (since, until *time.Time, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || strings.EqualFold(expr, NoFilter) {
		return nil, nil, nil
	}

	if m := relativeRe.FindStringSubmatch(expr); m != nil {
		return relativeRange(m, now)
	}
	if m := calendarRe.FindStringSubmatch(expr); m != nil {
		return calendarRange(strings.ToLower(m[1]), now)
	}

	if strings.Contains(expr, rangeSeparator) {
		parts := strings.SplitN(expr, rangeSeparator, 2)
		since, err = parseBound(strings.TrimSpace(parts[0]), now)
		if err != nil {
			return nil, nil, err
		}
		until, err = parseBound(strings.TrimSpace(parts[1]), now)
		if err != nil {
			return nil, nil, err
		}
		return since, until, nil
	}

	// A bare expression is an open-ended "since".
	since, err = parseBound(expr, now)
	if err != nil {
		return nil, nil, err
	}
	return since, nil, nil
}

// relativeRange resolves "Last ..." and "Next ..." expressions relative to
// the start of the reference day.
func relativeRange(m []string, now time.Time) (*time.Time, *time.Time, error) {
	direction := strings.ToLower(m[1])
	amount := 1
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid amount %q: %w", m[2], err)
		}
		amount = n
	}
	unit := strings.ToLower(m[3])

	today := startOfDay(now)
	if direction == "last" {
		since := shift(today, -amount, unit)
		return &since, &today, nil
	}
	until := shift(today, amount, unit)
	return &today, &until, nil
}

// calendarRange resolves "previous calendar week|month|year" to the whole
// previous calendar period.
func calendarRange(unit string, now time.Time) (*time.Time, *time.Time, error) {
	today := startOfDay(now)
	var since, until time.Time
	switch unit {
	case "week":
		// Week starts on Monday.
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		until = today.AddDate(0, 0, -(weekday - 1))
		since = until.AddDate(0, 0, -7)
	case "month":
		until = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		since = until.AddDate(0, -1, 0)
	case "year":
		until = time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
		since = until.AddDate(-1, 0, 0)
	}
	return &since, &until, nil
}

// parseBound resolves one side of a range. An empty side is open.
func parseBound(s string, now time.Time) (*time.Time, error) {
	if s == "" || strings.EqualFold(s, NoFilter) {
		return nil, nil
	}
	switch strings.ToLower(s) {
	case "now":
		t := now
		return &t, nil
	case "today":
		t := startOfDay(now)
		return &t, nil
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return &t, nil
		}
	}

	if r, err := nlParser.Parse(s, now); err == nil && r != nil {
		return &r.Time, nil
	}
	return nil, fmt.Errorf("cannot parse time bound %q", s)
}

// startOfDay truncates to midnight in the time's location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// shift moves t by amount units. Calendar units use AddDate so month and
// year arithmetic follows the calendar rather than fixed durations.
func shift(t time.Time, amount int, unit string) time.Time {
	switch unit {
	case "second":
		return t.Add(time.Duration(amount) * time.Second)
	case "minute":
		return t.Add(time.Duration(amount) * time.Minute)
	case "hour":
		return t.Add(time.Duration(amount) * time.Hour)
	case "day":
		return t.AddDate(0, 0, amount)
	case "week":
		return t.AddDate(0, 0, amount*7)
	case "month":
		return t.AddDate(0, amount, 0)
	case "quarter":
		return t.AddDate(0, amount*3, 0)
	case "year":
		return t.AddDate(amount, 0, 0)
	default:
		return t
	}
}
