// Package timeexpr resolves human-typed time phrases such as "last week",
// "last 3 days" or "january 2024" into concrete half-open time ranges.
//
// Resolution never reads the system clock: every call takes the reference
// instant explicitly, and calendar arithmetic happens in that instant's
// location.
package timeexpr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside [Start, End).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r Range) String() string {
	return r.Start.Format(time.RFC3339) + " .. " + r.End.Format(time.RFC3339)
}

// ParseError is returned when an expression matches no grammar rule.
type ParseError struct {
	Expr string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("time expression not recognized: %q", e.Expr)
}

// Examples lists one phrase per supported form, for help and error messages.
var Examples = []string{
	"today",
	"yesterday",
	"this week",
	"last week",
	"this month",
	"last month",
	"this year",
	"last year",
	"last 3 days",
	"last 2 weeks",
	"last 6 months",
	"last 1 year",
	"january",
	"january 2024",
	"2024-01-15",
}

// Resolve converts expression into a time range relative to now. The whole
// expression must match a single grammar rule.
func Resolve(expression string, now time.Time) (Range, error) {
	tokens := strings.Fields(expression)
	r, n, ok := Match(tokens, now)
	if !ok || n != len(tokens) {
		return Range{}, &ParseError{Expr: strings.TrimSpace(expression)}
	}
	return r, nil
}

// Match finds the longest grammar rule matching a prefix of tokens and
// returns its range along with the number of tokens consumed.
func Match(tokens []string, now time.Time) (Range, int, bool) {
	if len(tokens) == 0 {
		return Range{}, 0, false
	}
	words := lowerPrefix(tokens, maxRuleTokens)

	var best Range
	bestN := 0
	for _, rule := range rules {
		r, n, ok := rule(words, now)
		if ok && n > bestN {
			best, bestN = r, n
		}
	}
	return best, bestN, bestN > 0
}

// maxRuleTokens is the length of the longest rule ("last N units").
const maxRuleTokens = 3

type rule func(words []string, now time.Time) (Range, int, bool)

var rules = []rule{
	matchToday,
	matchYesterday,
	matchThisPeriod,
	matchLastPeriod,
	matchLastN,
	matchMonthName,
	matchISODate,
}

var monthNames = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

type unit int

const (
	unitDay unit = iota
	unitWeek
	unitMonth
	unitYear
)

var units = map[string]unit{
	"day": unitDay, "days": unitDay,
	"week": unitWeek, "weeks": unitWeek,
	"month": unitMonth, "months": unitMonth,
	"year": unitYear, "years": unitYear,
}

// maxLookbackYears bounds "last N <unit>" so the date arithmetic cannot
// overflow. Counts beyond it are not time phrases.
const maxLookbackYears = 100000

var maxCount = map[unit]int{
	unitDay:   maxLookbackYears * 366,
	unitWeek:  maxLookbackYears * 53,
	unitMonth: maxLookbackYears * 12,
	unitYear:  maxLookbackYears,
}

func matchToday(words []string, now time.Time) (Range, int, bool) {
	if words[0] != "today" {
		return Range{}, 0, false
	}
	return dayRange(midnight(now)), 1, true
}

func matchYesterday(words []string, now time.Time) (Range, int, bool) {
	if words[0] != "yesterday" {
		return Range{}, 0, false
	}
	return dayRange(midnight(now).AddDate(0, 0, -1)), 1, true
}

// matchThisPeriod handles "this week|month|year" and the "current ..." aliases.
func matchThisPeriod(words []string, now time.Time) (Range, int, bool) {
	if len(words) < 2 || (words[0] != "this" && words[0] != "current") {
		return Range{}, 0, false
	}
	switch words[1] {
	case "week":
		start := startOfWeek(now)
		return Range{Start: start, End: start.AddDate(0, 0, 7)}, 2, true
	case "month":
		start := startOfMonth(now)
		return Range{Start: start, End: start.AddDate(0, 1, 0)}, 2, true
	case "year":
		start := startOfYear(now)
		return Range{Start: start, End: start.AddDate(1, 0, 0)}, 2, true
	}
	return Range{}, 0, false
}

// matchLastPeriod handles the calendar-aligned "last week|month|year".
func matchLastPeriod(words []string, now time.Time) (Range, int, bool) {
	if len(words) < 2 || words[0] != "last" {
		return Range{}, 0, false
	}
	switch words[1] {
	case "week":
		end := startOfWeek(now)
		return Range{Start: end.AddDate(0, 0, -7), End: end}, 2, true
	case "month":
		end := startOfMonth(now)
		return Range{Start: end.AddDate(0, -1, 0), End: end}, 2, true
	case "year":
		end := startOfYear(now)
		return Range{Start: end.AddDate(-1, 0, 0), End: end}, 2, true
	}
	return Range{}, 0, false
}

// matchLastN handles the rolling "last N days|weeks|months|years" window
// ending at now.
func matchLastN(words []string, now time.Time) (Range, int, bool) {
	if len(words) < 3 || words[0] != "last" {
		return Range{}, 0, false
	}
	n, ok := positiveInt(words[1])
	if !ok {
		return Range{}, 0, false
	}
	u, ok := units[words[2]]
	if !ok || n > maxCount[u] {
		return Range{}, 0, false
	}

	var start time.Time
	switch u {
	case unitDay:
		start = now.AddDate(0, 0, -n)
	case unitWeek:
		start = now.AddDate(0, 0, -7*n)
	case unitMonth:
		start = addMonthsClamped(now, -n)
	case unitYear:
		start = addMonthsClamped(now, -12*n)
	}
	return Range{Start: start, End: now}, 3, true
}

// matchMonthName handles "january" and "january 2024". A bare month that has
// not started yet this year refers to last year's occurrence.
func matchMonthName(words []string, now time.Time) (Range, int, bool) {
	month, ok := monthNames[words[0]]
	if !ok {
		return Range{}, 0, false
	}
	if len(words) > 1 {
		if year, ok := fourDigitYear(words[1]); ok {
			return monthRange(year, month, now.Location()), 2, true
		}
	}
	r := monthRange(now.Year(), month, now.Location())
	if r.Start.After(now) {
		r = monthRange(now.Year()-1, month, now.Location())
	}
	return r, 1, true
}

func matchISODate(words []string, now time.Time) (Range, int, bool) {
	if len(words[0]) != len("2006-01-02") {
		return Range{}, 0, false
	}
	d, err := time.ParseInLocation("2006-01-02", words[0], now.Location())
	if err != nil {
		return Range{}, 0, false
	}
	return dayRange(d), 1, true
}

func lowerPrefix(tokens []string, n int) []string {
	if len(tokens) < n {
		n = len(tokens)
	}
	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = strings.ToLower(tokens[i])
	}
	return words
}

func positiveInt(s string) (int, bool) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func fourDigitYear(s string) (int, bool) {
	if len(s) != 4 || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	y, err := strconv.Atoi(s)
	return y, err == nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayRange(day time.Time) Range {
	return Range{Start: day, End: day.AddDate(0, 0, 1)}
}

// startOfWeek returns Monday 00:00 of t's week.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return midnight(t).AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

func monthRange(year int, month time.Month, loc *time.Location) Range {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// addMonthsClamped shifts t by months, clamping the day to the end of the
// target month so that March 31 minus one month is the last day of February.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
