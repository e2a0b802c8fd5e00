package adaptiveexpr

import (
	"strings"
	"time"
)

// Timex is an opaque, possibly partially-specified date/time/duration
// expression. It models the subset of TIMEX3-style strings the Timex
// predicate builtins need: XXXX-MM-DD date parts, THH:mm:ss time parts,
// PnD/PTnH duration parts, and date/time ranges joined by a comma.
type Timex struct {
	raw string
}

// ParseTimex wraps a raw TIMEX3-flavored string without validating it
// beyond what the individual predicates need; malformed input simply
// fails every predicate.
func ParseTimex(raw string) *Timex {
	return &Timex{raw: raw}
}

func (t *Timex) String() string { return t.raw }

// IsDefinite reports whether the timex names a fully-specified calendar
// date (no X placeholders in the date part).
func (t *Timex) IsDefinite() bool {
	datePart := t.raw
	if i := strings.IndexAny(datePart, "T,"); i >= 0 {
		datePart = datePart[:i]
	}
	return datePart != "" && !strings.ContainsAny(datePart, "Xx")
}

// IsTime reports whether the timex includes a time-of-day component.
func (t *Timex) IsTime() bool {
	return strings.Contains(t.raw, "T") && !strings.HasPrefix(t.raw, "P")
}

// IsDuration reports whether the timex is a duration expression (the
// TIMEX3 "P..." family: P1D, PT2H, etc.).
func (t *Timex) IsDuration() bool {
	return strings.HasPrefix(t.raw, "P")
}

// IsDate reports whether the timex names a calendar date, definite or not.
func (t *Timex) IsDate() bool {
	if t.IsDuration() {
		return false
	}
	datePart := t.raw
	if i := strings.IndexAny(datePart, "T,"); i >= 0 {
		datePart = datePart[:i]
	}
	return len(datePart) >= 4
}

// IsTimeRange reports whether the timex is a comma-joined time range.
func (t *Timex) IsTimeRange() bool {
	return strings.Contains(t.raw, ",") && strings.Contains(t.raw, "T")
}

// IsDateRange reports whether the timex is a comma-joined date range.
func (t *Timex) IsDateRange() bool {
	return strings.Contains(t.raw, ",") && !strings.Contains(t.raw, "T")
}

// IsPresent reports whether the timex is the literal "PRESENT_REF" marker.
func (t *Timex) IsPresent() bool {
	return t.raw == "PRESENT_REF"
}

func init() {
	registerFunction("isDefinite", Boolean, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(timexPredicate((*Timex).IsDefinite), VerifyString))
	registerFunction("isTime", Boolean, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(timexPredicate((*Timex).IsTime), VerifyString))
	registerFunction("isDuration", Boolean, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(timexPredicate((*Timex).IsDuration), VerifyString))
	registerFunction("isDate", Boolean, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(timexPredicate((*Timex).IsDate), VerifyString))
	registerFunction("isTimeRange", Boolean, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(timexPredicate((*Timex).IsTimeRange), VerifyString))
	registerFunction("isDateRange", Boolean, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(timexPredicate((*Timex).IsDateRange), VerifyString))
	registerFunction("isPresent", Boolean, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(timexPredicate((*Timex).IsPresent), VerifyString))
	registerFunction("getPreviousViableDate", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 1, 2, String) }, ApplyWithError(getPreviousViableDateEval, nil))
	registerFunction("getNextViableDate", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 1, 2, String) }, ApplyWithError(getNextViableDateEval, nil))
	registerFunction("getPreviousViableTime", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 1, 2, String) }, ApplyWithError(getPreviousViableTimeEval, nil))
	registerFunction("getNextViableTime", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 1, 2, String) }, ApplyWithError(getNextViableTimeEval, nil))
}

func timexPredicate(pred func(*Timex) bool) func(args []any) any {
	return func(args []any) any {
		return pred(ParseTimex(asStringOrEmpty(args[0])))
	}
}

// getNextViableDateEval resolves a partially-specified month-day timex
// (e.g. "XXXX-12-25") to the nearest concrete future date, relative to
// base (default: now).
func getNextViableDateEval(args []any) (any, error) {
	return viableDate(args, 1)
}

func getPreviousViableDateEval(args []any) (any, error) {
	return viableDate(args, -1)
}

func viableDate(args []any, direction int) (any, error) {
	raw := asStringOrEmpty(args[0])
	base := timeNow()
	if len(args) == 2 {
		t, err := parseISO(asStringOrEmpty(args[1]))
		if err != nil {
			return nil, err
		}
		base = t
	}
	parts := strings.SplitN(raw, "-", 3)
	if len(parts) != 3 {
		return nil, newErrorf(FormatError, "", "%q is not a month-day timex", raw)
	}
	month, day := parts[1], parts[2]
	var m, d int
	if _, err := parseMMDD(month, day, &m, &d); err != nil {
		return nil, err
	}
	candidate := time.Date(base.Year(), time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if direction > 0 && !candidate.After(base) {
		candidate = time.Date(base.Year()+1, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	} else if direction < 0 && !candidate.Before(base) {
		candidate = time.Date(base.Year()-1, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}
	return candidate.Format("2006-01-02"), nil
}

func parseMMDD(month, day string, m, d *int) (bool, error) {
	mm, err := parseIntStrict(month)
	if err != nil {
		return false, newErrorf(FormatError, "", "invalid month %q", month)
	}
	dd, err := parseIntStrict(day)
	if err != nil {
		return false, newErrorf(FormatError, "", "invalid day %q", day)
	}
	*m, *d = mm, dd
	return true, nil
}

func parseIntStrict(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, newErrorf(FormatError, "", "empty numeric component")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, newErrorf(FormatError, "", "%q is not numeric", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

func getNextViableTimeEval(args []any) (any, error) {
	return viableTime(args, 1)
}

func getPreviousViableTimeEval(args []any) (any, error) {
	return viableTime(args, -1)
}

func viableTime(args []any, direction int) (any, error) {
	raw := strings.TrimPrefix(asStringOrEmpty(args[0]), "T")
	base := timeNow()
	if len(args) == 2 {
		t, err := parseISO(asStringOrEmpty(args[1]))
		if err != nil {
			return nil, err
		}
		base = t
	}
	hms := strings.Split(raw, ":")
	if len(hms) < 2 {
		return nil, newErrorf(FormatError, "", "%q is not a time-of-day timex", raw)
	}
	h, err := parseIntStrict(hms[0])
	if err != nil {
		return nil, err
	}
	min, err := parseIntStrict(hms[1])
	if err != nil {
		return nil, err
	}
	candidate := time.Date(base.Year(), base.Month(), base.Day(), h, min, 0, 0, time.UTC)
	if direction > 0 && !candidate.After(base) {
		candidate = candidate.AddDate(0, 0, 1)
	} else if direction < 0 && !candidate.Before(base) {
		candidate = candidate.AddDate(0, 0, -1)
	}
	return formatISO(candidate), nil
}
