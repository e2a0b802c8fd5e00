package adaptiveexpr

import (
	"strings"
	"time"
)

// ticksPerSecond is the number of .NET 100-nanosecond ticks in one second.
const ticksPerSecond = 10_000_000

// ticksAtUnixEpoch is the tick count at 1970-01-01T00:00:00Z, the offset
// between .NET's year-1 epoch and Unix time.
const ticksAtUnixEpoch = 621_355_968_000_000_000

const defaultDateTimeFormat = "2006-01-02T15:04:05.000Z"

func init() {
	registerFunction("addDays", String, dtAddValidator, ApplyWithError(addUnitEval(24*time.Hour), nil))
	registerFunction("addHours", String, dtAddValidator, ApplyWithError(addUnitEval(time.Hour), nil))
	registerFunction("addMinutes", String, dtAddValidator, ApplyWithError(addUnitEval(time.Minute), nil))
	registerFunction("addSeconds", String, dtAddValidator, ApplyWithError(addUnitEval(time.Second), nil))
	registerFunction("subtractFromTime", String, func(n *baseExpression) error { return ValidateOrder(n, String, String, Number, String) }, ApplyWithError(subtractFromTimeEval, nil))
	registerFunction("addToTime", String, func(n *baseExpression) error { return ValidateOrder(n, String, String, Number, String) }, ApplyWithError(addToTimeEval, nil))
	registerFunction("formatDateTime", String, func(n *baseExpression) error { return ValidateOrder(n, String, String) }, ApplyWithError(formatDateTimeEval, nil))
	registerFunction("formatEpoch", String, func(n *baseExpression) error { return ValidateUnary(n, Number) }, ApplyWithError(formatEpochEval, nil))
	registerFunction("formatTicks", String, func(n *baseExpression) error { return ValidateUnary(n, Number) }, ApplyWithError(formatTicksEval, nil))
	registerFunction("dayOfMonth", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(dayOfMonthEval, nil))
	registerFunction("dayOfWeek", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(dayOfWeekEval, nil))
	registerFunction("dayOfYear", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(dayOfYearEval, nil))
	registerFunction("month", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(monthEval, nil))
	registerFunction("year", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(yearEval, nil))
	registerFunction("date", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(dateEval, nil))
	registerFunction("utcNow", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 0, 0, Object) }, Apply(utcNowEval, nil))
	registerFunction("startOfDay", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(startOfDayEval, nil))
	registerFunction("startOfHour", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(startOfHourEval, nil))
	registerFunction("startOfMonth", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(startOfMonthEval, nil))
	registerFunction("ticks", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(ticksEval, nil))
	registerFunction("ticksToDays", Number, func(n *baseExpression) error { return ValidateUnary(n, Number) }, Apply(ticksToDaysEval, VerifyInteger))
	registerFunction("ticksToHours", Number, func(n *baseExpression) error { return ValidateUnary(n, Number) }, Apply(ticksToHoursEval, VerifyInteger))
	registerFunction("ticksToMinutes", Number, func(n *baseExpression) error { return ValidateUnary(n, Number) }, Apply(ticksToMinutesEval, VerifyInteger))
	registerFunction("dateTimeDiff", Number, func(n *baseExpression) error { return ValidateBinary(n, String) }, ApplyWithError(dateTimeDiffEval, nil))
	registerFunction("dateReadBack", String, func(n *baseExpression) error { return ValidateBinary(n, String) }, ApplyWithError(dateReadBackEval, nil))
	registerFunction("getTimeOfDay", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(getTimeOfDayEval, nil))
	registerFunction("getPastTime", String, func(n *baseExpression) error { return ValidateOrder(n, String, Number, String) }, ApplyWithError(getPastTimeEval, nil))
	registerFunction("convertFromUTC", String, func(n *baseExpression) error { return ValidateOrder(n, String, String, String) }, ApplyWithError(convertFromUTCEval, nil))
	registerFunction("convertToUTC", String, func(n *baseExpression) error { return ValidateOrder(n, String, String) }, ApplyWithError(convertToUTCEval, nil))
}

func dtAddValidator(n *baseExpression) error {
	return ValidateOrder(n, String, Number, String)
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, defaultDateTimeFormat, "2006-01-02T15:04:05Z", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, newErrorf(FormatError, "", "%q is not a valid ISO-8601 timestamp", s)
}

func formatISO(t time.Time) string {
	return t.UTC().Format(defaultDateTimeFormat)
}

func addUnitEval(unit time.Duration) func(args []any) (any, error) {
	return func(args []any) (any, error) {
		t, err := parseISO(asStringOrEmpty(args[0]))
		if err != nil {
			return nil, err
		}
		n, _ := asFloat(args[1])
		return formatISO(t.Add(time.Duration(n * float64(unit)))), nil
	}
}

func unitToDuration(unit string) (time.Duration, error) {
	switch strings.ToLower(unit) {
	case "second", "seconds":
		return time.Second, nil
	case "minute", "minutes":
		return time.Minute, nil
	case "hour", "hours":
		return time.Hour, nil
	case "day", "days":
		return 24 * time.Hour, nil
	case "week", "weeks":
		return 7 * 24 * time.Hour, nil
	default:
		return 0, newErrorf(DomainError, "", "unrecognized time unit %q", unit)
	}
}

func subtractFromTimeEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	n, _ := asFloat(args[1])
	unit, err := unitToDuration(asStringOrEmpty(args[2]))
	if err != nil {
		return nil, err
	}
	return formatISO(t.Add(-time.Duration(n * float64(unit)))), nil
}

func addToTimeEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	n, _ := asFloat(args[1])
	unit, err := unitToDuration(asStringOrEmpty(args[2]))
	if err != nil {
		return nil, err
	}
	return formatISO(t.Add(time.Duration(n * float64(unit)))), nil
}

// formatDateTimeEval accepts a Go time layout, not a .NET custom format
// string; callers porting .NET-style format strings must translate them.
func formatDateTimeEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	layout := defaultDateTimeFormat
	if len(args) == 2 {
		layout = asStringOrEmpty(args[1])
	}
	return t.Format(layout), nil
}

func formatEpochEval(args []any) (any, error) {
	f, _ := asFloat(args[0])
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return formatISO(time.Unix(sec, nsec).UTC()), nil
}

func formatTicksEval(args []any) (any, error) {
	ticks, ok := asInt64(args[0])
	if !ok {
		return nil, newErrorf(TypeErrorKind, "formatTicks", "%v is not an integer tick count", args[0])
	}
	unixNanos := (ticks - ticksAtUnixEpoch) * 100
	t := time.Unix(0, unixNanos).UTC()
	return formatISO(t), nil
}

func dayOfMonthEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return int64(t.Day()), nil
}

func dayOfWeekEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return int64(t.Weekday()), nil
}

func dayOfYearEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return int64(t.YearDay()), nil
}

func monthEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return int64(t.Month()), nil
}

func yearEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return int64(t.Year()), nil
}

func dateEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return t.Format("01/02/2006"), nil
}

func utcNowEval([]any) any {
	return formatISO(timeNow())
}

// timeNow is a seam so every other datetime builtin stays pure except this
// one, documented non-determinism point.
func timeNow() time.Time { return time.Now().UTC() }

func startOfDayEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return formatISO(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
}

func startOfHourEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return formatISO(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)), nil
}

func startOfMonthEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return formatISO(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)), nil
}

func toTicks(t time.Time) int64 {
	return t.Unix()*ticksPerSecond + int64(t.Nanosecond()/100) + ticksAtUnixEpoch
}

func ticksEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	return toTicks(t), nil
}

func ticksToDaysEval(args []any) any {
	n, _ := asInt64(args[0])
	return float64(n) / (ticksPerSecond * 86400)
}

func ticksToHoursEval(args []any) any {
	n, _ := asInt64(args[0])
	return float64(n) / (ticksPerSecond * 3600)
}

func ticksToMinutesEval(args []any) any {
	n, _ := asInt64(args[0])
	return float64(n) / (ticksPerSecond * 60)
}

func dateTimeDiffEval(args []any) (any, error) {
	a, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	b, err := parseISO(asStringOrEmpty(args[1]))
	if err != nil {
		return nil, err
	}
	return toTicks(a) - toTicks(b), nil
}

// dateReadBackEval renders a human-friendly relative label ("Today",
// "Tomorrow", "Yesterday") when target falls within a day of base, else
// falls back to the formatted date.
func dateReadBackEval(args []any) (any, error) {
	base, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	target, err := parseISO(asStringOrEmpty(args[1]))
	if err != nil {
		return nil, err
	}
	baseDay := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)
	targetDay := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(targetDay.Sub(baseDay).Hours() / 24)
	switch diff {
	case 0:
		return "Today", nil
	case 1:
		return "Tomorrow", nil
	case -1:
		return "Yesterday", nil
	default:
		return targetDay.Format("01/02/2006"), nil
	}
}

// getTimeOfDayEval buckets a timestamp's time-of-day per the fixed English
// labels: midnight at exactly 0:00, morning [5,12), noon at exactly 12:00,
// afternoon (12,18), evening [18,22], else night.
func getTimeOfDayEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	h, m := t.Hour(), t.Minute()
	switch {
	case h == 0 && m == 0:
		return "midnight", nil
	case h >= 5 && h < 12:
		return "morning", nil
	case h == 12 && m == 0:
		return "noon", nil
	case h >= 12 && h < 18:
		return "afternoon", nil
	case h >= 18 && h <= 22:
		return "evening", nil
	default:
		return "night", nil
	}
}

func getPastTimeEval(args []any) (any, error) {
	n, _ := asFloat(args[0])
	unit, err := unitToDuration(asStringOrEmpty(args[1]))
	if err != nil {
		return nil, err
	}
	return formatISO(timeNow().Add(-time.Duration(n * float64(unit)))), nil
}

func convertFromUTCEval(args []any) (any, error) {
	t, err := parseISO(asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(asStringOrEmpty(args[1]))
	if err != nil {
		return nil, newErrorf(DomainError, "convertFromUTC", "unrecognized timezone %q", args[1])
	}
	return t.In(loc).Format(defaultDateTimeFormat[:len(defaultDateTimeFormat)-1]), nil
}

func convertToUTCEval(args []any) (any, error) {
	s := asStringOrEmpty(args[0])
	var sourceZone string
	if len(args) == 2 {
		sourceZone = asStringOrEmpty(args[1])
	}
	loc := time.UTC
	if sourceZone != "" {
		var err error
		loc, err = time.LoadLocation(sourceZone)
		if err != nil {
			return nil, newErrorf(DomainError, "convertToUTC", "unrecognized timezone %q", sourceZone)
		}
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", strings.TrimSuffix(s, "Z"), loc)
	if err != nil {
		return nil, newErrorf(FormatError, "convertToUTC", "%q is not a valid timestamp", s)
	}
	return formatISO(t), nil
}
