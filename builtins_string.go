package adaptiveexpr

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func init() {
	registerFunction("concat", String, ValidateAtLeastOne, Apply(concatValues, nil))
	registerFunction("length", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(lengthValue, nil))
	registerFunction("replace", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 3, 3, String) }, ApplyWithError(replaceValues, VerifyString))
	registerFunction("replaceIgnoreCase", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 3, 3, String) }, ApplyWithError(replaceIgnoreCaseValues, VerifyString))
	registerFunction("split", Array, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 1, 2, String) }, Apply(splitValues, VerifyString))
	registerFunction("substring", String, func(n *baseExpression) error { return ValidateOrder(n, Number, String, Number) }, ApplyWithError(substringValues, nil))
	registerFunction("toLower", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(toLowerValue, VerifyString))
	registerFunction("toUpper", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(toUpperValue, VerifyString))
	registerFunction("trim", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(trimValue, VerifyString))
	registerFunction("startsWith", Boolean, func(n *baseExpression) error { return ValidateBinary(n, String) }, Apply(startsWithValues, nil))
	registerFunction("endsWith", Boolean, func(n *baseExpression) error { return ValidateBinary(n, String) }, Apply(endsWithValues, nil))
	registerFunction("countWord", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(countWordValue, VerifyString))
	registerFunction("addOrdinal", String, func(n *baseExpression) error { return ValidateUnary(n, Number) }, Apply(addOrdinalValue, VerifyInteger))
	registerFunction("newGuid", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 0, 0, Object) }, Apply(newGuidValue, nil))
	registerFunction("indexOf", Number, func(n *baseExpression) error { return ValidateBinary(n, String) }, Apply(indexOfValues, nil))
	registerFunction("lastIndexOf", Number, func(n *baseExpression) error { return ValidateBinary(n, String) }, Apply(lastIndexOfValues, nil))
	registerFunction("sentenceCase", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(sentenceCaseValue, VerifyString))
	registerFunction("titleCase", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, Apply(titleCaseValue, VerifyString))
	registerFunction("EOL", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 0, 0, Object) }, Apply(eolValue, nil))
}

func asStringOrEmpty(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// concatString renders a to the same textual form the string() builtin
// produces, rather than asStringOrEmpty's "empty unless already a string"
// coercion, so concat(1, 2) yields "12" and not "".
func concatString(a any) string {
	if s, ok := a.(string); ok {
		return s
	}
	if a == nil {
		return ""
	}
	return FormatInterpolatedValue(a)
}

func concatValues(args []any) any {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(concatString(a))
	}
	return sb.String()
}

func lengthValue(args []any) any {
	return int64(len([]rune(asStringOrEmpty(args[0]))))
}

func replaceValues(args []any) (any, error) {
	s, old, repl := asStringOrEmpty(args[0]), asStringOrEmpty(args[1]), asStringOrEmpty(args[2])
	return strings.ReplaceAll(s, old, repl), nil
}

func replaceIgnoreCaseValues(args []any) (any, error) {
	s, old, repl := asStringOrEmpty(args[0]), asStringOrEmpty(args[1]), asStringOrEmpty(args[2])
	if old == "" {
		return s, nil
	}
	lowerS, lowerOld := strings.ToLower(s), strings.ToLower(old)
	var sb strings.Builder
	i := 0
	for {
		idx := strings.Index(lowerS[i:], lowerOld)
		if idx < 0 {
			sb.WriteString(s[i:])
			break
		}
		sb.WriteString(s[i : i+idx])
		sb.WriteString(repl)
		i += idx + len(old)
	}
	return sb.String(), nil
}

func splitValues(args []any) any {
	s := asStringOrEmpty(args[0])
	sep := ""
	if len(args) == 2 {
		sep = asStringOrEmpty(args[1])
	}
	var parts []string
	switch {
	case s == "" && sep == "":
		parts = nil
	case sep == "":
		parts = strings.Split(s, "")
	default:
		parts = strings.Split(s, sep)
	}
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

func substringValues(args []any) (any, error) {
	s := []rune(asStringOrEmpty(args[0]))
	start, _ := asInt64(args[1])
	length := int64(len(s)) - start
	if len(args) == 3 {
		length, _ = asInt64(args[2])
	}
	if start < 0 || start > int64(len(s)) {
		return nil, newErrorf(ReferenceError, "substring", "start index %d out of range", start)
	}
	end := start + length
	if end > int64(len(s)) {
		end = int64(len(s))
	}
	if end < start {
		end = start
	}
	return string(s[start:end]), nil
}

func toLowerValue(args []any) any { return strings.ToLower(asStringOrEmpty(args[0])) }
func toUpperValue(args []any) any { return strings.ToUpper(asStringOrEmpty(args[0])) }
func trimValue(args []any) any    { return strings.TrimSpace(asStringOrEmpty(args[0])) }

func startsWithValues(args []any) any {
	return strings.HasPrefix(asStringOrEmpty(args[0]), asStringOrEmpty(args[1]))
}

// endsWithValues treats a null suffix as empty, which always matches,
// per the null-in-string family rule.
func endsWithValues(args []any) any {
	return strings.HasSuffix(asStringOrEmpty(args[0]), asStringOrEmpty(args[1]))
}

func countWordValue(args []any) any {
	return int64(len(strings.Fields(asStringOrEmpty(args[0]))))
}

// addOrdinalValue returns the standard English ordinal for n >= 1 ("1st",
// "2nd", "3rd", "11th", ...); for n <= 0 it returns the decimal string
// unchanged.
func addOrdinalValue(args []any) any {
	n, _ := asInt64(args[0])
	if n <= 0 {
		return strconv.FormatInt(n, 10)
	}
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		suffix = "th"
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.FormatInt(n, 10) + suffix
}

func newGuidValue([]any) any {
	return uuid.NewString()
}

func indexOfValues(args []any) any {
	return int64(strings.Index(asStringOrEmpty(args[0]), asStringOrEmpty(args[1])))
}

func lastIndexOfValues(args []any) any {
	return int64(strings.LastIndex(asStringOrEmpty(args[0]), asStringOrEmpty(args[1])))
}

func sentenceCaseValue(args []any) any {
	s := asStringOrEmpty(args[0])
	if s == "" {
		return s
	}
	caser := cases.Title(language.English, cases.NoLower)
	r := []rune(strings.ToLower(s))
	first := caser.String(string(r[:1]))
	return first + string(r[1:])
}

func titleCaseValue(args []any) any {
	return cases.Title(language.English).String(asStringOrEmpty(args[0]))
}

func eolValue([]any) any {
	return "\r\n"
}
