package adaptiveexpr

import "regexp"

func init() {
	registerFunction("isMatch", Boolean, func(n *baseExpression) error { return ValidateBinary(n, String) }, ApplyWithError(isMatchEval, VerifyString))
}

// isMatchEval runs an unanchored regex test. A leading "(?i)" flag prefix
// is passed straight through to Go's RE2 syntax, which supports it
// natively.
func isMatchEval(args []any) (any, error) {
	s := asStringOrEmpty(args[0])
	pattern := asStringOrEmpty(args[1])
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newErrorf(FormatError, "isMatch", "invalid pattern %q: %s", pattern, err)
	}
	return re.MatchString(s), nil
}
