package adaptiveexpr

import "net/url"

// URI component extractors built directly on net/url, supplementing the
// catalog with the source engine's component-extraction family.

func init() {
	registerFunction("uriHost", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(uriPartEval(func(u *url.URL) string { return u.Hostname() }), VerifyString))
	registerFunction("uriPath", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(uriPartEval(func(u *url.URL) string { return u.Path }), VerifyString))
	registerFunction("uriPathAndQuery", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(uriPartEval(uriPathAndQuery), VerifyString))
	registerFunction("uriPort", Number, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(uriPortEval, VerifyString))
	registerFunction("uriQuery", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(uriPartEval(uriQuery), VerifyString))
	registerFunction("uriScheme", String, func(n *baseExpression) error { return ValidateUnary(n, String) }, ApplyWithError(uriPartEval(func(u *url.URL) string { return u.Scheme }), VerifyString))
}

func parseURI(funcName, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, newErrorf(FormatError, funcName, "%q is not a valid URI: %s", raw, err)
	}
	return u, nil
}

func uriPartEval(extract func(*url.URL) string) func(args []any) (any, error) {
	return func(args []any) (any, error) {
		u, err := parseURI("uri", asStringOrEmpty(args[0]))
		if err != nil {
			return nil, err
		}
		return extract(u), nil
	}
}

func uriPathAndQuery(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}

func uriQuery(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}

// uriPortEval returns the explicit port, or null if the URI has no port —
// it does not default to a scheme's standard port — and errors only if
// the input isn't an absolute URI (no host/authority), matching
// uri_port.py's urlparse-based behavior.
func uriPortEval(args []any) (any, error) {
	u, err := parseURI("uriPort", asStringOrEmpty(args[0]))
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, newErrorf(DomainError, "uriPort", "invalid operation, input uri should be an absolute URI")
	}
	p := u.Port()
	if p == "" {
		return nil, nil
	}
	var n int64
	for _, r := range p {
		n = n*10 + int64(r-'0')
	}
	return n, nil
}
