package adaptiveexpr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormatInterpolatedValue renders v the way a nested object spliced into a
// backtick-string interpolation must render: the source engine's
// Python-repr-flavored "{'key': value, ...}" textual form, single-quoted
// keys and string values, None/True/False spelled the Python way. This is
// intentionally not idiomatic Go string formatting — it is the literal
// wire format downstream consumers parse, called out here so it isn't
// "fixed" later. Map keys are sorted for determinism since Go map
// iteration order is randomized.
func FormatInterpolatedValue(v any) string {
	var sb strings.Builder
	writeInterpolated(&sb, v)
	return sb.String()
}

func writeInterpolated(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("None")
	case bool:
		if x {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case string:
		sb.WriteByte('\'')
		sb.WriteString(strings.ReplaceAll(x, "'", "\\'"))
		sb.WriteByte('\'')
	case []any:
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeInterpolated(sb, e)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('\'')
			sb.WriteString(strings.ReplaceAll(k, "'", "\\'"))
			sb.WriteString("': ")
			writeInterpolated(sb, x[k])
		}
		sb.WriteByte('}')
	default:
		if f, ok := asFloat(v); ok {
			if IsInteger(v) {
				sb.WriteString(strconv.FormatInt(int64(f), 10))
			} else {
				sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			}
			return
		}
		sb.WriteString(fmt.Sprintf("%v", v))
	}
}
