package adaptiveexpr

import (
	"strconv"
	"strings"
)

// pathSegment is one step of a parsed memory path: either a dotted
// property key or a bracketed index/key.
type pathSegment struct {
	key     string
	index   int
	isIndex bool
}

// parsePath splits a dotted/bracketed path string such as "a.b[2]['k']"
// into its ordered segments. The first segment is always a bare
// identifier; subsequent segments are ".name", "[123]", or "['name']"
// (single or double quoted).
func parsePath(path string) ([]pathSegment, error) {
	var segs []pathSegment
	i := 0
	n := len(path)

	readIdent := func() string {
		start := i
		for i < n && path[i] != '.' && path[i] != '[' {
			i++
		}
		return path[start:i]
	}

	if n == 0 {
		return nil, newErrorf(ReferenceError, path, "empty path")
	}
	segs = append(segs, pathSegment{key: readIdent()})

	for i < n {
		switch path[i] {
		case '.':
			i++
			segs = append(segs, pathSegment{key: readIdent()})
		case '[':
			i++
			if i >= n {
				return nil, newErrorf(ReferenceError, path, "unterminated [ in path %q", path)
			}
			if path[i] == '\'' || path[i] == '"' {
				quote := path[i]
				i++
				start := i
				for i < n && path[i] != quote {
					i++
				}
				if i >= n {
					return nil, newErrorf(ReferenceError, path, "unterminated quoted key in path %q", path)
				}
				key := path[start:i]
				i++ // closing quote
				if i >= n || path[i] != ']' {
					return nil, newErrorf(ReferenceError, path, "expected ] in path %q", path)
				}
				i++
				segs = append(segs, pathSegment{key: key})
			} else {
				start := i
				for i < n && path[i] != ']' {
					i++
				}
				if i >= n {
					return nil, newErrorf(ReferenceError, path, "unterminated [ in path %q", path)
				}
				num := path[start:i]
				i++
				idx, err := strconv.Atoi(num)
				if err != nil {
					return nil, newErrorf(ReferenceError, path, "invalid index %q in path %q", num, path)
				}
				segs = append(segs, pathSegment{index: idx, isIndex: true})
			}
		default:
			return nil, newErrorf(ReferenceError, path, "unexpected character %q in path %q", path[i], path)
		}
	}
	return segs, nil
}

// pathBuilder accumulates path segments right-to-left while walking an
// accessor/element chain, then renders them in left-to-right source order.
type pathBuilder struct {
	segs []pathSegment
}

// prependKey adds a dotted/identifier segment ahead of everything
// accumulated so far.
func (b *pathBuilder) prependKey(key string) {
	b.segs = append([]pathSegment{{key: key}}, b.segs...)
}

// prependIndex adds a bracketed index segment ahead of everything
// accumulated so far.
func (b *pathBuilder) prependIndex(idx int) {
	b.segs = append([]pathSegment{{index: idx, isIndex: true}}, b.segs...)
}

// String renders the accumulated path using dotted notation for
// identifiers and single-quote bracket notation for string keys that
// aren't safe as a bare identifier, matching the surface syntax
// a.b[2]['k'].
func (b *pathBuilder) String() string {
	var sb strings.Builder
	for i, seg := range b.segs {
		switch {
		case seg.isIndex:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.index))
			sb.WriteByte(']')
		case i == 0 || isIdentifierSafe(seg.key):
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(seg.key)
		default:
			sb.WriteString("['")
			sb.WriteString(escapeSingleQuotes(seg.key))
			sb.WriteString("']")
		}
	}
	return sb.String()
}

func isIdentifierSafe(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// TryAccumulatePath walks an accessor/element node chain right to left,
// assembling a dotted path string. If an element's index child cannot be
// statically reduced to a constant integer or string, walking stops and
// (path, residual, false) is returned: path holds the collected suffix and
// residual is the Expression the caller must evaluate before applying the
// suffix itself. When the whole chain reduces statically, ok is true and
// residual is nil.
func TryAccumulatePath(node *baseExpression) (path string, residual Expression, ok bool) {
	var b pathBuilder
	cur := Expression(node)

	for {
		bc, isBase := cur.(*baseExpression)
		if !isBase {
			return b.String(), cur, false
		}
		switch bc.exprType {
		case "accessor":
			children := bc.children
			name, isName := constString(children[len(children)-1])
			if !isName {
				return b.String(), cur, false
			}
			b.prependKey(name)
			if len(children) == 1 {
				return b.String(), nil, true
			}
			cur = children[0]
		case "element":
			children := bc.children
			container := children[0]
			indexNode := children[1]
			if s, isStr := constString(indexNode); isStr {
				b.prependKey(s)
			} else if idx, isInt := constInt(indexNode); isInt {
				b.prependIndex(idx)
			} else {
				return b.String(), cur, false
			}
			cur = container
		default:
			return b.String(), cur, false
		}
	}
}

func constString(e Expression) (string, bool) {
	bc, ok := e.(*baseExpression)
	if !ok || !bc.isConst {
		return "", false
	}
	s, ok := bc.value.(string)
	return s, ok
}

func constInt(e Expression) (int, bool) {
	bc, ok := e.(*baseExpression)
	if !ok || !bc.isConst {
		return 0, false
	}
	n, ok := asInt64(bc.value)
	return int(n), ok
}
