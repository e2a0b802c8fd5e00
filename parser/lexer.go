package parser

import (
	"strconv"
	"strings"
)

// lexer turns source text into a Token slice in one pass. It is not
// exported: callers go through Parse.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// tokenize scans the whole source into a token slice terminated by one EOF
// token, which keeps the parser's lookahead simple (no re-entrant scanning
// except for backtick template splices, which recursively call tokenize on
// their own substrings).
func (l *lexer) tokenize() ([]Token, error) {
	var toks []Token
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			toks = append(toks, Token{Kind: EOF, Pos: l.pos})
			return toks, nil
		}
		start := l.pos
		b := l.src[l.pos]
		switch {
		case isIdentStart(b):
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			word := l.src[start:l.pos]
			switch word {
			case "true":
				toks = append(toks, Token{Kind: True, Text: word, Pos: start})
			case "false":
				toks = append(toks, Token{Kind: False, Text: word, Pos: start})
			case "null":
				toks = append(toks, Token{Kind: Null, Text: word, Pos: start})
			default:
				toks = append(toks, Token{Kind: Ident, Text: word, Pos: start})
			}
		case isDigit(b):
			tok, err := l.scanNumber()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case b == '\'' || b == '"':
			tok, err := l.scanString(b)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case b == '`':
			tok, err := l.scanTemplate()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		default:
			tok, err := l.scanOperator()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		}
	}
}

func (l *lexer) scanNumber() (Token, error) {
	start := l.pos
	isInt := true
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		isInt = false
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		isInt = false
		l.pos++
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.pos++
		}
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	text := l.src[start:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, newSyntaxError(start, "invalid number %q", text)
	}
	return Token{Kind: Number, Text: text, Num: n, IsInt: isInt, Pos: start}, nil
}

func (l *lexer) scanString(quote byte) (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, newSyntaxError(start, "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			sb.WriteByte(decodeEscape(l.src[l.pos+1]))
			l.pos += 2
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
	return Token{Kind: String, Str: sb.String(), Pos: start}, nil
}

func decodeEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

// scanTemplate reads a backtick string into literal/expression segments.
// "\`" escapes a literal backtick and "\${" escapes a literal "${"; an
// unescaped "${" opens a splice that runs to its matching unescaped "}",
// tracking nested braces and quoted strings so a splice
// body may itself contain object literals or strings with braces in them.
func (l *lexer) scanTemplate() (Token, error) {
	start := l.pos
	l.pos++ // opening backtick
	var segs []templateSegment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, templateSegment{text: lit.String()})
			lit.Reset()
		}
	}
	for {
		if l.pos >= len(l.src) {
			return Token{}, newSyntaxError(start, "unterminated template literal")
		}
		c := l.src[l.pos]
		switch {
		case c == '`':
			l.pos++
			flush()
			return Token{Kind: Template, Segments: segs, Pos: start}, nil
		case c == '\\' && l.peekByteAt(1) == '`':
			lit.WriteByte('`')
			l.pos += 2
		case c == '\\' && l.peekByteAt(1) == '$' && l.peekByteAt(2) == '{':
			lit.WriteString("${")
			l.pos += 3
		case c == '$' && l.peekByteAt(1) == '{':
			l.pos += 2
			exprStart := l.pos
			depth := 1
			for depth > 0 {
				if l.pos >= len(l.src) {
					return Token{}, newSyntaxError(start, "unterminated ${ splice")
				}
				switch l.src[l.pos] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						continue
					}
				case '\'', '"':
					if err := l.skipQuoted(l.src[l.pos]); err != nil {
						return Token{}, err
					}
					continue
				}
				l.pos++
			}
			flush()
			segs = append(segs, templateSegment{isExpr: true, text: l.src[exprStart:l.pos]})
			l.pos++ // closing brace
		default:
			lit.WriteByte(c)
			l.pos++
		}
	}
}

// skipQuoted advances past a quoted string starting at the current
// position (which must hold the opening quote byte), honoring backslash
// escapes, without decoding it.
func (l *lexer) skipQuoted(quote byte) error {
	start := l.pos
	l.pos++
	for {
		if l.pos >= len(l.src) {
			return newSyntaxError(start, "unterminated string inside splice")
		}
		c := l.src[l.pos]
		if c == '\\' {
			l.pos += 2
			continue
		}
		if c == quote {
			l.pos++
			return nil
		}
		l.pos++
	}
}

func (l *lexer) scanOperator() (Token, error) {
	start := l.pos
	two := func(second byte, k2 Kind, k1 Kind) Token {
		if l.peekByteAt(1) == second {
			l.pos += 2
			return Token{Kind: k2, Pos: start}
		}
		l.pos++
		return Token{Kind: k1, Pos: start}
	}
	switch l.src[l.pos] {
	case '(':
		l.pos++
		return Token{Kind: LParen, Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: RParen, Pos: start}, nil
	case '[':
		l.pos++
		return Token{Kind: LBracket, Pos: start}, nil
	case ']':
		l.pos++
		return Token{Kind: RBracket, Pos: start}, nil
	case '{':
		l.pos++
		return Token{Kind: LBrace, Pos: start}, nil
	case '}':
		l.pos++
		return Token{Kind: RBrace, Pos: start}, nil
	case ',':
		l.pos++
		return Token{Kind: Comma, Pos: start}, nil
	case '.':
		l.pos++
		return Token{Kind: Dot, Pos: start}, nil
	case ':':
		l.pos++
		return Token{Kind: Colon, Pos: start}, nil
	case '+':
		l.pos++
		return Token{Kind: Plus, Pos: start}, nil
	case '-':
		l.pos++
		return Token{Kind: Minus, Pos: start}, nil
	case '*':
		l.pos++
		return Token{Kind: Star, Pos: start}, nil
	case '/':
		l.pos++
		return Token{Kind: Slash, Pos: start}, nil
	case '%':
		l.pos++
		return Token{Kind: Percent, Pos: start}, nil
	case '=':
		if l.peekByteAt(1) == '=' {
			l.pos += 2
			return Token{Kind: Eq, Pos: start}, nil
		}
		if l.peekByteAt(1) == '>' {
			l.pos += 2
			return Token{Kind: Arrow, Pos: start}, nil
		}
		return Token{}, newSyntaxError(start, "unexpected '='")
	case '!':
		return two('=', Neq, Bang), nil
	case '<':
		return two('=', Le, Lt), nil
	case '>':
		return two('=', Ge, Gt), nil
	case '&':
		if l.peekByteAt(1) == '&' {
			l.pos += 2
			return Token{Kind: AndAnd, Pos: start}, nil
		}
		return Token{}, newSyntaxError(start, "unexpected '&'")
	case '|':
		if l.peekByteAt(1) == '|' {
			l.pos += 2
			return Token{Kind: OrOr, Pos: start}, nil
		}
		return Token{}, newSyntaxError(start, "unexpected '|'")
	default:
		return Token{}, newSyntaxError(start, "unexpected character %q", l.src[l.pos])
	}
}
