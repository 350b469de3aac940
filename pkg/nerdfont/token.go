package nerdfont

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokNumber
	tokString
	tokOp
	tokEOF
)

func (k tokenKind) String() string {
	switch k {
	case tokName:
		return "name"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokOp:
		return "operator"
	default:
		return "end of statement"
	}
}

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// logicalLine is one Python statement line: physical lines joined by open brackets or backslashes.
type logicalLine struct {
	indent int
	line   int
	tokens []token
}

func (l logicalLine) startsWith(texts ...string) bool {
	if len(l.tokens) < len(texts) {
		return false
	}
	for i, text := range texts {
		if l.tokens[i].text != text || l.tokens[i].kind == tokString {
			return false
		}
	}
	return true
}

// Operators are matched longest first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"**", "//", "==", "!=", "<=", ">=", "->", ":=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=", "<<", ">>",
	"+", "-", "*", "/", "%", "@", "<", ">", "=", "(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "~", "&", "|", "^",
}

type scanner struct {
	src   string
	pos   int
	line  int
	depth int
}

// splitLogicalLines tokenizes Python source into logical lines.
// Blank and comment-only lines are dropped.
func splitLogicalLines(src string) ([]logicalLine, error) {
	s := &scanner{src: strings.ReplaceAll(src, "\r\n", "\n"), line: 1}
	lines := make([]logicalLine, 0)

	for s.pos < len(s.src) {
		indent := s.indentation()
		if s.pos >= len(s.src) {
			break
		}
		if c := s.src[s.pos]; c == '\n' || c == '#' {
			s.skipToNextLine()
			continue
		}

		current := logicalLine{indent: indent, line: s.line}
		for {
			tok, err := s.next()
			if err != nil {
				return nil, err
			}
			if tok.kind == tokEOF {
				break
			}
			current.tokens = append(current.tokens, tok)
		}
		if len(current.tokens) > 0 {
			lines = append(lines, current)
		}
	}
	if s.depth > 0 {
		return nil, fmt.Errorf("line %d: unclosed bracket at end of file", s.line)
	}
	return lines, nil
}

func (s *scanner) indentation() int {
	width := 0
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ':
			width++
		case '\t':
			width += 8 - width%8
		case '\f':
			width = 0
		default:
			return width
		}
		s.pos++
	}
	return width
}

func (s *scanner) skipToNextLine() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
	if s.pos < len(s.src) {
		s.pos++
		s.line++
	}
}

// next returns the next token of the current logical line, or a tokEOF token at its end.
func (s *scanner) next() (token, error) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			s.pos++
		case c == '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		case c == '\\' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n':
			s.pos += 2
			s.line++
		case c == '\n':
			s.pos++
			s.line++
			if s.depth == 0 {
				return token{kind: tokEOF, line: s.line - 1}, nil
			}
		default:
			return s.scanToken()
		}
	}
	return token{kind: tokEOF, line: s.line}, nil
}

func (s *scanner) scanToken() (token, error) {
	start, line := s.pos, s.line
	c := rune(s.src[s.pos])

	if quote, prefixLen := s.stringStart(); quote != "" {
		return s.scanString(start, prefixLen, quote)
	}
	if isIdentStart(c) {
		for s.pos < len(s.src) && isIdentChar(rune(s.src[s.pos])) {
			s.pos++
		}
		return token{kind: tokName, text: s.src[start:s.pos], line: line}, nil
	}
	if isDigit(c) || (c == '.' && s.pos+1 < len(s.src) && isDigit(rune(s.src[s.pos+1]))) {
		return s.scanNumber(), nil
	}
	for _, op := range operators {
		if strings.HasPrefix(s.src[s.pos:], op) {
			s.pos += len(op)
			switch op {
			case "(", "[", "{":
				s.depth++
			case ")", "]", "}":
				if s.depth == 0 {
					return token{}, fmt.Errorf("line %d: unmatched %q", line, op)
				}
				s.depth--
			}
			return token{kind: tokOp, text: op, line: line}, nil
		}
	}
	return token{}, fmt.Errorf("line %d: unexpected character %q", line, c)
}

// stringStart reports the quote of a string literal starting at the current position and the length of its prefix.
func (s *scanner) stringStart() (string, int) {
	i := s.pos
	for i < len(s.src) && i-s.pos < 2 && strings.ContainsRune("rRbBuUfF", rune(s.src[i])) {
		i++
	}
	if i >= len(s.src) || (s.src[i] != '\'' && s.src[i] != '"') {
		return "", 0
	}
	q := s.src[i : i+1]
	if strings.HasPrefix(s.src[i:], q+q+q) {
		return q + q + q, i - s.pos
	}
	return q, i - s.pos
}

func (s *scanner) scanString(start, prefixLen int, quote string) (token, error) {
	line := s.line
	s.pos += prefixLen + len(quote)
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\':
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
				s.line++
			}
			s.pos += 2
		case strings.HasPrefix(s.src[s.pos:], quote):
			s.pos += len(quote)
			return token{kind: tokString, text: s.src[start:s.pos], line: line}, nil
		case c == '\n':
			if len(quote) == 1 {
				return token{}, fmt.Errorf("line %d: unterminated string", line)
			}
			s.line++
			s.pos++
		default:
			s.pos++
		}
	}
	return token{}, fmt.Errorf("line %d: unterminated string", line)
}

func (s *scanner) scanNumber() token {
	start, line := s.pos, s.line
	if s.src[s.pos] == '0' && s.pos+1 < len(s.src) && strings.ContainsRune("xXoObB", rune(s.src[s.pos+1])) {
		s.pos += 2
		for s.pos < len(s.src) && (isHexDigit(rune(s.src[s.pos])) || s.src[s.pos] == '_') {
			s.pos++
		}
		return token{kind: tokNumber, text: s.src[start:s.pos], line: line}
	}
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isDigit(rune(c)) || c == '_' || c == '.':
			s.pos++
		case (c == 'e' || c == 'E') && s.pos+1 < len(s.src):
			s.pos++
			if s.src[s.pos] == '+' || s.src[s.pos] == '-' {
				s.pos++
			}
		case c == 'j' || c == 'J':
			s.pos++
			return token{kind: tokNumber, text: s.src[start:s.pos], line: line}
		default:
			return token{kind: tokNumber, text: s.src[start:s.pos], line: line}
		}
	}
	return token{kind: tokNumber, text: s.src[start:s.pos], line: line}
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || c >= 0x80
}

func isIdentChar(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
