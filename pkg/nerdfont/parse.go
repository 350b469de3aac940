package nerdfont

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// node is a parsed Python expression.
type node interface {
	describe() string
}

type (
	constNode struct {
		value Value
	}
	nameNode struct {
		name string
	}
	attrNode struct {
		value node
		attr  string
	}
	callNode struct {
		fn   node
		args []node
	}
	unaryNode struct {
		op      string
		operand node
	}
	binaryNode struct {
		op          string
		left, right node
	}
	boolOpNode struct {
		op          string
		left, right node
	}
	compareNode struct {
		op string
	}
	ifNode struct {
		cond, then, orElse node
	}
	starredNode struct {
		value node
	}
	listNode struct {
		elts []node
	}
	tupleNode struct {
		elts []node
	}
	setNode struct {
		elts []node
	}
	dictNode struct {
		keys   []node
		values []node
	}
	// unsupportedNode is syntax the parser recognizes but nothing evaluates.
	unsupportedNode struct {
		what string
	}
)

func (constNode) describe() string         { return "constant" }
func (n nameNode) describe() string        { return fmt.Sprintf("name %q", n.name) }
func (n attrNode) describe() string        { return fmt.Sprintf("attribute %q", dottedName(n)) }
func (callNode) describe() string          { return "call" }
func (n unaryNode) describe() string       { return fmt.Sprintf("unary %q", n.op) }
func (n binaryNode) describe() string      { return fmt.Sprintf("operator %q", n.op) }
func (n boolOpNode) describe() string      { return fmt.Sprintf("operator %q", n.op) }
func (n compareNode) describe() string     { return fmt.Sprintf("comparison %q", n.op) }
func (ifNode) describe() string            { return "conditional expression" }
func (starredNode) describe() string       { return "starred expression" }
func (listNode) describe() string          { return "list" }
func (tupleNode) describe() string         { return "tuple" }
func (setNode) describe() string           { return "set" }
func (dictNode) describe() string          { return "dict" }
func (n unsupportedNode) describe() string { return n.what }

// dottedName renders a.b.c style expressions, or "" when n is anything else.
func dottedName(n node) string {
	switch n := n.(type) {
	case nameNode:
		return n.name
	case attrNode:
		if base := dottedName(n.value); base != "" {
			return base + "." + n.attr
		}
	}
	return ""
}

type parser struct {
	tokens []token
	pos    int
}

// parseExpression parses tokens as a single expression list. A bare comma-separated list is a tuple.
func parseExpression(tokens []token) (node, error) {
	p := &parser{tokens: tokens}
	if p.peek().kind == tokEOF {
		return nil, p.errorf("expected an expression")
	}
	n, err := p.exprList(tokEOF, "")
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf("unexpected %s %q", tok.kind, tok.text)
	}
	return n, nil
}

func (p *parser) peek() token {
	if p.pos >= len(p.tokens) {
		line := 0
		if len(p.tokens) > 0 {
			line = p.tokens[len(p.tokens)-1].line
		}
		return token{kind: tokEOF, line: line}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) accept(kind tokenKind, text string) bool {
	if p.peek().is(kind, text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if !p.accept(tokOp, text) {
		tok := p.peek()
		return p.errorf("expected %q, got %s %q", text, tok.kind, tok.text)
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.peek().line, fmt.Sprintf(format, args...))
}

// exprList parses comma separated expressions up to the closing bracket (or end of tokens).
// More than one element, or a trailing comma, makes a tuple.
func (p *parser) exprList(endKind tokenKind, end string) (node, error) {
	elts := make([]node, 0)
	trailingComma := false
	for !p.atEnd(endKind, end) {
		elt, err := p.starOrExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, elt)
		trailingComma = p.accept(tokOp, ",")
		if !trailingComma {
			break
		}
	}
	if len(elts) == 1 && !trailingComma {
		if _, starred := elts[0].(starredNode); !starred {
			return elts[0], nil
		}
	}
	return tupleNode{elts: elts}, nil
}

func (p *parser) atEnd(endKind tokenKind, end string) bool {
	tok := p.peek()
	if endKind == tokEOF {
		return tok.kind == tokEOF
	}
	return tok.is(endKind, end) || tok.kind == tokEOF
}

func (p *parser) starOrExpr() (node, error) {
	if p.accept(tokOp, "*") {
		value, err := p.orTest()
		if err != nil {
			return nil, err
		}
		return starredNode{value: value}, nil
	}
	return p.expr()
}

func (p *parser) expr() (node, error) {
	if p.peek().is(tokName, "lambda") {
		return nil, p.errorf("lambda is not supported")
	}
	then, err := p.orTest()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokName, "if") {
		return then, nil
	}
	cond, err := p.orTest()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokName, "else") {
		return nil, p.errorf("expected else in conditional expression")
	}
	orElse, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ifNode{cond: cond, then: then, orElse: orElse}, nil
}

func (p *parser) orTest() (node, error) {
	left, err := p.andTest()
	if err != nil {
		return nil, err
	}
	for p.accept(tokName, "or") {
		right, err := p.andTest()
		if err != nil {
			return nil, err
		}
		left = boolOpNode{op: "or", left: left, right: right}
	}
	return left, nil
}

func (p *parser) andTest() (node, error) {
	left, err := p.notTest()
	if err != nil {
		return nil, err
	}
	for p.accept(tokName, "and") {
		right, err := p.notTest()
		if err != nil {
			return nil, err
		}
		left = boolOpNode{op: "and", left: left, right: right}
	}
	return left, nil
}

func (p *parser) notTest() (node, error) {
	if p.accept(tokName, "not") {
		operand, err := p.notTest()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "not", operand: operand}, nil
	}
	return p.comparison()
}

var comparisonOps = map[string]bool{"<": true, ">": true, "==": true, "!=": true, "<=": true, ">=": true}

func (p *parser) comparison() (node, error) {
	left, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		var op string
		switch {
		case tok.kind == tokOp && comparisonOps[tok.text]:
			op = tok.text
			p.advance()
		case tok.is(tokName, "in"):
			op = "in"
			p.advance()
		case tok.is(tokName, "is"):
			op = "is"
			p.advance()
			p.accept(tokName, "not")
		case tok.is(tokName, "not") && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].is(tokName, "in"):
			op = "not in"
			p.pos += 2
		default:
			return left, nil
		}
		if _, err := p.bitOr(); err != nil {
			return nil, err
		}
		left = compareNode{op: op}
	}
}

func (p *parser) bitOr() (node, error) {
	return p.binaryLevel([]string{"|", "^", "&", "<<", ">>"}, p.arith)
}

func (p *parser) arith() (node, error) {
	return p.binaryLevel([]string{"+", "-"}, p.term)
}

func (p *parser) term() (node, error) {
	return p.binaryLevel([]string{"*", "/", "//", "%", "@"}, p.factor)
}

func (p *parser) binaryLevel(ops []string, operand func() (node, error)) (node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || !slices.Contains(ops, tok.text) {
			return left, nil
		}
		p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: tok.text, left: left, right: right}
	}
}

func (p *parser) factor() (node, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "+" || tok.text == "~") {
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: tok.text, operand: operand}, nil
	}
	return p.power()
}

func (p *parser) power() (node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.accept(tokOp, "**") {
		exp, err := p.factor()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: "**", left: base, right: exp}, nil
	}
	return base, nil
}

func (p *parser) primary() (node, error) {
	n, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept(tokOp, "."):
			name := p.advance()
			if name.kind != tokName {
				return nil, p.errorf("expected attribute name after '.'")
			}
			n = attrNode{value: n, attr: name.text}
		case p.accept(tokOp, "("):
			args, err := p.callArgs()
			if err != nil {
				return nil, err
			}
			n = callNode{fn: n, args: args}
		case p.accept(tokOp, "["):
			if _, err := p.exprList(tokOp, "]"); err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			n = unsupportedNode{what: "subscript"}
		default:
			return n, nil
		}
	}
}

func (p *parser) callArgs() ([]node, error) {
	args := make([]node, 0)
	for !p.accept(tokOp, ")") {
		if p.peek().kind == tokName && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].is(tokOp, "=") {
			return nil, p.errorf("keyword arguments are not supported")
		}
		arg, err := p.starOrExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(tokOp, ",") {
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			break
		}
	}
	return args, nil
}

func (p *parser) atom() (node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokName:
		switch tok.text {
		case "True":
			return constNode{value: true}, nil
		case "False":
			return constNode{value: false}, nil
		case "None":
			return constNode{value: nil}, nil
		case "for", "in", "if", "else", "lambda", "yield", "await":
			return nil, fmt.Errorf("line %d: unexpected keyword %q", tok.line, tok.text)
		}
		return nameNode{name: tok.text}, nil
	case tokNumber:
		return parseNumber(tok)
	case tokString:
		return p.stringLiteral(tok)
	case tokOp:
		switch tok.text {
		case "(":
			n, err := p.exprList(tokOp, ")")
			if err != nil {
				return nil, err
			}
			return n, p.closeDisplay(")")
		case "[":
			return p.listDisplay()
		case "{":
			return p.braceDisplay()
		case "...":
			return unsupportedNode{what: "ellipsis"}, nil
		}
	case tokEOF:
		return nil, fmt.Errorf("line %d: unexpected end of expression", tok.line)
	}
	return nil, fmt.Errorf("line %d: unexpected %s %q", tok.line, tok.kind, tok.text)
}

// closeDisplay expects the closing bracket, reporting comprehensions by name.
func (p *parser) closeDisplay(end string) error {
	if p.peek().is(tokName, "for") || p.peek().is(tokName, "async") {
		return p.errorf("comprehensions are not supported")
	}
	return p.expect(end)
}

func (p *parser) listDisplay() (node, error) {
	elts := make([]node, 0)
	for !p.peek().is(tokOp, "]") {
		elt, err := p.starOrExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, elt)
		if !p.accept(tokOp, ",") {
			break
		}
	}
	return listNode{elts: elts}, p.closeDisplay("]")
}

func (p *parser) braceDisplay() (node, error) {
	if p.accept(tokOp, "}") {
		return dictNode{}, nil
	}
	if p.peek().is(tokOp, "**") {
		return nil, p.errorf("dict unpacking is not supported")
	}
	first, err := p.starOrExpr()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokOp, ":") {
		elts := []node{first}
		for p.accept(tokOp, ",") && !p.peek().is(tokOp, "}") {
			elt, err := p.starOrExpr()
			if err != nil {
				return nil, err
			}
			elts = append(elts, elt)
		}
		return setNode{elts: elts}, p.closeDisplay("}")
	}

	d := dictNode{}
	key := first
	for {
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		d.keys = append(d.keys, key)
		d.values = append(d.values, value)
		if !p.accept(tokOp, ",") || p.peek().is(tokOp, "}") {
			break
		}
		if p.peek().is(tokOp, "**") {
			return nil, p.errorf("dict unpacking is not supported")
		}
		if key, err = p.expr(); err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
	}
	return d, p.closeDisplay("}")
}

// stringLiteral concatenates adjacent string literals.
func (p *parser) stringLiteral(first token) (node, error) {
	var sb strings.Builder
	tok := first
	for {
		s, err := unquote(tok)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
		if p.peek().kind != tokString {
			break
		}
		tok = p.advance()
	}
	return constNode{value: sb.String()}, nil
}

func parseNumber(tok token) (node, error) {
	text := strings.ReplaceAll(tok.text, "_", "")
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, "j") {
		return nil, fmt.Errorf("line %d: complex number %s is not supported", tok.line, tok.text)
	}
	isPrefixed := len(lower) > 1 && lower[0] == '0' && strings.ContainsRune("xob", rune(lower[1]))
	if !isPrefixed && strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid float %s", tok.line, tok.text)
		}
		return constNode{value: f}, nil
	}
	if !isPrefixed {
		text = strings.TrimLeft(text, "0")
		if text == "" {
			text = "0"
		}
	}
	i, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid integer %s", tok.line, tok.text)
	}
	return constNode{value: i}, nil
}

// unquote decodes a Python string literal token.
func unquote(tok token) (string, error) {
	text := tok.text
	quoteAt := strings.IndexAny(text, `'"`)
	prefix := strings.ToLower(text[:quoteAt])
	body := text[quoteAt:]
	if strings.ContainsAny(prefix, "f") {
		return "", fmt.Errorf("line %d: f-strings are not supported", tok.line)
	}
	if strings.ContainsAny(prefix, "b") {
		return "", fmt.Errorf("line %d: bytes literals are not supported", tok.line)
	}
	q := 1
	if len(body) >= 6 && (strings.HasPrefix(body, `'''`) || strings.HasPrefix(body, `"""`)) {
		q = 3
	}
	body = body[q : len(body)-q]
	if strings.ContainsAny(prefix, "r") {
		return body, nil
	}
	return unescape(body, tok.line)
}

func unescape(s string, line int) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n':
		case '\\', '\'', '"':
			sb.WriteByte(e)
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
			if i+1+width > len(s) {
				return "", fmt.Errorf("line %d: truncated \\%c escape", line, e)
			}
			r, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("line %d: invalid \\%c escape", line, e)
			}
			sb.WriteRune(rune(r))
			i += width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i + 1
			for end < len(s) && end < i+3 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			r, _ := strconv.ParseUint(s[i:end], 8, 32)
			sb.WriteRune(rune(r))
			i = end - 1
		default:
			sb.WriteByte('\\')
			sb.WriteByte(e)
		}
	}
	return sb.String(), nil
}
