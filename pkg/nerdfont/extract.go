package nerdfont

import (
	"fmt"
	"log/slog"
)

// PatchSet is one entry of font_patcher.patch_set, reduced to the fields the generator reads
type PatchSet struct {
	SymStart   int64
	SymEnd     int64
	Attributes Attributes
}

// Keys of a patch set entry that only matter to the patcher itself
var skippedKeys = map[string]bool{"Enabled": true, "Name": true, "Filename": true, "Exact": true}

var keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true, "def": true, "class": true,
	"return": true, "with": true, "try": true, "except": true, "finally": true, "assert": true,
	"del": true, "import": true, "from": true, "global": true, "nonlocal": true, "raise": true,
	"pass": true, "break": true, "continue": true, "lambda": true, "yield": true, "async": true,
	"await": true,
}

type extractor struct {
	logger    *slog.Logger
	symbols   map[string][]token
	patchSets []PatchSet
}

// ExtractPatchSets reads the patch sets assigned to self.patch_set in font_patcher.setup_patch_set.
// Names used as patch set values resolve through the plain NAME = value assignments of that method.
func ExtractPatchSets(source string, logger *slog.Logger) ([]PatchSet, error) {
	lines, err := splitLogicalLines(source)
	if err != nil {
		return nil, fmt.Errorf("error tokenizing patcher: %w", err)
	}
	e := &extractor{logger: logger, symbols: make(map[string][]token)}

	for i, line := range lines {
		if !line.startsWith("class", "font_patcher") {
			continue
		}
		for _, def := range methods(lines, i) {
			if !lines[def].startsWith("def", "setup_patch_set") {
				continue
			}
			if err := e.setupPatchSet(block(lines, def)); err != nil {
				return nil, fmt.Errorf("setup_patch_set on line %d: %w", lines[def].line, err)
			}
		}
	}
	return e.patchSets, nil
}

// block returns the statements directly inside the compound statement at lines[start].
func block(lines []logicalLine, start int) []logicalLine {
	parent := lines[start].indent
	if start+1 >= len(lines) || lines[start+1].indent <= parent {
		return nil
	}
	bodyIndent := lines[start+1].indent
	body := make([]logicalLine, 0)
	for _, line := range lines[start+1:] {
		if line.indent <= parent {
			break
		}
		if line.indent == bodyIndent {
			body = append(body, line)
		}
	}
	return body
}

// methods returns the indexes of the def statements directly inside the class at lines[class].
func methods(lines []logicalLine, class int) []int {
	parent := lines[class].indent
	if class+1 >= len(lines) || lines[class+1].indent <= parent {
		return nil
	}
	bodyIndent := lines[class+1].indent
	defs := make([]int, 0)
	for i := class + 1; i < len(lines) && lines[i].indent > parent; i++ {
		if lines[i].indent == bodyIndent && lines[i].startsWith("def") {
			defs = append(defs, i)
		}
	}
	return defs
}

func (e *extractor) setupPatchSet(body []logicalLine) error {
	for _, stmt := range body {
		targets, value := splitAssignment(stmt)
		if len(targets) == 1 && len(targets[0]) == 1 && targets[0][0].kind == tokName {
			e.symbols[targets[0][0].text] = value
		}
	}
	e.logger.Debug("Collected symbols", slog.Int("count", len(e.symbols)))

	for _, stmt := range body {
		targets, value := splitAssignment(stmt)
		for _, target := range targets {
			if !isPatchSetTarget(target) {
				continue
			}
			parsed, err := parseExpression(value)
			if err != nil {
				return err
			}
			list, ok := parsed.(listNode)
			if !ok {
				continue
			}
			for _, elt := range list.elts {
				if entry, ok := elt.(dictNode); ok {
					if err := e.processPatchEntry(entry); err != nil {
						return fmt.Errorf("patch set %d: %w", len(e.patchSets), err)
					}
				}
			}
		}
	}
	return nil
}

// splitAssignment splits an assignment statement on its top level '=' tokens.
// Anything that is not an assignment has no targets.
func splitAssignment(stmt logicalLine) ([][]token, []token) {
	if len(stmt.tokens) == 0 || (stmt.tokens[0].kind == tokName && keywords[stmt.tokens[0].text]) {
		return nil, nil
	}
	parts := make([][]token, 0)
	depth, start := 0, 0
	for i, tok := range stmt.tokens {
		if tok.kind != tokOp {
			continue
		}
		switch tok.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case "=":
			if depth == 0 {
				parts = append(parts, stmt.tokens[start:i])
				start = i + 1
			}
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return parts, stmt.tokens[start:]
}

func isPatchSetTarget(target []token) bool {
	n := len(target)
	return n >= 3 && target[n-1].is(tokName, "patch_set") && target[n-2].is(tokOp, ".")
}

func (e *extractor) processPatchEntry(entry dictNode) error {
	fields := NewDict()
	for i, keyNode := range entry.keys {
		key, ok := keyNode.(constNode)
		if !ok {
			continue
		}
		if name, isString := key.value.(string); isString && skippedKeys[name] {
			continue
		}
		value, err := e.resolve(entry.values[i])
		if err != nil {
			return fmt.Errorf("key %v: %w", key.value, err)
		}
		if err := fields.Set(key.value, value); err != nil {
			return err
		}
	}

	patchSet, err := newPatchSet(fields)
	if err != nil {
		return err
	}
	e.logger.Debug("Found patch set",
		slog.String("start", fmt.Sprintf("%#x", patchSet.SymStart)),
		slog.String("end", fmt.Sprintf("%#x", patchSet.SymEnd)),
		slog.Int("overrides", len(patchSet.Attributes.Overrides)))
	e.patchSets = append(e.patchSets, patchSet)
	return nil
}

// resolve evaluates a patch set value. A bare name is looked up in the symbol table first.
func (e *extractor) resolve(n node) (Value, error) {
	if name, ok := n.(nameNode); ok {
		if tokens, found := e.symbols[name.name]; found {
			symbol, err := parseExpression(tokens)
			if err != nil {
				return nil, fmt.Errorf("symbol %s: %w", name.name, err)
			}
			v, err := evaluate(symbol)
			if err != nil {
				return nil, fmt.Errorf("symbol %s: %w", name.name, err)
			}
			return v, nil
		}
	}
	return evaluate(n)
}

func newPatchSet(fields *Dict) (PatchSet, error) {
	var ps PatchSet
	var err error
	if ps.SymStart, err = intField(fields, "SymStart"); err != nil {
		return ps, err
	}
	if ps.SymEnd, err = intField(fields, "SymEnd"); err != nil {
		return ps, err
	}
	attributes, ok := fields.Get("Attributes")
	if !ok {
		return ps, fmt.Errorf("missing Attributes")
	}
	ps.Attributes, err = newAttributes(attributes)
	return ps, err
}

func intField(fields *Dict, key string) (int64, error) {
	v, ok := fields.Get(key)
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	i, ok := asInt(v)
	if !ok {
		return 0, fmt.Errorf("%s must be an int, got %s", key, typeName(v))
	}
	return i, nil
}
