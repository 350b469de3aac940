package nerdfont

import (
	"reflect"
	"strings"
	"testing"
)

func evalSource(t *testing.T, source string) (Value, error) {
	t.Helper()
	lines, err := splitLogicalLines(source)
	if err != nil {
		return nil, err
	}
	if len(lines) != 1 {
		t.Fatalf("%q: expected one logical line, got %d", source, len(lines))
	}
	n, err := parseExpression(lines[0].tokens)
	if err != nil {
		return nil, err
	}
	return evaluate(n)
}

func TestEvaluate(t *testing.T) {
	tt := []struct {
		source   string
		expected Value
	}{
		{"0x2500", int64(0x2500)},
		{"1_000", int64(1000)},
		{"0", int64(0)},
		{"-1.5", -1.5},
		{"+3", int64(3)},
		{"'a' \"b\"", "ab"},
		{`'tab\tquote\''`, "tab\tquote'"},
		{`r'\d'`, `\d`},
		{"None", nil},
		{"True", true},
		{"[1, 2,]", List{int64(1), int64(2)}},
		{"(1,)", Tuple{int64(1)}},
		{"()", Tuple{}},
		{"(1)", int64(1)},
		{"1, 2", Tuple{int64(1), int64(2)}},
		{"{1, 1, 2}", Set{int64(1), int64(2)}},
		{"[\n    1,  # one\n    2,\n]", List{int64(1), int64(2)}},
		{"[*range(1, 4)]", List{int64(1), int64(2), int64(3)}},
		{"[*range(0x10, 0x12), 0x20]", List{int64(0x10), int64(0x11), int64(0x20)}},
		{"list(range(3))", List{int64(0), int64(1), int64(2)}},
		{"list()", List{}},
		{"range(0x10, 0x12 + 1)", Range{Start: 0x10, Stop: 0x13, Step: 1}},
		{"range(5, 0, -2)", Range{Start: 5, Stop: 0, Step: -2}},
		{"list(range(5, 0, -2))", List{int64(5), int64(3), int64(1)}},
		{"0xe0a9 + 1", int64(0xe0aa)},
		{"10 - 4 * 2", int64(2)},
		{"7 // 2", int64(3)},
		{"-7 // 2", int64(-4)},
		{"7 / 2", 3.5},
		{"7.0 // 2", 3.0},
		{"0.5 + 1", 1.5},
		{"[0] * 2", List{int64(0), int64(0)}},
		{"2 * 'ab'", "abab"},
		{"[1] + [2]", List{int64(1), int64(2)}},
		{"1 if box_keep else 2", int64(1)},
		{"1 if not self.args.careful else 2", int64(2)},
		{"box_keep and 5", int64(5)},
		{"0 or 'x'", "x"},
		{"None and undefined_name", nil},
		{"-True", int64(-1)},
		{"not []", true},
	}

	for _, tc := range tt {
		got, err := evalSource(t, tc.source)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.source, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("%q: got %#v, want %#v", tc.source, got, tc.expected)
		}
	}
}

func TestEvaluateDict(t *testing.T) {
	got, err := evalSource(t, "{'b': 1, 'a': 2, 'b': 3, 0xe0b0: [*range(2)]}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := got.(*Dict)
	if !ok {
		t.Fatalf("expected *Dict, got %T", got)
	}
	if !reflect.DeepEqual(d.Keys(), []Value{"b", "a", int64(0xe0b0)}) {
		t.Errorf("keys should keep first insertion order, got %v", d.Keys())
	}
	if v, _ := d.Get("b"); v != int64(3) {
		t.Errorf("later value should win, got %v", v)
	}
	if v, _ := d.Get(int64(0xe0b0)); !reflect.DeepEqual(v, List{int64(0), int64(1)}) {
		t.Errorf("unexpected value for 0xe0b0: %v", v)
	}
}

func TestEvaluateUnsupported(t *testing.T) {
	tt := []struct {
		source  string
		wantErr string
	}{
		{"foo", `unknown name "foo"`},
		{"self.args.powerline", `unknown attribute "self.args.powerline"`},
		{"open('x')", `unsupported call of name "open"`},
		{"range", `unknown name "range"`},
		{"1 % 2", `operator "%"`},
		{"1 << 2", `operator "<<"`},
		{"2 ** 3", `operator "**"`},
		{"~1", `unary "~"`},
		{"a[0]", "subscript"},
		{"x == 1", `comparison "=="`},
		{"[i for i in y]", "comprehensions are not supported"},
		{"lambda: 1", "lambda is not supported"},
		{"f'x'", "f-strings are not supported"},
		{"b'x'", "bytes literals are not supported"},
		{"1j", "complex number"},
		{"range(1, 2, 0)", "must not be zero"},
		{"range('a')", "cannot be interpreted as an integer"},
		{"1 / 0", "division by zero"},
		{"[*1]", "int object is not iterable"},
		{"{[1]: 2}", "unhashable type: list"},
		{"dict(a=1)", "keyword arguments are not supported"},
		{"'a' - 'b'", "unsupported operand types for -: str and str"},
	}

	for _, tc := range tt {
		_, err := evalSource(t, tc.source)
		if err == nil {
			t.Errorf("%q: expected error, got nil", tc.source)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%q: expected error containing %q, got %q", tc.source, tc.wantErr, err)
		}
	}
}

func TestLiteralEvalRejectsEscapeHatchConstructs(t *testing.T) {
	for _, source := range []string{"box_keep", "1 + 1", "[*x]", "range(3)"} {
		lines, err := splitLogicalLines(source)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", source, err)
		}
		n, err := parseExpression(lines[0].tokens)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", source, err)
		}
		if _, err := literalEval(n); err == nil {
			t.Errorf("%q: literalEval should reject non-literal expressions", source)
		}
	}
}

func TestSplitLogicalLines(t *testing.T) {
	source := "a = [\n    1,\n    2]\n\n# comment\nif a:\n\tb = '''x\ny'''\nc = 1 + \\\n    2\n"
	lines, err := splitLogicalLines(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []struct {
		indent int
		line   int
		tokens int
	}{
		{0, 1, 7},
		{0, 6, 3},
		{8, 7, 3},
		{0, 9, 5},
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d logical lines, got %d", len(expected), len(lines))
	}
	for i, e := range expected {
		if lines[i].indent != e.indent || lines[i].line != e.line || len(lines[i].tokens) != e.tokens {
			t.Errorf("line %d: got indent %d, line %d, %d tokens; want %+v", i, lines[i].indent, lines[i].line, len(lines[i].tokens), e)
		}
	}
}

func TestSplitLogicalLinesErrors(t *testing.T) {
	for _, source := range []string{"a = [1, 2", "a = 'open", "a = )", "a = $"} {
		if _, err := splitLogicalLines(source); err == nil {
			t.Errorf("%q: expected error", source)
		}
	}
}
