package nerdfont

import (
	"fmt"
	"math"
	"strings"
)

// The escape hatch evaluates the handful of non-literal expressions font-patcher.py
// writes inside setup_patch_set, such as [*range(0xe0a0, 0xe0a2 + 1)] or
// SYM_ATTR if box_keep else None.
//
// It is not a Python interpreter. It knows exactly:
//   - the names box_keep and self.args.careful, both bound to True
//   - calls to range() and list()
//   - unary -, + and not
//   - binary +, -, *, / and //
//   - and, or, and conditional expressions
//   - * unpacking inside list, tuple and set displays
//
// Every other construct is an error naming it. Names from the symbol table are
// resolved by the extractor before evaluation and never reach here.
var hatchNames = map[string]Value{
	"box_keep":          true,
	"self.args.careful": true,
}

func evalEscapeHatch(n node) (Value, error) {
	switch n := n.(type) {
	case constNode:
		return n.value, nil
	case nameNode, attrNode:
		if v, ok := hatchNames[dottedName(n)]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("unknown %s", n.describe())
	case callNode:
		return evalCall(n)
	case unaryNode:
		operand, err := evalEscapeHatch(n.operand)
		if err != nil {
			return nil, err
		}
		return unary(n.op, operand)
	case binaryNode:
		left, err := evalEscapeHatch(n.left)
		if err != nil {
			return nil, err
		}
		right, err := evalEscapeHatch(n.right)
		if err != nil {
			return nil, err
		}
		return binary(n.op, left, right)
	case boolOpNode:
		left, err := evalEscapeHatch(n.left)
		if err != nil {
			return nil, err
		}
		if truthy(left) == (n.op == "or") {
			return left, nil
		}
		return evalEscapeHatch(n.right)
	case ifNode:
		cond, err := evalEscapeHatch(n.cond)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return evalEscapeHatch(n.then)
		}
		return evalEscapeHatch(n.orElse)
	case listNode:
		values, err := unpackElements(n.elts)
		return List(values), err
	case tupleNode:
		values, err := unpackElements(n.elts)
		return Tuple(values), err
	case setNode:
		values, err := unpackElements(n.elts)
		if err != nil {
			return nil, err
		}
		return newSet(values)
	case dictNode:
		d := NewDict()
		for i := range n.keys {
			key, err := evalEscapeHatch(n.keys[i])
			if err != nil {
				return nil, err
			}
			value, err := evalEscapeHatch(n.values[i])
			if err != nil {
				return nil, err
			}
			if err := d.Set(key, value); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
	return nil, fmt.Errorf("unsupported expression: %s", n.describe())
}

func unpackElements(elts []node) ([]Value, error) {
	values := make([]Value, 0, len(elts))
	for _, elt := range elts {
		starred, isStarred := elt.(starredNode)
		if !isStarred {
			v, err := evalEscapeHatch(elt)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			continue
		}
		v, err := evalEscapeHatch(starred.value)
		if err != nil {
			return nil, err
		}
		items, err := iterate(v)
		if err != nil {
			return nil, err
		}
		values = append(values, items...)
	}
	return values, nil
}

func iterate(v Value) ([]Value, error) {
	switch v := v.(type) {
	case List:
		return v, nil
	case Tuple:
		return v, nil
	case Set:
		return v, nil
	case Range:
		return v.Values(), nil
	case *Dict:
		return v.Keys(), nil
	case string:
		chars := make([]Value, 0, len(v))
		for _, r := range v {
			chars = append(chars, string(r))
		}
		return chars, nil
	}
	return nil, fmt.Errorf("%s object is not iterable", typeName(v))
}

func evalCall(n callNode) (Value, error) {
	name, ok := n.fn.(nameNode)
	if !ok || (name.name != "range" && name.name != "list") {
		return nil, fmt.Errorf("unsupported call of %s", n.fn.describe())
	}
	args := make([]Value, 0, len(n.args))
	for _, arg := range n.args {
		if _, starred := arg.(starredNode); starred {
			return nil, fmt.Errorf("unsupported starred argument to %s()", name.name)
		}
		v, err := evalEscapeHatch(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if name.name == "list" {
		switch len(args) {
		case 0:
			return List{}, nil
		case 1:
			items, err := iterate(args[0])
			if err != nil {
				return nil, err
			}
			return append(List{}, items...), nil
		}
		return nil, fmt.Errorf("list expected at most 1 argument, got %d", len(args))
	}

	if len(args) < 1 || len(args) > 3 {
		return nil, fmt.Errorf("range expected 1 to 3 arguments, got %d", len(args))
	}
	ints := make([]int64, len(args))
	for i, arg := range args {
		v, ok := asInt(arg)
		if !ok {
			return nil, fmt.Errorf("%s object cannot be interpreted as an integer", typeName(arg))
		}
		ints[i] = v
	}
	r := Range{Step: 1}
	switch len(ints) {
	case 1:
		r.Stop = ints[0]
	case 2:
		r.Start, r.Stop = ints[0], ints[1]
	case 3:
		r.Start, r.Stop, r.Step = ints[0], ints[1], ints[2]
	}
	if r.Step == 0 {
		return nil, fmt.Errorf("range() arg 3 must not be zero")
	}
	return r, nil
}

func unary(op string, v Value) (Value, error) {
	if op == "not" {
		return !truthy(v), nil
	}
	if op == "-" || op == "+" {
		sign := int64(1)
		if op == "-" {
			sign = -1
		}
		if i, ok := asInt(v); ok {
			return sign * i, nil
		}
		if f, ok := v.(float64); ok {
			return float64(sign) * f, nil
		}
		return nil, fmt.Errorf("bad operand type for unary %s: %s", op, typeName(v))
	}
	return nil, fmt.Errorf("unsupported expression: unary %q", op)
}

func binary(op string, left, right Value) (Value, error) {
	switch op {
	case "+", "-", "*", "/", "//":
	default:
		return nil, fmt.Errorf("unsupported expression: operator %q", op)
	}

	li, lInt := asInt(left)
	ri, rInt := asInt(right)
	if lInt && rInt {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "/":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return float64(li) / float64(ri), nil
		case "//":
			if ri == 0 {
				return nil, fmt.Errorf("integer division or modulo by zero")
			}
			q := li / ri
			if (li%ri != 0) && ((li < 0) != (ri < 0)) {
				q--
			}
			return q, nil
		}
	}

	lf, lNum := asFloat(left)
	rf, rNum := asFloat(right)
	if lNum && rNum {
		switch op {
		case "+":
			return lf + rf, nil
		case "-":
			return lf - rf, nil
		case "*":
			return lf * rf, nil
		}
		if rf == 0 {
			return nil, fmt.Errorf("float division by zero")
		}
		if op == "/" {
			return lf / rf, nil
		}
		return math.Floor(lf / rf), nil
	}

	switch op {
	case "+":
		switch l := left.(type) {
		case string:
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		case List:
			if r, ok := right.(List); ok {
				return append(append(List{}, l...), r...), nil
			}
		case Tuple:
			if r, ok := right.(Tuple); ok {
				return append(append(Tuple{}, l...), r...), nil
			}
		}
	case "*":
		if lInt {
			left, right, ri, rInt = right, left, li, lInt
		}
		if rInt {
			return repeat(left, ri)
		}
	}
	return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", op, typeName(left), typeName(right))
}

func repeat(v Value, n int64) (Value, error) {
	n = max(n, 0)
	switch v := v.(type) {
	case string:
		return strings.Repeat(v, int(n)), nil
	case List:
		out := make(List, 0, len(v)*int(n))
		for range n {
			out = append(out, v...)
		}
		return out, nil
	case Tuple:
		out := make(Tuple, 0, len(v)*int(n))
		for range n {
			out = append(out, v...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported operand types for *: %s and int", typeName(v))
}
