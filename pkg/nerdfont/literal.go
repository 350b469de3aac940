package nerdfont

import (
	"errors"
	"fmt"
)

var errNotLiteral = errors.New("not a literal")

// evaluate evaluates n as a literal, handing anything else to the escape hatch.
func evaluate(n node) (Value, error) {
	v, err := literalEval(n)
	if errors.Is(err, errNotLiteral) {
		return evalEscapeHatch(n)
	}
	return v, err
}

// literalEval accepts only constants, signed numbers and container displays of literals.
func literalEval(n node) (Value, error) {
	switch n := n.(type) {
	case constNode:
		return n.value, nil
	case unaryNode:
		if n.op != "-" && n.op != "+" {
			break
		}
		c, ok := n.operand.(constNode)
		if !ok {
			break
		}
		switch v := c.value.(type) {
		case int64:
			if n.op == "-" {
				return -v, nil
			}
			return v, nil
		case float64:
			if n.op == "-" {
				return -v, nil
			}
			return v, nil
		}
	case listNode:
		values, err := literalElements(n.elts)
		return List(values), err
	case tupleNode:
		values, err := literalElements(n.elts)
		return Tuple(values), err
	case setNode:
		values, err := literalElements(n.elts)
		if err != nil {
			return nil, err
		}
		return newSet(values)
	case dictNode:
		d := NewDict()
		for i := range n.keys {
			key, err := literalEval(n.keys[i])
			if err != nil {
				return nil, err
			}
			value, err := literalEval(n.values[i])
			if err != nil {
				return nil, err
			}
			if err := d.Set(key, value); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", errNotLiteral, n.describe())
}

func literalElements(elts []node) ([]Value, error) {
	values := make([]Value, 0, len(elts))
	for _, elt := range elts {
		v, err := literalEval(elt)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func newSet(values []Value) (Set, error) {
	seen := NewDict()
	set := make(Set, 0, len(values))
	for _, v := range values {
		if _, dup := seen.Get(v); dup {
			continue
		}
		if err := seen.Set(v, nil); err != nil {
			return nil, err
		}
		set = append(set, v)
	}
	return set, nil
}
