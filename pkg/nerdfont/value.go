package nerdfont

import (
	"fmt"
	"math"
)

// Value is an evaluated Python value: nil (None), bool, int64, float64, string, List, Tuple, Set, *Dict or Range.
type Value any

type (
	List  []Value
	Tuple []Value
	Set   []Value
)

// Range is a Python range object.
type Range struct {
	Start, Stop, Step int64
}

func (r Range) Len() int64 {
	if r.Step > 0 && r.Start < r.Stop {
		return (r.Stop - r.Start + r.Step - 1) / r.Step
	}
	if r.Step < 0 && r.Start > r.Stop {
		return (r.Start - r.Stop - r.Step - 1) / -r.Step
	}
	return 0
}

func (r Range) Values() []Value {
	values := make([]Value, 0, r.Len())
	for i := int64(0); i < r.Len(); i++ {
		values = append(values, r.Start+i*r.Step)
	}
	return values
}

// Dict is an insertion ordered Python dict. Assigning an existing key keeps its position.
type Dict struct {
	keys   []Value
	values map[Value]Value
}

func NewDict() *Dict {
	return &Dict{values: make(map[Value]Value)}
}

func (d *Dict) Set(key, value Value) error {
	key, err := hashKey(key)
	if err != nil {
		return err
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return nil
}

func (d *Dict) Get(key Value) (Value, bool) {
	key, err := hashKey(key)
	if err != nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

func (d *Dict) Keys() []Value {
	return d.keys
}

func (d *Dict) Len() int {
	return len(d.keys)
}

// hashKey normalizes a key so that equal Python keys collide: True is 1 and 2.0 is 2.
func hashKey(key Value) (Value, error) {
	switch k := key.(type) {
	case nil, int64, string:
		return k, nil
	case bool:
		if k {
			return int64(1), nil
		}
		return int64(0), nil
	case float64:
		if k == math.Trunc(k) && math.Abs(k) < math.MaxInt64 {
			return int64(k), nil
		}
		return k, nil
	case Range:
		return k, nil
	default:
		return nil, fmt.Errorf("unhashable type: %s", typeName(key))
	}
}

func typeName(v Value) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case List:
		return "list"
	case Tuple:
		return "tuple"
	case Set:
		return "set"
	case *Dict:
		return "dict"
	case Range:
		return "range"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// truthy follows Python truth testing.
func truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	case List:
		return len(v) > 0
	case Tuple:
		return len(v) > 0
	case Set:
		return len(v) > 0
	case *Dict:
		return v.Len() > 0
	case Range:
		return v.Len() > 0
	default:
		return true
	}
}

// asInt converts int-like values. Python bools are ints.
func asInt(v Value) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func asFloat(v Value) (float64, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}
