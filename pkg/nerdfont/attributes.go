package nerdfont

import (
	"fmt"
	"slices"
)

// Number is a numeric attribute parameter. Ints and floats print differently in the generated file.
type Number struct {
	Value float64
	IsInt bool
}

func Float(f float64) Number {
	return Number{Value: f}
}

func Int(i int64) Number {
	return Number{Value: float64(i), IsInt: true}
}

func (n Number) Neg() Number {
	return Number{Value: -n.Value, IsInt: n.IsInt}
}

func (n Number) String() string {
	if n.IsInt {
		return fmt.Sprintf("%d", int64(n.Value))
	}
	return formatFloat(n.Value)
}

// AttributeEntry is the scaling and alignment rule of one glyph
type AttributeEntry struct {
	Align    string
	Valign   string
	Stretch  string
	Overlap  Number
	XYRatio  Number
	YPadding Number
}

// CodepointAttribute overrides the default attributes of a single codepoint
type CodepointAttribute struct {
	Codepoint int64
	Entry     AttributeEntry
}

// Attributes holds the "default" entry and the per-codepoint overrides of a patch set, in source order
type Attributes struct {
	Default   *AttributeEntry
	Overrides []CodepointAttribute
}

func newAttributes(v Value) (Attributes, error) {
	var attrs Attributes
	d, ok := v.(*Dict)
	if !ok {
		return attrs, fmt.Errorf("attributes must be a dict, got %s", typeName(v))
	}
	for _, key := range d.Keys() {
		value, _ := d.Get(key)
		switch k := key.(type) {
		case string:
			if k != "default" {
				continue
			}
			entry, err := newAttributeEntry(value)
			if err != nil {
				return attrs, fmt.Errorf("default: %w", err)
			}
			attrs.Default = &entry
		case int64:
			entry, err := newAttributeEntry(value)
			if err != nil {
				return attrs, fmt.Errorf("%#x: %w", k, err)
			}
			attrs.Overrides = append(attrs.Overrides, CodepointAttribute{Codepoint: k, Entry: entry})
		}
	}
	return attrs, nil
}

func newAttributeEntry(v Value) (AttributeEntry, error) {
	entry := AttributeEntry{Overlap: Float(0), XYRatio: Float(-1), YPadding: Float(0)}
	d, ok := v.(*Dict)
	if !ok {
		return entry, fmt.Errorf("attribute entry must be a dict, got %s", typeName(v))
	}

	var err error
	if entry.Align, err = stringField(d, "align"); err != nil {
		return entry, err
	}
	if entry.Valign, err = stringField(d, "valign"); err != nil {
		return entry, err
	}
	if entry.Stretch, err = stringField(d, "stretch"); err != nil {
		return entry, err
	}

	p, ok := d.Get("params")
	if !ok {
		return entry, nil
	}
	params, ok := p.(*Dict)
	if !ok {
		return entry, fmt.Errorf("params must be a dict, got %s", typeName(p))
	}
	for name, target := range map[string]*Number{"overlap": &entry.Overlap, "xy-ratio": &entry.XYRatio, "ypadding": &entry.YPadding} {
		value, ok := params.Get(name)
		if !ok {
			continue
		}
		if *target, err = toNumber(value); err != nil {
			return entry, fmt.Errorf("params[%s]: %w", name, err)
		}
	}
	return entry, nil
}

func stringField(d *Dict, key string) (string, error) {
	v, ok := d.Get(key)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a str, got %s", key, typeName(v))
	}
	return s, nil
}

func toNumber(v Value) (Number, error) {
	if f, ok := v.(float64); ok {
		return Float(f), nil
	}
	if i, ok := asInt(v); ok {
		return Int(i), nil
	}
	return Number{}, fmt.Errorf("expected a number, got %s", typeName(v))
}

// parseAlignment maps a patcher alignment letter to a Zig enum literal.
// An empty alignment has no value at all.
func parseAlignment(align string) string {
	switch align {
	case "l":
		return ".start"
	case "r":
		return ".end"
	case "c":
		return ".center"
	case "":
		return ""
	default:
		return ".none"
	}
}

// attributeKey identifies entries that generate the same switch arm
type attributeKey struct {
	align, valign, stretch     string
	overlap, xyRatio, yPadding float64
}

func (e AttributeEntry) key() attributeKey {
	return attributeKey{
		align:    parseAlignment(e.Align),
		valign:   parseAlignment(e.Valign),
		stretch:  e.Stretch,
		overlap:  e.Overlap.Value,
		xyRatio:  e.XYRatio.Value,
		yPadding: e.YPadding.Value,
	}
}

// codepointTable maps codepoints to attributes. Reassigning a codepoint keeps its first position.
type codepointTable struct {
	order   []int64
	entries map[int64]AttributeEntry
}

func (t *codepointTable) set(cp int64, entry AttributeEntry) {
	if _, ok := t.entries[cp]; !ok {
		t.order = append(t.order, cp)
	}
	t.entries[cp] = entry
}

func (t *codepointTable) remove(cp int64) {
	if _, ok := t.entries[cp]; !ok {
		return
	}
	delete(t.entries, cp)
	t.order = slices.DeleteFunc(t.order, func(c int64) bool { return c == cp })
}

// Arm is one switch arm: the codepoints sharing an attribute entry
type Arm struct {
	Codepoints []int64
	Entry      AttributeEntry
}

// Arms expands the patch sets to per-codepoint attributes and groups codepoints with equal attributes.
// Later patch sets win, codepoint 0 is dropped, and arms are ordered by their codepoint lists.
func Arms(patchSets []PatchSet) ([]Arm, error) {
	table := &codepointTable{entries: make(map[int64]AttributeEntry)}
	for i, ps := range patchSets {
		if ps.SymStart <= ps.SymEnd && ps.Attributes.Default == nil {
			return nil, fmt.Errorf("patch set %d (%#x-%#x) has no default attributes", i, ps.SymStart, ps.SymEnd)
		}
		for cp := ps.SymStart; cp <= ps.SymEnd; cp++ {
			table.set(cp, *ps.Attributes.Default)
		}
		for _, override := range ps.Attributes.Overrides {
			table.set(override.Codepoint, override.Entry)
		}
	}
	table.remove(0)

	groups := make([][]int64, 0)
	index := make(map[attributeKey]int)
	for _, cp := range table.order {
		key := table.entries[cp].key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], cp)
	}
	slices.SortStableFunc(groups, func(a, b []int64) int {
		return slices.Compare(a, b)
	})

	arms := make([]Arm, 0, len(groups))
	for _, codepoints := range groups {
		arms = append(arms, Arm{Codepoints: codepoints, Entry: table.entries[codepoints[0]]})
	}
	return arms, nil
}
