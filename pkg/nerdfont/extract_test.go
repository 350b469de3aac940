package nerdfont

import (
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

const samplePatcher = `#!/usr/bin/env python
"""
Nerd Fonts Font Patcher
"""

import sys

class font_patcher:
    def __init__(self, args):
        self.args = args

    def setup_patch_set(self):
        """ Creates list of dicts to with instructions on copying glyphs """
        box_keep = False
        if self.args.forcebox:
            box_keep = True
            SYM_ATTR_IGNORED = {'default': {'align': 'l'}}

        SYM_ATTR_DEFAULT = {
            'default': {'align': 'c', 'valign': 'c', 'stretch': 'pa', 'params': {}}
        }
        SYM_ATTR_POWERLINE = {
            'default': {'align': 'c', 'valign': 'c', 'stretch': '^pa', 'params': {}},

            # Arrow tips
            0xe0b0: {'align': 'l', 'valign': 'c', 'stretch': '^xy', 'params': {'overlap': 0.06, 'xy-ratio': 0.7}},
            0xe0b2: {'align': 'r', 'valign': 'c', 'stretch': '^xy', 'params': {'overlap': 0.06, 'xy-ratio': 0.7}},
        }
        BOX_SCALE_LIST = {'ShiftMode': 'xy', 'ScaleGroups': [
            [*range(0x2500, 0x2570 + 1), *range(0x2574, 0x257f + 1)],
            range(0x2571, 0x2573 + 1),
        ]} if box_keep else None
        SCALE_RULES = self.compute_rules()  # never referenced

        self.patch_set = [
            {'Enabled': True,               'Name': "Seti-UI + Custom", 'Filename': "original-source.otf", 'Exact': False, 'SymStart': 0xE4FA, 'SymEnd': 0xE4FC, 'SrcStart': 0xE5FA, 'ScaleRules': None,           'Attributes': SYM_ATTR_DEFAULT},
            {'Enabled': box_keep,           'Name': "Box",              'Filename': "Hack.ttf",            'Exact': True,  'SymStart': 0x2500, 'SymEnd': 0x2502, 'SrcStart': None,   'ScaleRules': BOX_SCALE_LIST, 'Attributes': SYM_ATTR_DEFAULT},
            {'Enabled': self.args.powerline, 'Name': "Powerline",       'Filename': "powerline.otf",       'Exact': True,  'SymStart': 0xE0B0, 'SymEnd': 0xE0B3, 'SrcStart': None,   'ScaleRules': None,           'Attributes': SYM_ATTR_POWERLINE},
        ]

    def setup_other(self):
        self.patch_set = [{'SymStart': 1, 'SymEnd': 1, 'Attributes': {}}]
`

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestExtractPatchSets(t *testing.T) {
	patchSets, err := ExtractPatchSets(samplePatcher, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaultEntry := AttributeEntry{Align: "c", Valign: "c", Stretch: "pa", Overlap: Float(0), XYRatio: Float(-1), YPadding: Float(0)}
	powerlineEntry := AttributeEntry{Align: "c", Valign: "c", Stretch: "^pa", Overlap: Float(0), XYRatio: Float(-1), YPadding: Float(0)}
	arrow := func(align string) AttributeEntry {
		return AttributeEntry{Align: align, Valign: "c", Stretch: "^xy", Overlap: Float(0.06), XYRatio: Float(0.7), YPadding: Float(0)}
	}
	expected := []PatchSet{
		{SymStart: 0xe4fa, SymEnd: 0xe4fc, Attributes: Attributes{Default: &defaultEntry}},
		{SymStart: 0x2500, SymEnd: 0x2502, Attributes: Attributes{Default: &defaultEntry}},
		{SymStart: 0xe0b0, SymEnd: 0xe0b3, Attributes: Attributes{
			Default: &powerlineEntry,
			Overrides: []CodepointAttribute{
				{Codepoint: 0xe0b0, Entry: arrow("l")},
				{Codepoint: 0xe0b2, Entry: arrow("r")},
			},
		}},
	}

	if !reflect.DeepEqual(patchSets, expected) {
		t.Errorf("ExtractPatchSets() got %+v, want %+v", patchSets, expected)
	}
}

func TestExtractPatchSetsNoClass(t *testing.T) {
	patchSets, err := ExtractPatchSets("class other:\n    def setup_patch_set(self):\n        self.patch_set = [{}]\n", discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patchSets) != 0 {
		t.Errorf("expected no patch sets, got %d", len(patchSets))
	}
}

func TestExtractPatchSetsErrors(t *testing.T) {
	tt := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unsupported call",
			body:    "self.patch_set = [{'SymStart': 1, 'SymEnd': 2, 'Attributes': make_attributes()}]",
			wantErr: `unsupported call of name "make_attributes"`,
		},
		{
			name:    "unknown name in symbol",
			body:    "ATTR = {'default': DEFAULTS}\n        self.patch_set = [{'SymStart': 1, 'SymEnd': 2, 'Attributes': ATTR}]",
			wantErr: `symbol ATTR: unknown name "DEFAULTS"`,
		},
		{
			name:    "missing SymEnd",
			body:    "self.patch_set = [{'SymStart': 1, 'Attributes': {}}]",
			wantErr: "missing SymEnd",
		},
		{
			name:    "comprehension",
			body:    "self.patch_set = [{'SymStart': 1, 'SymEnd': 2, 'Attributes': {cp: {} for cp in x}}]",
			wantErr: "comprehensions are not supported",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			source := "class font_patcher:\n    def setup_patch_set(self):\n        " + tc.body + "\n"
			_, err := ExtractPatchSets(source, discardLogger())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err)
			}
		})
	}
}

func TestExtractPatchSetsSkipsNonDictEntries(t *testing.T) {
	source := `class font_patcher:
    def setup_patch_set(self):
        EXTRA = None
        self.patch_set = [
            EXTRA,
            {'SymStart': 0x41, 'SymEnd': 0x41, 'Attributes': {'default': {'stretch': 'xy2'}}},
        ]
`
	patchSets, err := ExtractPatchSets(source, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patchSets) != 1 || patchSets[0].SymStart != 0x41 {
		t.Fatalf("expected one patch set at 0x41, got %+v", patchSets)
	}
	if patchSets[0].Attributes.Default.Stretch != "xy2" {
		t.Errorf("expected stretch xy2, got %q", patchSets[0].Attributes.Default.Stretch)
	}
}

func TestSplitAssignment(t *testing.T) {
	tt := []struct {
		source      string
		wantTargets int
	}{
		{"x = 1", 1},
		{"a = b = 2", 2},
		{"f(x=1)", 0},
		{"x == 1", 0},
		{"x += 1", 0},
		{"if x: y = 1", 0},
		{"self.patch_set = []", 1},
	}

	for _, tc := range tt {
		lines, err := splitLogicalLines(tc.source)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.source, err)
		}
		targets, _ := splitAssignment(lines[0])
		if len(targets) != tc.wantTargets {
			t.Errorf("%q: expected %d targets, got %d", tc.source, tc.wantTargets, len(targets))
		}
	}
}
