package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestScanLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
		{
			name:     "single line",
			input:    "po/fr_FR.UTF-8.po",
			expected: []string{"po/fr_FR.UTF-8.po"},
		},
		{
			name:     "lines with whitespace",
			input:    "  po/a.po  \n\tpo/b.po\t\n",
			expected: []string{"po/a.po", "po/b.po"},
		},
		{
			name:     "empty lines",
			input:    "po/a.po\n\n\npo/b.po\n",
			expected: []string{"po/a.po", "po/b.po"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanLines(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("scanLines() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("scanLines() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadTargets(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		piped   bool
		want    []string
		wantErr bool
	}{
		{"arguments", []string{"po/a.po"}, "po/b.po\n", true, []string{"po/a.po"}, false},
		{"piped stdin", nil, "po/a.po\npo/b.po\n", true, []string{"po/a.po", "po/b.po"}, false},
		{"terminal stdin ignored", nil, "po/a.po\n", false, nil, true},
		{"empty pipe", nil, "\n\n", true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readTargets(tt.args, strings.NewReader(tt.stdin), tt.piped)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readTargets() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("readTargets() = %v, want %v", got, tt.want)
			}
		})
	}
}
