package codeowners

import (
	"reflect"
	"testing"
)

func TestVerify(t *testing.T) {
	tt := []struct {
		name     string
		content  string
		problems []string
	}{
		{
			name:     "valid file",
			content:  "# owners\n/po/fr_FR.UTF-8.po @ghostty-org/fr_FR\n/src/ @ghostty-org/core\n",
			problems: []string{},
		},
		{
			name:     "multiple owners",
			content:  "/po/ @ghostty-org/fr_FR @ghostty-org/de_DE\n",
			problems: []string{"line 1: expected a path and a single owner, got 3 fields"},
		},
		{
			name:     "missing owner",
			content:  "\n/po/\n",
			problems: []string{"line 2: expected a path and a single owner, got 1 fields"},
		},
		{
			name:     "owner without @",
			content:  "/po/ fr_FR\n",
			problems: []string{"line 1: owner doesn't start with @: fr_FR"},
		},
		{
			name:     "locale team in another org",
			content:  "/po/ @other/fr_FR\n",
			problems: []string{"line 1: locale team outside ghostty-org: @other/fr_FR"},
		},
		{
			name:     "duplicate locale path",
			content:  "/po/a @ghostty-org/fr_FR\n/po/b @ghostty-org/de_DE\npo/a @ghostty-org/it_IT\n",
			problems: []string{"line 3: path po/a already owned on line 1"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := Verify(tc.content, "ghostty-org")
			if !reflect.DeepEqual(got, tc.problems) {
				t.Errorf("expected %v, got %v", tc.problems, got)
			}
		})
	}
}
