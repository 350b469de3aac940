package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func setupTestRepo(t *testing.T) string {
	tmpDir := t.TempDir()

	err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0755)
	if err != nil {
		t.Fatalf("Failed to create .git dir: %v", err)
	}

	files := map[string]string{
		"CODEOWNERS": `# Localization
/po/fr_FR.UTF-8.po @ghostty-org/fr_FR
/po/de_DE.UTF-8.po @ghostty-org/de_DE
/src/ @ghostty-org/core
`,
		"po/fr_FR.UTF-8.po": "msgid \"\"",
		"po/de_DE.UTF-8.po": "msgid \"\"",
		"po/it_IT.UTF-8.po": "msgid \"\"",
		"src/main.zig":      "pub fn main() void {}",
	}

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", filepath.Dir(fullPath), err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", fullPath, err)
		}
	}
	return tmpDir
}

func TestFileOwner(t *testing.T) {
	testRepo := setupTestRepo(t)

	tt := []struct {
		name    string
		targets []string
		format  OutputFormat
		want    string
		wantErr bool
	}{
		{
			name:    "single file",
			targets: []string{"po/fr_FR.UTF-8.po"},
			format:  FormatDefault,
			want:    "fr_FR\n",
		},
		{
			name:    "leading slash",
			targets: []string{"/po/de_DE.UTF-8.po"},
			format:  FormatDefault,
			want:    "de_DE\n",
		},
		{
			name:    "multiple files",
			targets: []string{"po/fr_FR.UTF-8.po", "src/main.zig"},
			format:  FormatDefault,
			want:    "po/fr_FR.UTF-8.po: fr_FR\nsrc/main.zig: (unowned)\n",
		},
		{
			name:    "one line",
			targets: []string{"po/fr_FR.UTF-8.po", "po/de_DE.UTF-8.po"},
			format:  FormatOneLine,
			want:    "po/fr_FR.UTF-8.po: fr_FR, po/de_DE.UTF-8.po: de_DE\n",
		},
		{
			name:    "empty target",
			targets: []string{""},
			format:  FormatDefault,
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			err := fileOwner(out, testRepo, tc.targets, tc.format)
			if (err != nil) != tc.wantErr {
				t.Fatalf("fileOwner() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if out.String() != tc.want {
				t.Errorf("fileOwner() got %q, want %q", out.String(), tc.want)
			}
		})
	}
}

func TestFileOwnerJSON(t *testing.T) {
	testRepo := setupTestRepo(t)
	out := &bytes.Buffer{}

	err := fileOwner(out, testRepo, []string{"po/fr_FR.UTF-8.po", "po/it_IT.UTF-8.po"}, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]Target
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	want := map[string]Target{
		"po/fr_FR.UTF-8.po": {Owner: "fr_FR"},
		"po/it_IT.UTF-8.po": {Owner: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFileOwnerNotARepo(t *testing.T) {
	if err := fileOwner(&bytes.Buffer{}, t.TempDir(), []string{"a"}, FormatDefault); err == nil {
		t.Error("expected error for a directory without .git")
	}
}

func TestUnownedFiles(t *testing.T) {
	testRepo := setupTestRepo(t)

	tt := []struct {
		name   string
		target string
		want   []string
	}{
		{"whole repo", "", []string{"CODEOWNERS", "po/it_IT.UTF-8.po", "src/main.zig"}},
		{"translations only", "po/", []string{"po/it_IT.UTF-8.po"}},
		{"nothing under target", "docs/", []string{}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			if err := unownedFiles(out, testRepo, tc.target); err != nil {
				t.Fatalf("unownedFiles() error = %v", err)
			}
			got := strings.Fields(out.String())
			if len(got) == 0 {
				got = []string{}
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("unownedFiles() got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVerifyCodeowners(t *testing.T) {
	testRepo := setupTestRepo(t)
	if err := verifyCodeowners(&bytes.Buffer{}, testRepo, false); err != nil {
		t.Errorf("expected valid CODEOWNERS, got %v", err)
	}

	out := &bytes.Buffer{}
	if err := verifyCodeowners(out, testRepo, true); err != nil {
		t.Errorf("expected valid CODEOWNERS, got %v", err)
	}
	if !strings.Contains(out.String(), "2 locale entries") {
		t.Errorf("expected entry count in verbose output, got %q", out.String())
	}

	content := "/po/fr_FR.UTF-8.po @ghostty-org/fr_FR @ghostty-org/de_DE\n"
	if err := os.WriteFile(filepath.Join(testRepo, "CODEOWNERS"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write CODEOWNERS: %v", err)
	}
	err := verifyCodeowners(&bytes.Buffer{}, testRepo, false)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("expected a line 1 problem, got %v", err)
	}
}

func TestVerifyCodeownersMissingFile(t *testing.T) {
	testRepo := setupTestRepo(t)
	if err := os.Remove(filepath.Join(testRepo, "CODEOWNERS")); err != nil {
		t.Fatalf("Failed to remove CODEOWNERS: %v", err)
	}
	if err := verifyCodeowners(&bytes.Buffer{}, testRepo, false); err == nil {
		t.Error("expected error for missing CODEOWNERS")
	}
}

func TestStripRoot(t *testing.T) {
	tt := []struct {
		root string
		path string
		want string
	}{
		{".", "po/a.po", "po/a.po"},
		{"/repo", "/repo/po/a.po", "po/a.po"},
		{"/repo/", "/repo/po/a.po", "po/a.po"},
		{"./", "po/a.po", "po/a.po"},
	}

	for _, tc := range tt {
		if got := stripRoot(tc.root, tc.path); got != tc.want {
			t.Errorf("stripRoot(%q, %q) = %q, want %q", tc.root, tc.path, got, tc.want)
		}
	}
}
