package codeowners

import (
	"fmt"
	"strings"
)

// Verify reports problems in CODEOWNERS content that would make locale entries be skipped or misrouted.
// Problems are returned in line order, prefixed with their line number.
func Verify(content string, org string) []string {
	problems := make([]string, 0)
	seenPaths := make(map[string]int)

	for i, line := range strings.Split(content, "\n") {
		lineNo := i + 1
		line = stripComment(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			problems = append(problems, fmt.Sprintf("line %d: expected a path and a single owner, got %d fields", lineNo, len(parts)))
			continue
		}
		path, owner := strings.TrimLeft(parts[0], "/"), parts[1]
		if !strings.HasPrefix(owner, "@") {
			problems = append(problems, fmt.Sprintf("line %d: owner doesn't start with @: %s", lineNo, owner))
		}

		slug := NewSlug(owner)
		if !slug.InOrg(org) {
			if slug.IsTeam() && IsLocaleTeam(slug.Name()) {
				problems = append(problems, fmt.Sprintf("line %d: locale team outside %s: %s", lineNo, org, owner))
			}
			continue
		}
		if !IsLocaleTeam(slug.Name()) {
			continue
		}

		if first, ok := seenPaths[path]; ok {
			problems = append(problems, fmt.Sprintf("line %d: path %s already owned on line %d", lineNo, path, first))
			continue
		}
		seenPaths[path] = lineNo
	}
	return problems
}
