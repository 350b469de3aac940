package codeowners

import (
	"log/slog"
	"regexp"
	"strings"

	f "github.com/ghostty-org/l10n-tools/pkg/functional"
)

// localeTeamPattern matches team slugs that encode a language and region, e.g. fr_FR.
var localeTeamPattern = regexp.MustCompile(`^[a-z]{2}_[A-Z]{2}$`)

// IsLocaleTeam reports whether the whole team name is a locale code.
func IsLocaleTeam(name string) bool {
	return localeTeamPattern.MatchString(name)
}

// Entry maps a path prefix to the locale team owning it
type Entry struct {
	Path string
	Team string
}

// Rules holds the locale ownership entries of a CODEOWNERS file in file order
type Rules struct {
	Entries []Entry
	index   map[string]int
}

// NewRules builds Rules from entries, applying them in order as Parse would.
func NewRules(entries ...Entry) Rules {
	rules := Rules{}
	for _, entry := range entries {
		rules.set(entry.Path, entry.Team)
	}
	return rules
}

// set stores the owner of path. A repeated path keeps its original position.
func (r *Rules) set(path, team string) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[path]; ok {
		r.Entries[i].Team = team
		return
	}
	r.index[path] = len(r.Entries)
	r.Entries = append(r.Entries, Entry{Path: path, Team: team})
}

// Parse reads CODEOWNERS content and keeps the entries owned by a locale team of org.
//
// Every entry is expected to list a single owner. Lines that do not are skipped with a
// warning.
func Parse(content string, org string, logger *slog.Logger) Rules {
	rules := Rules{}
	for _, line := range strings.Split(content, "\n") {
		line = stripComment(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			logger.Warn("Skipping CODEOWNERS line without exactly one owner", slog.String("line", line))
			continue
		}
		path := strings.TrimLeft(parts[0], "/")
		owner := parts[1]
		if slug := NewSlug(owner); slug.InOrg(org) {
			owner = slug.Name()
		}

		if !IsLocaleTeam(owner) {
			logger.Debug("Skipping non-l10n codeowner", slog.String("owner", owner), slog.String("path", path))
			continue
		}

		rules.set(path, owner)
		logger.Debug("Found codeowner", slog.String("owner", owner), slog.String("path", path))
	}
	return rules
}

func stripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		return line[:i]
	}
	return line
}

// OwnerOf returns the team of the first entry, in file order, whose path is a prefix of file.
// A more specific entry further down the file never takes precedence.
func (r Rules) OwnerOf(file string) (string, bool) {
	for _, entry := range r.Entries {
		if strings.HasPrefix(file, entry.Path) {
			return entry.Team, true
		}
	}
	return "", false
}

// OwningTeams returns the distinct teams owning at least one of files, in order of first appearance
func (r Rules) OwningTeams(files []string) []string {
	teams := make([]string, 0)
	for _, file := range files {
		if team, ok := r.OwnerOf(file); ok {
			teams = append(teams, team)
		}
	}
	return f.RemoveDuplicates(teams)
}

// Len returns the number of entries
func (r Rules) Len() int {
	return len(r.Entries)
}
