package codeowners

import "strings"

// Slug is a CODEOWNERS owner or a GitHub login: "login", "@login" or "@org/team".
// GitHub compares all of them case-insensitively.
type Slug struct {
	original string
	org      string
	name     string
}

func NewSlug(owner string) Slug {
	s := Slug{original: owner, name: strings.TrimPrefix(owner, "@")}
	if org, team, ok := strings.Cut(s.name, "/"); ok {
		s.org, s.name = org, team
	}
	return s
}

// IsTeam reports whether the slug names an organization team
func (s Slug) IsTeam() bool {
	return s.org != ""
}

// InOrg reports whether the slug is a team of org
func (s Slug) InOrg(org string) bool {
	return s.IsTeam() && strings.EqualFold(s.org, org)
}

// Name returns the login or team slug without the @ and organization prefix
func (s Slug) Name() string {
	return s.name
}

func (s Slug) Equals(other Slug) bool {
	return s.Normalized() == other.Normalized()
}

func (s Slug) EqualsString(str string) bool {
	return s.Equals(NewSlug(str))
}

// Original returns the slug as written. Use this for API calls.
func (s Slug) Original() string {
	return s.original
}

// Normalized is the lowercase form without a leading @, used as a set key
func (s Slug) Normalized() string {
	if s.IsTeam() {
		return strings.ToLower(s.org + "/" + s.name)
	}
	return strings.ToLower(s.name)
}

func (s Slug) String() string {
	return s.original
}
