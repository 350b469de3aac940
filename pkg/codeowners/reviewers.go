package codeowners

// ReviewerSet is an insertion-ordered set of logins that never contains the PR author
type ReviewerSet struct {
	author Slug
	order  []Slug
	seen   map[string]bool
}

func NewReviewerSet(author string) *ReviewerSet {
	return &ReviewerSet{
		author: NewSlug(author),
		order:  make([]Slug, 0),
		seen:   make(map[string]bool),
	}
}

// Add inserts logins, ignoring the author and logins already present.
// It returns the number of logins that were added.
func (rs *ReviewerSet) Add(logins ...string) int {
	added := 0
	for _, login := range logins {
		slug := NewSlug(login)
		if slug.Normalized() == "" || slug.Equals(rs.author) || rs.seen[slug.Normalized()] {
			continue
		}
		rs.seen[slug.Normalized()] = true
		rs.order = append(rs.order, slug)
		added++
	}
	return added
}

// IsAuthor reports whether login is the PR author
func (rs *ReviewerSet) IsAuthor(login string) bool {
	return rs.author.EqualsString(login)
}

func (rs *ReviewerSet) Contains(login string) bool {
	return rs.seen[NewSlug(login).Normalized()]
}

// Logins returns the original logins in insertion order
func (rs *ReviewerSet) Logins() []string {
	logins := make([]string, len(rs.order))
	for i, slug := range rs.order {
		logins[i] = slug.Original()
	}
	return logins
}

func (rs *ReviewerSet) Len() int {
	return len(rs.order)
}
