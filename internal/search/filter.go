// Package search evaluates snippet filters and random picks in process.
//
// SQL-backed repositories use LikePattern to narrow candidates in the
// database, then run Apply over the rows so every backend shares one
// definition of a match.
package search

import (
	"strings"

	"github.com/roguepikachu/snipshare/internal/domain"
)

// Filter is a conjunction of optional predicates. An empty field is not applied.
type Filter struct {
	// Query is matched case-insensitively as a substring of Title or Code.
	Query string
	// Language is compared case-insensitively with the whole label.
	Language string
	// Tag must equal, case-insensitively, at least one of the snippet's tags.
	Tag string
}

// IsZero reports whether no predicate is set.
func (f Filter) IsZero() bool {
	return f.Query == "" && f.Language == "" && f.Tag == ""
}

// Match reports whether s satisfies every predicate in f.
func (f Filter) Match(s domain.Snippet) bool {
	if f.Query != "" && !containsFold(s.Title, f.Query) && !containsFold(s.Code, f.Query) {
		return false
	}
	if f.Language != "" && !strings.EqualFold(s.Language, f.Language) {
		return false
	}
	if f.Tag != "" && !HasTag(s.Tags, f.Tag) {
		return false
	}
	return true
}

// Apply returns the items matching f, preserving their order. The result is never nil.
func Apply(items []domain.Snippet, f Filter) []domain.Snippet {
	out := make([]domain.Snippet, 0, len(items))
	for _, s := range items {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// HasTag reports whether want is among tags, ignoring case.
func HasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns q into a LIKE/ILIKE substring pattern using \ as the escape character.
func LikePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
