package search

import (
	"math/rand"

	"github.com/roguepikachu/snipshare/internal/domain"
)

// Intn returns a uniform int in [0, n). It must not be called with n <= 0.
type Intn func(n int) int

// DefaultIntn is backed by math/rand's auto-seeded global source.
var DefaultIntn Intn = rand.Intn

// Pick returns one of items chosen uniformly with intn, or false when items is empty.
// A nil intn uses DefaultIntn.
func Pick(items []domain.Snippet, intn Intn) (domain.Snippet, bool) {
	if len(items) == 0 {
		return domain.Snippet{}, false
	}
	if intn == nil {
		intn = DefaultIntn
	}
	return items[intn(len(items))], true
}
