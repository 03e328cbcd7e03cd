// Package snippets ranks a compiled-in library of small game code fragments
// against a detected genre and free-text keywords.
package snippets

import (
	"sort"
	"strings"
)

// Snippet is one hand-authored code fragment tagged with the genres and
// keywords it applies to
type Snippet struct {
	Name     string
	Content  string
	Genres   []string
	Keywords []string
}

// Ranked pairs a snippet with its relevance score
type Ranked struct {
	Snippet
	Score int
}

const (
	genreScore   = 2
	keywordScore = 1
)

// Rank scores every library snippet against the genre and prompt, drops
// zero-score entries, and returns the rest sorted by score. Equal scores
// keep library order.
func Rank(genre, prompt string) []Ranked {
	lowerPrompt := strings.ToLower(prompt)
	lowerGenre := strings.ToLower(genre)

	var ranked []Ranked
	for _, s := range library {
		score := 0
		for _, g := range s.Genres {
			if g == lowerGenre {
				score += genreScore
				break
			}
		}
		for _, kw := range s.Keywords {
			if strings.Contains(lowerPrompt, kw) {
				score += keywordScore
				break
			}
		}
		if score == 0 {
			continue
		}
		ranked = append(ranked, Ranked{Snippet: s, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// All returns the full snippet library
func All() []Snippet {
	return library
}
