// Package selector scores and picks the repository files most likely to be
// useful as game reference material.
package selector

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// File is one candidate repository file
type File struct {
	Path string
	Size int
}

// Scored carries a candidate with its relevance score. A negative score
// means the file is excluded.
type Scored struct {
	Path  string
	Size  int
	Score float64
}

// Selection limits
const (
	maxSelectedFiles = 8
	// fraction of the global budget the GitHub source may consume
	subBudgetPercent = 60
)

// Paths and names that never qualify as reference material
var skipPatterns = []string{
	"node_modules/",
	"dist/",
	"build/",
	"out/",
	"vendor/",
	"coverage/",
	".git/",
	"__tests__/",
	".min.",
	".map",
	".lock",
	"package-lock.json",
	"yarn.lock",
	".test.",
	".spec.",
	".config.",
	".eslintrc",
	".prettierrc",
	"tsconfig",
	"webpack",
	"babel",
}

var skipExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp",
	".mp3", ".wav", ".ogg", ".mp4", ".webm",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".zip", ".tar", ".gz", ".pdf", ".wasm",
}

// Recognized extensions and their priority rank; higher is better
var extensionRank = map[string]float64{
	".html": 5,
	".htm":  5,
	".js":   4,
	".mjs":  4,
	".jsx":  4,
	".ts":   3,
	".tsx":  3,
	".css":  2,
	".scss": 1,
	".less": 1,
}

// Conventional entry-point filenames get a large fixed bonus
var entryPoints = map[string]bool{
	"index.html": true,
	"index.js":   true,
	"index.ts":   true,
	"game.html":  true,
	"game.js":    true,
	"game.ts":    true,
	"main.js":    true,
	"main.ts":    true,
	"app.js":     true,
	"app.ts":     true,
}

var (
	gameKeywordPattern = regexp.MustCompile(`(?i)(player|enemy|level|scene|render|physics|collision|input|controls)`)
	utilityPattern     = regexp.MustCompile(`(?i)(util|helper|common|lib)`)
	docPattern         = regexp.MustCompile(`(?i)(readme|license|changelog|contributing)`)
)

const (
	entryPointBonus = 10.0
	hintBonus       = 50.0
	keywordBonus    = 3.0
	utilityBonus    = 1.0
	docPenalty      = 2.0
	depthPenalty    = 0.5
)

// Score rates one file for relevance. Skip rules are authoritative: a
// negative score cannot be recovered by any later bonus.
func Score(filePath string, size, maxFileSize int, hints []string) float64 {
	lower := strings.ToLower(filePath)

	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return -1
		}
	}
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return -1
		}
	}

	if size > maxFileSize {
		return -1
	}

	rank, ok := extensionRank[path.Ext(lower)]
	if !ok {
		return -1
	}

	score := rank
	name := path.Base(lower)

	if entryPoints[name] {
		score += entryPointBonus
	}

	depth := strings.Count(filePath, "/")
	score -= depthPenalty * float64(depth)

	if gameKeywordPattern.MatchString(name) {
		score += keywordBonus
	} else if utilityPattern.MatchString(name) {
		score += utilityBonus
	}
	if docPattern.MatchString(name) {
		score -= docPenalty
	}

	for _, hint := range hints {
		if filePath == hint || strings.HasSuffix(filePath, "/"+hint) || strings.HasSuffix(filePath, hint) {
			score += hintBonus
			break
		}
	}

	return score
}

// Select scores all candidates and greedily picks the best ones, staying
// under the GitHub sub-budget and the hard file cap. Selection is
// deterministic for a given tree and hint list.
func Select(files []File, maxFileSize, budget int, hints []string) []Scored {
	scored := make([]Scored, 0, len(files))
	for _, f := range files {
		s := Score(f.Path, f.Size, maxFileSize, hints)
		if s < 0 {
			continue
		}
		scored = append(scored, Scored{Path: f.Path, Size: f.Size, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	subBudget := budget * subBudgetPercent / 100
	var selected []Scored
	total := 0
	for _, s := range scored {
		if len(selected) >= maxSelectedFiles {
			break
		}
		if total+s.Size > subBudget {
			break
		}
		selected = append(selected, s)
		total += s.Size
	}

	return selected
}
