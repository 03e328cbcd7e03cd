package ref

import (
	"regexp"
	"strings"
)

// Ref identifies a GitHub repository by owner and name
type Ref struct {
	Owner string
	Name  string
}

// String returns the canonical owner/name form used as a cache key
func (r Ref) String() string {
	return r.Owner + "/" + r.Name
}

var (
	// Full or bare github.com URLs, with optional protocol and www prefix
	urlPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?github\.com/([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)`)
	// owner/repo shorthand
	shorthandPattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)
)

// ParseExplicit extracts a repository reference from a URL or owner/repo
// shorthand. Returns nil when the input does not look like a reference.
func ParseExplicit(input string) *Ref {
	input = strings.TrimSpace(input)
	input = strings.TrimRight(input, "/")
	input = strings.TrimSuffix(input, ".git")
	if input == "" {
		return nil
	}

	if m := urlPattern.FindStringSubmatch(input); m != nil {
		return newRef(m[1], m[2])
	}

	m := shorthandPattern.FindStringSubmatch(input)
	if m == nil {
		return nil
	}
	// A lone host segment is not an owner
	if strings.EqualFold(m[1], "github.com") || strings.EqualFold(m[1], "www.github.com") {
		return nil
	}
	return newRef(m[1], m[2])
}

// DetectInText scans free-form prose for the first embedded repository URL.
// Returns nil when no URL is present.
func DetectInText(text string) *Ref {
	m := urlPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return newRef(m[1], m[2])
}

func newRef(owner, name string) *Ref {
	name = strings.TrimSuffix(name, ".git")
	if owner == "" || name == "" {
		return nil
	}
	return &Ref{Owner: owner, Name: name}
}
