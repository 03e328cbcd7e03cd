// Package composer assembles reference material from GitHub repositories,
// the known-repository catalog, genre templates, and the snippet library
// into one budget-bounded document for the AI generation pipeline.
package composer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/playforge/refkit/pkg/cache"
	"github.com/playforge/refkit/pkg/github"
	"github.com/playforge/refkit/pkg/knownrepo"
	"github.com/playforge/refkit/pkg/log"
	"github.com/playforge/refkit/pkg/ref"
	"github.com/playforge/refkit/pkg/sanitize"
	"github.com/playforge/refkit/pkg/selector"
	"github.com/playforge/refkit/pkg/snippets"
	"github.com/playforge/refkit/pkg/templates"
)

// Fetcher is the remote repository surface the composer consumes
type Fetcher interface {
	FetchTree(ctx context.Context, r ref.Ref) ([]github.TreeEntry, error)
	FetchFileContent(ctx context.Context, r ref.Ref, path string) (string, bool, error)
}

// Request carries one resolution call's inputs
type Request struct {
	Prompt    string
	Genre     string
	GameType  string
	IsNewGame bool
}

// Result is the engine's single output per resolution call
type Result struct {
	ReferenceCode string
	Sources       []string
	TotalChars    int
}

const (
	banner           = "// === Game reference material ==="
	truncationMarker = "\n// ... truncated to fit budget\n"
)

// chunk is one formatted, source-tagged block of reference text
type chunk struct {
	text string
	tag  string
}

// sourceFn produces a source's candidate chunks given the remaining budget
type sourceFn func(ctx context.Context, req Request, remaining int) []chunk

// Composer runs the reference sources in fixed precedence under one shared
// character budget
type Composer struct {
	logger      *log.Logger
	fetcher     Fetcher
	cache       *cache.Cache
	catalog     *knownrepo.Catalog
	templates   *templates.Loader
	budget      int
	maxFileSize int
}

// New creates a composer instance
func New(logger *log.Logger, fetcher Fetcher, store *cache.Cache, catalog *knownrepo.Catalog, loader *templates.Loader, budget, maxFileSize int) (*Composer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if loader == nil {
		return nil, fmt.Errorf("template loader is required")
	}
	if budget <= 0 {
		return nil, fmt.Errorf("budget must be positive")
	}

	return &Composer{
		logger:      logger,
		fetcher:     fetcher,
		cache:       store,
		catalog:     catalog,
		templates:   loader,
		budget:      budget,
		maxFileSize: maxFileSize,
	}, nil
}

// Resolve assembles reference material for one generation request. It never
// returns an error: a failed source contributes nothing and resolution
// continues with the rest. An empty result is a valid outcome.
//
// The source order is a priority policy, not an accident: explicit URL,
// then known-repository match, then genre template, then snippets. Each
// step consumes from the budget the next step sees.
func (c *Composer) Resolve(ctx context.Context, req Request) Result {
	steps := []sourceFn{
		c.explicitRepoSource,
		c.knownRepoSource,
		c.templateSource,
		c.snippetSource,
	}

	remaining := c.budget
	var parts []string
	sources := []string{}

	for _, step := range steps {
		for _, ch := range step(ctx, req, remaining) {
			if len(ch.text) > remaining {
				c.logger.Budget("Skipping %s: %d chars, %d remaining", ch.tag, len(ch.text), remaining)
				continue
			}
			parts = append(parts, ch.text)
			sources = append(sources, ch.tag)
			remaining -= len(ch.text)
			c.logger.Budget("Added %s (%d chars, %d remaining)", ch.tag, len(ch.text), remaining)
		}
	}

	if len(parts) == 0 {
		c.logger.Info("No reference material available for this request")
		return Result{Sources: sources}
	}

	code := banner + "\n\n" + strings.Join(parts, "\n")
	return Result{
		ReferenceCode: code,
		Sources:       sources,
		TotalChars:    len(code),
	}
}

// explicitRepoSource handles a repository reference embedded in the prompt
func (c *Composer) explicitRepoSource(ctx context.Context, req Request, remaining int) []chunk {
	r := ref.ParseExplicit(req.Prompt)
	if r == nil {
		r = ref.DetectInText(req.Prompt)
	}
	if r == nil {
		return nil
	}

	c.logger.Ref("Explicit repository reference: %s", r)
	code := c.fetchRepoCode(ctx, *r, nil)
	if code == "" {
		return nil
	}

	text := c.formatRepoChunk(*r, code, remaining)
	if text == "" {
		return nil
	}
	return []chunk{{text: text, tag: "github:" + r.String()}}
}

// knownRepoSource handles a keyword match against the curated catalog. It
// yields to the explicit source: when the prompt names a repository, the
// catalog is not consulted.
func (c *Composer) knownRepoSource(ctx context.Context, req Request, remaining int) []chunk {
	if ref.ParseExplicit(req.Prompt) != nil || ref.DetectInText(req.Prompt) != nil {
		return nil
	}

	entry, keyword := c.catalog.Match(req.Prompt)
	if entry == nil {
		return nil
	}
	r := entry.Ref()
	if r == nil {
		c.logger.Warning("Catalog entry %q has an unparseable repo field", entry.Repo)
		return nil
	}

	c.logger.Ref("Known repository %s matched on %q", r, keyword)
	code := c.fetchRepoCode(ctx, *r, entry.MainFiles)
	if code == "" {
		return nil
	}

	text := c.formatRepoChunk(*r, code, remaining)
	if text == "" {
		return nil
	}
	return []chunk{{text: text, tag: "known-repo:" + r.String()}}
}

// templateSource offers the genre's full-game template for new projects
func (c *Composer) templateSource(_ context.Context, req Request, _ int) []chunk {
	if !req.IsNewGame {
		return nil
	}
	genre := requestGenre(req)
	if genre == "" {
		return nil
	}

	t := c.templates.ForGenre(genre)
	if t == nil {
		return nil
	}

	text := fmt.Sprintf("// === Template: %s (%s) ===\n%s\n", t.Genre, t.Filename, t.Content)
	return []chunk{{text: text, tag: "template:" + t.Filename}}
}

// snippetSource offers ranked library snippets; each one that individually
// fits the remaining budget is appended
func (c *Composer) snippetSource(_ context.Context, req Request, _ int) []chunk {
	ranked := snippets.Rank(requestGenre(req), req.Prompt)

	var chunks []chunk
	for _, s := range ranked {
		text := fmt.Sprintf("// === Snippet: %s ===\n%s\n", s.Name, s.Content)
		chunks = append(chunks, chunk{text: text, tag: "snippet:" + s.Name})
	}
	return chunks
}

// fetchRepoCode returns the sanitized, concatenated code for a repository,
// from cache when fresh, otherwise from the remote. An empty string means
// this source contributes nothing; every failure degrades to that.
func (c *Composer) fetchRepoCode(ctx context.Context, r ref.Ref, hints []string) string {
	key := r.String()
	if e, ok := c.cache.Get(key); ok {
		c.logger.Cache("Cache hit for %s (%d files)", key, len(e.Files))
		return e.Code
	}

	entries, err := c.fetcher.FetchTree(ctx, r)
	if err != nil {
		c.logger.Warning("Repository %s unavailable: %v", key, err)
		return ""
	}

	var files []selector.File
	for _, e := range entries {
		if e.Kind != "blob" {
			continue
		}
		files = append(files, selector.File{Path: e.Path, Size: e.Size})
	}

	selected := selector.Select(files, c.maxFileSize, c.budget, hints)
	if len(selected) == 0 {
		c.logger.Debug("No relevant files in %s", key)
		return ""
	}

	// Per-file fetches are independent; run them concurrently and join
	contents := make([]string, len(selected))
	var wg sync.WaitGroup
	for i, s := range selected {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			content, ok, err := c.fetcher.FetchFileContent(ctx, r, path)
			if err != nil {
				c.logger.Debug("Fetch failed for %s/%s: %v", key, path, err)
				return
			}
			if !ok {
				return
			}
			contents[i] = sanitize.Clean(content)
		}(i, s.Path)
	}
	wg.Wait()

	var b strings.Builder
	var names []string
	for i, s := range selected {
		if contents[i] == "" {
			continue
		}
		fmt.Fprintf(&b, "// File: %s\n%s\n\n", s.Path, contents[i])
		names = append(names, s.Path)
	}
	if b.Len() == 0 {
		return ""
	}

	code := b.String()
	c.cache.Put(key, code, names)
	c.logger.Fetch("Fetched %d files from %s (%d chars)", len(names), key, len(code))
	return code
}

// formatRepoChunk wraps repository code in its provenance header. This is
// the one place a chunk may be truncated rather than skipped; the cut gets
// an explicit marker.
func (c *Composer) formatRepoChunk(r ref.Ref, code string, remaining int) string {
	header := fmt.Sprintf("// === Reference: github.com/%s ===\n", r)
	text := header + code

	if len(text) <= remaining {
		return text
	}
	keep := remaining - len(truncationMarker)
	if keep <= len(header) {
		return ""
	}
	return text[:keep] + truncationMarker
}

func requestGenre(req Request) string {
	if req.Genre != "" {
		return req.Genre
	}
	return req.GameType
}
