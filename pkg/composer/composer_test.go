package composer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playforge/refkit/pkg/cache"
	"github.com/playforge/refkit/pkg/github"
	"github.com/playforge/refkit/pkg/knownrepo"
	"github.com/playforge/refkit/pkg/log"
	"github.com/playforge/refkit/pkg/ref"
	"github.com/playforge/refkit/pkg/templates"
)

// mockFetcher implements Fetcher for testing
type mockFetcher struct {
	mu           sync.Mutex
	tree         []github.TreeEntry
	treeErr      error
	contents     map[string]string
	undecodable  map[string]bool
	treeCalls    int
	contentCalls int
}

func (m *mockFetcher) FetchTree(_ context.Context, _ ref.Ref) ([]github.TreeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.treeCalls++
	if m.treeErr != nil {
		return nil, m.treeErr
	}
	return m.tree, nil
}

func (m *mockFetcher) FetchFileContent(_ context.Context, _ ref.Ref, path string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contentCalls++
	if m.undecodable[path] {
		return "", false, nil
	}
	content, ok := m.contents[path]
	return content, ok, nil
}

const testCatalog = `{
	"repos": [
		{
			"repo": "acme/snake-game",
			"keywords": ["snake"],
			"mainFiles": ["snake.js"],
			"description": "Grid-based snake"
		}
	]
}`

const emptyCatalog = `{"repos": []}`

type testEnv struct {
	fetcher *mockFetcher
	store   *cache.Cache
	comp    *Composer
}

func newTestEnv(t *testing.T, fetcher *mockFetcher, catalogJSON string, budget int) *testEnv {
	t.Helper()
	logger := log.New(false)

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "known-repos.json")
	if err := os.WriteFile(catalogPath, []byte(catalogJSON), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	templatesDir := filepath.Join(dir, "templates")
	if err := os.Mkdir(templatesDir, 0755); err != nil {
		t.Fatalf("make templates dir: %v", err)
	}
	for _, name := range []string{"racing.html", "platformer.html", "arcade.html"} {
		content := "<!DOCTYPE html><html><body><canvas id=\"game\"></canvas><!-- " + name + " --></body></html>"
		if err := os.WriteFile(filepath.Join(templatesDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write template: %v", err)
		}
	}

	store := cache.New(30 * time.Minute)
	comp, err := New(
		logger,
		fetcher,
		store,
		knownrepo.New(logger, catalogPath),
		templates.NewLoader(logger, templatesDir),
		budget,
		50*1024,
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &testEnv{fetcher: fetcher, store: store, comp: comp}
}

func hasSource(sources []string, tag string) bool {
	for _, s := range sources {
		if s == tag {
			return true
		}
	}
	return false
}

func hasSourcePrefix(sources []string, prefix string) bool {
	for _, s := range sources {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func TestResolveExplicitRepo(t *testing.T) {
	fetcher := &mockFetcher{
		tree: []github.TreeEntry{
			{Path: "index.html", Size: 1200, Kind: "blob"},
			{Path: "node_modules/x.js", Size: 500, Kind: "blob"},
		},
		contents: map[string]string{
			"index.html":        "<html><canvas id=\"game\"></canvas></html>",
			"node_modules/x.js": "module.exports = {};",
		},
	}
	env := newTestEnv(t, fetcher, emptyCatalog, 24000)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt: "github.com/acme/platform-game",
	})

	if !hasSource(result.Sources, "github:acme/platform-game") {
		t.Errorf("Sources = %v, want github:acme/platform-game", result.Sources)
	}
	if !strings.Contains(result.ReferenceCode, "index.html") {
		t.Error("selected file index.html missing from reference code")
	}
	if strings.Contains(result.ReferenceCode, "node_modules") {
		t.Error("excluded node_modules path leaked into reference code")
	}
}

func TestResolveRacingScenario(t *testing.T) {
	// No URL, no catalog match: template and snippets carry the result
	env := newTestEnv(t, &mockFetcher{}, emptyCatalog, 24000)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt:    "I want a racing game",
		Genre:     "racing",
		IsNewGame: true,
	})

	if !hasSource(result.Sources, "template:racing.html") {
		t.Errorf("Sources = %v, want template:racing.html", result.Sources)
	}
	if !hasSource(result.Sources, "snippet:car-physics") {
		t.Errorf("Sources = %v, want snippet:car-physics", result.Sources)
	}
	if env.fetcher.treeCalls != 0 {
		t.Errorf("treeCalls = %d, want 0: no repository was referenced", env.fetcher.treeCalls)
	}
}

func TestResolveRepoNotFound(t *testing.T) {
	fetcher := &mockFetcher{treeErr: github.ErrNotFound}
	env := newTestEnv(t, fetcher, emptyCatalog, 24000)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt:    "build on github.com/acme/gone please",
		Genre:     "arcade",
		IsNewGame: true,
	})

	if hasSourcePrefix(result.Sources, "github:") || hasSourcePrefix(result.Sources, "known-repo:") {
		t.Errorf("Sources = %v, want no repository tags after 404", result.Sources)
	}
	if !hasSource(result.Sources, "template:arcade.html") {
		t.Errorf("Sources = %v, want template despite repo failure", result.Sources)
	}
}

func TestResolveKnownRepo(t *testing.T) {
	fetcher := &mockFetcher{
		tree: []github.TreeEntry{
			{Path: "src/snake.js", Size: 900, Kind: "blob"},
			{Path: "index.html", Size: 700, Kind: "blob"},
		},
		contents: map[string]string{
			"src/snake.js": "const snake = [];",
			"index.html":   "<html></html>",
		},
	}
	env := newTestEnv(t, fetcher, testCatalog, 24000)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt: "make me a snake game",
	})

	if !hasSource(result.Sources, "known-repo:acme/snake-game") {
		t.Errorf("Sources = %v, want known-repo:acme/snake-game", result.Sources)
	}
	if !strings.Contains(result.ReferenceCode, "src/snake.js") {
		t.Error("hinted file missing from reference code")
	}
}

func TestResolveExplicitBeatsKnownRepo(t *testing.T) {
	fetcher := &mockFetcher{
		tree: []github.TreeEntry{
			{Path: "index.html", Size: 700, Kind: "blob"},
		},
		contents: map[string]string{
			"index.html": "<html></html>",
		},
	}
	env := newTestEnv(t, fetcher, testCatalog, 24000)

	// Prompt carries both a URL and a catalog keyword: URL wins, catalog skipped
	result := env.comp.Resolve(context.Background(), Request{
		Prompt: "a snake game like github.com/acme/platform-game",
	})

	if !hasSource(result.Sources, "github:acme/platform-game") {
		t.Errorf("Sources = %v, want github tag", result.Sources)
	}
	if hasSourcePrefix(result.Sources, "known-repo:") {
		t.Errorf("Sources = %v, catalog must yield to explicit reference", result.Sources)
	}
}

func TestResolveCacheHit(t *testing.T) {
	fetcher := &mockFetcher{
		tree: []github.TreeEntry{
			{Path: "index.html", Size: 700, Kind: "blob"},
		},
		contents: map[string]string{
			"index.html": "<html></html>",
		},
	}
	env := newTestEnv(t, fetcher, emptyCatalog, 24000)
	req := Request{Prompt: "github.com/acme/platform-game"}

	first := env.comp.Resolve(context.Background(), req)
	treeCalls := env.fetcher.treeCalls
	contentCalls := env.fetcher.contentCalls

	second := env.comp.Resolve(context.Background(), req)

	if env.fetcher.treeCalls != treeCalls || env.fetcher.contentCalls != contentCalls {
		t.Error("second resolution inside TTL issued remote calls")
	}
	if first.ReferenceCode != second.ReferenceCode {
		t.Error("cached resolution differs from original")
	}
}

func TestResolveUndecodableFileSkipped(t *testing.T) {
	fetcher := &mockFetcher{
		tree: []github.TreeEntry{
			{Path: "index.html", Size: 700, Kind: "blob"},
			{Path: "game.js", Size: 800, Kind: "blob"},
		},
		contents: map[string]string{
			"index.html": "<html></html>",
		},
		undecodable: map[string]bool{"game.js": true},
	}
	env := newTestEnv(t, fetcher, emptyCatalog, 24000)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt: "github.com/acme/platform-game",
	})

	if !strings.Contains(result.ReferenceCode, "index.html") {
		t.Error("decodable file missing: one bad file must not sink the batch")
	}
	if strings.Contains(result.ReferenceCode, "// File: game.js") {
		t.Error("undecodable file leaked into reference code")
	}
}

func TestResolveSanitizesFetchedCode(t *testing.T) {
	fetcher := &mockFetcher{
		tree: []github.TreeEntry{
			{Path: "game.js", Size: 800, Kind: "blob"},
		},
		contents: map[string]string{
			"game.js": `const apiKey = "sk-abcdef123"; fetch("https://evil.example.com/x");`,
		},
	}
	env := newTestEnv(t, fetcher, emptyCatalog, 24000)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt: "github.com/acme/platform-game",
	})

	if strings.Contains(result.ReferenceCode, "sk-abcdef123") {
		t.Error("credential survived into reference code")
	}
	if strings.Contains(result.ReferenceCode, "evil.example.com") {
		t.Error("external URL survived into reference code")
	}
	if !strings.Contains(result.ReferenceCode, "REDACTED") {
		t.Error("redaction placeholder missing")
	}
}

func TestResolveBudgetTooSmall(t *testing.T) {
	env := newTestEnv(t, &mockFetcher{}, emptyCatalog, 10)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt:    "I want a racing game",
		Genre:     "racing",
		IsNewGame: true,
	})

	if result.ReferenceCode != "" {
		t.Errorf("ReferenceCode = %q, want empty", result.ReferenceCode)
	}
	if len(result.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", result.Sources)
	}
	if result.TotalChars != 0 {
		t.Errorf("TotalChars = %d, want 0", result.TotalChars)
	}
}

func TestResolveBudgetNeverExceeded(t *testing.T) {
	budget := 700
	env := newTestEnv(t, &mockFetcher{}, emptyCatalog, budget)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt:    "shoot aliens, dodge bullets, rack up score and lives",
		Genre:     "shooter",
		IsNewGame: true,
	})

	// Chunks are bounded by the budget; the banner and the joins between
	// chunks are the only text outside it
	overhead := len(banner) + 2 + len(result.Sources)
	if result.TotalChars > budget+overhead {
		t.Errorf("TotalChars = %d, exceeds budget %d plus overhead %d", result.TotalChars, budget, overhead)
	}

	// Smaller, lower-ranked snippets may still land after a skip
	if len(result.Sources) == 0 {
		t.Error("nothing fit a budget that can hold at least one snippet")
	}
}

func TestResolveTruncatesOversizedRepo(t *testing.T) {
	// The tree reports a size inside the selection sub-budget, but the
	// fetched content is larger than the whole budget
	big := strings.Repeat("const filler = 1;\n", 200)
	fetcher := &mockFetcher{
		tree: []github.TreeEntry{
			{Path: "game.js", Size: 1000, Kind: "blob"},
		},
		contents: map[string]string{"game.js": big},
	}
	budget := 2000
	env := newTestEnv(t, fetcher, emptyCatalog, budget)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt: "github.com/acme/platform-game",
	})

	if !hasSource(result.Sources, "github:acme/platform-game") {
		t.Fatalf("Sources = %v, want github tag", result.Sources)
	}
	if !strings.Contains(result.ReferenceCode, "truncated to fit budget") {
		t.Error("truncation marker missing from oversized repo chunk")
	}
	overhead := len(banner) + 2 + len(result.Sources)
	if result.TotalChars > budget+overhead {
		t.Errorf("TotalChars = %d, exceeds budget %d", result.TotalChars, budget)
	}
}

func TestResolveNoSourcesIsValid(t *testing.T) {
	env := newTestEnv(t, &mockFetcher{}, emptyCatalog, 24000)

	result := env.comp.Resolve(context.Background(), Request{
		Prompt: "a quiet gardening simulator",
	})

	if result.ReferenceCode != "" || len(result.Sources) != 0 {
		t.Errorf("want empty result, got %d chars from %v", result.TotalChars, result.Sources)
	}
}

func TestNewValidation(t *testing.T) {
	logger := log.New(false)
	fetcher := &mockFetcher{}
	store := cache.New(time.Minute)
	catalog := knownrepo.New(logger, "known-repos.json")
	loader := templates.NewLoader(logger, "templates")

	if _, err := New(nil, fetcher, store, catalog, loader, 100, 100); err == nil {
		t.Error("New accepted nil logger")
	}
	if _, err := New(logger, nil, store, catalog, loader, 100, 100); err == nil {
		t.Error("New accepted nil fetcher")
	}
	if _, err := New(logger, fetcher, store, catalog, loader, 0, 100); err == nil {
		t.Error("New accepted zero budget")
	}
}
