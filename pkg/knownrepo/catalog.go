// Package knownrepo matches request keywords against a curated catalog of
// pre-vetted example repositories.
package knownrepo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"github.com/playforge/refkit/pkg/log"
	"github.com/playforge/refkit/pkg/ref"
)

// Entry is one curated catalog record
type Entry struct {
	Repo        string   `json:"repo"`
	Keywords    []string `json:"keywords"`
	MainFiles   []string `json:"mainFiles"`
	Description string   `json:"description"`
}

// Ref parses the entry's owner/name pair
func (e *Entry) Ref() *ref.Ref {
	return ref.ParseExplicit(e.Repo)
}

type catalogFile struct {
	Repos []Entry `json:"repos"`
}

// catalogSchema validates the shape of the catalog file before use
const catalogSchema = `{
	"type": "object",
	"required": ["repos"],
	"properties": {
		"repos": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["repo", "keywords"],
				"properties": {
					"repo": {"type": "string", "pattern": "^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$"},
					"keywords": {"type": "array", "items": {"type": "string"}},
					"mainFiles": {"type": "array", "items": {"type": "string"}},
					"description": {"type": "string"}
				}
			}
		}
	}
}`

// Catalog lazily loads and memoizes the known-repository list. A missing or
// invalid catalog file degrades to an empty catalog; it is never fatal.
type Catalog struct {
	logger *log.Logger
	path   string

	once    sync.Once
	entries []Entry
}

// New creates a catalog backed by the JSON file at path
func New(logger *log.Logger, path string) *Catalog {
	return &Catalog{logger: logger, path: path}
}

func (c *Catalog) load() {
	c.once.Do(func() {
		entries, err := loadFile(c.path)
		if err != nil {
			c.logger.Warning("Known-repo catalog unavailable: %v", err)
			return
		}
		c.entries = entries
		c.logger.Debug("Loaded %d known repositories from %s", len(entries), c.path)
	})
}

func loadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(catalogSchema))
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	var instance interface{}
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if result := schema.Validate(instance); !result.IsValid() {
		return nil, fmt.Errorf("catalog schema validation failed: %v", result.Errors)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return file.Repos, nil
}

// Match returns the first entry with a keyword contained in the lower-cased
// text, along with the keyword that matched. Catalog order and keyword order
// decide ties; there is no scoring.
func (c *Catalog) Match(text string) (*Entry, string) {
	c.load()

	lower := strings.ToLower(text)
	for i := range c.entries {
		for _, kw := range c.entries[i].Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return &c.entries[i], kw
			}
		}
	}
	return nil, ""
}

// Entries returns the loaded catalog
func (c *Catalog) Entries() []Entry {
	c.load()
	return c.entries
}
