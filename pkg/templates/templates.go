// Package templates maps a game genre to one built-in full-game template
// file used as a structural starting point for new projects.
package templates

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/playforge/refkit/pkg/log"
)

// Genres without a dedicated template alias to the closest available one
var genreFiles = map[string]string{
	"platformer": "platformer.html",
	"racing":     "racing.html",
	"puzzle":     "puzzle.html",
	"shooter":    "shooter.html",
	"arcade":     "arcade.html",
	"adventure":  "platformer.html",
	"rpg":        "platformer.html",
	"sports":     "racing.html",
	"strategy":   "puzzle.html",
	"space":      "shooter.html",
}

// Template is one loaded full-game example
type Template struct {
	Genre    string
	Filename string
	Content  string
}

// Loader reads templates from a fixed directory
type Loader struct {
	logger *log.Logger
	dir    string
}

// NewLoader creates a loader rooted at dir
func NewLoader(logger *log.Logger, dir string) *Loader {
	return &Loader{logger: logger, dir: dir}
}

// ForGenre returns the template for genre, or nil when the genre is
// unmapped or the backing file cannot be read. It never returns an error.
func (l *Loader) ForGenre(genre string) *Template {
	filename, ok := genreFiles[strings.ToLower(genre)]
	if !ok {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(l.dir, filename))
	if err != nil {
		l.logger.Warning("Template %s unavailable: %v", filename, err)
		return nil
	}

	return &Template{
		Genre:    strings.ToLower(genre),
		Filename: filename,
		Content:  string(data),
	}
}
