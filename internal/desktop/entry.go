package desktop

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry holds the fields glint reads from a freedesktop .desktop file.
type Entry struct {
	Name      string
	Exec      string
	Icon      string
	Terminal  bool
	NoDisplay bool
}

// ParseFile parses the [Desktop Entry] group of a .desktop file. Keys outside
// that group (actions, localized variants) are ignored.
func ParseFile(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open desktop entry: %w", err)
	}
	defer f.Close()

	entry := &Entry{}
	inGroup := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inGroup = line == "[Desktop Entry]"
			continue
		}
		if !inGroup {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			entry.Name = strings.TrimSpace(value)
		case "Exec":
			entry.Exec = strings.TrimSpace(value)
		case "Icon":
			entry.Icon = strings.TrimSpace(value)
		case "Terminal":
			entry.Terminal = strings.TrimSpace(value) == "true"
		case "NoDisplay":
			entry.NoDisplay = strings.TrimSpace(value) == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read desktop entry: %w", err)
	}
	if entry.Exec == "" {
		return nil, fmt.Errorf("desktop entry %s has no Exec key", path)
	}
	return entry, nil
}

// Loader parses desktop entries with an LRU cache keyed by path. Confirming
// a history row re-reads the same file, so parses are cached.
type Loader struct {
	cache *lru.Cache[string, *Entry]
}

// NewLoader creates a loader caching up to size parsed entries.
func NewLoader(size int) (*Loader, error) {
	cache, err := lru.New[string, *Entry](size)
	if err != nil {
		return nil, err
	}
	return &Loader{cache: cache}, nil
}

// Load returns the parsed entry for path, from cache when possible.
func (l *Loader) Load(path string) (*Entry, error) {
	if entry, ok := l.cache.Get(path); ok {
		return entry, nil
	}
	entry, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	l.cache.Add(path, entry)
	return entry, nil
}
