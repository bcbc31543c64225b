package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// PluginRecord is one previously executed plugin query.
type PluginRecord struct {
	Plugin string
	Query  string
}

// WebRecord is one previously executed web search.
type WebRecord struct {
	Kind  string
	Query string
}

// DesktopRecord is one previously launched desktop entry.
type DesktopRecord struct {
	Path string
	Name string
}

// Store wraps the SQLite database holding launch history. Reads are served
// from memory so the controller can query lengths on every keystroke; writes
// go to both the database and the in-memory lists.
type Store struct {
	db *sql.DB

	mu      sync.RWMutex
	plugins map[string][]PluginRecord
	webs    map[string][]WebRecord
	desktop []DesktopRecord
}

// Open opens (and creates/migrates) the database at the given path, then
// loads all history into memory, newest first.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout=5000;")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous=NORMAL;")

	s := &Store{
		db:      db,
		plugins: make(map[string][]PluginRecord),
		webs:    make(map[string][]WebRecord),
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	// user_version based migrations
	var ver int
	_ = s.db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&ver)

	if ver == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS plugin_history (
  plugin TEXT NOT NULL,
  query  TEXT NOT NULL,
  ran_at INTEGER NOT NULL,
  PRIMARY KEY (plugin, query)
);
CREATE TABLE IF NOT EXISTS web_history (
  kind   TEXT NOT NULL,
  query  TEXT NOT NULL,
  ran_at INTEGER NOT NULL,
  PRIMARY KEY (kind, query)
);
CREATE TABLE IF NOT EXISTS desktop_entry_history (
  path   TEXT NOT NULL PRIMARY KEY,
  name   TEXT NOT NULL,
  ran_at INTEGER NOT NULL
);
`)
		if err == nil {
			_, err = tx.ExecContext(ctx, "PRAGMA user_version=1;")
		}
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate v1: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT plugin, query FROM plugin_history ORDER BY ran_at DESC`)
	if err != nil {
		return fmt.Errorf("load plugin history: %w", err)
	}
	for rows.Next() {
		var rec PluginRecord
		if err := rows.Scan(&rec.Plugin, &rec.Query); err != nil {
			rows.Close()
			return err
		}
		s.plugins[rec.Plugin] = append(s.plugins[rec.Plugin], rec)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT kind, query FROM web_history ORDER BY ran_at DESC`)
	if err != nil {
		return fmt.Errorf("load web history: %w", err)
	}
	for rows.Next() {
		var rec WebRecord
		if err := rows.Scan(&rec.Kind, &rec.Query); err != nil {
			rows.Close()
			return err
		}
		s.webs[rec.Kind] = append(s.webs[rec.Kind], rec)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT path, name FROM desktop_entry_history ORDER BY ran_at DESC`)
	if err != nil {
		return fmt.Errorf("load desktop entry history: %w", err)
	}
	for rows.Next() {
		var rec DesktopRecord
		if err := rows.Scan(&rec.Path, &rec.Name); err != nil {
			rows.Close()
			return err
		}
		s.desktop = append(s.desktop, rec)
	}
	rows.Close()
	return nil
}

// PluginHistory returns past queries for a plugin, newest first.
func (s *Store) PluginHistory(name string) []PluginRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plugins[name]
}

// PluginHistoryLen returns the number of stored queries for a plugin.
func (s *Store) PluginHistoryLen(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plugins[name])
}

// WebHistory returns past searches for a web shortcut, newest first.
func (s *Store) WebHistory(kind string) []WebRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.webs[kind]
}

// WebHistoryLen returns the number of stored searches for a web shortcut.
func (s *Store) WebHistoryLen(kind string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.webs[kind])
}

// DesktopEntries returns previously launched desktop entries, newest first.
func (s *Store) DesktopEntries() []DesktopRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.desktop
}

// DesktopEntriesLen returns the number of stored desktop entries.
func (s *Store) DesktopEntriesLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.desktop)
}

// PersistPlugin records a plugin query. Re-running a query moves it to the front.
func (s *Store) PersistPlugin(name, query string) error {
	ctx, cancel := writeCtx()
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO plugin_history (plugin, query, ran_at) VALUES (?, ?, ?)
ON CONFLICT(plugin, query) DO UPDATE SET ran_at = excluded.ran_at`,
		name, query, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("persist plugin history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.plugins[name]
	for i, rec := range recs {
		if rec.Query == query {
			recs = append(recs[:i], recs[i+1:]...)
			break
		}
	}
	s.plugins[name] = append([]PluginRecord{{Plugin: name, Query: query}}, recs...)
	return nil
}

// PersistWeb records a web search. Re-running a search moves it to the front.
func (s *Store) PersistWeb(kind, query string) error {
	ctx, cancel := writeCtx()
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO web_history (kind, query, ran_at) VALUES (?, ?, ?)
ON CONFLICT(kind, query) DO UPDATE SET ran_at = excluded.ran_at`,
		kind, query, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("persist web history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.webs[kind]
	for i, rec := range recs {
		if rec.Query == query {
			recs = append(recs[:i], recs[i+1:]...)
			break
		}
	}
	s.webs[kind] = append([]WebRecord{{Kind: kind, Query: query}}, recs...)
	return nil
}

// PersistDesktopEntry records a launched desktop entry, keyed by path.
func (s *Store) PersistDesktopEntry(path, name string) error {
	ctx, cancel := writeCtx()
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO desktop_entry_history (path, name, ran_at) VALUES (?, ?, ?)
ON CONFLICT(path) DO UPDATE SET name = excluded.name, ran_at = excluded.ran_at`,
		path, name, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("persist desktop entry history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.desktop {
		if rec.Path == path {
			s.desktop = append(s.desktop[:i], s.desktop[i+1:]...)
			break
		}
	}
	s.desktop = append([]DesktopRecord{{Path: path, Name: name}}, s.desktop...)
	return nil
}

func writeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
