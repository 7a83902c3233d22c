// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inventory persists registered items in a local SQLite database.
// The search engine only sees it through reconcile.Index snapshots; the
// CLI uses it to store a confirmed selection.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/bookshelf/internal/reconcile"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// DefaultPath is used when InventoryConfig.Path is empty.
const DefaultPath = "data/bookshelf.db"

// ErrAlreadyRegistered is returned by Add for an entry that reconciles to
// an existing item.
var ErrAlreadyRegistered = errors.New("item already registered")

// Item is a registered catalog entry.
type Item struct {
	types.CatalogEntry `yaml:",inline"`
	RegisteredAt       time.Time `json:"registered_at" yaml:"registered_at"`
}

// Store manages the inventory SQLite database.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates the inventory database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.InventoryConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating inventory directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger.Named("inventory")}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			identifier TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			publisher TEXT NOT NULL DEFAULT '',
			price INTEGER NOT NULL DEFAULT 0,
			release_date TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			page_count INTEGER NOT NULL DEFAULT 0,
			small_image_url TEXT NOT NULL DEFAULT '',
			large_image_url TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL DEFAULT '',
			series_name TEXT NOT NULL DEFAULT '',
			genre_code TEXT NOT NULL DEFAULT '',
			item_url TEXT NOT NULL DEFAULT '',
			registered_at TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_items_identifier ON items(identifier) WHERE identifier <> ''`,
		`CREATE INDEX IF NOT EXISTS idx_items_title_author ON items(title, author)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Exists reports whether e reconciles to a registered item: by identifier
// when e has one, otherwise by exact title and author.
func (s *Store) Exists(ctx context.Context, e types.CatalogEntry) (bool, error) {
	var n int
	var err error
	if e.Identifier != "" {
		err = s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM items WHERE identifier = ?`, e.Identifier).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM items WHERE title = ? AND author = ?`, e.Title, e.Author).Scan(&n)
	}
	if err != nil {
		return false, fmt.Errorf("checking registration: %w", err)
	}
	return n > 0, nil
}

// Add registers e. It returns ErrAlreadyRegistered when e is already present.
func (s *Store) Add(ctx context.Context, e types.CatalogEntry) (Item, error) {
	if e.Title == "" {
		return Item{}, fmt.Errorf("cannot register an item without a title")
	}
	exists, err := s.Exists(ctx, e)
	if err != nil {
		return Item{}, err
	}
	if exists {
		return Item{}, fmt.Errorf("%q: %w", e.Title, ErrAlreadyRegistered)
	}

	item := Item{CatalogEntry: e, RegisteredAt: time.Now().UTC()}
	_, err = s.db.ExecContext(ctx, `INSERT INTO items (
			identifier, title, author, publisher, price, release_date, description,
			page_count, small_image_url, large_image_url, format, series_name,
			genre_code, item_url, registered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Identifier, e.Title, e.Author, e.Publisher, e.Price, e.RawReleaseDate, e.Description,
		e.PageCount, e.SmallImageURL, e.LargeImageURL, e.Format, e.SeriesName,
		e.GenreCode, e.ItemURL, item.RegisteredAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Item{}, fmt.Errorf("inserting item: %w", err)
	}

	s.logger.Info("registered item",
		zap.String("identifier", e.Identifier),
		zap.String("title", e.Title),
	)
	return item, nil
}

// List returns all registered items in registration order.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
			identifier, title, author, publisher, price, release_date, description,
			page_count, small_image_url, large_image_url, format, series_name,
			genre_code, item_url, registered_at
		FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var registeredAt string
		e := &it.CatalogEntry
		if err := rows.Scan(
			&e.Identifier, &e.Title, &e.Author, &e.Publisher, &e.Price, &e.RawReleaseDate, &e.Description,
			&e.PageCount, &e.SmallImageURL, &e.LargeImageURL, &e.Format, &e.SeriesName,
			&e.GenreCode, &e.ItemURL, &registeredAt,
		); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, registeredAt); err == nil {
			it.RegisteredAt = t
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Index returns an in-memory snapshot of the registered identifiers and
// (title, author) pairs for reconciling a batch of search results.
func (s *Store) Index(ctx context.Context) (*reconcile.SetIndex, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identifier, title, author FROM items`)
	if err != nil {
		return nil, fmt.Errorf("loading inventory index: %w", err)
	}
	defer rows.Close()

	idx := reconcile.NewSetIndex()
	for rows.Next() {
		var e types.CatalogEntry
		if err := rows.Scan(&e.Identifier, &e.Title, &e.Author); err != nil {
			return nil, fmt.Errorf("scanning inventory index: %w", err)
		}
		idx.Add(e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading inventory index: %w", err)
	}
	return idx, nil
}
