// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// SessionFile is the on-disk form of a search session. Saving a session
// lets the user resume paging later without re-running the first pages.
type SessionFile struct {
	Session SessionState         `yaml:"session"`
	Results []types.CatalogEntry `yaml:"results"`
	Summary SessionSummary       `yaml:"summary"`
}

// SessionState stores the query and pagination cursors.
type SessionState struct {
	ID          string `yaml:"id"`
	Query       string `yaml:"query"`
	TitlePage   int    `yaml:"title_page"`
	AuthorPage  int    `yaml:"author_page"`
	CanLoadMore bool   `yaml:"can_load_more"`
}

// SessionSummary stores result statistics and a timestamp.
type SessionSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteSessionFile saves s to a YAML file at path.
func WriteSessionFile(path string, s *Session) error {
	sf := SessionFile{
		Session: SessionState{
			ID:          s.ID.String(),
			Query:       s.Query,
			TitlePage:   s.TitlePage,
			AuthorPage:  s.AuthorPage,
			CanLoadMore: s.CanLoadMore,
		},
		Results: s.Results,
		Summary: SessionSummary{
			Total:     len(s.Results),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling session file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSessionFile loads a session saved by WriteSessionFile. Duplicate
// results in a hand-edited file are dropped, keeping the first.
func ReadSessionFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	var sf SessionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}

	id, err := uuid.Parse(sf.Session.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", sf.Session.ID, err)
	}
	if sf.Session.Query == "" {
		return nil, fmt.Errorf("session file %s has no query", path)
	}
	if sf.Session.TitlePage < 1 || sf.Session.AuthorPage < 1 {
		return nil, fmt.Errorf("session file %s has invalid page cursors %d/%d",
			path, sf.Session.TitlePage, sf.Session.AuthorPage)
	}

	return &Session{
		ID:          id,
		Query:       sf.Session.Query,
		Results:     Merge(nil, sf.Results, nil),
		TitlePage:   sf.Session.TitlePage,
		AuthorPage:  sf.Session.AuthorPage,
		CanLoadMore: sf.Session.CanLoadMore,
	}, nil
}
