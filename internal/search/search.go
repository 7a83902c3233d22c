// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs a query through two catalog lanes (title-scoped and
// author-scoped) in parallel, merges the lanes into one de-duplicated
// result list, and pages through further results on demand.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/width"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// ErrEmptyQuery is returned by Search when the query text is blank.
// Callers render it as an empty result, not as a failure.
var ErrEmptyQuery = errors.New("query is empty")

// ErrNoMatch is returned by callers of SearchByIdentifier when the code
// matched nothing, so that the user can be offered manual registration
// instead of a retry.
var ErrNoMatch = errors.New("no catalog entry matches the identifier")

// Catalog is the set of catalog queries the coordinator needs.
// *catalog.Client implements it.
type Catalog interface {
	SearchByTitle(ctx context.Context, text string, page int) ([]types.CatalogEntry, error)
	SearchByAuthor(ctx context.Context, text string, page int) ([]types.CatalogEntry, error)
	SearchByIdentifier(ctx context.Context, code string) ([]types.CatalogEntry, error)
}

// Coordinator orchestrates the title and author lanes. It keeps no state
// between calls; all pagination state lives in the Session.
type Coordinator struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewCoordinator returns a coordinator querying cat. A nil logger discards
// log output.
func NewCoordinator(cat Catalog, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{catalog: cat, logger: logger.Named("search")}
}

// Search starts a new session for text and fills it with the first page
// of both lanes. If either lane fails, Search fails with that lane's
// error and no session is returned.
func (c *Coordinator) Search(ctx context.Context, text string) (*Session, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	title, author, err := c.fetchPages(ctx, text, 1, 1)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:          uuid.New(),
		Query:       text,
		Results:     Merge(nil, title, author),
		TitlePage:   1,
		AuthorPage:  1,
		CanLoadMore: hasMore(title, author),
	}
	c.logger.Debug("search",
		zap.String("session", s.ID.String()),
		zap.String("query", text),
		zap.Int("title_hits", len(title)),
		zap.Int("author_hits", len(author)),
		zap.Int("merged", len(s.Results)),
	)
	return s, nil
}

// LoadMore fetches the next page of both lanes and appends the entries not
// already in s. It mutates and returns s.
//
// A lane failure does not surface as an error: already accumulated results
// and cursors are left untouched and CanLoadMore becomes false. LoadMore
// does nothing when CanLoadMore is false or another LoadMore is marked in
// flight. Callers must not run two LoadMore calls on one session
// concurrently; IsLoadingMore is a signal for them, not a lock.
func (c *Coordinator) LoadMore(ctx context.Context, s *Session) *Session {
	if s == nil || !s.CanLoadMore || s.IsLoadingMore {
		return s
	}
	s.IsLoadingMore = true
	defer func() { s.IsLoadingMore = false }()

	titlePage, authorPage := s.TitlePage+1, s.AuthorPage+1
	title, author, err := c.fetchPages(ctx, s.Query, titlePage, authorPage)
	if err != nil {
		c.logger.Warn("load more failed, pagination stopped",
			zap.String("session", s.ID.String()),
			zap.Int("title_page", titlePage),
			zap.Int("author_page", authorPage),
			zap.Error(err),
		)
		s.CanLoadMore = false
		return s
	}

	before := len(s.Results)
	s.Results = Merge(s.Results, title, author)
	s.TitlePage, s.AuthorPage = titlePage, authorPage
	s.CanLoadMore = hasMore(title, author)

	c.logger.Debug("load more",
		zap.String("session", s.ID.String()),
		zap.Int("title_page", titlePage),
		zap.Int("added", len(s.Results)-before),
		zap.Bool("can_load_more", s.CanLoadMore),
	)
	return s
}

// SearchByIdentifier looks up an ISBN or JAN code. Hyphens and spaces are
// removed first; a code that is empty afterwards returns no entries
// without a network call. An empty result is not an error here; callers
// translate it into ErrNoMatch.
func (c *Coordinator) SearchByIdentifier(ctx context.Context, code string) ([]types.CatalogEntry, error) {
	code = CleanIdentifier(code)
	if code == "" {
		return nil, nil
	}
	entries, err := c.catalog.SearchByIdentifier(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("identifier search %s: %w", code, err)
	}
	return entries, nil
}

// CleanIdentifier strips formatting characters (hyphens, dashes and
// whitespace, including full-width forms) from an ISBN or JAN code.
func CleanIdentifier(code string) string {
	code = width.Fold.String(code)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Dash, r) {
			return -1
		}
		return r
	}, code)
}

// fetchPages runs both lanes concurrently and waits for both. The first
// lane error cancels the other and is returned.
func (c *Coordinator) fetchPages(ctx context.Context, text string, titlePage, authorPage int) (title, author []types.CatalogEntry, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		title, err = c.catalog.SearchByTitle(gctx, text, titlePage)
		if err != nil {
			return fmt.Errorf("title search page %d: %w", titlePage, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		author, err = c.catalog.SearchByAuthor(gctx, text, authorPage)
		if err != nil {
			return fmt.Errorf("author search page %d: %w", authorPage, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return title, author, nil
}

// hasMore keeps paging while either lane returned a full page.
// TODO: skip a lane once it has returned a short page instead of
// re-querying it on every LoadMore.
func hasMore(title, author []types.CatalogEntry) bool {
	return len(title) >= catalog.PageSize || len(author) >= catalog.PageSize
}
