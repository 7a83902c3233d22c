// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"github.com/google/uuid"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// Session is the accumulated state of one query: merged results and the
// page cursor of each lane. A new query text means a new Session; callers
// compare ID to drop responses that arrive for a session they abandoned.
type Session struct {
	ID    uuid.UUID
	Query string

	// Results are in merge order and never hold two entries with the
	// same identity key.
	Results []types.CatalogEntry

	// TitlePage and AuthorPage are the last fetched 1-based pages.
	TitlePage  int
	AuthorPage int

	CanLoadMore   bool
	IsLoadingMore bool
}

// Merge appends to existing the entries of title and then author whose
// identity key is not yet present, and returns the extended slice.
// Existing entries keep their positions. Because the title lane is walked
// first, an entry found by both lanes takes its title-lane position.
func Merge(existing, title, author []types.CatalogEntry) []types.CatalogEntry {
	seen := make(map[string]struct{}, len(existing)+len(title)+len(author))
	for _, e := range existing {
		seen[e.Key()] = struct{}{}
	}

	merged := existing
	for _, lane := range [][]types.CatalogEntry{title, author} {
		for _, e := range lane {
			key := e.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, e)
		}
	}
	return merged
}
