// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/bookshelf/internal/releasedate"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// Direction is the release-date sort direction.
type Direction int

const (
	NewestFirst Direction = iota
	OldestFirst
)

func (d Direction) String() string {
	if d == OldestFirst {
		return "oldest"
	}
	return "newest"
}

// ParseDirection accepts "newest" or "oldest" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest":
		return NewestFirst, nil
	case "oldest":
		return OldestFirst, nil
	}
	return NewestFirst, fmt.Errorf("unknown sort order %q: use newest or oldest", s)
}

type datedEntry struct {
	entry types.CatalogEntry
	date  time.Time
	ok    bool
}

// Order returns entries sorted by release date in the given direction.
// Entries whose date cannot be parsed always come after dated entries,
// whatever the direction, and keep their input order among themselves.
// The input slice is not modified.
func Order(entries []types.CatalogEntry, dir Direction) []types.CatalogEntry {
	items := make([]datedEntry, len(entries))
	for i, e := range entries {
		t, ok := releasedate.Parse(e.RawReleaseDate)
		items[i] = datedEntry{entry: e, date: t, ok: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.ok && b.ok:
			if dir == OldestFirst {
				return a.date.Before(b.date)
			}
			return a.date.After(b.date)
		case a.ok != b.ok:
			return a.ok
		default:
			return false
		}
	})

	out := make([]types.CatalogEntry, len(items))
	for i, it := range items {
		out[i] = it.entry
	}
	return out
}
