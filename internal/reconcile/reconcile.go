// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile decides whether catalog entries are already registered
// in the inventory.
//
// An entry with an identifier is matched by identifier alone, even if its
// title or author differ from the stored item. Only entries without an
// identifier fall back to an exact (title, author) match. The two rules are
// never combined.
package reconcile

import "github.com/pdiddy/bookshelf/pkg/types"

// Index is a read-only membership view over the inventory.
type Index interface {
	HasIdentifier(identifier string) bool
	HasTitleAuthor(title, author string) bool
}

// IsRegistered reports whether e is already present in idx.
func IsRegistered(e types.CatalogEntry, idx Index) bool {
	if idx == nil {
		return false
	}
	if e.Identifier != "" {
		return idx.HasIdentifier(e.Identifier)
	}
	return idx.HasTitleAuthor(e.Title, e.Author)
}

// FilterUnregistered returns the entries not present in idx, keeping their
// relative order. The input slice is not modified.
func FilterUnregistered(entries []types.CatalogEntry, idx Index) []types.CatalogEntry {
	out := make([]types.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if !IsRegistered(e, idx) {
			out = append(out, e)
		}
	}
	return out
}

type titleAuthor struct {
	title  string
	author string
}

// SetIndex is an in-memory Index. The zero value is empty and ready to use.
type SetIndex struct {
	identifiers map[string]struct{}
	pairs       map[titleAuthor]struct{}
}

// NewSetIndex returns an index holding entries.
func NewSetIndex(entries ...types.CatalogEntry) *SetIndex {
	s := &SetIndex{}
	for _, e := range entries {
		s.Add(e)
	}
	return s
}

// Add records e. Entries with an identifier are also recorded under their
// (title, author) pair so that identifier-less catalog records of the same
// book are recognized.
func (s *SetIndex) Add(e types.CatalogEntry) {
	if s.identifiers == nil {
		s.identifiers = make(map[string]struct{})
		s.pairs = make(map[titleAuthor]struct{})
	}
	if e.Identifier != "" {
		s.identifiers[e.Identifier] = struct{}{}
	}
	s.pairs[titleAuthor{e.Title, e.Author}] = struct{}{}
}

// HasIdentifier implements Index.
func (s *SetIndex) HasIdentifier(identifier string) bool {
	_, ok := s.identifiers[identifier]
	return ok
}

// HasTitleAuthor implements Index.
func (s *SetIndex) HasTitleAuthor(title, author string) bool {
	_, ok := s.pairs[titleAuthor{title, author}]
	return ok
}

// Len returns the number of distinct (title, author) pairs recorded.
func (s *SetIndex) Len() int {
	return len(s.pairs)
}
