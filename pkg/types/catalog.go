// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the bookshelf catalog
// search and reconciliation engine.
package types

// CatalogEntry is a book or media record returned by the catalog after
// normalization. Entries are values: they are compared, sorted and
// filtered but never mutated once built.
type CatalogEntry struct {
	// Identifier is the ISBN, or the JAN code for non-book media. It may be empty.
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is always non-empty.
	Title string `json:"title" yaml:"title"`

	Author    string `json:"author" yaml:"author"`
	Publisher string `json:"publisher" yaml:"publisher"`

	// Price is the list price in yen.
	Price int `json:"price" yaml:"price"`

	// RawReleaseDate is the release date exactly as the catalog returned it
	// (e.g. "2012年09月07日", "2020年春頃"). See package releasedate.
	RawReleaseDate string `json:"raw_release_date" yaml:"raw_release_date"`

	Description string `json:"description" yaml:"description"`

	// PageCount is mined from Description; 0 means unknown.
	PageCount int `json:"page_count,omitempty" yaml:"page_count,omitempty"`

	SmallImageURL string `json:"small_image_url,omitempty" yaml:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty" yaml:"large_image_url,omitempty"`

	// Format is the binding or media size (e.g. "文庫", "単行本").
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
	SeriesName string `json:"series_name,omitempty" yaml:"series_name,omitempty"`
	GenreCode  string `json:"genre_code,omitempty" yaml:"genre_code,omitempty"`
	ItemURL    string `json:"item_url,omitempty" yaml:"item_url,omitempty"`
}

// Key returns the identity key used for de-duplication: the identifier when
// present, otherwise the (title, author) pair.
func (e CatalogEntry) Key() string {
	if e.Identifier != "" {
		return "id:" + e.Identifier
	}
	return "ta:" + e.Title + "\x00" + e.Author
}

// SameItem reports whether e and other denote the same catalog item.
func (e CatalogEntry) SameItem(other CatalogEntry) bool {
	return e.Key() == other.Key()
}

// ImageURLs returns the non-empty image URLs, small first.
func (e CatalogEntry) ImageURLs() []string {
	var urls []string
	if e.SmallImageURL != "" {
		urls = append(urls, e.SmallImageURL)
	}
	if e.LargeImageURL != "" {
		urls = append(urls, e.LargeImageURL)
	}
	return urls
}
