// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// RawRecord is one item of the catalog search response. Book records use
// isbn/author/publisherName; CDs, DVDs and games in the same API use
// jan/artistName/label instead.
type RawRecord struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ArtistName    string `json:"artistName"`
	PublisherName string `json:"publisherName"`
	Label         string `json:"label"`
	ISBN          string `json:"isbn"`
	JAN           string `json:"jan"`
	ItemPrice     int    `json:"itemPrice"`
	SalesDate     string `json:"salesDate"`
	ItemCaption   string `json:"itemCaption"`
	SmallImageURL string `json:"smallImageUrl"`
	LargeImageURL string `json:"largeImageUrl"`
	ItemURL       string `json:"itemUrl"`
	Size          string `json:"size"`
	SeriesName    string `json:"seriesName"`
	BooksGenreID  string `json:"booksGenreId"`
}

// pageCountPattern matches a number directly followed by the word for pages.
var pageCountPattern = regexp.MustCompile(`([0-9][0-9,]*)\s*ページ`)

// Normalize maps a raw record to a CatalogEntry. It returns false when the
// record has no usable title.
func Normalize(r RawRecord) (types.CatalogEntry, bool) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return types.CatalogEntry{}, false
	}

	price := r.ItemPrice
	if price < 0 {
		price = 0
	}

	return types.CatalogEntry{
		Identifier:     firstNonEmpty(r.ISBN, r.JAN),
		Title:          title,
		Author:         firstNonEmpty(r.Author, r.ArtistName),
		Publisher:      firstNonEmpty(r.PublisherName, r.Label),
		Price:          price,
		RawReleaseDate: strings.TrimSpace(r.SalesDate),
		Description:    r.ItemCaption,
		PageCount:      ExtractPageCount(r.ItemCaption),
		SmallImageURL:  strings.TrimSpace(r.SmallImageURL),
		LargeImageURL:  strings.TrimSpace(r.LargeImageURL),
		Format:         strings.TrimSpace(r.Size),
		SeriesName:     strings.TrimSpace(r.SeriesName),
		GenreCode:      strings.TrimSpace(r.BooksGenreID),
		ItemURL:        strings.TrimSpace(r.ItemURL),
	}, true
}

// ExtractPageCount returns the page count mentioned in a description such
// as "320ページの入門書", or 0 when none is found. Full-width digits are
// accepted.
func ExtractPageCount(description string) int {
	m := pageCountPattern.FindStringSubmatch(width.Fold.String(description))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
