// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/bookshelf/internal/reconcile"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// Row is one rendered result with its reconciliation state.
type Row struct {
	types.CatalogEntry `yaml:",inline"`
	Registered         bool `json:"registered" yaml:"registered"`
}

// Rows pairs each entry with whether idx already holds it.
func Rows(entries []types.CatalogEntry, idx reconcile.Index) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{CatalogEntry: e, Registered: reconcile.IsRegistered(e, idx)}
	}
	return rows
}

// FormatTable writes rows as a human-readable table to w. Column widths
// are measured in terminal cells so CJK titles line up.
func FormatTable(rows []Row, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-3s  %s  %s  %-14s  %-5s  %s\n",
		"#", "Reg", Cell("Title", 50), Cell("Author", 20), "Released", "Pages", "Identifier")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range rows {
		reg := ""
		if r.Registered {
			reg = "*"
		}
		pages := ""
		if r.PageCount > 0 {
			pages = strconv.Itoa(r.PageCount)
		}
		fmt.Fprintf(w, "%-4d  %-3s  %s  %s  %s  %-5s  %s\n",
			i+1, reg, Cell(r.Title, 50), Cell(r.Author, 20), Cell(r.RawReleaseDate, 14), pages, r.Identifier)
	}

	registered := 0
	for _, r := range rows {
		if r.Registered {
			registered++
		}
	}
	fmt.Fprintf(w, "\n%d results", len(rows))
	if registered > 0 {
		fmt.Fprintf(w, " (%d already registered, marked *)", registered)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes rows as indented JSON to w.
func FormatJSON(rows []Row, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Cell truncates s to width terminal cells and pads it to exactly width.
func Cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}
