// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/internal/reconcile"
	"github.com/pdiddy/bookshelf/pkg/types"
)

func TestSessionFile_ResumePaging(t *testing.T) {
	f := newFake()
	f.title[1] = page("t1", catalog.PageSize)
	f.author[1] = page("a1", 2)
	f.title[2] = page("t2", 2)
	c := NewCoordinator(f, nil)

	s, err := c.Search(context.Background(), "Python")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "python.yaml")
	require.NoError(t, WriteSessionFile(path, s))

	loaded, err := ReadSessionFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, s.Query, loaded.Query)
	assert.Equal(t, s.Results, loaded.Results)
	assert.True(t, loaded.CanLoadMore)

	c.LoadMore(context.Background(), loaded)
	assert.Equal(t, 2, loaded.TitlePage)
	assert.Len(t, loaded.Results, catalog.PageSize+2+2)
}

func writeRaw(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadSessionFile_DropsDuplicates(t *testing.T) {
	path := writeRaw(t, `session:
  id: `+uuid.NewString()+`
  query: go
  title_page: 2
  author_page: 2
  can_load_more: false
results:
  - identifier: "1"
    title: A
  - identifier: "1"
    title: A again
  - title: B
`)
	s, err := ReadSessionFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(s.Results))
}

func TestReadSessionFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "session: [", "parsing session file"},
		{"bad id", "session:\n  id: nope\n  query: go\n  title_page: 1\n  author_page: 1\n", "invalid session id"},
		{"no query", "session:\n  id: " + uuid.NewString() + "\n  title_page: 1\n  author_page: 1\n", "no query"},
		{"zero cursor", "session:\n  id: " + uuid.NewString() + "\n  query: go\n  title_page: 0\n  author_page: 1\n", "invalid page cursors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSessionFile(writeRaw(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := ReadSessionFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFormatTable(t *testing.T) {
	idx := reconcile.NewSetIndex(types.CatalogEntry{Identifier: "1", Title: "A"})
	rows := Rows([]types.CatalogEntry{
		{Identifier: "1", Title: "みんなのPython", Author: "柴田 淳", RawReleaseDate: "2016年12月", PageCount: 480},
		{Identifier: "2", Title: "Go", Author: "Pike"},
	}, idx)

	require.True(t, rows[0].Registered)
	require.False(t, rows[1].Registered)

	var buf bytes.Buffer
	FormatTable(rows, &buf)
	out := buf.String()
	assert.Contains(t, out, "みんなのPython")
	assert.Contains(t, out, "480")
	assert.Contains(t, out, "2 results (1 already registered, marked *)")

	buf.Reset()
	FormatTable(nil, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(Rows([]types.CatalogEntry{{Identifier: "1", Title: "A"}}, nil), &buf))
	assert.True(t, strings.Contains(buf.String(), `"registered": false`))
	assert.True(t, strings.Contains(buf.String(), `"identifier": "1"`))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "ab  ", Cell("ab", 4))
	assert.Equal(t, 10, runewidth.StringWidth(Cell("あいうえおかきくけこさしすせそ", 10)))
}
