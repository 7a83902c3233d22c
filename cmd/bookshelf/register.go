// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/internal/search"
	"github.com/pdiddy/bookshelf/pkg/types"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a book in the inventory by hand",
	Long: `Register adds a book that the catalog does not know, or one you want
to record with your own details. The book is refused when the inventory
already holds the same identifier or the same title and author.`,
	RunE: runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	entry, err := entryFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openInventory()
	if err != nil {
		return err
	}
	defer store.Close()

	return registerEntry(cmd, store, entry)
}

// entryFromFlags builds a catalog entry from the register flags.
func entryFromFlags(cmd *cobra.Command) (types.CatalogEntry, error) {
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		return types.CatalogEntry{}, fmt.Errorf("--title is required")
	}
	author, _ := cmd.Flags().GetString("author")
	identifier, _ := cmd.Flags().GetString("identifier")
	publisher, _ := cmd.Flags().GetString("publisher")
	price, _ := cmd.Flags().GetInt("price")
	released, _ := cmd.Flags().GetString("released")
	description, _ := cmd.Flags().GetString("description")
	pageCount, _ := cmd.Flags().GetInt("pages")
	format, _ := cmd.Flags().GetString("format")
	series, _ := cmd.Flags().GetString("series")

	if price < 0 {
		return types.CatalogEntry{}, fmt.Errorf("--price must not be negative")
	}
	if pageCount <= 0 {
		pageCount = catalog.ExtractPageCount(description)
	}

	return types.CatalogEntry{
		Identifier:     search.CleanIdentifier(identifier),
		Title:          title,
		Author:         author,
		Publisher:      publisher,
		Price:          price,
		RawReleaseDate: released,
		Description:    description,
		PageCount:      pageCount,
		Format:         format,
		SeriesName:     series,
	}, nil
}

func init() {
	registerCmd.Flags().String("title", "", "book title (required)")
	registerCmd.Flags().String("author", "", "author name")
	registerCmd.Flags().String("identifier", "", "ISBN or JAN code")
	registerCmd.Flags().String("publisher", "", "publisher name")
	registerCmd.Flags().Int("price", 0, "list price in yen")
	registerCmd.Flags().String("released", "", "release date as printed, e.g. 2021年03月05日")
	registerCmd.Flags().String("description", "", "free-form description")
	registerCmd.Flags().Int("pages", 0, "page count (read from the description when omitted)")
	registerCmd.Flags().String("format", "", "binding or format, e.g. 文庫")
	registerCmd.Flags().String("series", "", "series name")

	rootCmd.AddCommand(registerCmd)
}
