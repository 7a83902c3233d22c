// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/reconcile"
	"github.com/pdiddy/bookshelf/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search the catalog by title and author",
	Long: `Search queries the catalog for the text as a title and as an author at
the same time and merges both result lists. Books that match both ways
appear once. Books already in your inventory are marked with *.

Use --pages to fetch more than one page, and --save with --resume to
continue paging a search later.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pages, _ := cmd.Flags().GetInt("pages")
	unregistered, _ := cmd.Flags().GetBool("unregistered")
	orderFlag, _ := cmd.Flags().GetString("order")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")
	resumePath, _ := cmd.Flags().GetString("resume")

	if pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	coord := newCoordinator()

	var session *search.Session
	remaining := pages
	if resumePath != "" {
		s, err := search.ReadSessionFile(resumePath)
		if err != nil {
			return err
		}
		session = s
	} else {
		s, err := coord.Search(ctx, strings.Join(args, " "))
		if errors.Is(err, search.ErrEmptyQuery) {
			fmt.Println("No results found.")
			return nil
		}
		if err != nil {
			return catalogError(err)
		}
		session = s
		remaining--
	}

	for ; remaining > 0 && session.CanLoadMore; remaining-- {
		coord.LoadMore(ctx, session)
	}

	store, err := openInventory()
	if err != nil {
		return err
	}
	defer store.Close()

	idx, err := store.Index(ctx)
	if err != nil {
		return err
	}

	entries := session.Results
	if unregistered {
		entries = reconcile.FilterUnregistered(entries, idx)
	}
	if orderFlag != "" && orderFlag != "relevance" {
		dir, err := search.ParseDirection(orderFlag)
		if err != nil {
			return err
		}
		entries = search.Order(entries, dir)
	}

	rows := search.Rows(entries, idx)
	if jsonOutput {
		if err := search.FormatJSON(rows, os.Stdout); err != nil {
			return err
		}
	} else {
		search.FormatTable(rows, os.Stdout)
	}

	if savePath != "" {
		if err := search.WriteSessionFile(savePath, session); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Session saved to %s\n", savePath)
	}
	if session.CanLoadMore && !jsonOutput {
		hint := "--save FILE"
		if savePath != "" {
			hint = "--resume " + savePath
		}
		fmt.Fprintf(os.Stderr, "More results are available: rerun with %s to keep paging.\n", hint)
	}
	return nil
}

func init() {
	searchCmd.Flags().Int("pages", 1, "number of result pages to fetch in this run")
	searchCmd.Flags().Bool("unregistered", false, "hide books already in the inventory")
	searchCmd.Flags().String("order", "relevance", "result order: relevance, newest, oldest")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "write the session to a YAML file for --resume")
	searchCmd.Flags().String("resume", "", "continue a session saved with --save")

	rootCmd.AddCommand(searchCmd)
}
