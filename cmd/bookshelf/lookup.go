// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/inventory"
	"github.com/pdiddy/bookshelf/internal/reconcile"
	"github.com/pdiddy/bookshelf/internal/search"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// lookupKind is the outcome of an identifier lookup.
type lookupKind int

const (
	lookupNoMatch lookupKind = iota
	lookupAccept
	lookupRegistered
	lookupChoose
)

// lookupResult carries the entry to act on when the outcome is a single book.
type lookupResult struct {
	Kind  lookupKind
	Entry types.CatalogEntry
}

// classifyLookup decides what to do with the entries returned for an
// identifier. A single unregistered book is accepted outright; several
// candidates are listed for the user to pick from.
func classifyLookup(entries []types.CatalogEntry, idx reconcile.Index) lookupResult {
	switch len(entries) {
	case 0:
		return lookupResult{Kind: lookupNoMatch}
	case 1:
		if reconcile.IsRegistered(entries[0], idx) {
			return lookupResult{Kind: lookupRegistered, Entry: entries[0]}
		}
		return lookupResult{Kind: lookupAccept, Entry: entries[0]}
	default:
		return lookupResult{Kind: lookupChoose}
	}
}

var lookupCmd = &cobra.Command{
	Use:   "lookup CODE",
	Short: "Find a book by ISBN or JAN code",
	Long: `Lookup searches the catalog for an ISBN-10, ISBN-13 or JAN code. Spaces
and hyphens in the code are ignored. A single match that is not yet in
the inventory can be registered directly with --register.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	doRegister, _ := cmd.Flags().GetBool("register")
	code := search.CleanIdentifier(args[0])
	if code == "" {
		return fmt.Errorf("identifier required")
	}

	entries, err := newCoordinator().SearchByIdentifier(ctx, code)
	if err != nil {
		return catalogError(err)
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

	res := classifyLookup(entries, idx)
	switch res.Kind {
	case lookupNoMatch:
		fmt.Printf("No catalog entry for %s.\n", code)
		fmt.Printf("Register it by hand with: bookshelf register --identifier %s --title TITLE\n", code)
		return fmt.Errorf("%s: %w", code, search.ErrNoMatch)

	case lookupRegistered:
		search.FormatTable(search.Rows(entries, idx), os.Stdout)
		fmt.Println("Already registered.")
		return nil

	case lookupAccept:
		search.FormatTable(search.Rows(entries, idx), os.Stdout)
		if !doRegister {
			return nil
		}
		return registerEntry(cmd, store, res.Entry)

	default:
		search.FormatTable(search.Rows(entries, idx), os.Stdout)
		if doRegister {
			fmt.Println("Several books match; register the right one with bookshelf register.")
		}
		return nil
	}
}

// registerEntry adds e to store and reports the outcome.
func registerEntry(cmd *cobra.Command, store *inventory.Store, e types.CatalogEntry) error {
	item, err := store.Add(cmd.Context(), e)
	if errors.Is(err, inventory.ErrAlreadyRegistered) {
		fmt.Printf("%q is already registered.\n", e.Title)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Registered %q (%s)\n", item.Title, item.RegisteredAt.Format("2006-01-02"))
	return nil
}

func init() {
	lookupCmd.Flags().Bool("register", false, "register the book when exactly one new match is found")

	rootCmd.AddCommand(lookupCmd)
}
