// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/inventory"
	"github.com/pdiddy/bookshelf/internal/search"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List or export the registered books",
}

// --- list subcommand ---

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered books",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openInventory()
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		formatItems(items, os.Stdout)
		return nil
	},
}

func formatItems(items []inventory.Item, w io.Writer) {
	if len(items) == 0 {
		fmt.Fprintln(w, "The inventory is empty.")
		return
	}

	fmt.Fprintf(w, "%-4s  %s  %s  %-16s  %s\n",
		"#", search.Cell("Title", 50), search.Cell("Author", 20), "Identifier", "Registered")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, it := range items {
		fmt.Fprintf(w, "%-4d  %s  %s  %-16s  %s\n",
			i+1, search.Cell(it.Title, 50), search.Cell(it.Author, 20), it.Identifier, it.RegisteredAt.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "\n%d items\n", len(items))
}

// --- export subcommand ---

var inventoryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the inventory to YAML or JSON",
	Long: `Export writes every registered book to export.yaml or export.json in
the directory that holds the inventory database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openInventory()
		if err != nil {
			return err
		}
		defer store.Close()

		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(cmd.Context())
		case "json":
			path, err = store.ExportJSON(cmd.Context())
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func init() {
	inventoryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryExportCmd)
	rootCmd.AddCommand(inventoryCmd)
}
