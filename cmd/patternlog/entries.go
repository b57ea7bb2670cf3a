package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Print the journal newest first",
	Long: `Walk the journal page by page with the engine's entry loader and print
each page as JSON until --max entries are shown or nothing is left.`,
	RunE: runEntries,
}

var maxEntries int

func init() {
	entriesCmd.Flags().IntVarP(&maxEntries, "max", "n", 50, "Maximum number of entries to print (0 for all)")
}

func runEntries(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	loader := a.engine.Loader()
	loader.Reset()

	printed := 0
	for loader.HasMore() && (maxEntries == 0 || printed < maxEntries) {
		page, err := loader.LoadNext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
		if maxEntries > 0 && printed+len(page) > maxEntries {
			page = page[:maxEntries-printed]
		}
		if len(page) == 0 {
			break
		}
		if err := printJSON(cmd.OutOrStdout(), page); err != nil {
			return err
		}
		printed += len(page)
	}
	return nil
}
