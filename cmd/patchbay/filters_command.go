package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"patchbay/internal/filters"
)

func newFiltersCommand() *cobra.Command {
	filtersCmd := &cobra.Command{
		Use:   "filters",
		Short: "Inspect the supported filter types",
	}
	filtersCmd.AddCommand(newFiltersListCommand())
	filtersCmd.AddCommand(newFiltersShowCommand())
	return filtersCmd
}

func newFiltersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List filter types patchbay can validate",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := filters.Builtin()

			var rows [][]string
			for _, tag := range registry.Types() {
				handler, _ := registry.Lookup(tag)
				rows = append(rows, []string{
					tag,
					handler.DisplayName(),
					registry.Summary(handler.Default()),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Type", "Name", "Default"}, rows))
			return nil
		},
	}
}

func newFiltersShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show <type>",
		Short:       "Print the default definition for a filter type as JSON",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := filters.Builtin()
			handler, ok := registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown filter type %q (see `patchbay filters list`)", args[0])
			}

			data, err := json.MarshalIndent(handler.Default(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode filter definition: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
