package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"patchbay/internal/ipc"
	"patchbay/internal/presets"
)

func newPresetCommand(ctx *commandContext) *cobra.Command {
	presetCmd := &cobra.Command{
		Use:   "preset",
		Short: "Save and restore named engine-config snapshots",
	}

	presetCmd.AddCommand(newPresetSaveCommand(ctx))
	presetCmd.AddCommand(newPresetListCommand(ctx))
	presetCmd.AddCommand(newPresetApplyCommand(ctx))
	presetCmd.AddCommand(newPresetDeleteCommand(ctx))

	return presetCmd
}

func openPresetStore(ctx *commandContext) (*presets.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := presets.Open(cfg.PresetDBPath())
	if err != nil {
		return nil, fmt.Errorf("open preset store: %w", err)
	}
	return store, nil
}

func newPresetSaveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Save the engine's active configuration as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("preset name is required")
			}

			stdout := cmd.OutOrStdout()
			store, err := openPresetStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.GetConfig()
				if err != nil {
					return err
				}
				preset, err := store.Save(cmd.Context(), name, resp.Config)
				if err != nil {
					return fmt.Errorf("save preset: %w", err)
				}
				fmt.Fprintf(stdout, "Saved preset %q (%s)\n", preset.Name, preset.ID)
				return nil
			})
		},
	}
}

func newPresetListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			store, err := openPresetStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list presets: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(stdout, "No presets saved")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, preset := range items {
				rows = append(rows, []string{
					preset.Name,
					strconv.Itoa(len(preset.Config.Mixers)),
					strconv.Itoa(len(preset.Config.Filters)),
					strconv.Itoa(len(preset.Config.Pipeline)),
					preset.UpdatedAt.Local().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(stdout, renderTable(
				[]string{"Name", "Mixers", "Filters", "Steps", "Updated"},
				rows, 1, 2, 3))
			return nil
		},
	}
}

func newPresetApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <name>",
		Short: "Push a saved preset to the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			store, err := openPresetStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			preset, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if errors.Is(err, presets.ErrNotFound) {
				return fmt.Errorf("preset %q not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("load preset: %w", err)
			}

			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.ApplyConfig(preset.Config); err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Applied preset %q\n", preset.Name)
				return nil
			})
		},
	}
}

func newPresetDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			store, err := openPresetStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Delete(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("delete preset: %w", err)
			}
			if !removed {
				return fmt.Errorf("preset %q not found", args[0])
			}
			fmt.Fprintf(stdout, "Deleted preset %q\n", args[0])
			return nil
		},
	}
}
