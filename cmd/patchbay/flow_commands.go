package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"patchbay/internal/config"
	"patchbay/internal/filters"
	"patchbay/internal/flow"
	"patchbay/internal/ipc"
)

func newFlowCommand(ctx *commandContext) *cobra.Command {
	flowCmd := &cobra.Command{
		Use:   "flow",
		Short: "Signal-flow model operations",
	}
	flowCmd.AddCommand(newFlowApplyCommand(ctx))
	return flowCmd
}

func newFlowApplyCommand(ctx *commandContext) *cobra.Command {
	var activate bool

	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Synthesize a signal-flow model and push it to the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			model, err := readFlowModel(args[0])
			if err != nil {
				return err
			}
			if err := validateModelFilters(model); err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ApplyFlow(model, activate)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Flow applied (representable: %s)\n", yesNo(resp.Representable))
				for _, warning := range resp.Warnings {
					fmt.Fprintf(stdout, "  warning %s: %s\n", warning.Code, warning.Detail)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&activate, "activate", false, "Insert the routing mixer step if the engine pipeline lacks one")
	return cmd
}

func readFlowModel(path string) (flow.Model, error) {
	expanded, err := config.ExpandPath(strings.TrimSpace(path))
	if err != nil {
		return flow.Model{}, fmt.Errorf("resolve model path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return flow.Model{}, fmt.Errorf("read flow model: %w", err)
	}
	var model flow.Model
	if err := json.Unmarshal(data, &model); err != nil {
		return flow.Model{}, fmt.Errorf("parse flow model %q: %w", expanded, err)
	}
	return model, nil
}

// validateModelFilters checks every filter definition in the model against
// the builtin handlers before anything reaches the engine. Unknown filter
// types pass through untouched.
func validateModelFilters(model flow.Model) error {
	registry := filters.Builtin()
	check := func(nodes []flow.ChannelNode) error {
		for _, node := range nodes {
			for _, instance := range node.Processing {
				if err := registry.Validate(instance.Filter); err != nil {
					return fmt.Errorf("filter %q: %w", instance.Name, err)
				}
			}
		}
		return nil
	}
	if err := check(model.Inputs); err != nil {
		return err
	}
	return check(model.Outputs)
}
