package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"patchbay/internal/ipc"
	"patchbay/internal/routing"
)

func newRoutingCommand(ctx *commandContext) *cobra.Command {
	routingCmd := &cobra.Command{
		Use:   "routing",
		Short: "Routing mixer operations",
	}
	routingCmd.AddCommand(newRoutingShowCommand(ctx))
	return routingCmd
}

func newRoutingShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the routing mixer connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.GetConfig()
				if err != nil {
					return err
				}

				mixer, ok := resp.Config.Mixers[routing.MixerName]
				if !ok {
					fmt.Fprintln(stdout, "No routing mixer in the engine configuration")
					return nil
				}

				fmt.Fprintf(stdout, "Routing mixer: %d in, %d out\n",
					mixer.Channels.In, mixer.Channels.Out)
				if !routing.HasRoutingStep(resp.Config) {
					fmt.Fprintln(stdout, "Note: the pipeline has no routing step; connections are inactive")
				}

				var rows [][]string
				for _, mapping := range mixer.Mapping {
					for _, source := range mapping.Sources {
						rows = append(rows, []string{
							strconv.Itoa(source.Channel),
							strconv.Itoa(mapping.Dest),
							fmt.Sprintf("%.2f", source.Gain),
							yesNo(source.Inverted),
							yesNo(source.Mute),
						})
					}
				}
				if len(rows) == 0 {
					fmt.Fprintln(stdout, "No connections")
					return nil
				}

				fmt.Fprintln(stdout, renderTable(
					[]string{"In", "Out", "Gain (dB)", "Inverted", "Mute"},
					rows, 0, 1, 2))
				return nil
			})
		},
	}
}
