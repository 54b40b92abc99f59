package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"patchbay/internal/ipc"
	"patchbay/internal/levels"
)

func newLevelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show capture and playback signal levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Levels()
				if err != nil {
					return err
				}

				snapshot := resp.Levels
				if len(snapshot.Capture) == 0 && len(snapshot.Playback) == 0 {
					fmt.Fprintln(stdout, "No level data; the engine may be disconnected")
					return nil
				}

				rows := levelRows("capture", snapshot.Capture)
				rows = append(rows, levelRows("playback", snapshot.Playback)...)
				fmt.Fprintln(stdout, renderTable(
					[]string{"Side", "Channel", "Peak (dB)", "Hold (dB)"},
					rows, 1, 2, 3))
				if !snapshot.UpdatedAt.IsZero() {
					fmt.Fprintf(stdout, "Updated %s\n", snapshot.UpdatedAt.Local().Format("15:04:05.000"))
				}
				return nil
			})
		},
	}
}

func levelRows(side string, channels []levels.Channel) [][]string {
	rows := make([][]string, 0, len(channels))
	for i, channel := range channels {
		rows = append(rows, []string{
			side,
			strconv.Itoa(i),
			formatDB(channel.Peak),
			formatDB(channel.Hold),
		})
	}
	return rows
}

func formatDB(value float64) string {
	if value <= levels.Floor {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", value)
}
