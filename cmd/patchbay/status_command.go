package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"patchbay/internal/ipc"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and engine status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}

				daemonKind := statusError
				if status.Running {
					daemonKind = statusOK
				}
				fmt.Fprintln(stdout, statusLine("Daemon", daemonKind,
					fmt.Sprintf("pid %d", status.PID), colorize))

				engineKind := statusWarn
				engineDetail := fmt.Sprintf("%s unreachable", status.EngineAddress)
				if status.EngineConnected {
					engineKind = statusOK
					engineDetail = status.EngineAddress
					if status.EngineVersion != "" {
						engineDetail += " (v" + status.EngineVersion + ")"
					}
				}
				fmt.Fprintln(stdout, statusLine("Engine", engineKind, engineDetail, colorize))

				if status.EngineState != "" {
					fmt.Fprintln(stdout, statusLine("State", statusInfo, status.EngineState, colorize))
				}
				if !status.ConnectedSince.IsZero() {
					fmt.Fprintln(stdout, statusLine("Connected", statusInfo,
						status.ConnectedSince.Local().Format(time.RFC3339), colorize))
				}
				if status.LastError != "" {
					fmt.Fprintln(stdout, statusLine("Last error", statusWarn, status.LastError, colorize))
				}
				fmt.Fprintln(stdout, statusLine("Log file", statusInfo, status.LogPath, colorize))
				return nil
			})
		},
	}
}

func statusLine(label string, kind statusKind, detail string, colorize bool) string {
	text := fmt.Sprintf("  %-12s [%s]", label+":", statusKindLabel(kind))
	if detail != "" {
		text += " " + detail
	}
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + text + ansiReset
		}
	}
	return text
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ""
	}
}
