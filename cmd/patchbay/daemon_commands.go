package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"patchbay/internal/daemon"
	"patchbay/internal/ipc"
	"patchbay/internal/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the patchbay daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			d, err := daemon.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			ipcServer, err := ipc.NewServer(signalCtx, ctx.socketPath(), d, logger)
			if err != nil {
				return fmt.Errorf("start IPC server: %w", err)
			}
			defer ipcServer.Close()
			ipcServer.Serve()

			if err := d.Start(signalCtx); err != nil {
				return fmt.Errorf("start daemon: %w", err)
			}

			<-signalCtx.Done()
			logger.Info("patchbay daemon shutting down")
			return nil
		},
	}
}

func newStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the patchbay daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			// Already running?
			if client, err := ipc.Dial(ctx.socketPath()); err == nil {
				client.Close()
				fmt.Fprintln(stdout, "Daemon already running")
				return nil
			}

			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			launch := exec.Command(exe)
			launch.Stdout = nil
			launch.Stderr = nil
			launch.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
			if err := launch.Start(); err != nil {
				return fmt.Errorf("launch %s: %w", exe, err)
			}
			if err := launch.Process.Release(); err != nil {
				return fmt.Errorf("detach daemon process: %w", err)
			}

			fmt.Fprintln(stdout, "Daemon not running, launching...")
			deadline := time.Now().Add(10 * time.Second)
			for time.Now().Before(deadline) {
				if client, err := ipc.Dial(ctx.socketPath()); err == nil {
					client.Close()
					fmt.Fprintln(stdout, "Daemon started")
					return nil
				}
				time.Sleep(200 * time.Millisecond)
			}
			return errors.New("daemon did not come up within 10s; check the log file")
		},
	}
}

// daemonExecutable locates patchbayd next to the CLI binary, falling back to
// PATH lookup.
func daemonExecutable() (string, error) {
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), "patchbayd")
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			return sibling, nil
		}
	}
	path, err := exec.LookPath("patchbayd")
	if err != nil {
		return "", fmt.Errorf("locate patchbayd: %w", err)
	}
	return path, nil
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the patchbay daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				if resp.Stopped {
					fmt.Fprintln(stdout, "Daemon stopped")
				} else {
					fmt.Fprintln(stdout, "Stop request sent")
				}
				return nil
			})
		},
	}
}

func newReloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the engine to re-apply its configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Reload()
				if err != nil {
					return err
				}
				if resp.Reloaded {
					fmt.Fprintln(stdout, "Engine reloaded")
				}
				return nil
			})
		},
	}
}
