package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.klb.dev/clipstash/internal/control"
	"go.klb.dev/clipstash/internal/ipc"
	"go.klb.dev/clipstash/internal/ui"
)

var errNotRunning = errors.New("clipstash is not running")

// dialIPC returns a client for the control socket at path. No auth needed:
// the socket is local and owner-restricted by the OS.
func dialIPC(path string) (*grpc.ClientConn, error) {
	return grpc.NewClient(
		"passthrough:///clipstash",
		grpc.WithContextDialer(ipc.Dialer(path)),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
}

// withClient runs fn against the running instance with a short deadline.
func withClient(path string, fn func(context.Context, *control.Client) error) error {
	if !ipc.IsRunning(path) {
		return fmt.Errorf("%w (no socket at %s)", errNotRunning, path)
	}
	conn, err := dialIPC(path)
	if err != nil {
		return fmt.Errorf("dial %s: %w", path, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return fn(ctx, control.NewClient(conn))
}

// newControlCmds returns the commands that drive a running instance.
func newControlCmds() []*cobra.Command {
	simple := func(use, short string, call func(*control.Client, context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return withClient(ipc.SocketPath(), func(ctx context.Context, c *control.Client) error {
					return call(c, ctx)
				})
			},
		}
	}
	indexed := func(use, short string, call func(*control.Client, context.Context, int) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " INDEX",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				i, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("index %q: %w", args[0], err)
				}
				return withClient(ipc.SocketPath(), func(ctx context.Context, c *control.Client) error {
					return call(c, ctx, i)
				})
			},
		}
	}

	return []*cobra.Command{
		simple("show", "Show the running instance's window", (*control.Client).Show),
		simple("quit", "Stop the running instance", (*control.Client).Quit),
		simple("clear", "Delete every history entry", (*control.Client).Clear),
		newListCmd(),
		indexed("copy", "Copy a history entry back to the clipboard", (*control.Client).Copy),
		indexed("remove", "Delete one history entry", (*control.Client).Remove),
		simple("export", "Print the history document as JSON", func(c *control.Client, ctx context.Context) error {
			data, _, err := c.Export(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, string(data))
			return err
		}),
	}
}

func newListCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the history, oldest first, with indexes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withClient(ipc.SocketPath(), func(ctx context.Context, c *control.Client) error {
				items, err := c.List(ctx)
				if err != nil {
					return err
				}
				for i, it := range items {
					text := it
					if !full {
						text = strings.ReplaceAll(ui.DisplayText(it, true, ui.TrimLength), "\n", " ")
					}
					fmt.Printf("%4d  %s\n", i, text)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print entries untrimmed")
	return cmd
}
