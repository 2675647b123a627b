package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/lucifer/internal/adapters/client"
	"go.trai.ch/lucifer/internal/build"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/zerr"
)

func addServerFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("server", "s", domain.DefaultServerURL, "Address of the lucifer server")
}

func newClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	return client.New(server, build.Version)
}

func (c *CLI) newInvalidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invalidate <file>...",
		Short: "Reload files in a running server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := newClient(cmd).Invalidate(cmd.Context(), args)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	addServerFlag(cmd)
	return cmd
}

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <test-file>...",
		Short: "Run test files in a running server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bail, _ := cmd.Flags().GetBool("bail")
			grep, _ := cmd.Flags().GetString("grep")
			wait, _ := cmd.Flags().GetBool("wait")

			cl := newClient(cmd)
			queued, err := cl.StartRun(cmd.Context(), client.RunOptions{Files: args, Bail: bail, Grep: grep})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Test run %s %s\n", queued.ID, queued.Status)
			if !wait {
				return nil
			}

			rec, err := awaitRun(cmd.Context(), cl, queued.ID, domain.ClientPollInterval)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Test run %s %s\n", rec.ID, rec.State)
			if rec.State != domain.RunStatePassed {
				return zerr.With(domain.ErrRunFailed, "id", rec.ID)
			}
			return nil
		},
	}
	addServerFlag(cmd)
	cmd.Flags().BoolP("bail", "b", false, "Stop at the first failing test file")
	cmd.Flags().StringP("grep", "g", "", "Only run tests whose names match this pattern")
	cmd.Flags().Bool("wait", false, "Wait for the run to finish and fail if it did not pass")
	return cmd
}

// awaitRun polls the run record until it reaches a terminal state.
func awaitRun(ctx context.Context, cl *client.Client, id string, every time.Duration) (domain.RunRecord, error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		rec, err := cl.Run(ctx, id)
		if err != nil {
			return domain.RunRecord{}, err
		}
		if rec.State.Done() {
			return rec, nil
		}
		select {
		case <-ctx.Done():
			return domain.RunRecord{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
