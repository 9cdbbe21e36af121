package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	source "github.com/goliatone/go-graphview/internal/fetch"
)

func (a *app) snapshotCommand() *cobra.Command {
	var (
		out   string
		depth int
	)

	cmd := &cobra.Command{
		Use:   "snapshot <id>",
		Short: "Mirror the neighbourhood of a node into a SQLite snapshot",
		Long: `Snapshot fetches the node with the given id and every node reachable from
it within --depth links, and stores their payloads in the --out database.
The snapshot can later be used as a source with --snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.release()

			if out == "" {
				return errors.New("commands: --out is required")
			}
			options := a.fetchOptions()
			if options.SnapshotPath == out {
				return errors.New("commands: snapshot source and destination are the same file")
			}

			src, closer, err := source.NewSource(options)
			if err != nil {
				return err
			}
			if closer != nil {
				a.closers = append(a.closers, closer)
			}

			snap, err := source.OpenSnapshot(out)
			if err != nil {
				return err
			}
			a.closers = append(a.closers, snap)

			count, err := source.Mirror(cmd.Context(), src, snap, args[0], depth, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mirrored %d nodes into %s\n", count, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "snapshot file to write")
	cmd.Flags().IntVar(&depth, "depth", 1, "how many links to follow from the start node")
	return cmd
}
