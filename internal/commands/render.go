package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-graphview/pkg/viewer"
)

func (a *app) renderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render the page of a single node",
		Long: `Render fetches the node with the given id and writes its page to stdout
or --output. When the node cannot be loaded the error page is still
written and the command exits non-zero.`,
		Example: `  graphview render /person/ada --endpoint http://localhost:8080/graphql
  graphview render /type/person --dir ./things -r text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.release()

			v, err := a.newViewer(viewerSetup{interactive: true})
			if err != nil {
				return err
			}

			out, genErr := v.Generate(cmd.Context(), viewer.Request{ID: args[0]})
			if genErr != nil && !errors.Is(genErr, viewer.ErrFetch) {
				return genErr
			}

			if output != "" {
				if err := os.WriteFile(output, out.Body, 0o644); err != nil {
					return fmt.Errorf("commands: write output: %w", err)
				}
				a.logger.Info("page written", zap.String("path", output), zap.String("renderer", out.Renderer))
			} else if _, err := cmd.OutOrStdout().Write(out.Body); err != nil {
				return err
			}
			return genErr
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
