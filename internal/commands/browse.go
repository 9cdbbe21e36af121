package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/renderers/tui"
)

func (a *app) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <id>",
		Short: "Browse the graph interactively from a node",
		Long: `Browse shows a node as text followed by a menu of the nodes it links to.
Picking one navigates there; the menu also offers going back, jumping to
an arbitrary id, reloading and quitting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.release()

			v, err := a.newViewer(viewerSetup{})
			if err != nil {
				return err
			}
			options := append(a.tuiOptions(), tui.WithOutput(cmd.OutOrStdout()))
			browser, err := tui.NewBrowser(v, render.RenderOptions{}, options...)
			if err != nil {
				return err
			}
			return browser.Run(cmd.Context(), args[0])
		},
	}
}
