package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wavetower/pkg/pipeline"
)

// pickCommand creates the pick command, an interactive picker that renders
// the chosen document.
func (c *CLI) pickCommand() *cobra.Command {
	flags := renderFlags{
		font:  pipeline.DefaultFont,
		view:  pipeline.DefaultView,
		scale: pipeline.DefaultScale,
		jobs:  1,
	}

	cmd := &cobra.Command{
		Use:   "pick [dir]",
		Short: "Pick a diagram interactively and render it",
		Long: `List the WaveJSON documents in a directory (default: the current one) and
render the one selected. Files that fail to parse are shown dimmed and
cannot be selected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			opts, err := flags.options()
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			return c.runPick(cmd.Context(), dir, opts, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file or base path")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringSliceVarP(&flags.skins, "skin", "s", nil, "skin file(s) to merge over the default style")
	cmd.Flags().BoolVar(&flags.noLookup, "no-user-skin", false, "ignore the user skin and WAVETOWER_SKIN")
	cmd.Flags().StringVar(&flags.font, "font", flags.font, "font metrics: helvetica (default), go")
	cmd.Flags().StringVar(&flags.view, "view", flags.view, "view: wave (default), nodelink")

	return cmd
}

// runPick shows the picker and renders the selection.
func (c *CLI) runPick(ctx context.Context, dir string, opts pipeline.Options, flags *renderFlags) error {
	docs, err := scanDocuments(dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(docs) == 0 {
		printWarning("No WaveJSON documents in %s", dir)
		return nil
	}

	final, err := tea.NewProgram(NewDocumentListModel(docs), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(DocumentListModel)
	if !ok || m.Selected == nil {
		printInfo("Nothing selected")
		return nil
	}

	return c.runRender(ctx, []string{m.Selected.Path}, opts, flags)
}
