package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/wavetower/pkg/io"
	"github.com/matzehuels/wavetower/pkg/render/nodelink"
)

// nodesCommand creates the nodes command, which prints the node graph of a
// document in Graphviz DOT format.
func (c *CLI) nodesCommand() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "nodes [file]",
		Short: "Print the node graph of a document as DOT",
		Long: `Print the named nodes and edges of a WaveJSON document as a Graphviz DOT graph.

Nodes are the node characters of the signals; edges are the document's edge
declarations. Use 'render --view nodelink' to render the graph directly.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := pkgio.ImportFigure(args[0], false)
			if err != nil {
				return err
			}
			dot := nodelink.ToDOT(f, nodelink.Options{Detailed: detailed})

			out, err := openOutput(output)
			if err != nil {
				return fmt.Errorf("open output: %w", err)
			}
			defer out.Close()

			if _, err := io.WriteString(out, dot); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if output != "" {
				c.Logger.Info("wrote node graph", "path", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include signal name and cycle in node labels")

	return cmd
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
