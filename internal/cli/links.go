package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cablesection/pkg/pipeline"
	"github.com/matzehuels/cablesection/pkg/render/nodelink"
)

// linksCommand creates the links command, which shows how layers refer to
// each other as a Graphviz diagram.
func (c *CLI) linksCommand() *cobra.Command {
	var (
		output   string
		detailed bool
		chain    bool
	)

	cmd := &cobra.Command{
		Use:   "links <design>",
		Short: "Show the resolved layer links of a design",
		Long: `Show the resolved layer links of a design.

Without -o the Graphviz DOT source is printed. With -o the diagram is laid
out and written as SVG, or as PNG when the file name ends in .png.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, linked, err := c.loadDesign(args[0])
			if err != nil {
				return err
			}
			dot := nodelink.ToDOT(linked, nodelink.Options{Detailed: detailed, Chain: chain})
			if output == "" {
				fmt.Print(dot)
				return nil
			}
			var data []byte
			if strings.EqualFold(filepath.Ext(output), ".png") {
				data, err = nodelink.RenderPNG(cmd.Context(), dot, pipeline.DefaultScale)
			} else {
				data, err = nodelink.RenderSVG(cmd.Context(), dot)
			}
			if err != nil {
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			printSuccess("Rendered layer links")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the diagram as SVG or PNG")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include dimensions in node labels")
	cmd.Flags().BoolVar(&chain, "chain", false, "draw next/previous links between consecutive layers")
	return cmd
}
