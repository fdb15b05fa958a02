package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	csio "github.com/matzehuels/cablesection/pkg/io"
)

// inspectCommand creates the inspect command, an interactive browser over
// the layers of a placed design.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <design>",
		Short: "Browse the layers, links and placed items of a design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			design, err := csio.ImportDesign(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			linked, layout, err := runner.Place(cmd.Context(), design, cfg.Schema)
			if err != nil {
				return err
			}

			model := NewLayerListModel(linked, layout)
			if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
				model.Height = len(design.Layers)
				model.Cursor = -1
				fmt.Println(model.layerTable())
				for i := range design.Layers {
					model.Cursor = i
					fmt.Println(StyleTitle.Render(fmt.Sprintf("Layer %d", i)))
					fmt.Print(model.detail())
				}
				return nil
			}

			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print every layer instead of starting the browser")
	return cmd
}
