package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cablesection/pkg/colors"
)

// colorsCommand creates the colors command. Without arguments it lists the
// core color codes; with a reference it resolves one color per core.
func (c *CLI) colorsCommand() *cobra.Command {
	var cores int

	cmd := &cobra.Command{
		Use:   "colors [reference]",
		Short: "List core color codes or resolve a color reference",
		Example: `  cablesection colors
  cablesection colors "bn bk gy bu gnye" --cores 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println(codeTable())
				return nil
			}
			n := cores
			if n == 0 {
				n = len(strings.Fields(args[0]))
			}
			hexes, err := colors.Resolve(args[0], n)
			if err != nil {
				return err
			}
			for i, hex := range hexes {
				printKeyValue(fmt.Sprintf("core %d", i+1), swatch(hex)+" "+hex)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cores, "cores", 0, "expected core count (default: number of codes)")
	return cmd
}

// codeTable renders the known color codes with a swatch of each.
func codeTable() string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	var rows [][]string
	for _, code := range colors.Codes() {
		hex, err := colors.Lookup(code)
		if err != nil {
			continue
		}
		rows = append(rows, []string{code, swatch(hex), hex})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Code", "", "Hex").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// swatch renders a small block in each color of a "first/second" pair.
func swatch(hex string) string {
	var b strings.Builder
	for _, h := range strings.Split(hex, "/") {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(h)).Render("██"))
	}
	return b.String()
}
