package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/layup"
)

// layupCommand creates the layup command for inspecting the layup table.
func (c *CLI) layupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layup [cores]",
		Short: "Show the layup table, or the layup for one core count",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			env, _, err := cfg.Tables()
			if err != nil {
				return err
			}
			t := env.Layups
			if t == nil {
				t = layup.Default()
			}

			rows := t.Rows()
			if len(args) == 1 {
				cores, err := strconv.Atoi(args[0])
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "core count %q", args[0])
				}
				row, err := t.Lookup(cores)
				if err != nil {
					return err
				}
				rows = []layup.Config{row}
			}
			fmt.Println(layupTable(rows))
			return nil
		},
	}
}

// layupTable renders layup rows as a bordered table.
func layupTable(rows []layup.Config) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		rings := make([]string, len(r.Rings))
		for i, n := range r.Rings {
			rings[i] = strconv.Itoa(n)
		}
		data = append(data, []string{
			strconv.Itoa(r.Cores),
			strings.Join(rings, " + "),
			strconv.FormatFloat(r.MultiplierFactor, 'g', -1, 64),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Cores", "Rings", "Multiplier").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}
