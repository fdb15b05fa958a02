package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/errors"
	csio "github.com/matzehuels/cablesection/pkg/io"
	"github.com/matzehuels/cablesection/pkg/pipeline"
)

// batchCommand creates the batch command, which renders every design file
// in a directory concurrently.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags renderFlags
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Render every design in a directory",
		Long: `Render every TOML, YAML and JSON design in a directory.

Designs are processed concurrently. A failing design is reported and does
not stop the others; the command fails if any design failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg.Options())
			opts.Parallelism = jobs
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), args[0], flags, opts)
		},
	}
	flags.register(cmd)
	cmd.Flags().Lookup("output").Usage = "output directory (default: next to each design)"
	cmd.Flags().IntVarP(&jobs, "jobs", "j", pipeline.DefaultParallelism, "designs rendered in parallel")
	return cmd
}

func (c *CLI) runBatch(ctx context.Context, dir string, flags renderFlags, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	files, err := csio.DesignFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printInfo("No designs found in %s", dir)
		return nil
	}

	designs := make([]cable.Cable, 0, len(files))
	var loaded []string
	unreadable := 0
	for _, f := range files {
		d, err := csio.ImportDesign(f)
		if err != nil {
			printWarning("skipping %s: %s", filepath.Base(f), errors.Detail(err))
			unreadable++
			continue
		}
		if d.Name == "" {
			d.Name = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		}
		designs = append(designs, d)
		loaded = append(loaded, f)
	}
	logger.Debug("loaded designs", "dir", dir, "count", len(designs))

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var items []pipeline.BatchItem
	err = withSpinner(ctx, fmt.Sprintf("Rendering %d designs...", len(designs)), func() error {
		items, err = runner.Batch(ctx, designs, opts)
		return err
	})
	if err != nil {
		return err
	}
	prog.done("batch complete", "designs", len(items))

	rows := make([][]string, len(items))
	for i, it := range items {
		status := "ok"
		if it.Err == nil {
			input := loaded[i]
			if flags.output != "" {
				input = filepath.Join(flags.output, filepath.Base(input))
			}
			if _, werr := writeArtifacts(it.Result.Artifacts, opts.Formats, "", input); werr != nil {
				it.Err = werr
				items[i].Err = werr
			} else if it.Result.CacheInfo.RenderHit {
				status = "cached"
			}
		}
		if it.Err != nil {
			status = errors.Detail(it.Err)
		}
		rows[i] = batchRow(it, status)
	}
	fmt.Println(batchTable(rows))

	if failed := len(pipeline.Failed(items)) + unreadable; failed > 0 {
		return errors.New(errors.ErrCodeInternal, "%d of %d designs failed", failed, len(files))
	}
	printSuccess("Rendered %d designs", len(items))
	return nil
}

func batchRow(it pipeline.BatchItem, status string) []string {
	layers, items := "—", "—"
	if it.Result != nil {
		layers = strconv.Itoa(it.Result.Stats.Layers)
		if it.Result.Stats.Items > 0 {
			items = strconv.Itoa(it.Result.Stats.Items)
		}
	}
	return []string{it.Design, layers, items, status}
}

func batchTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Design", "Layers", "Items", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col != 3 || row >= len(rows) {
				return StyleValue
			}
			switch rows[row][3] {
			case "ok":
				return StyleSuccess
			case "cached":
				return styleCached
			}
			return lipgloss.NewStyle().Foreground(colorRed)
		}).
		Render()
}
