package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/placement"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// LayerListModel - Interactive layer browser
// =============================================================================

// LayerListModel is the bubbletea model for browsing the layers of a placed
// design. The lower pane shows the links and placed items of the layer
// under the cursor.
type LayerListModel struct {
	Linked *cable.Linked
	Layout *placement.Layout
	Cursor int
	Height int
	Offset int
}

// NewLayerListModel creates a new layer browser.
func NewLayerListModel(linked *cable.Linked, layout *placement.Layout) LayerListModel {
	return LayerListModel{Linked: linked, Layout: layout, Height: 12}
}

func (m LayerListModel) Init() tea.Cmd {
	return nil
}

func (m LayerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Linked.Cable.Layers)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = n - 1
			m.Offset = max(0, n-m.Height)
		}
	case tea.WindowSizeMsg:
		// Leave room for the title and the detail pane.
		m.Height = max(msg.Height-18, 3)
	}
	return m, nil
}

func (m LayerListModel) View() string {
	var b strings.Builder

	title := m.Linked.Cable.Name
	if title == "" {
		title = "Design"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d cores · Ø %.2f mm", m.Linked.Cable.Cores, m.Layout.OuterDiameter)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.layerTable())
	b.WriteString("\n\n")
	b.WriteString(m.detail())
	return b.String()
}

func (m LayerListModel) layerTable() string {
	layers := m.Linked.Cable.Layers
	end := min(m.Offset+m.Height, len(layers))

	var rows [][]string
	for i := m.Offset; i < end; i++ {
		l := layers[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(i),
			string(l.Type),
			l.Label(),
			fmt.Sprintf("%.2f", l.Diameter),
			fmt.Sprintf("%.2f", l.Thickness),
			strconv.Itoa(l.Quantity),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Type", "Label", "Ø mm", "t mm", "Qty").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 4 {
				return StyleNumber
			}
			if col == 2 {
				return layerStyle(layers[m.Offset+row].Type)
			}
			return StyleValue
		}).
		Render()
}

// detail renders the links and placed items of the selected layer.
func (m LayerListModel) detail() string {
	if m.Cursor < 0 || m.Cursor >= len(m.Linked.Links) {
		return ""
	}
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(styleKey.Render(k) + " " + StyleValue.Render(v) + "\n")
	}

	links := m.Linked.Links[m.Cursor]
	if layer := m.Linked.Layer(m.Cursor); layer.Type == cable.Armour && layer.Thickness > 0 {
		line("wires (est)", strconv.Itoa(cable.ArmourWireCount(layer.Diameter, layer.Thickness)))
	}
	line("insulation", m.linkName(links.Insulation))
	line("support", m.linkName(links.Support))
	line("reference", m.linkName(links.Reference))
	line("previous", m.linkName(links.Previous))
	line("next", m.linkName(links.Next))

	if m.Cursor < len(m.Layout.Layers) {
		res := m.Layout.Layers[m.Cursor]
		line("items", roleCounts(res))
		var labels []string
		for _, a := range res.Annotations {
			labels = append(labels, a.Text)
		}
		if len(labels) > 0 {
			line("labels", strings.Join(labels, ", "))
		}
	}
	return b.String()
}

func (m LayerListModel) linkName(i int) string {
	if i == cable.None || i < 0 || i >= len(m.Linked.Cable.Layers) {
		return "—"
	}
	return fmt.Sprintf("%d %s", i, m.Linked.Cable.Layers[i].Label())
}

// roleCounts summarises the items of a layer by role, e.g.
// "conductor ×4, insulation ×8".
func roleCounts(res placement.Result) string {
	counts := map[string]int{}
	for _, it := range res.Items {
		counts[string(it.Role)]++
	}
	if len(counts) == 0 {
		return "none"
	}
	roles := make([]string, 0, len(counts))
	for r := range counts {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = fmt.Sprintf("%s ×%d", r, counts[r])
	}
	return strings.Join(parts, ", ")
}
