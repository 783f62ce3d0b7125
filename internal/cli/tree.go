package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"onnxspect/inspect"
	"onnxspect/onnx"
)

// newTreeCmd creates the tree command: an interactive model browser.
func newTreeCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [model.onnx]",
		Short: "Browse a model interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := onnx.ReadFile(args[0])
			if err != nil {
				return err
			}
			report, err := inspect.Compute(model.Graph)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newTreeModel(model.Graph, report, cfg)).Run()
			return err
		},
	}
}

// Section order of the browser.
var treeSections = []string{"Overview", "Inputs", "Outputs", "Operators", "Initializers", "Metadata"}

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// treeModel is the bubbletea model for the interactive browser. It holds an
// immutable snapshot (the graph and its report); the browser never mutates
// the model it displays.
type treeModel struct {
	graph  *onnx.Graph
	report *inspect.Report
	cfg    Config

	section int
	offset  int
	height  int

	// rows per section, computed once up front.
	rows [][][]string
}

func newTreeModel(g *onnx.Graph, report *inspect.Report, cfg Config) treeModel {
	m := treeModel{graph: g, report: report, cfg: cfg, height: 15}
	m.rows = [][][]string{
		overviewRows(g, report),
		ioRows(report.Inputs),
		ioRows(report.Outputs),
		opRows(report),
		initializerRows(g),
		metadataRows(report, cfg),
	}
	return m
}

func overviewRows(g *onnx.Graph, report *inspect.Report) [][]string {
	name := g.Name
	if name == "" {
		name = "(unnamed)"
	}
	producer := g.ProducerName
	if g.ProducerVersion != "" {
		producer += " v" + g.ProducerVersion
	}
	var opsets []string
	for _, domain := range slices.Sorted(maps.Keys(g.OpsetVersions)) {
		opsets = append(opsets, fmt.Sprintf("%s v%d", opsetDomainName(domain), g.OpsetVersions[domain]))
	}
	return [][]string{
		{"Model Name", name},
		{"IR Version", strconv.FormatInt(g.IRVersion, 10)},
		{"Opsets", strings.Join(opsets, ", ")},
		{"Producer", producer},
		{"Inputs", strconv.Itoa(report.InputCount)},
		{"Outputs", strconv.Itoa(report.OutputCount)},
		{"Nodes", strconv.Itoa(report.NodeCount)},
		{"Op Types", strconv.Itoa(report.DistinctOpTypes)},
		{"Weights", strconv.Itoa(report.WeightCount)},
		{"Parameters", formatParams(report.TotalParameters)},
	}
}

func ioRows(values []onnx.ValueInfo) [][]string {
	rows := make([][]string, len(values))
	for i, vi := range values {
		rows[i] = []string{vi.Name, vi.ElemType.String(), onnx.ShapeString(vi.Shape)}
	}
	return rows
}

func opRows(report *inspect.Report) [][]string {
	rows := make([][]string, len(report.OpCounts))
	for i, oc := range report.OpCounts {
		rows[i] = []string{oc.OpType, strconv.Itoa(oc.Count)}
	}
	return rows
}

func initializerRows(g *onnx.Graph) [][]string {
	rows := make([][]string, len(g.Initializers))
	for i, init := range g.Initializers {
		dims := make([]string, len(init.Dims))
		for j, d := range init.Dims {
			dims[j] = strconv.FormatInt(d, 10)
		}
		params := "?"
		if n, err := inspect.TensorElements(init); err == nil {
			params = formatParams(n)
		}
		rows[i] = []string{init.Name, init.ElemType.String(), "[" + strings.Join(dims, " × ") + "]", params}
	}
	return rows
}

func metadataRows(report *inspect.Report, cfg Config) [][]string {
	keys := slices.Sorted(maps.Keys(report.Metadata))
	rows := make([][]string, len(keys))
	for i, key := range keys {
		rows[i] = []string{key, truncate(report.Metadata[key], cfg.TruncateValues)}
	}
	return rows
}

// sectionHeaders returns the table headers for each section; nil means a
// plain key/value listing.
func sectionHeaders(section int) []string {
	switch treeSections[section] {
	case "Inputs", "Outputs":
		return []string{"Name", "Type", "Shape"}
	case "Operators":
		return []string{"Op Type", "Count"}
	case "Initializers":
		return []string{"Name", "Type", "Shape", "Params"}
	case "Metadata":
		return []string{"Key", "Value"}
	default:
		return nil
	}
}

func (m treeModel) Init() tea.Cmd {
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.section = (m.section + len(treeSections) - 1) % len(treeSections)
			m.offset = 0
		case "right", "l", "tab":
			m.section = (m.section + 1) % len(treeSections)
			m.offset = 0
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < len(m.rows[m.section])-1 {
				m.offset++
			}
		case "home", "g":
			m.offset = 0
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m treeModel) View() string {
	var b strings.Builder

	title := m.graph.Name
	if title == "" {
		title = "(unnamed)"
	}
	b.WriteString(styleTitle.Render("Model: "+title) + "\n")
	b.WriteString(styleDim.Render("←/→ section  ↑/↓ scroll  q quit") + "\n\n")

	var tabs []string
	for i, s := range treeSections {
		if i == m.section {
			tabs = append(tabs, tabActiveStyle.Render("["+s+"]"))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(" "+s+" "))
		}
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	rows := m.rows[m.section]
	end := m.offset + m.height
	if end > len(rows) {
		end = len(rows)
	}
	window := rows[m.offset:end]

	if len(rows) == 0 {
		b.WriteString(styleDim.Render("(empty)") + "\n")
	} else if headers := sectionHeaders(m.section); headers != nil {
		headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers(headers...).
			Rows(window...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		b.WriteString(t.Render() + "\n")
	} else {
		for _, row := range window {
			b.WriteString(styleLabel.Render(fmt.Sprintf("%-12s", row[0])) + " " + styleValue.Render(row[1]) + "\n")
		}
	}

	if len(rows) > 0 {
		b.WriteString("\n" + styleDim.Render(fmt.Sprintf("  [%d-%d/%d]", m.offset+1, end, len(rows))))
	}
	return b.String()
}
