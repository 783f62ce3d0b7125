package cli

import (
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"onnxspect/inspect"
	"onnxspect/onnx"
)

// formatParams renders a parameter count for humans: 25557032 -> "25.56M".
func formatParams(n *big.Int) string {
	f, _ := new(big.Float).SetInt(n).Float64()
	switch {
	case f >= 1e6:
		return fmt.Sprintf("%.2fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("%.2fK", f/1e3)
	default:
		return n.String()
	}
}

// opsetDomainName maps the empty default domain to its conventional name.
func opsetDomainName(domain string) string {
	if domain == "" {
		return "ai.onnx"
	}
	return domain
}

// renderMetaPanel renders the model's meta information inside a rounded
// border, mirroring what the metadata section of the report carries.
func renderMetaPanel(g *onnx.Graph, report *inspect.Report, cfg Config) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(styleLabel.Render(label+":") + " " + value + "\n")
	}

	name := g.Name
	if name == "" {
		name = styleDim.Render("(unnamed)")
	}
	line("Model Name", styleValue.Render(name))
	line("IR Version", styleNumber.Render(strconv.FormatInt(g.IRVersion, 10)))

	b.WriteString(styleLabel.Render("Opset Versions:") + "\n")
	for _, domain := range slices.Sorted(maps.Keys(g.OpsetVersions)) {
		b.WriteString(fmt.Sprintf("    • %s: %s\n",
			styleNumber.Render(opsetDomainName(domain)),
			styleValue.Render("v"+strconv.FormatInt(g.OpsetVersions[domain], 10))))
	}

	if g.ProducerName != "" {
		producer := styleValue.Render(g.ProducerName)
		if g.ProducerVersion != "" {
			producer += " " + styleDim.Render("v"+g.ProducerVersion)
		}
		line("Producer", producer)
	}

	if len(report.Metadata) > 0 {
		b.WriteString(styleLabel.Render("Custom Metadata") +
			styleDim.Render(fmt.Sprintf(" (%d entries)", len(report.Metadata))) + ":\n")
		for _, key := range slices.Sorted(maps.Keys(report.Metadata)) {
			b.WriteString(fmt.Sprintf("    • %s: %s\n",
				styleKey.Render(key),
				styleValue.Render(truncate(report.Metadata[key], cfg.TruncateValues))))
		}
	} else {
		line("Custom Metadata", styleDim.Render("(none)"))
	}

	b.WriteString("\n" + styleLabel.Render("Summary:") + "\n")
	b.WriteString(fmt.Sprintf("    • inputs: %s | outputs: %s | nodes: %s\n",
		styleNumber.Render(strconv.Itoa(report.InputCount)),
		styleNumber.Render(strconv.Itoa(report.OutputCount)),
		styleNumber.Render(strconv.Itoa(report.NodeCount))))
	b.WriteString(fmt.Sprintf("    • op types: %s | weights: %s | parameters: %s",
		styleNumber.Render(strconv.Itoa(report.DistinctOpTypes)),
		styleNumber.Render(strconv.Itoa(report.WeightCount)),
		styleParams.Render(formatParams(report.TotalParameters))))

	return stylePanel.Render(b.String())
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// renderOpTable renders the operator histogram.
func renderOpTable(report *inspect.Report) string {
	t := newTable("Op Type", "Count")
	for _, oc := range report.OpCounts {
		t.Row(oc.OpType, strconv.Itoa(oc.Count))
	}
	return styleTitle.Render(fmt.Sprintf("Operators (%d kinds, %d nodes)",
		report.DistinctOpTypes, report.NodeCount)) + "\n" + t.Render()
}

// renderIOTable renders an input or output schema table.
func renderIOTable(title string, values []onnx.ValueInfo) string {
	t := newTable("Name", "Type", "Shape")
	for _, vi := range values {
		t.Row(vi.Name, vi.ElemType.String(), onnx.ShapeString(vi.Shape))
	}
	return styleTitle.Render(fmt.Sprintf("%s (%d)", title, len(values))) + "\n" + t.Render()
}

// renderInitializerTable renders the weight tensors with their element
// counts.
func renderInitializerTable(g *onnx.Graph, report *inspect.Report) string {
	t := newTable("Name", "Type", "Shape", "Params")
	for _, init := range g.Initializers {
		dims := make([]string, len(init.Dims))
		for i, d := range init.Dims {
			dims[i] = strconv.FormatInt(d, 10)
		}
		n, err := inspect.TensorElements(init)
		params := "?"
		if err == nil {
			params = formatParams(n)
		}
		t.Row(init.Name, init.ElemType.String(), "["+strings.Join(dims, " × ")+"]", params)
	}
	return styleTitle.Render(fmt.Sprintf("Initializers (%d tensors, %s parameters)",
		report.WeightCount, formatParams(report.TotalParameters))) + "\n" + t.Render()
}
