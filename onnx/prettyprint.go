package onnx

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
)

// String implements fmt.Stringer, and pretty prints model information.
func (m *Model) String() string {
	return m.Graph.String()
}

// String implements fmt.Stringer, and pretty prints graph information.
func (g *Graph) String() string {
	var buf bytes.Buffer
	w := func(format string, args ...any) {
		if len(args) == 0 {
			buf.WriteString(format)
		} else {
			buf.WriteString(fmt.Sprintf(format, args...))
		}
	}
	w("ONNX Model:\n")
	if g.Name != "" {
		w("\tName:\t%s\n", g.Name)
	}
	if g.DocString != "" {
		w("%s\n", g.DocString)
	}
	if g.ModelVersion != 0 {
		w("\tVersion:\t%d\n", g.ModelVersion)
	}
	if g.ProducerName != "" {
		w("\tProducer:\t%s / %s\n", g.ProducerName, g.ProducerVersion)
	}
	w("\tIR Version:\t%d\n", g.IRVersion)
	w("\tOperator Sets:\t[")
	for ii, domain := range slices.Sorted(maps.Keys(g.OpsetVersions)) {
		if ii > 0 {
			w(", ")
		}
		if domain != "" {
			w("v%d (%s)", g.OpsetVersions[domain], domain)
		} else {
			w("v%d", g.OpsetVersions[domain])
		}
	}
	w("]\n")

	w("\t# nodes:\t%d\n", len(g.Nodes))
	opTypesSet := make(map[string]struct{})
	for _, n := range g.Nodes {
		opTypesSet[n.OpType] = struct{}{}
	}
	w("\tOp types:\t%#v\n", slices.Sorted(maps.Keys(opTypesSet)))

	w("\t# inputs:\t%d\n", len(g.Inputs))
	w("\t# outputs:\t%d\n", len(g.Outputs))
	w("\t# initializers:\t%d\n", len(g.Initializers))

	if len(g.Metadata) > 0 {
		w("\tMetadata: [")
		for ii, key := range slices.Sorted(maps.Keys(g.Metadata)) {
			if ii > 0 {
				w(", ")
			}
			w("%s=%s", key, g.Metadata[key])
		}
		w("]\n")
	}
	return buf.String()
}

// ShapeString renders a declared shape the way the CLI displays it, e.g.
// "[batch_size × 3 × 224 × 224]". Symbolic dimensions keep their names.
func ShapeString(dims []Dimension) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range dims {
		if i > 0 {
			buf.WriteString(" × ")
		}
		buf.WriteString(d.String())
	}
	buf.WriteByte(']')
	return buf.String()
}
