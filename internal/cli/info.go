package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"onnxspect/inspect"
	"onnxspect/onnx"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// infoOpts holds the command-line flags for the info command.
type infoOpts struct {
	format string // output format: "table", "json", "yaml"
	all    bool   // also list every initializer tensor
}

// newInfoCmd creates the info command: a full model summary.
func newInfoCmd(cfg Config) *cobra.Command {
	var opts infoOpts

	cmd := &cobra.Command{
		Use:   "info [model.onnx]",
		Short: "Summarize a model: meta info, operators, I/O schema, parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatTable, formatJSON, formatYAML:
			default:
				return errors.Errorf("unknown format %q (want table, json, or yaml)", opts.format)
			}
			return runInfo(cmd.Context(), args[0], cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format: table (default), json, yaml")
	cmd.Flags().BoolVar(&opts.all, "all", false, "also list every initializer tensor")

	return cmd
}

func runInfo(ctx context.Context, path string, cfg Config, opts infoOpts) error {
	logger := loggerFromContext(ctx)
	logger.Debug("loading model", "path", path)

	model, err := onnx.ReadFile(path)
	if err != nil {
		return err
	}
	report, err := inspect.Compute(model.Graph)
	if err != nil {
		return err
	}
	logger.Debug("report computed",
		"nodes", report.NodeCount, "params", report.TotalParameters.String())

	switch opts.format {
	case formatJSON:
		out, err := json.MarshalIndent(buildInfoDoc(model.Graph, report), "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding report as JSON")
		}
		fmt.Println(string(out))
	case formatYAML:
		out, err := yaml.Marshal(buildInfoDoc(model.Graph, report))
		if err != nil {
			return errors.Wrap(err, "encoding report as YAML")
		}
		fmt.Print(string(out))
	default:
		fmt.Println(renderMetaPanel(model.Graph, report, cfg))
		if len(report.Inputs) > 0 {
			fmt.Println(renderIOTable("Inputs", report.Inputs))
		}
		if len(report.Outputs) > 0 {
			fmt.Println(renderIOTable("Outputs", report.Outputs))
		}
		if len(report.OpCounts) > 0 {
			fmt.Println(renderOpTable(report))
		}
		if opts.all && len(model.Graph.Initializers) > 0 {
			fmt.Println(renderInitializerTable(model.Graph, report))
		}
	}
	return nil
}

// infoDoc is the machine-readable projection of a report. The parameter
// count is a decimal string: it can exceed what JSON consumers accept as a
// number.
type infoDoc struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	IRVersion   int64             `json:"ir_version" yaml:"ir_version"`
	Producer    string            `json:"producer,omitempty" yaml:"producer,omitempty"`
	Opsets      map[string]int64  `json:"opsets" yaml:"opsets"`
	Inputs      []valueDoc        `json:"inputs" yaml:"inputs"`
	Outputs     []valueDoc        `json:"outputs" yaml:"outputs"`
	Nodes       int               `json:"nodes" yaml:"nodes"`
	Weights     int               `json:"weights" yaml:"weights"`
	DistinctOps int               `json:"distinct_ops" yaml:"distinct_ops"`
	Parameters  string            `json:"parameters" yaml:"parameters"`
	Ops         []opCountDoc      `json:"ops" yaml:"ops"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type valueDoc struct {
	Name  string   `json:"name" yaml:"name"`
	Type  string   `json:"type" yaml:"type"`
	Shape []string `json:"shape" yaml:"shape"`
}

type opCountDoc struct {
	OpType string `json:"op_type" yaml:"op_type"`
	Count  int    `json:"count" yaml:"count"`
}

func buildInfoDoc(g *onnx.Graph, report *inspect.Report) infoDoc {
	doc := infoDoc{
		Name:        report.GraphName,
		IRVersion:   g.IRVersion,
		Producer:    g.ProducerName,
		Opsets:      g.OpsetVersions,
		Nodes:       report.NodeCount,
		Weights:     report.WeightCount,
		DistinctOps: report.DistinctOpTypes,
		Parameters:  report.TotalParameters.String(),
		Metadata:    report.Metadata,
	}
	if g.ProducerName != "" && g.ProducerVersion != "" {
		doc.Producer = g.ProducerName + " " + g.ProducerVersion
	}
	for _, vi := range report.Inputs {
		doc.Inputs = append(doc.Inputs, buildValueDoc(vi))
	}
	for _, vi := range report.Outputs {
		doc.Outputs = append(doc.Outputs, buildValueDoc(vi))
	}
	for _, oc := range report.OpCounts {
		doc.Ops = append(doc.Ops, opCountDoc{OpType: oc.OpType, Count: oc.Count})
	}
	return doc
}

func buildValueDoc(vi onnx.ValueInfo) valueDoc {
	doc := valueDoc{Name: vi.Name, Type: vi.ElemType.String()}
	for _, d := range vi.Shape {
		doc.Shape = append(doc.Shape, d.String())
	}
	return doc
}
