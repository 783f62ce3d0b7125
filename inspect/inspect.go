// Package inspect derives read-only summary statistics from a parsed ONNX
// graph: the operator histogram, the input/output schema, and the total
// learnable-parameter count.
//
// Compute is a pure function of its input. It never mutates the graph, and
// the Report it returns is a self-contained snapshot: callers can hold on to
// it after the graph itself is gone.
package inspect

import (
	"fmt"
	"math/big"
	"sort"

	"onnxspect/onnx"
)

// OpCount is one operator histogram bucket.
type OpCount struct {
	OpType string
	Count  int
}

// Report summarizes a graph. It is plain data with no formatting baked in,
// so the same report can drive the console renderer, the tree view, or
// machine-readable output.
type Report struct {
	GraphName string

	NodeCount       int
	InputCount      int
	OutputCount     int
	WeightCount     int
	DistinctOpTypes int

	// OpCounts is ordered by descending count, ties broken by ascending
	// op type, so repeated runs render identically.
	OpCounts []OpCount

	// TotalParameters is the sum over all initializers of the product of
	// their dimensions. Arbitrary precision: realistic models exceed 2^31
	// parameters and the count must never wrap.
	TotalParameters *big.Int

	// Inputs and Outputs carry the declared I/O schema. Symbolic and
	// unknown dimensions are preserved verbatim, never coerced to numbers.
	Inputs  []onnx.ValueInfo
	Outputs []onnx.ValueInfo

	// Metadata is a copy of the graph's metadata entries, verbatim.
	Metadata map[string]string
}

// MalformedGraphError reports a structurally invalid graph: a stored tensor
// declaring a negative dimension. Such a graph is broken input, not a
// condition to recover from.
type MalformedGraphError struct {
	Tensor string
	Dim    int64
}

func (e *MalformedGraphError) Error() string {
	return fmt.Sprintf("malformed graph: initializer %q has negative dimension %d", e.Tensor, e.Dim)
}

// Compute derives a Report from g. The only failure mode is a
// *MalformedGraphError for an initializer with a negative dimension.
func Compute(g *onnx.Graph) (*Report, error) {
	total := new(big.Int)
	for _, t := range g.Initializers {
		n, err := TensorElements(t)
		if err != nil {
			return nil, err
		}
		total.Add(total, n)
	}

	counts := make(map[string]int)
	for _, n := range g.Nodes {
		counts[n.OpType]++
	}
	opCounts := make([]OpCount, 0, len(counts))
	for op, c := range counts {
		opCounts = append(opCounts, OpCount{OpType: op, Count: c})
	}
	sort.Slice(opCounts, func(i, j int) bool {
		if opCounts[i].Count != opCounts[j].Count {
			return opCounts[i].Count > opCounts[j].Count
		}
		return opCounts[i].OpType < opCounts[j].OpType
	})

	metadata := make(map[string]string, len(g.Metadata))
	for k, v := range g.Metadata {
		metadata[k] = v
	}

	return &Report{
		GraphName:       g.Name,
		NodeCount:       len(g.Nodes),
		InputCount:      len(g.Inputs),
		OutputCount:     len(g.Outputs),
		WeightCount:     len(g.Initializers),
		DistinctOpTypes: len(opCounts),
		OpCounts:        opCounts,
		TotalParameters: total,
		Inputs:          append([]onnx.ValueInfo(nil), g.Inputs...),
		Outputs:         append([]onnx.ValueInfo(nil), g.Outputs...),
		Metadata:        metadata,
	}, nil
}

// TensorElements returns the number of elements a stored tensor holds: the
// product of its dimensions, in arbitrary precision. An empty dims sequence
// is a scalar and counts as 1; a zero dimension makes the product 0.
func TensorElements(t onnx.Tensor) (*big.Int, error) {
	n := big.NewInt(1)
	for _, d := range t.Dims {
		if d < 0 {
			return nil, &MalformedGraphError{Tensor: t.Name, Dim: d}
		}
		n.Mul(n, big.NewInt(d))
	}
	return n, nil
}
