// Package onnx parses ONNX model files into a typed, read-mostly graph
// representation and writes edited metadata back out.
//
//   - Parse: converts a serialized ONNX ModelProto to a Model.
//   - ReadFile: reads a file and calls Parse. It returns a Model.
//   - Model: holds the decoded Graph plus the original bytes; WriteFile
//     re-emits the model with only the metadata_props field rewritten, so
//     everything else in the file survives byte-exactly.
//
// The computational graph is never modified: nodes, inputs, outputs, and
// initializers are read-only from the moment they are decoded.
package onnx

import (
	"os"
	"sort"

	"github.com/pkg/errors"

	"onnxspect/internal/protos"
)

// Model represents a parsed ONNX file.
type Model struct {
	// Graph is the decoded model. Graph.Metadata may be mutated (that is
	// the point of the metadata tooling); everything else must not be.
	Graph *Graph

	raw   []byte
	proto *protos.ModelProto
}

// Parse parses a serialized ONNX model into a Model.
func Parse(contents []byte) (*Model, error) {
	p, err := protos.Unmarshal(contents)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse ONNX model proto")
	}
	return &Model{Graph: graphFromProto(p), raw: contents, proto: p}, nil
}

// ReadFile parses the ONNX model file at filePath.
func ReadFile(filePath string) (*Model, error) {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read ONNX model file in %s", filePath)
	}
	m, err := Parse(contents)
	if err != nil {
		return nil, errors.WithMessagef(err, "while parsing %s", filePath)
	}
	return m, nil
}

// Bytes serializes the model with the current Graph.Metadata. Models that
// were parsed from real bytes keep every non-metadata field verbatim;
// programmatically built models are encoded from the decoded structure.
// Metadata entries are written in ascending key order so output is
// deterministic.
func (m *Model) Bytes() ([]byte, error) {
	entries := sortedEntries(m.Graph.Metadata)
	if m.raw != nil {
		out, err := protos.RewriteMetadata(m.raw, entries)
		return out, errors.WithMessage(err, "rewriting model metadata")
	}
	m.proto.MetadataProps = entries
	return protos.Marshal(m.proto), nil
}

// WriteFile serializes the model (see Bytes) and writes it to filePath.
func (m *Model) WriteFile(filePath string) error {
	contents, err := m.Bytes()
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(filePath, contents, 0o644),
		"failed to write ONNX model file to %s", filePath)
}

func sortedEntries(metadata map[string]string) []protos.StringStringEntry {
	entries := make([]protos.StringStringEntry, 0, len(metadata))
	for k, v := range metadata {
		entries = append(entries, protos.StringStringEntry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}
