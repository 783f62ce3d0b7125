// Package metadata round-trips a model's metadata_props through a flat,
// hand-editable text form: one "key<TAB>value" entry per line, UTF-8, no
// escape syntax. Export produces the text form deterministically; Import
// applies an edited record back onto a graph under an explicit merge or
// replace policy.
//
// Only the graph's Metadata map is ever touched. Nodes, inputs, outputs,
// and initializers are out of reach by construction.
package metadata

import (
	"fmt"
	"sort"
	"strings"

	"onnxspect/onnx"
)

// Entry is a single key/value pair of the external text form.
type Entry struct {
	Key   string
	Value string
}

// Record is the ordered external representation of a metadata map. Keys may
// repeat in a Record parsed from hand-edited text; Map resolves duplicates.
type Record []Entry

// Map converts the record to a key/value map. Duplicate keys resolve
// last-write-wins, so appending a corrected line to an exported file works
// without pruning the earlier one.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, e := range r {
		m[e.Key] = e.Value
	}
	return m
}

// Mode selects the import policy. It is a closed enumeration: only
// ModeMerge and ModeReplace exist.
type Mode int

const (
	// ModeMerge overlays the incoming record onto the existing metadata:
	// incoming values win on key collision, keys absent from the record
	// are preserved unchanged.
	ModeMerge Mode = iota
	// ModeReplace makes the metadata exactly the incoming record; existing
	// keys not present in the record are deleted.
	ModeReplace
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeMerge:
		return "merge"
	case ModeReplace:
		return "replace"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode. Anything other than "merge" or
// "replace" fails with *InvalidModeError.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "merge":
		return ModeMerge, nil
	case "replace":
		return ModeReplace, nil
	default:
		return 0, &InvalidModeError{Mode: s}
	}
}

// UnsupportedValueError reports a metadata entry that cannot round-trip
// through the text form: the format has no escaping, so a tab or newline in
// a key or value would silently corrupt the file.
type UnsupportedValueError struct {
	Key string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("metadata entry %q contains a tab or newline and cannot be represented in the text format", e.Key)
}

// MalformedLineError reports a text line without the required tab
// separator. Line is 1-based.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: no tab separator in %q", e.Line, e.Text)
}

// InvalidModeError reports an unrecognized import policy.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid import mode %q (want merge or replace)", e.Mode)
}

// Export returns g's metadata as a Record in ascending key order, so
// repeated exports of an unmodified graph are byte-identical. An entry
// whose key or value contains a tab or newline fails with
// *UnsupportedValueError naming the key; exporting it would corrupt data
// silently, which is worse than refusing.
func Export(g *onnx.Graph) (Record, error) {
	keys := make([]string, 0, len(g.Metadata))
	for k := range g.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rec := make(Record, 0, len(keys))
	for _, k := range keys {
		v := g.Metadata[k]
		if strings.ContainsAny(k, "\t\n") || strings.ContainsAny(v, "\t\n") {
			return nil, &UnsupportedValueError{Key: k}
		}
		rec = append(rec, Entry{Key: k, Value: v})
	}
	return rec, nil
}

// FormatText renders a record in the on-disk text form.
func FormatText(rec Record) string {
	var b strings.Builder
	for _, e := range rec {
		b.WriteString(e.Key)
		b.WriteByte('\t')
		b.WriteString(e.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseText parses the text form. Blank lines are ignored; every other line
// must contain a tab, and splits on the first one into key and value. A
// line with no tab fails with *MalformedLineError carrying its 1-based line
// number. Duplicate keys are preserved in the record (Map resolves them
// last-write-wins).
func ParseText(text string) (Record, error) {
	var rec Record
	for i, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "\t")
		if !found {
			return nil, &MalformedLineError{Line: i + 1, Text: line}
		}
		rec = append(rec, Entry{Key: key, Value: value})
	}
	return rec, nil
}

// Import applies rec to g's metadata under the given mode. The result map
// is computed in full before the graph is touched, so a failure leaves g
// unchanged. Both modes are idempotent: importing the same record twice is
// a no-op the second time.
func Import(g *onnx.Graph, rec Record, mode Mode) error {
	var result map[string]string
	switch mode {
	case ModeMerge:
		result = make(map[string]string, len(g.Metadata)+len(rec))
		for k, v := range g.Metadata {
			result[k] = v
		}
		for k, v := range rec.Map() {
			result[k] = v
		}
	case ModeReplace:
		result = rec.Map()
	default:
		return &InvalidModeError{Mode: mode.String()}
	}
	g.Metadata = result
	return nil
}
