// Package wire serializes trace tables for external presentation layers.
package wire

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"

	"calltree/internal/trace"
)

// Record is the exchange form of one trace node. Field names are part of
// the contract with presentation adapters and must not change.
type Record struct {
	ID     int64             `json:"id" msgpack:"id"`
	Parent *int64            `json:"parent" msgpack:"parent"`
	Func   string            `json:"functionName" msgpack:"functionName"`
	Args   []string          `json:"args" msgpack:"args"`
	Kwargs map[string]string `json:"kwargs,omitempty" msgpack:"kwargs,omitempty"`
	Result string            `json:"result" msgpack:"result"`
}

// ToRecord converts a node to its wire form. Keyword ordering is not part
// of the wire contract; kwargs travel as a plain mapping.
func ToRecord(n trace.Node) Record {
	rec := Record{
		ID:     int64(n.ID),
		Func:   n.Func,
		Args:   n.Args,
		Result: n.Result,
	}
	if !n.Root() {
		parent := int64(n.Parent)
		rec.Parent = &parent
	}
	if len(n.Kwargs) > 0 {
		rec.Kwargs = make(map[string]string, len(n.Kwargs))
		for _, f := range n.Kwargs {
			rec.Kwargs[f.Key] = f.Value
		}
	}
	return rec
}

// FromRecord converts a wire record back to a node. Kwarg order is
// reconstructed by sorted key so the result is deterministic. Records with
// ids or parents that do not fit the platform int are rejected.
func FromRecord(rec Record) (trace.Node, error) {
	id, err := safecast.Conv[int](rec.ID)
	if err != nil {
		return trace.Node{}, fmt.Errorf("record id %d out of range: %w", rec.ID, err)
	}
	if id < 0 {
		return trace.Node{}, fmt.Errorf("record id %d is negative", rec.ID)
	}
	n := trace.Node{
		ID:     id,
		Parent: trace.NoParent,
		Func:   rec.Func,
		Args:   rec.Args,
		Result: rec.Result,
	}
	if rec.Parent != nil {
		parent, err := safecast.Conv[int](*rec.Parent)
		if err != nil {
			return trace.Node{}, fmt.Errorf("record parent %d out of range: %w", *rec.Parent, err)
		}
		n.Parent = parent
	}
	if len(rec.Kwargs) > 0 {
		keys := make([]string, 0, len(rec.Kwargs))
		for k := range rec.Kwargs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n.Kwargs = append(n.Kwargs, trace.Field{Key: k, Value: rec.Kwargs[k]})
		}
	}
	return n, nil
}

// Format is the on-disk encoding of a record stream.
type Format uint8

const (
	FormatNDJSON  Format = iota // newline-delimited JSON, one record per line
	FormatMsgpack               // msgpack, one record per message
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatNDJSON:
		return "ndjson"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "ndjson", "json":
		return FormatNDJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return FormatNDJSON, fmt.Errorf("invalid wire format: %q (expected: ndjson|msgpack)", s)
	}
}

// DetectFormat picks a format from a file extension, defaulting to NDJSON.
func DetectFormat(path string) Format {
	switch {
	case strings.HasSuffix(path, ".mp"), strings.HasSuffix(path, ".msgpack"):
		return FormatMsgpack
	default:
		return FormatNDJSON
	}
}
