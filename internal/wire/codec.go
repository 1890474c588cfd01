package wire

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"calltree/internal/trace"
)

// Export writes every node of the table to w in the given format, in table
// insertion order.
func Export(t *trace.Table, w io.Writer, format Format) error {
	switch format {
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		for _, n := range t.Snapshot() {
			if err := enc.Encode(ToRecord(n)); err != nil {
				return fmt.Errorf("encode node %d: %w", n.ID, err)
			}
		}
		return nil
	default:
		for _, n := range t.Snapshot() {
			data, err := json.Marshal(ToRecord(n))
			if err != nil {
				return fmt.Errorf("encode node %d: %w", n.ID, err)
			}
			data = append(data, '\n')
			if _, err := w.Write(data); err != nil {
				return err
			}
		}
		return nil
	}
}

// Import reads a record stream back into a table. A malformed record is
// dropped rather than failing the whole import: one bad node must not
// prevent rendering the rest of the tree.
func Import(r io.Reader, format Format) (*trace.Table, error) {
	t := trace.NewTable()
	switch format {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		for {
			var rec Record
			if err := dec.Decode(&rec); err != nil {
				if errors.Is(err, io.EOF) {
					return t, nil
				}
				// The stream cannot be resynced past a framing error.
				return t, fmt.Errorf("decode record: %w", err)
			}
			if n, err := FromRecord(rec); err == nil {
				t.Append(n)
			}
		}
	default:
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for sc.Scan() {
			line := sc.Bytes()
			if len(line) == 0 {
				continue
			}
			var rec Record
			if err := json.Unmarshal(line, &rec); err != nil {
				continue // droppable per the wire contract
			}
			if n, err := FromRecord(rec); err == nil {
				t.Append(n)
			}
		}
		if err := sc.Err(); err != nil {
			return t, fmt.Errorf("read records: %w", err)
		}
		return t, nil
	}
}
