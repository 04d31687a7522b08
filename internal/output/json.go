package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/jmylchreest/lounas/pkg/lounas"
)

// JSONWriter writes all entries as one JSON array on Flush.
type JSONWriter struct {
	w       *bufio.Writer
	pretty  bool
	indent  string
	records []Record
	flushed bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:       bufio.NewWriter(w),
		pretty:  pretty,
		indent:  indent,
		records: make([]Record, 0),
	}
}

// Write buffers a single entry.
func (w *JSONWriter) Write(e lounas.Entry) error {
	w.records = append(w.records, NewRecord(e))
	w.flushed = false
	return nil
}

// WriteAll buffers multiple entries.
func (w *JSONWriter) WriteAll(es []lounas.Entry) error {
	return writeAll(w.Write, es)
}

// Flush writes the buffered entries as a JSON array. An empty run is "[]".
func (w *JSONWriter) Flush() error {
	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(w.records, "", w.indent)
	} else {
		output, err = json.Marshal(w.records)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	w.records = w.records[:0]
	w.flushed = true
	return w.w.Flush()
}

// Close flushes anything not yet written.
func (w *JSONWriter) Close() error {
	if w.flushed {
		return nil
	}
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL), one entry per line as
// soon as it arrives.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes a single entry as a JSON line.
func (w *JSONLWriter) Write(e lounas.Entry) error {
	output, err := json.Marshal(NewRecord(e))
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple entries as JSON lines.
func (w *JSONLWriter) WriteAll(es []lounas.Entry) error {
	return writeAll(w.Write, es)
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
