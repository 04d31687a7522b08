package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/lounas/pkg/lounas"
)

// YAMLWriter writes all entries as one YAML sequence on Flush.
type YAMLWriter struct {
	w       *bufio.Writer
	records []Record
	flushed bool
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:       bufio.NewWriter(w),
		records: make([]Record, 0),
	}
}

// Write buffers a single entry.
func (w *YAMLWriter) Write(e lounas.Entry) error {
	w.records = append(w.records, NewRecord(e))
	w.flushed = false
	return nil
}

// WriteAll buffers multiple entries.
func (w *YAMLWriter) WriteAll(es []lounas.Entry) error {
	return writeAll(w.Write, es)
}

// Flush writes the buffered entries as YAML.
func (w *YAMLWriter) Flush() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	if err := encoder.Encode(w.records); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	w.records = w.records[:0]
	w.flushed = true
	return w.w.Flush()
}

// Close flushes anything not yet written.
func (w *YAMLWriter) Close() error {
	if w.flushed {
		return nil
	}
	return w.Flush()
}
