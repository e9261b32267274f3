package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// CSVTable keeps a table in a single CSV file with a header row.
type CSVTable[T any] struct {
	path  string
	codec Codec[T]
	mu    sync.Mutex
}

// NewCSVTable returns a table stored at path. The file is created on first save.
func NewCSVTable[T any](path string, codec Codec[T]) *CSVTable[T] {
	return &CSVTable[T]{path: path, codec: codec}
}

// Path returns the backing file.
func (t *CSVTable[T]) Path() string { return t.path }

// LoadAll reads the whole file. A missing or empty file is an empty table.
func (t *CSVTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", t.path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return DecodeRows(t.codec, records[0], records[1:])
}

// SaveAll writes the table to a temporary file next to the target and renames it into place,
// so readers see either the old or the new table.
func (t *CSVTable[T]) SaveAll(ctx context.Context, rows []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if err := WriteCSV(tmp, t.codec.Header(), EncodeRows(t.codec, rows)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", t.path, err)
	}
	return nil
}

// ReadCSV reads every record of r, tolerating ragged rows and a UTF-8 byte order mark.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = trimBOM(records[0][0])
	}
	return records, nil
}

// WriteCSV writes header followed by rows.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func trimBOM(s string) string {
	const bom = "\uFEFF"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
