package tabular

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRow wraps every row that fails schema validation on read.
	ErrInvalidRow = errors.New("invalid row")
	// ErrSchema means the stored header does not carry the columns the codec requires.
	ErrSchema = errors.New("schema mismatch")
)

// Table is a whole-table store: callers read everything and write back the complete final
// state in one call. There is no partial update.
type Table[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, rows []T) error
}

// Codec fixes the column schema of a row type.
type Codec[T any] interface {
	// Header lists the columns in storage order.
	Header() []string
	// Required lists the columns a stored header must contain.
	Required() []string
	// Encode renders v in Header order.
	Encode(v T) []string
	// Decode parses and validates a row given in Header order.
	Decode(row []string) (T, error)
	// Key is the stable identity of v, unique within a table.
	Key(v T) string
}

// NormalizeHeader folds a column name for comparison: "Membership_Number " == "membership number".
func NormalizeHeader(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Align maps rows read under header onto the column order of columns. Columns absent from
// header come back empty; a missing required column is an ErrSchema.
func Align(header, columns, required []string) (func(row []string) []string, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		n := NormalizeHeader(h)
		if _, dup := pos[n]; !dup {
			pos[n] = i
		}
	}

	var missing []string
	for _, r := range required {
		if _, ok := pos[NormalizeHeader(r)]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrSchema, strings.Join(missing, ", "))
	}

	index := make([]int, len(columns))
	for i, c := range columns {
		if p, ok := pos[NormalizeHeader(c)]; ok {
			index[i] = p
		} else {
			index[i] = -1
		}
	}
	return func(row []string) []string {
		out := make([]string, len(columns))
		for i, p := range index {
			if p >= 0 && p < len(row) {
				out[i] = strings.TrimSpace(row[p])
			}
		}
		return out
	}, nil
}

// DecodeRows validates header against codec and decodes every non-blank row.
// Row numbers in errors count the header as row 1.
func DecodeRows[T any](codec Codec[T], header []string, rows [][]string) ([]T, error) {
	align, err := Align(header, codec.Header(), codec.Required())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for i, raw := range rows {
		if blank(raw) {
			continue
		}
		v, err := codec.Decode(align(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidRow, i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// EncodeRows renders rows in codec order, without the header.
func EncodeRows[T any](codec Codec[T], rows []T) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = codec.Encode(r)
	}
	return out
}

// Normalize pushes a value decoded by a document store through the codec so it meets the
// same schema checks as a tabular row.
func Normalize[T any](codec Codec[T], v T) (T, error) {
	n, err := codec.Decode(codec.Encode(v))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", ErrInvalidRow, codec.Key(v), err)
	}
	return n, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
