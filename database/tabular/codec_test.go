package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// item is a minimal row type for exercising the generic tables.
type item struct {
	Name  string
	Count int
	Note  string
}

type itemCodec struct{}

func (itemCodec) Header() []string   { return []string{"Name", "Count", "Note"} }
func (itemCodec) Required() []string { return []string{"Name", "Count"} }

func (itemCodec) Encode(v item) []string {
	return []string{v.Name, strconv.Itoa(v.Count), v.Note}
}

func (itemCodec) Decode(row []string) (item, error) {
	name := strings.TrimSpace(row[0])
	if name == "" {
		return item{}, fmt.Errorf("name is required")
	}
	n, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return item{}, fmt.Errorf("count %q is not a number", row[1])
	}
	return item{Name: name, Count: n, Note: row[2]}, nil
}

func (itemCodec) Key(v item) string { return v.Name }
