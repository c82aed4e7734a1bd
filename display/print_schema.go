package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/showframe"
)

// PrintSchema writes a tree representation of a Schema to w. Every column is nullable.
func PrintSchema(w io.Writer, schema showframe.Schema) error {
	var sb strings.Builder
	sb.WriteString("root\n")
	err := schema.ForEachColumn(func(name string, col showframe.Column) error {
		if schema.IsMarkedForRemoval(name) {
			return nil
		}
		fmt.Fprintf(&sb, " |-- %s: %s (nullable = true)\n", name, col.Type().TypeName())
		return nil
	})
	if err != nil {
		return err
	}
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

// DescribeSchema returns a one-line description of a Schema, e.g. [id: long, name: string]
func DescribeSchema(schema showframe.Schema) string {
	fields := []string{}
	_ = schema.ForEachColumn(func(name string, col showframe.Column) error {
		if !schema.IsMarkedForRemoval(name) {
			fields = append(fields, fmt.Sprintf("%s: %s", name, col.Type().TypeName()))
		}
		return nil
	})
	return "[" + strings.Join(fields, ", ") + "]"
}
