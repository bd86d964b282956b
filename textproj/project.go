// Package textproj computes the text projection of a render tree: a
// pure, deterministic plain-text rendering used for headless viewers,
// screen readers, and golden-output tests (§4.6).
package textproj

import (
	"fmt"
	"math"
	"strings"

	"github.com/anthropics/viewport/protocol"
	"github.com/anthropics/viewport/tree"
)

// Options controls how a projection is formatted.
type Options struct {
	// BoxSeparatorRow/BoxSeparatorColumn join a box's children depending
	// on its direction. Defaults: row = "\t", column = "\n".
	BoxSeparatorRow    string
	BoxSeparatorColumn string

	// IndentSize is the number of spaces per nesting level (0 = none).
	IndentSize int

	// AsOf is the reference instant "relative_time" formatting measures
	// against, as a Unix timestamp. Projection never reads the wall
	// clock itself, keeping it a pure function of its inputs (§4.6,
	// §8 item 6 byte-identical-across-encodings determinism).
	AsOf float64
}

// DefaultOptions returns the default projection options with AsOf left
// at zero; callers that use relative_time formatting should set it
// explicitly.
func DefaultOptions() Options {
	return Options{
		BoxSeparatorRow:    "\t",
		BoxSeparatorColumn: "\n",
		IndentSize:         0,
	}
}

// Project computes the text projection of an entire render tree using
// default options.
func Project(t *tree.RenderTree, asOf float64) string {
	opts := DefaultOptions()
	opts.AsOf = asOf
	return ProjectWithOptions(t, opts)
}

// ProjectWithOptions computes the text projection with custom options.
func ProjectWithOptions(t *tree.RenderTree, opts Options) string {
	if t == nil || t.Root == nil {
		return ""
	}
	return projectNode(t.Root, t, opts, 0)
}

func projectNode(node *tree.RenderNode, t *tree.RenderTree, opts Options, depth int) string {
	if node == nil {
		return ""
	}

	// An explicit textAlt override suppresses the node's own projection
	// rule and its subtree entirely (§4.6: "textAlt, if set, overrides
	// projection for this node and its children").
	if node.Props.TextAlt != nil {
		return *node.Props.TextAlt
	}

	indent := ""
	if opts.IndentSize > 0 {
		indent = strings.Repeat(" ", depth*opts.IndentSize)
	}

	switch node.Type {
	case protocol.NodeText:
		content := ""
		if node.Props.Content != nil {
			content = *node.Props.Content
		}
		return indent + content

	case protocol.NodeBox:
		dir := node.Props.Direction
		if dir == "" {
			dir = "column"
		}
		sep := opts.BoxSeparatorColumn
		if dir == "row" {
			sep = opts.BoxSeparatorRow
		}
		return strings.Join(projectChildren(node, t, opts, depth), sep)

	case protocol.NodeScroll:
		childTexts := projectChildren(node, t, opts, depth)

		// A scroll node's `schema` property is the sole data-binding
		// point (§4.7: row templates were considered and rejected).
		if node.Props.Schema != nil {
			schemaSlot := *node.Props.Schema
			schema := t.Schemas[schemaSlot]
			rows := t.DataRows[schemaSlot]
			if len(schema) > 0 && len(rows) > 0 {
				if dataText := projectDataRows(rows, schema, opts); dataText != "" {
					childTexts = append(childTexts, dataText)
				}
			}
		}

		return strings.Join(childTexts, "\n")

	case protocol.NodeInput:
		if node.Props.Value != nil {
			return indent + *node.Props.Value
		}
		if node.Props.Placeholder != nil {
			return indent + *node.Props.Placeholder
		}
		return indent

	case protocol.NodeImage, protocol.NodeCanvas:
		if node.Props.AltText != nil {
			return indent + *node.Props.AltText
		}
		return indent + "[image]"

	case protocol.NodeSeparator:
		return indent + strings.Repeat("─", 16)

	default:
		return ""
	}
}

func projectChildren(node *tree.RenderNode, t *tree.RenderTree, opts Options, depth int) []string {
	out := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		if text := projectNode(child, t, opts, depth+1); len(text) > 0 {
			out = append(out, text)
		}
	}
	return out
}

// projectDataRows formats a scroll node's bound data rows as a
// TSV-style table: a header row of column names followed by one row
// per data row, values formatted per column format hint.
func projectDataRows(rows [][]interface{}, schema []protocol.SchemaColumn, opts Options) string {
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+1)

	headers := make([]string, len(schema))
	for i, col := range schema {
		headers[i] = col.Name
	}
	lines = append(lines, strings.Join(headers, "\t"))

	for _, row := range rows {
		cells := make([]string, len(schema))
		for i, col := range schema {
			if i < len(row) {
				cells[i] = formatValue(row[i], col, opts)
			}
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}

	return strings.Join(lines, "\n")
}

// formatValue formats one data cell according to its column's format
// hint. An unrecognized or absent format hint falls back to the
// default Go conversion (§4.6: "unrecognized format falls back to the
// default conversion, never an error").
func formatValue(value interface{}, column protocol.SchemaColumn, opts Options) string {
	if value == nil {
		return ""
	}

	switch column.Format {
	case "human_bytes":
		if n, ok := toFloat(value); ok {
			return humanBytes(n)
		}
	case "relative_time":
		if n, ok := toFloat(value); ok {
			return relativeTime(n, opts.AsOf)
		}
	}

	return fmt.Sprintf("%v", value)
}

// humanBytes formats a byte count using binary (1024-based) units.
func humanBytes(bytes float64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := 0
	b := bytes
	for b >= 1024 && i < len(units)-1 {
		b /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", b, units[i])
	}
	return fmt.Sprintf("%.1f %s", b, units[i])
}

// relativeTime formats a Unix timestamp relative to asOf, an explicit
// reference instant rather than the wall clock, keeping projection
// deterministic and testable (§8 item 6).
func relativeTime(timestamp, asOf float64) string {
	diff := asOf - timestamp
	if diff < 0 {
		diff = math.Abs(diff)
	}
	switch {
	case diff < 60:
		return "just now"
	case diff < 3600:
		return fmt.Sprintf("%dm ago", int(diff/60))
	case diff < 86400:
		return fmt.Sprintf("%dh ago", int(diff/3600))
	default:
		return fmt.Sprintf("%dd ago", int(diff/86400))
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
