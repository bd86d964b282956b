package wire

// keymap.go is the single source of truth for the canonical small-
// integer property-key enumeration of spec §6.3. Each namespace below
// is an ordered, append-only table: index in the slice is the wire
// integer, string is the property name. Bidirectional lookup (name →
// int, int → name) is built once at init time and is O(1) thereafter.
//
// Never reorder or remove an entry — the values are part of the wire
// contract. Append new properties at the end of a namespace.

// nodePropNames enumerates node-property keys 0..N (§6.3 "Node core",
// "Box layout", "Spacing", "Visual", "Sizing", "Text", "Scroll",
// "Input", "Image/canvas", "Interactive/style").
var nodePropNames = []string{
	// 0..3 node core
	"id", "type", "children", "textAlt",
	// 4..9 reserved for future node-core growth
	"", "", "", "", "", "",
	// 10..14 box layout
	"direction", "wrap", "justify", "align", "gap",
	// 15..19 reserved
	"", "", "", "", "",
	// 20..21 spacing
	"padding", "margin",
	// 22..24 reserved
	"", "", "",
	// 25..29 visual
	"border", "borderRadius", "background", "opacity", "shadow",
	// 30..34 reserved
	"", "", "", "", "",
	// 35..41 sizing
	"width", "height", "flex", "minWidth", "minHeight", "maxWidth", "maxHeight",
	// 42..44 reserved
	"", "", "",
	// 45..52 text
	"content", "fontFamily", "size", "weight", "color", "decoration", "textAlign", "italic",
	// 53..59 reserved
	"", "", "", "", "", "", "",
	// 60..64 scroll
	"virtualHeight", "virtualWidth", "scrollTop", "scrollLeft", "schema",
	// 65..69 reserved
	"", "", "", "", "",
	// 70..73 input
	"value", "placeholder", "multiline", "disabled",
	// 74..79 reserved
	"", "", "", "", "", "",
	// 80..83 image/canvas
	"data", "format", "altText", "mode",
	// 84..89 reserved
	"", "", "", "", "", "",
	// 90..93 interactive/style
	"interactive", "tabIndex", "style", "transition",
}

// patchOpKeyNames enumerates patch-op keys in their own namespace
// (§6.3 "Patch-op keys", 0..11).
var patchOpKeyNames = []string{
	"target", "set", "remove", "replace",
	"childrenInsert", "childrenRemove", "childrenMove",
	"transition", "index", "node", "from", "to",
}

// inputEventKeyNames enumerates input-event keys (§6.3, 0..9).
var inputEventKeyNames = []string{
	"target", "kind", "key", "value", "x", "y", "button", "action", "scrollTop", "scrollLeft",
}

// schemaColumnKeyNames enumerates schema-column keys (§6.3, 0..4).
var schemaColumnKeyNames = []string{
	"id", "name", "type", "unit", "format",
}

// keyNamespace is a bidirectional, append-only key<->int table.
type keyNamespace struct {
	names  []string
	lookup map[string]int
}

func newKeyNamespace(names []string) *keyNamespace {
	ns := &keyNamespace{names: names, lookup: make(map[string]int, len(names))}
	for i, n := range names {
		if n == "" {
			continue // reserved slot, not yet assigned
		}
		ns.lookup[n] = i
	}
	return ns
}

// ToInt returns the canonical integer for a property name, and
// whether it is part of the enumeration at all. The int-keyed
// encoders skip a name for which ok is false.
func (ns *keyNamespace) ToInt(name string) (int, bool) {
	i, ok := ns.lookup[name]
	return i, ok
}

// ToName returns the property name for a canonical integer key.
func (ns *keyNamespace) ToName(key int) (string, bool) {
	if key < 0 || key >= len(ns.names) || ns.names[key] == "" {
		return "", false
	}
	return ns.names[key], true
}

var (
	nodePropKeys    = newKeyNamespace(nodePropNames)
	patchOpKeys     = newKeyNamespace(patchOpKeyNames)
	inputEventKeys  = newKeyNamespace(inputEventKeyNames)
	schemaColumnKeys = newKeyNamespace(schemaColumnKeyNames)
)
