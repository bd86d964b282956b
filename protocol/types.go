// Package protocol defines the wire-level vocabulary of the Viewport
// display protocol: message and node types, the node property surface,
// patch operations, slot values, data schemas, and the protocol
// message union. It has no knowledge of framing or encoding — see
// package wire for that — and no knowledge of tree materialization —
// see package tree.
package protocol

// MessageType identifies the kind of a protocol message (wire byte 3).
type MessageType uint8

const (
	MsgDefine MessageType = 0x01
	MsgTree   MessageType = 0x02
	MsgPatch  MessageType = 0x03
	MsgData   MessageType = 0x04
	MsgInput  MessageType = 0x05
	MsgEnv    MessageType = 0x06
	MsgRegion MessageType = 0x07 // session/region management, out of scope
	MsgAudio  MessageType = 0x08 // out of scope
	MsgCanvas MessageType = 0x09 // drawing primitives, out of scope
	MsgSchema MessageType = 0x0a
)

// NodeType identifies the kind of a UI node.
type NodeType string

const (
	NodeBox       NodeType = "box"
	NodeText      NodeType = "text"
	NodeScroll    NodeType = "scroll"
	NodeInput     NodeType = "input"
	NodeImage     NodeType = "image"
	NodeCanvas    NodeType = "canvas"
	NodeSeparator NodeType = "separator"
)

// BorderStyle describes border appearance.
type BorderStyle struct {
	Width int    `json:"width,omitempty"`
	Color string `json:"color,omitempty"`
	Style string `json:"style,omitempty"` // solid, dashed, dotted, none
}

// ShadowStyle describes a drop shadow.
type ShadowStyle struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Blur  int    `json:"blur"`
	Color string `json:"color"`
}

// NodeProps holds all possible node properties. Which fields are
// meaningful depends on the node's Type; unknown keys encountered on
// decode land in Extra rather than being dropped.
type NodeProps struct {
	// Box layout (keys 10..14)
	Direction string `json:"direction,omitempty"`
	Wrap      *bool  `json:"wrap,omitempty"`
	Justify   string `json:"justify,omitempty"`
	Align     string `json:"align,omitempty"`
	Gap       *int   `json:"gap,omitempty"`

	// Spacing (keys 20..21)
	Padding interface{} `json:"padding,omitempty"`
	Margin  interface{} `json:"margin,omitempty"`

	// Visual (keys 25..29)
	Border       *BorderStyle `json:"border,omitempty"`
	BorderRadius *int         `json:"borderRadius,omitempty"`
	Background   interface{}  `json:"background,omitempty"` // string or slot-ref int
	Opacity      *float64     `json:"opacity,omitempty"`
	Shadow       *ShadowStyle `json:"shadow,omitempty"`

	// Sizing (keys 35..41)
	Width     interface{} `json:"width,omitempty"` // number or "%"/"px"/"vw" string
	Height    interface{} `json:"height,omitempty"`
	Flex      *float64    `json:"flex,omitempty"`
	MinWidth  *int        `json:"minWidth,omitempty"`
	MinHeight *int        `json:"minHeight,omitempty"`
	MaxWidth  *int        `json:"maxWidth,omitempty"`
	MaxHeight *int        `json:"maxHeight,omitempty"`

	// Text (keys 45..52)
	Content    *string     `json:"content,omitempty"`
	FontFamily string      `json:"fontFamily,omitempty"`
	Size       *int        `json:"size,omitempty"`
	Weight     string      `json:"weight,omitempty"`
	Color      interface{} `json:"color,omitempty"` // string or slot-ref int
	Decoration string      `json:"decoration,omitempty"`
	TextAlign  string      `json:"textAlign,omitempty"`
	Italic     *bool       `json:"italic,omitempty"`

	// Scroll (keys 60..64) — schema is the data-binding point (§4.7);
	// there is no row-template field, that concept was rejected.
	VirtualHeight *int `json:"virtualHeight,omitempty"`
	VirtualWidth  *int `json:"virtualWidth,omitempty"`
	ScrollTop     *int `json:"scrollTop,omitempty"`
	ScrollLeft    *int `json:"scrollLeft,omitempty"`
	Schema        *int `json:"schema,omitempty"` // schema slot id

	// Input (keys 70..73)
	Value       *string `json:"value,omitempty"`
	Placeholder *string `json:"placeholder,omitempty"`
	Multiline   *bool   `json:"multiline,omitempty"`
	Disabled    *bool   `json:"disabled,omitempty"`

	// Image/canvas (keys 80..83)
	Data    []byte  `json:"data,omitempty"`
	Format  string  `json:"format,omitempty"` // png, jpeg, svg
	AltText *string `json:"altText,omitempty"`
	Mode    string  `json:"mode,omitempty"` // vector2d, webgpu, remote_stream

	// Interactive/style (keys 90..93)
	Interactive string `json:"interactive,omitempty"` // clickable, focusable
	TabIndex    *int   `json:"tabIndex,omitempty"`
	Style       *int   `json:"style,omitempty"`      // slot ref
	Transition  *int   `json:"transition,omitempty"` // slot ref

	// TextAlt overrides text projection output for this node and its
	// subtree (key 3, shared with the node-core namespace).
	TextAlt *string `json:"textAlt,omitempty"`

	// Extra carries any property key not in the canonical enumeration,
	// preserved for forward compatibility (§4.2 determinism).
	Extra map[string]interface{} `json:"-"`
}

// VNode is a virtual node — what an application builds and hands to
// SourceState. It is converted to a RenderNode (package tree) on the
// viewer side.
type VNode struct {
	ID       int       `json:"id"`
	Type     NodeType  `json:"type"`
	Props    NodeProps `json:"props"`
	Children []*VNode  `json:"children,omitempty"`
	TextAlt  *string   `json:"textAlt,omitempty"`
}

// SchemaColumn describes a single column in a data schema.
type SchemaColumn struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"` // string, uint64, int64, float64, bool, timestamp
	Unit   string `json:"unit,omitempty"`
	Format string `json:"format,omitempty"` // human_bytes, relative_time
}

// SlotValue is the tagged-union interface for all slot definition
// values. Kind() is the wire discriminator; decoders dispatch on it
// rather than on the concrete Go type (Design Notes §9).
type SlotValue interface {
	Kind() string
}

// StyleSlot holds a bag of style properties (borders, colors, etc.)
// keyed like a NodeProps partial, addressed by reference from a node's
// `style` property.
type StyleSlot struct {
	Props map[string]interface{} `json:"props,omitempty"`
}

func (StyleSlot) Kind() string { return "style" }

// ColorSlot defines a named, themeable color.
type ColorSlot struct {
	Role  string `json:"role"`
	Value string `json:"value"`
}

func (ColorSlot) Kind() string { return "color" }

// KeybindSlot defines a keyboard shortcut bound to an action name.
type KeybindSlot struct {
	Action string `json:"action"`
	Key    string `json:"key"`
}

func (KeybindSlot) Kind() string { return "keybind" }

// TransitionSlot defines an animation transition profile.
type TransitionSlot struct {
	Role       string `json:"role"`
	DurationMs int    `json:"durationMs"`
	Easing     string `json:"easing"`
}

func (TransitionSlot) Kind() string { return "transition" }

// TextSizeSlot defines a named text size.
type TextSizeSlot struct {
	Role  string  `json:"role"`
	Value float64 `json:"value"`
}

func (TextSizeSlot) Kind() string { return "text_size" }

// SchemaSlotValue defines a data schema (the slot-table mirror of a
// SCHEMA message; a schema can also be referenced purely via the
// schema-slot table maintained alongside the tree).
type SchemaSlotValue struct {
	Columns []SchemaColumn `json:"columns"`
}

func (SchemaSlotValue) Kind() string { return "schema" }

// GenericSlot is the catch-all for slot kinds outside the fixed
// enumeration — the "open extensible kind" of §3. Its Kind is
// whatever the wire sent, and its Props use string keys since no
// canonical-integer enumeration exists for an unknown shape.
type GenericSlot struct {
	KindName string                 `json:"kind"`
	Props    map[string]interface{} `json:"props,omitempty"`
}

func (g GenericSlot) Kind() string { return g.KindName }

// ── Patch operations (§4.4, §6.3 patch-op key namespace) ─────────────

// PatchOp describes one incremental tree update. At most one of
// Remove/Replace/ChildrenInsert/ChildrenRemove/ChildrenMove applies;
// any number of Set properties may accompany it and are merged first.
type PatchOp struct {
	Target int `json:"target"`

	Set   map[string]interface{} `json:"set,omitempty"`
	Unset []string                `json:"unset,omitempty"` // open question #1: explicit unset list

	ChildrenInsert *ChildrenInsert `json:"childrenInsert,omitempty"`
	ChildrenRemove *ChildrenRemove `json:"childrenRemove,omitempty"`
	ChildrenMove   *ChildrenMove   `json:"childrenMove,omitempty"`

	Remove     bool   `json:"remove,omitempty"`
	Replace    *VNode `json:"replace,omitempty"`
	Transition *int   `json:"transition,omitempty"`
}

// ChildrenInsert describes inserting a child at an index (clamped to
// len(children) if out of range — "insert at index >= length appends").
type ChildrenInsert struct {
	Index int    `json:"index"`
	Node  *VNode `json:"node"`
}

// ChildrenRemove describes removing the child at an index.
type ChildrenRemove struct {
	Index int `json:"index"`
}

// ChildrenMove describes moving a child from one index to another.
// Out-of-range indices are a no-op.
type ChildrenMove struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ── Input events (§6.3 input-event key namespace) ─────────────────────

// InputEvent describes user input directed at a node (viewer → source).
type InputEvent struct {
	Target     *int   `json:"target,omitempty"`
	Kind       string `json:"kind"` // click, hover, focus, blur, key, value_change, ...
	Key        string `json:"key,omitempty"`
	Value      string `json:"value,omitempty"`
	X          *int   `json:"x,omitempty"`
	Y          *int   `json:"y,omitempty"`
	Button     *int   `json:"button,omitempty"`
	Action     string `json:"action,omitempty"`
	ScrollTop  *int   `json:"scrollTop,omitempty"`
	ScrollLeft *int   `json:"scrollLeft,omitempty"`
}

// EnvInfo describes the viewer's display environment (viewer → source).
type EnvInfo struct {
	ViewportVersion int      `json:"viewportVersion"`
	DisplayWidth    int      `json:"displayWidth"`
	DisplayHeight   int      `json:"displayHeight"`
	PixelDensity    float64  `json:"pixelDensity"`
	GPU             bool     `json:"gpu"`
	GPUApi          string   `json:"gpuApi,omitempty"`
	ColorDepth      int      `json:"colorDepth"`
	VideoDecode     []string `json:"videoDecode,omitempty"`
	Remote          bool     `json:"remote"`
	LatencyMs       float64  `json:"latencyMs"`
}

// ── Protocol message union (§4.2) ─────────────────────────────────────

// ProtocolMessage is a logical protocol message, independent of its
// wire encoding. Exactly the fields relevant to Type are populated.
type ProtocolMessage struct {
	Type MessageType `json:"type"`

	// DEFINE
	Slot      *int      `json:"slot,omitempty"`
	SlotValue SlotValue `json:"value,omitempty"`

	// TREE
	Root *VNode `json:"root,omitempty"`

	// PATCH
	Ops []PatchOp `json:"ops,omitempty"`

	// DATA
	Schema *int          `json:"schema,omitempty"`
	Row    []interface{} `json:"row,omitempty"`
	// RowDict is populated instead of Row for the self-describing dict
	// row shape (§4.7); exactly one of Row/RowDict is set.
	RowDict map[string]interface{} `json:"rowDict,omitempty"`

	// INPUT
	Event *InputEvent `json:"event,omitempty"`

	// ENV
	Env *EnvInfo `json:"env,omitempty"`

	// SCHEMA
	Columns []SchemaColumn `json:"columns,omitempty"`
}
