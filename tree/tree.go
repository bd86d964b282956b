// Package tree implements the viewer-side retained render tree: node
// materialization, the node index, incremental patch application, and
// the per-entity staleness-aware message processor (§3, §4.4, §4.5).
package tree

import "github.com/anthropics/viewport/protocol"

// ComputedLayout holds the position/dimensions a layout engine (an
// external collaborator, out of scope here) computed for a node. The
// core only stores the rectangle; it never computes one.
type ComputedLayout struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RenderNode is a materialized node in the render tree (§3 Node row).
type RenderNode struct {
	ID             int
	Type           protocol.NodeType
	Props          protocol.NodeProps
	Children       []*RenderNode
	ComputedLayout *ComputedLayout
}

// RenderTree holds the complete materialized state for one
// (viewer, session) pair: root, slots, schemas, data rows, and the
// node index (§3 Render tree row).
type RenderTree struct {
	Root      *RenderNode
	Slots     map[int]protocol.SlotValue
	Schemas   map[int][]protocol.SchemaColumn
	DataRows  map[int][][]interface{} // schema slot id -> rows, append order preserved
	NodeIndex map[int]*RenderNode
}

// NewRenderTree creates an empty render tree with initialized maps.
func NewRenderTree() *RenderTree {
	return &RenderTree{
		Slots:     make(map[int]protocol.SlotValue),
		Schemas:   make(map[int][]protocol.SchemaColumn),
		DataRows:  make(map[int][][]interface{}),
		NodeIndex: make(map[int]*RenderNode),
	}
}

// Construct deep-copies a VNode's properties and converts its children
// recursively into materialized RenderNodes, indexing every node into
// index as it goes (§4.4 Construct). A TextAlt override on the VNode
// is lifted into the RenderNode's own properties.
func Construct(v *protocol.VNode, index map[int]*RenderNode) *RenderNode {
	if v == nil {
		return nil
	}

	children := make([]*RenderNode, 0, len(v.Children))
	for _, c := range v.Children {
		children = append(children, Construct(c, index))
	}

	props := v.Props
	if v.Props.Extra != nil {
		extra := make(map[string]interface{}, len(v.Props.Extra))
		for k, val := range v.Props.Extra {
			extra[k] = val
		}
		props.Extra = extra
	}

	node := &RenderNode{
		ID:       v.ID,
		Type:     v.Type,
		Props:    props,
		Children: children,
	}
	if v.TextAlt != nil {
		node.Props.TextAlt = v.TextAlt
	}

	index[node.ID] = node
	return node
}

// SetTreeRoot replaces the render tree's root from a VNode, clearing
// and rebuilding the node index atomically: the old index and tree
// are only discarded once the new tree has been fully materialized
// (§4.4 setTreeRoot: "either the whole new tree is installed or the
// old tree remains").
func SetTreeRoot(tree *RenderTree, root *protocol.VNode) {
	newIndex := make(map[int]*RenderNode, len(tree.NodeIndex))
	newRoot := Construct(root, newIndex)
	tree.Root = newRoot
	tree.NodeIndex = newIndex
}

// CountNodes returns the total number of nodes in the subtree rooted
// at node.
func CountNodes(node *RenderNode) int {
	if node == nil {
		return 0
	}
	count := 1
	for _, child := range node.Children {
		count += CountNodes(child)
	}
	return count
}

// Depth returns the maximum depth of the subtree rooted at node (a
// childless node has depth 1; nil has depth 0).
func Depth(node *RenderNode) int {
	if node == nil {
		return 0
	}
	if len(node.Children) == 0 {
		return 1
	}
	max := 0
	for _, child := range node.Children {
		if d := Depth(child); d > max {
			max = d
		}
	}
	return 1 + max
}

// Walk visits every node in the subtree rooted at node in depth-first
// order, calling visitor with the node and its depth relative to the
// walk's starting point.
func Walk(node *RenderNode, visitor func(n *RenderNode, depth int)) {
	walk(node, visitor, 0)
}

func walk(node *RenderNode, visitor func(n *RenderNode, depth int), depth int) {
	if node == nil {
		return
	}
	visitor(node, depth)
	for _, child := range node.Children {
		walk(child, visitor, depth+1)
	}
}

// FindByID finds a node by id within the subtree rooted at node.
func FindByID(node *RenderNode, id int) *RenderNode {
	if node == nil {
		return nil
	}
	if node.ID == id {
		return node
	}
	for _, child := range node.Children {
		if found := FindByID(child, id); found != nil {
			return found
		}
	}
	return nil
}
