package tree

import (
	"testing"

	"github.com/anthropics/viewport/protocol"
)

func strPtr(s string) *string { return &s }

func simpleVTree() *protocol.VNode {
	return &protocol.VNode{
		ID:   1,
		Type: protocol.NodeBox,
		Props: protocol.NodeProps{
			Direction: "column",
		},
		Children: []*protocol.VNode{
			{ID: 2, Type: protocol.NodeText, Props: protocol.NodeProps{Content: strPtr("Hello")}},
			{ID: 3, Type: protocol.NodeText, Props: protocol.NodeProps{Content: strPtr("World")}},
		},
	}
}

func TestNewRenderTreeEmpty(t *testing.T) {
	rt := NewRenderTree()
	if rt.Root != nil {
		t.Error("expected nil root")
	}
	if len(rt.Slots) != 0 || len(rt.NodeIndex) != 0 {
		t.Error("expected empty maps")
	}
}

func TestSetTreeRootIndexesAllNodes(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	if rt.Root == nil || rt.Root.ID != 1 {
		t.Fatalf("root = %+v", rt.Root)
	}
	if len(rt.NodeIndex) != 3 {
		t.Fatalf("index size = %d, want 3", len(rt.NodeIndex))
	}
	for _, id := range []int{1, 2, 3} {
		if _, ok := rt.NodeIndex[id]; !ok {
			t.Errorf("node %d missing from index", id)
		}
	}
}

func TestSetTreeRootAtomicOnEmptyReplacement(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())
	oldIndexLen := len(rt.NodeIndex)

	// Replacing with a nil VNode is itself a degenerate "construct
	// nothing" case; the old tree must not be left half-torn-down.
	SetTreeRoot(rt, nil)
	if rt.Root != nil {
		t.Error("expected nil root after setting nil VNode")
	}
	if len(rt.NodeIndex) != 0 {
		t.Errorf("expected fresh empty index, got %d entries (old had %d)", len(rt.NodeIndex), oldIndexLen)
	}
}

func TestSetTreeRootLiftsTextAlt(t *testing.T) {
	rt := NewRenderTree()
	alt := "override"
	SetTreeRoot(rt, &protocol.VNode{ID: 1, Type: protocol.NodeText, Props: protocol.NodeProps{Content: strPtr("orig")}, TextAlt: &alt})

	if rt.Root.Props.TextAlt == nil || *rt.Root.Props.TextAlt != "override" {
		t.Errorf("TextAlt = %v, want override", rt.Root.Props.TextAlt)
	}
}

func TestConstructDeepCopiesExtra(t *testing.T) {
	v := &protocol.VNode{
		ID:   1,
		Type: protocol.NodeBox,
		Props: protocol.NodeProps{
			Extra: map[string]interface{}{"custom": "value"},
		},
	}
	index := make(map[int]*RenderNode)
	node := Construct(v, index)

	node.Props.Extra["custom"] = "mutated"
	if v.Props.Extra["custom"] != "value" {
		t.Error("Construct should deep-copy Extra, not alias it")
	}
}

func TestCountNodes(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())
	if n := CountNodes(rt.Root); n != 3 {
		t.Errorf("CountNodes = %d, want 3", n)
	}
	if n := CountNodes(nil); n != 0 {
		t.Errorf("CountNodes(nil) = %d, want 0", n)
	}
}

func TestDepth(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())
	if d := Depth(rt.Root); d != 2 {
		t.Errorf("Depth = %d, want 2", d)
	}
	if d := Depth(nil); d != 0 {
		t.Errorf("Depth(nil) = %d, want 0", d)
	}
}

func TestFindByID(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	if n := FindByID(rt.Root, 2); n == nil || n.ID != 2 {
		t.Errorf("FindByID(2) = %+v", n)
	}
	if n := FindByID(rt.Root, 999); n != nil {
		t.Error("expected nil for missing id")
	}
}

func TestWalkVisitsAllNodesWithDepth(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	depths := make(map[int]int)
	Walk(rt.Root, func(n *RenderNode, depth int) { depths[n.ID] = depth })

	if depths[1] != 0 || depths[2] != 1 || depths[3] != 1 {
		t.Errorf("depths = %+v", depths)
	}
}
