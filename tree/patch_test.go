package tree

import (
	"testing"

	"github.com/anthropics/viewport/protocol"
)

func TestApplyPatchSet(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ok := ApplyPatch(rt, protocol.PatchOp{
		Target: 2,
		Set:    map[string]interface{}{"content": "Changed"},
	})
	if !ok {
		t.Fatal("ApplyPatch returned false")
	}
	node := rt.NodeIndex[2]
	if node.Props.Content == nil || *node.Props.Content != "Changed" {
		t.Errorf("content = %v, want Changed", node.Props.Content)
	}
}

func TestApplyPatchSetBorderAndShadow(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ApplyPatch(rt, protocol.PatchOp{
		Target: 2,
		Set: map[string]interface{}{
			"border": map[string]interface{}{"width": 1, "color": "#000", "style": "solid"},
			"shadow": map[string]interface{}{"x": 1, "y": 2, "blur": 3, "color": "#333"},
		},
	})

	node := rt.NodeIndex[2]
	if node.Props.Border == nil || node.Props.Border.Width != 1 || node.Props.Border.Color != "#000" || node.Props.Border.Style != "solid" {
		t.Errorf("border = %+v", node.Props.Border)
	}
	if node.Props.Shadow == nil || node.Props.Shadow.X != 1 || node.Props.Shadow.Y != 2 || node.Props.Shadow.Blur != 3 || node.Props.Shadow.Color != "#333" {
		t.Errorf("shadow = %+v", node.Props.Shadow)
	}

	ApplyPatch(rt, protocol.PatchOp{Target: 2, Unset: []string{"border", "shadow"}})
	if node.Props.Border != nil {
		t.Error("expected border to be unset")
	}
	if node.Props.Shadow != nil {
		t.Error("expected shadow to be unset")
	}
}

func TestApplyPatchUnknownTargetFails(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ok := ApplyPatch(rt, protocol.PatchOp{Target: 999, Set: map[string]interface{}{"content": "x"}})
	if ok {
		t.Error("expected false for unknown target")
	}
	// tree must remain unchanged
	if *rt.NodeIndex[2].Props.Content != "Hello" {
		t.Error("unrelated node mutated by a failed patch")
	}
}

func TestApplyPatchUnset(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())
	ApplyPatch(rt, protocol.PatchOp{Target: 2, Set: map[string]interface{}{"italic": true}})

	ApplyPatch(rt, protocol.PatchOp{Target: 2, Unset: []string{"content"}})
	if rt.NodeIndex[2].Props.Content != nil {
		t.Error("expected content to be unset")
	}
}

func TestApplyPatchSetAndUnsetSameKeyResolvesUnset(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ApplyPatch(rt, protocol.PatchOp{
		Target: 2,
		Set:    map[string]interface{}{"content": "new value"},
		Unset:  []string{"content"},
	})
	if rt.NodeIndex[2].Props.Content != nil {
		t.Error("expected unset to win over a simultaneous set of the same key")
	}
}

func TestApplyPatchRemove(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ok := ApplyPatch(rt, protocol.PatchOp{Target: 3, Remove: true})
	if !ok {
		t.Fatal("ApplyPatch returned false")
	}
	if len(rt.Root.Children) != 1 {
		t.Errorf("children = %d, want 1", len(rt.Root.Children))
	}
	if _, exists := rt.NodeIndex[3]; exists {
		t.Error("removed node still indexed")
	}
}

func TestApplyPatchRemoveRootClearsTree(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ok := ApplyPatch(rt, protocol.PatchOp{Target: 1, Remove: true})
	if !ok {
		t.Fatal("ApplyPatch returned false")
	}
	if rt.Root != nil {
		t.Error("expected nil root after removing the root")
	}
	if len(rt.NodeIndex) != 0 {
		t.Error("expected empty index after removing the root")
	}
}

func TestApplyPatchReplace(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	replacement := &protocol.VNode{ID: 4, Type: protocol.NodeText, Props: protocol.NodeProps{Content: strPtr("replaced")}}
	ok := ApplyPatch(rt, protocol.PatchOp{Target: 2, Replace: replacement})
	if !ok {
		t.Fatal("ApplyPatch returned false")
	}
	if _, exists := rt.NodeIndex[2]; exists {
		t.Error("old node id still indexed after replace")
	}
	newNode, ok := rt.NodeIndex[4]
	if !ok {
		t.Fatal("replacement node not indexed")
	}
	if rt.Root.Children[0] != newNode {
		t.Error("parent's child slot not updated to the replacement")
	}
}

func TestApplyPatchChildrenInsert(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	newChild := &protocol.VNode{ID: 4, Type: protocol.NodeText, Props: protocol.NodeProps{Content: strPtr("Inserted")}}
	ok := ApplyPatch(rt, protocol.PatchOp{
		Target:         1,
		ChildrenInsert: &protocol.ChildrenInsert{Index: 1, Node: newChild},
	})
	if !ok {
		t.Fatal("ApplyPatch returned false")
	}
	if len(rt.Root.Children) != 3 || rt.Root.Children[1].ID != 4 {
		t.Errorf("children = %+v", rt.Root.Children)
	}
}

func TestApplyPatchChildrenInsertAtEndClampsIndex(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	newChild := &protocol.VNode{ID: 4, Type: protocol.NodeText, Props: protocol.NodeProps{Content: strPtr("Tail")}}
	ApplyPatch(rt, protocol.PatchOp{
		Target:         1,
		ChildrenInsert: &protocol.ChildrenInsert{Index: 999, Node: newChild},
	})
	if len(rt.Root.Children) != 3 || rt.Root.Children[2].ID != 4 {
		t.Errorf("children = %+v", rt.Root.Children)
	}
}

func TestApplyPatchChildrenRemove(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ApplyPatch(rt, protocol.PatchOp{Target: 1, ChildrenRemove: &protocol.ChildrenRemove{Index: 0}})
	if len(rt.Root.Children) != 1 || rt.Root.Children[0].ID != 3 {
		t.Errorf("children = %+v", rt.Root.Children)
	}
	if _, exists := rt.NodeIndex[2]; exists {
		t.Error("removed child still indexed")
	}
}

func TestApplyPatchChildrenMove(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ApplyPatch(rt, protocol.PatchOp{Target: 1, ChildrenMove: &protocol.ChildrenMove{From: 0, To: 1}})
	if rt.Root.Children[0].ID != 3 || rt.Root.Children[1].ID != 2 {
		t.Errorf("children order = %d, %d", rt.Root.Children[0].ID, rt.Root.Children[1].ID)
	}
}

func TestApplyPatchChildrenMoveOutOfRangeIsNoop(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	ApplyPatch(rt, protocol.PatchOp{Target: 1, ChildrenMove: &protocol.ChildrenMove{From: 0, To: 999}})
	if rt.Root.Children[0].ID != 2 || rt.Root.Children[1].ID != 3 {
		t.Errorf("expected no-op on out-of-range move, got %d, %d", rt.Root.Children[0].ID, rt.Root.Children[1].ID)
	}
}

func TestApplyPatchesReportsAppliedAndFailed(t *testing.T) {
	rt := NewRenderTree()
	SetTreeRoot(rt, simpleVTree())

	applied, failed := ApplyPatches(rt, []protocol.PatchOp{
		{Target: 2, Set: map[string]interface{}{"content": "A"}},
		{Target: 3, Set: map[string]interface{}{"content": "B"}},
		{Target: 999, Set: map[string]interface{}{"content": "C"}},
	})
	if applied != 2 || failed != 1 {
		t.Errorf("applied=%d failed=%d, want 2, 1", applied, failed)
	}
}
