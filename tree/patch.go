package tree

import "github.com/anthropics/viewport/protocol"

// ApplyPatch applies one patch operation to tree (§4.4 applyPatch).
// Each op is applied as a unit: a malformed op targeting an unknown
// node id returns false and leaves the tree unchanged (§4.4
// Atomicity, §7 Apply errors) — other ops in the same batch are
// unaffected.
func ApplyPatch(t *RenderTree, op protocol.PatchOp) bool {
	if op.Remove {
		return removeNode(t, op.Target)
	}
	if op.Replace != nil {
		return replaceNode(t, op.Target, op.Replace)
	}

	node, ok := t.NodeIndex[op.Target]
	if !ok {
		return false
	}

	if op.Set != nil {
		applyPropsSet(node, op.Set)
	}
	if len(op.Unset) > 0 {
		applyPropsUnset(node, op.Unset)
	}

	if op.ChildrenInsert != nil {
		child := Construct(op.ChildrenInsert.Node, t.NodeIndex)
		idx := op.ChildrenInsert.Index
		if idx > len(node.Children) {
			idx = len(node.Children)
		}
		if idx < 0 {
			idx = 0
		}
		node.Children = append(node.Children, nil)
		copy(node.Children[idx+1:], node.Children[idx:])
		node.Children[idx] = child
	}

	if op.ChildrenRemove != nil {
		idx := op.ChildrenRemove.Index
		if idx >= 0 && idx < len(node.Children) {
			removed := node.Children[idx]
			removeSubtreeFromIndex(t.NodeIndex, removed)
			node.Children = append(node.Children[:idx], node.Children[idx+1:]...)
		}
	}

	if op.ChildrenMove != nil {
		from, to := op.ChildrenMove.From, op.ChildrenMove.To
		if from >= 0 && from < len(node.Children) && to >= 0 && to < len(node.Children) {
			child := node.Children[from]
			node.Children = append(node.Children[:from], node.Children[from+1:]...)
			node.Children = append(node.Children, nil)
			copy(node.Children[to+1:], node.Children[to:])
			node.Children[to] = child
		}
	}

	return true
}

// ApplyPatches applies a batch of patch operations in array order
// (§4.5: "Ops in a PATCH are applied in array order"), returning the
// count applied and failed.
func ApplyPatches(t *RenderTree, ops []protocol.PatchOp) (applied, failed int) {
	for _, op := range ops {
		if ApplyPatch(t, op) {
			applied++
		} else {
			failed++
		}
	}
	return applied, failed
}

// applyPropsSet merges a property set into a node's properties,
// property-by-property, last-write-wins (§4.4 set).
func applyPropsSet(node *RenderNode, set map[string]interface{}) {
	p := &node.Props
	for k, v := range set {
		switch k {
		case "direction":
			if s, ok := v.(string); ok {
				p.Direction = s
			}
		case "wrap":
			if b, ok := v.(bool); ok {
				p.Wrap = &b
			}
		case "justify":
			if s, ok := v.(string); ok {
				p.Justify = s
			}
		case "align":
			if s, ok := v.(string); ok {
				p.Align = s
			}
		case "gap":
			if n, ok := toInt(v); ok {
				p.Gap = &n
			}
		case "padding":
			p.Padding = v
		case "margin":
			p.Margin = v
		case "border":
			if b, ok := toBorderStyle(v); ok {
				p.Border = b
			}
		case "borderRadius":
			if n, ok := toInt(v); ok {
				p.BorderRadius = &n
			}
		case "background":
			p.Background = v
		case "opacity":
			if f, ok := toFloat(v); ok {
				p.Opacity = &f
			}
		case "shadow":
			if s, ok := toShadowStyle(v); ok {
				p.Shadow = s
			}
		case "width":
			p.Width = v
		case "height":
			p.Height = v
		case "flex":
			if f, ok := toFloat(v); ok {
				p.Flex = &f
			}
		case "minWidth":
			if n, ok := toInt(v); ok {
				p.MinWidth = &n
			}
		case "minHeight":
			if n, ok := toInt(v); ok {
				p.MinHeight = &n
			}
		case "maxWidth":
			if n, ok := toInt(v); ok {
				p.MaxWidth = &n
			}
		case "maxHeight":
			if n, ok := toInt(v); ok {
				p.MaxHeight = &n
			}
		case "content":
			if s, ok := v.(string); ok {
				p.Content = &s
			}
		case "fontFamily":
			if s, ok := v.(string); ok {
				p.FontFamily = s
			}
		case "size":
			if n, ok := toInt(v); ok {
				p.Size = &n
			}
		case "weight":
			if s, ok := v.(string); ok {
				p.Weight = s
			}
		case "color":
			p.Color = v
		case "decoration":
			if s, ok := v.(string); ok {
				p.Decoration = s
			}
		case "textAlign":
			if s, ok := v.(string); ok {
				p.TextAlign = s
			}
		case "italic":
			if b, ok := v.(bool); ok {
				p.Italic = &b
			}
		case "virtualHeight":
			if n, ok := toInt(v); ok {
				p.VirtualHeight = &n
			}
		case "virtualWidth":
			if n, ok := toInt(v); ok {
				p.VirtualWidth = &n
			}
		case "scrollTop":
			if n, ok := toInt(v); ok {
				p.ScrollTop = &n
			}
		case "scrollLeft":
			if n, ok := toInt(v); ok {
				p.ScrollLeft = &n
			}
		case "schema":
			if n, ok := toInt(v); ok {
				p.Schema = &n
			}
		case "value":
			if s, ok := v.(string); ok {
				p.Value = &s
			}
		case "placeholder":
			if s, ok := v.(string); ok {
				p.Placeholder = &s
			}
		case "multiline":
			if b, ok := v.(bool); ok {
				p.Multiline = &b
			}
		case "disabled":
			if b, ok := v.(bool); ok {
				p.Disabled = &b
			}
		case "format":
			if s, ok := v.(string); ok {
				p.Format = s
			}
		case "altText":
			if s, ok := v.(string); ok {
				p.AltText = &s
			}
		case "mode":
			if s, ok := v.(string); ok {
				p.Mode = s
			}
		case "interactive":
			if s, ok := v.(string); ok {
				p.Interactive = s
			}
		case "tabIndex":
			if n, ok := toInt(v); ok {
				p.TabIndex = &n
			}
		case "style":
			if n, ok := toInt(v); ok {
				p.Style = &n
			}
		case "transition":
			if n, ok := toInt(v); ok {
				p.Transition = &n
			}
		case "textAlt":
			if s, ok := v.(string); ok {
				p.TextAlt = &s
			}
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]interface{})
			}
			p.Extra[k] = v
		}
	}
}

// applyPropsUnset clears the named properties (open question #1's
// resolution: an explicit unset list rather than overloading null).
// A key present in both Set and Unset on the same op resolves to
// unset, applied after the merge above. Only the keys listed in the
// switch below are cleared; any other key is removed from Extra only,
// so typed properties such as fontFamily, size, weight, decoration,
// textAlign, italic, the min/max sizes, the scroll offsets and
// dimensions, multiline, format, mode, interactive and tabIndex keep
// their values.
func applyPropsUnset(node *RenderNode, keys []string) {
	p := &node.Props
	for _, k := range keys {
		switch k {
		case "direction":
			p.Direction = ""
		case "wrap":
			p.Wrap = nil
		case "justify":
			p.Justify = ""
		case "align":
			p.Align = ""
		case "gap":
			p.Gap = nil
		case "padding":
			p.Padding = nil
		case "margin":
			p.Margin = nil
		case "border":
			p.Border = nil
		case "borderRadius":
			p.BorderRadius = nil
		case "background":
			p.Background = nil
		case "opacity":
			p.Opacity = nil
		case "shadow":
			p.Shadow = nil
		case "width":
			p.Width = nil
		case "height":
			p.Height = nil
		case "flex":
			p.Flex = nil
		case "content":
			p.Content = nil
		case "color":
			p.Color = nil
		case "value":
			p.Value = nil
		case "placeholder":
			p.Placeholder = nil
		case "disabled":
			p.Disabled = nil
		case "altText":
			p.AltText = nil
		case "style":
			p.Style = nil
		case "transition":
			p.Transition = nil
		case "textAlt":
			p.TextAlt = nil
		case "schema":
			p.Schema = nil
		default:
			if p.Extra != nil {
				delete(p.Extra, k)
			}
		}
	}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
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

// toBorderStyle decodes a set op's "border" value, a property bag
// shaped like protocol.BorderStyle, into a typed pointer.
func toBorderStyle(v interface{}) (*protocol.BorderStyle, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	b := &protocol.BorderStyle{}
	if n, ok := toInt(m["width"]); ok {
		b.Width = n
	}
	if s, ok := m["color"].(string); ok {
		b.Color = s
	}
	if s, ok := m["style"].(string); ok {
		b.Style = s
	}
	return b, true
}

// toShadowStyle decodes a set op's "shadow" value, a property bag
// shaped like protocol.ShadowStyle, into a typed pointer.
func toShadowStyle(v interface{}) (*protocol.ShadowStyle, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	s := &protocol.ShadowStyle{}
	if n, ok := toInt(m["x"]); ok {
		s.X = n
	}
	if n, ok := toInt(m["y"]); ok {
		s.Y = n
	}
	if n, ok := toInt(m["blur"]); ok {
		s.Blur = n
	}
	if c, ok := m["color"].(string); ok {
		s.Color = c
	}
	return s, true
}

// removeNode removes a node (and its subtree) from the tree. Removing
// the root sets Root to nil and clears its subtree from the index
// (§8 boundary behavior).
func removeNode(t *RenderTree, targetID int) bool {
	if _, ok := t.NodeIndex[targetID]; !ok {
		return false
	}

	if t.Root != nil && t.Root.ID == targetID {
		removeSubtreeFromIndex(t.NodeIndex, t.Root)
		t.Root = nil
		return true
	}

	parent := findParent(t.Root, targetID)
	if parent == nil {
		return false
	}
	for i, c := range parent.Children {
		if c.ID == targetID {
			removeSubtreeFromIndex(t.NodeIndex, c)
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return true
		}
	}
	return false
}

// replaceNode swaps a node's subtree for a freshly materialized
// replacement. The replacement's own id need not equal the target's
// (§4.4 replace).
func replaceNode(t *RenderTree, targetID int, replacement *protocol.VNode) bool {
	existing, ok := t.NodeIndex[targetID]
	if !ok {
		return false
	}

	removeSubtreeFromIndex(t.NodeIndex, existing)
	newNode := Construct(replacement, t.NodeIndex)

	if t.Root != nil && t.Root.ID == targetID {
		t.Root = newNode
		return true
	}

	parent := findParent(t.Root, targetID)
	if parent == nil {
		return false
	}
	for i, c := range parent.Children {
		if c.ID == targetID {
			parent.Children[i] = newNode
			return true
		}
	}
	return false
}

func removeSubtreeFromIndex(index map[int]*RenderNode, node *RenderNode) {
	if node == nil {
		return
	}
	delete(index, node.ID)
	for _, child := range node.Children {
		removeSubtreeFromIndex(index, child)
	}
}

func findParent(root *RenderNode, targetID int) *RenderNode {
	if root == nil {
		return nil
	}
	for _, child := range root.Children {
		if child.ID == targetID {
			return root
		}
		if found := findParent(child, targetID); found != nil {
			return found
		}
	}
	return nil
}
