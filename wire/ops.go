package wire

import "github.com/anthropics/viewport/protocol"

// encodePatchOp converts a PatchOp to a generic map using the
// patch-op key namespace (§6.3: target, set, remove, replace,
// childrenInsert, childrenRemove, childrenMove, transition, index,
// node, from, to).
func encodePatchOp(op protocol.PatchOp, intKeyed bool) interface{} {
	put := func(m interface{}, name string, v interface{}) {
		switch mm := m.(type) {
		case map[int]interface{}:
			if k, ok := patchOpKeys.ToInt(name); ok {
				mm[k] = v
			}
		case map[string]interface{}:
			mm[name] = v
		}
	}

	var m interface{}
	if intKeyed {
		m = map[int]interface{}{}
	} else {
		m = map[string]interface{}{}
	}

	put(m, "target", op.Target)
	if op.Set != nil {
		setMap := make(map[string]interface{}, len(op.Set))
		for k, v := range op.Set {
			setMap[k] = v
		}
		put(m, "set", setMap)
	}
	if len(op.Unset) > 0 {
		unset := make([]interface{}, len(op.Unset))
		for i, s := range op.Unset {
			unset[i] = s
		}
		// "unset" is not part of the fixed patch-op enumeration (open
		// question #1's resolution is additive): string-keyed objects
		// carry it as "unset", int-keyed ones under extensionKeyUnset.
		if mm, ok := m.(map[int]interface{}); ok {
			_ = mm // putRaw handles the int-keyed case
		}
		putRaw(m, "unset", unset)
	}
	if op.Remove {
		put(m, "remove", true)
	}
	if op.Replace != nil {
		put(m, "replace", encodeVNode(op.Replace, intKeyed))
	}
	if op.ChildrenInsert != nil {
		ci := newObj(intKeyed)
		put(ci, "index", op.ChildrenInsert.Index)
		put(ci, "node", encodeVNode(op.ChildrenInsert.Node, intKeyed))
		put(m, "childrenInsert", ci)
	}
	if op.ChildrenRemove != nil {
		cr := newObj(intKeyed)
		put(cr, "index", op.ChildrenRemove.Index)
		put(m, "childrenRemove", cr)
	}
	if op.ChildrenMove != nil {
		cm := newObj(intKeyed)
		put(cm, "from", op.ChildrenMove.From)
		put(cm, "to", op.ChildrenMove.To)
		put(m, "childrenMove", cm)
	}
	if op.Transition != nil {
		put(m, "transition", *op.Transition)
	}

	return m
}

func newObj(intKeyed bool) interface{} {
	if intKeyed {
		return map[int]interface{}{}
	}
	return map[string]interface{}{}
}

// putRaw sets a string key directly regardless of the map's key type,
// used for keys outside the fixed enumeration (additive extensions).
func putRaw(m interface{}, name string, v interface{}) {
	switch mm := m.(type) {
	case map[int]interface{}:
		// Can't store a string key in a map[int]interface{}; fall back
		// to storing under a synthetic negative slot reserved for
		// additive string-keyed extensions within an int-keyed object.
		// There is exactly one such extension today ("unset"), so a
		// single fixed negative id is sufficient and stable.
		mm[extensionKeyUnset] = v
	case map[string]interface{}:
		mm[name] = v
	}
}

// extensionKeyUnset is the reserved negative key used to carry the
// "unset" patch-op extension inside an otherwise int-keyed object.
// Negative keys never collide with the non-negative canonical
// enumeration (§6.3), and CBOR's canonical ordering still sorts it
// deterministically (negative integers are major type 1, ordered
// after all non-negative keys of the same byte length, which is fine
// since "unset" has no defined position in the fixed enumeration).
const extensionKeyUnset = -1

func decodePatchOp(raw interface{}) (protocol.PatchOp, bool) {
	gm, ok := asGenericMap(raw)
	if !ok {
		return protocol.PatchOp{}, false
	}

	var op protocol.PatchOp
	if t, ok := gm.get(0, "target"); ok {
		if n, ok := toInt(t); ok {
			op.Target = n
		}
	}
	if s, ok := gm.get(1, "set"); ok {
		if sm, ok := asGenericMap(s); ok {
			op.Set = sm.stringKeys(nodePropKeys)
		}
	}
	if u, ok := gm.get(int(extensionKeyUnset), "unset"); ok {
		if arr, ok := u.([]interface{}); ok {
			for _, v := range arr {
				if s, ok := toString(v); ok {
					op.Unset = append(op.Unset, s)
				}
			}
		}
	}
	if r, ok := gm.get(2, "remove"); ok {
		if b, ok := toBool(r); ok {
			op.Remove = b
		}
	}
	if rp, ok := gm.get(3, "replace"); ok {
		op.Replace = decodeVNode(rp)
	}
	if ci, ok := gm.get(4, "childrenInsert"); ok {
		if cim, ok := asGenericMap(ci); ok {
			insert := &protocol.ChildrenInsert{}
			if idx, ok := cim.get(8, "index"); ok {
				if n, ok := toInt(idx); ok {
					insert.Index = n
				}
			}
			if node, ok := cim.get(9, "node"); ok {
				insert.Node = decodeVNode(node)
			}
			op.ChildrenInsert = insert
		}
	}
	if cr, ok := gm.get(5, "childrenRemove"); ok {
		if crm, ok := asGenericMap(cr); ok {
			remove := &protocol.ChildrenRemove{}
			if idx, ok := crm.get(8, "index"); ok {
				if n, ok := toInt(idx); ok {
					remove.Index = n
				}
			}
			op.ChildrenRemove = remove
		}
	}
	if cm, ok := gm.get(6, "childrenMove"); ok {
		if cmm, ok := asGenericMap(cm); ok {
			move := &protocol.ChildrenMove{}
			if from, ok := cmm.get(10, "from"); ok {
				if n, ok := toInt(from); ok {
					move.From = n
				}
			}
			if to, ok := cmm.get(11, "to"); ok {
				if n, ok := toInt(to); ok {
					move.To = n
				}
			}
			op.ChildrenMove = move
		}
	}
	if tr, ok := gm.get(7, "transition"); ok {
		if n, ok := toInt(tr); ok {
			op.Transition = &n
		}
	}

	return op, true
}
