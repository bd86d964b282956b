package wire

import "github.com/anthropics/viewport/protocol"

// Slot values always use string keys on the wire (§4.2: "Open-ended
// objects (slot values of user-defined kinds) use string keys since
// their shape is not in the enumeration") — this applies uniformly to
// every slot kind, not only GenericSlot, since the slot-kind space
// itself is additively extensible.

func encodeSlotValue(v protocol.SlotValue) interface{} {
	if v == nil {
		return nil
	}
	switch sv := v.(type) {
	case protocol.StyleSlot:
		return map[string]interface{}{"kind": "style", "props": sv.Props}
	case protocol.ColorSlot:
		return map[string]interface{}{"kind": "color", "role": sv.Role, "value": sv.Value}
	case protocol.KeybindSlot:
		return map[string]interface{}{"kind": "keybind", "action": sv.Action, "key": sv.Key}
	case protocol.TransitionSlot:
		return map[string]interface{}{"kind": "transition", "role": sv.Role, "durationMs": sv.DurationMs, "easing": sv.Easing}
	case protocol.TextSizeSlot:
		return map[string]interface{}{"kind": "text_size", "role": sv.Role, "value": sv.Value}
	case protocol.SchemaSlotValue:
		return map[string]interface{}{"kind": "schema", "columns": encodeSchemaColumns(sv.Columns, false)}
	case protocol.GenericSlot:
		m := map[string]interface{}{"kind": sv.KindName}
		if sv.Props != nil {
			m["props"] = sv.Props
		}
		return m
	default:
		return map[string]interface{}{"kind": v.Kind()}
	}
}

// decodeSlotValue dispatches on the wire "kind" string, never on Go
// concrete type (Design Notes §9).
func decodeSlotValue(raw interface{}) protocol.SlotValue {
	gm, ok := asGenericMap(raw)
	if !ok {
		return nil
	}
	kind, _ := toString(firstOf(gm, "kind"))

	switch kind {
	case "style":
		props, _ := firstOf(gm, "props").(map[string]interface{})
		return protocol.StyleSlot{Props: props}
	case "color":
		role, _ := toString(firstOf(gm, "role"))
		value, _ := toString(firstOf(gm, "value"))
		return protocol.ColorSlot{Role: role, Value: value}
	case "keybind":
		action, _ := toString(firstOf(gm, "action"))
		key, _ := toString(firstOf(gm, "key"))
		return protocol.KeybindSlot{Action: action, Key: key}
	case "transition":
		role, _ := toString(firstOf(gm, "role"))
		durationMs, _ := toInt(firstOf(gm, "durationMs"))
		easing, _ := toString(firstOf(gm, "easing"))
		return protocol.TransitionSlot{Role: role, DurationMs: durationMs, Easing: easing}
	case "text_size":
		role, _ := toString(firstOf(gm, "role"))
		value, _ := toFloat(firstOf(gm, "value"))
		return protocol.TextSizeSlot{Role: role, Value: value}
	case "schema":
		cols := decodeSchemaColumns(firstOf(gm, "columns"))
		return protocol.SchemaSlotValue{Columns: cols}
	case "":
		return nil
	default:
		var props map[string]interface{}
		if p, ok := firstOf(gm, "props").(map[string]interface{}); ok {
			props = p
		}
		return protocol.GenericSlot{KindName: kind, Props: props}
	}
}

// firstOf is a convenience lookup for slot values, which are always
// string-keyed on the wire (§4.2).
func firstOf(gm genericMap, name string) interface{} {
	return gm[name]
}

func encodeSchemaColumns(cols []protocol.SchemaColumn, intKeyed bool) []interface{} {
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		if intKeyed {
			m := map[int]interface{}{}
			if k, ok := schemaColumnKeys.ToInt("id"); ok {
				m[k] = c.ID
			}
			if k, ok := schemaColumnKeys.ToInt("name"); ok {
				m[k] = c.Name
			}
			if k, ok := schemaColumnKeys.ToInt("type"); ok {
				m[k] = c.Type
			}
			if c.Unit != "" {
				if k, ok := schemaColumnKeys.ToInt("unit"); ok {
					m[k] = c.Unit
				}
			}
			if c.Format != "" {
				if k, ok := schemaColumnKeys.ToInt("format"); ok {
					m[k] = c.Format
				}
			}
			out[i] = m
		} else {
			m := map[string]interface{}{"id": c.ID, "name": c.Name, "type": c.Type}
			if c.Unit != "" {
				m["unit"] = c.Unit
			}
			if c.Format != "" {
				m["format"] = c.Format
			}
			out[i] = m
		}
	}
	return out
}

func decodeSchemaColumns(raw interface{}) []protocol.SchemaColumn {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	cols := make([]protocol.SchemaColumn, 0, len(arr))
	for _, item := range arr {
		gm, ok := asGenericMap(item)
		if !ok {
			continue
		}
		var c protocol.SchemaColumn
		if v, ok := gm.get(0, "id"); ok {
			if n, ok := toInt(v); ok {
				c.ID = n
			}
		}
		if v, ok := gm.get(1, "name"); ok {
			if s, ok := toString(v); ok {
				c.Name = s
			}
		}
		if v, ok := gm.get(2, "type"); ok {
			if s, ok := toString(v); ok {
				c.Type = s
			}
		}
		if v, ok := gm.get(3, "unit"); ok {
			if s, ok := toString(v); ok {
				c.Unit = s
			}
		}
		if v, ok := gm.get(4, "format"); ok {
			if s, ok := toString(v); ok {
				c.Format = s
			}
		}
		cols = append(cols, c)
	}
	return cols
}
