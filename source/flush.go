package source

import "github.com/anthropics/viewport/protocol"

// Flush bundles pending mutations into protocol messages in the
// required order — slot defines, schema defines, TREE-or-batched-PATCH,
// data rows (§4.3) — updates Published to reflect what is being sent,
// and clears pending. A non-dirty flush returns an empty, non-nil
// slice rather than panicking (§7 Usage errors).
func (s *SourceState) Flush() []protocol.ProtocolMessage {
	if !s.pending.dirty {
		return []protocol.ProtocolMessage{}
	}

	msgs := make([]protocol.ProtocolMessage, 0, len(s.pending.slotOrder)+len(s.pending.schemaOrder)+1+len(s.pending.dataRows))

	for _, id := range s.pending.slotOrder {
		val := s.pending.slots[id]
		slot := id
		msgs = append(msgs, protocol.ProtocolMessage{Type: protocol.MsgDefine, Slot: &slot, SlotValue: val})
		s.Published.slots[id] = val
	}

	for _, id := range s.pending.schemaOrder {
		cols := s.pending.schemas[id]
		slot := id
		msgs = append(msgs, protocol.ProtocolMessage{Type: protocol.MsgSchema, Slot: &slot, Columns: cols})
		s.Published.schemas[id] = cols
	}

	if s.pending.treeSet {
		msgs = append(msgs, protocol.ProtocolMessage{Type: protocol.MsgTree, Root: s.pending.tree})
		s.Published.tree = s.pending.tree
	} else if len(s.pending.patchOrder) > 0 {
		ops := make([]protocol.PatchOp, 0, len(s.pending.patchOrder))
		for _, target := range s.pending.patchOrder {
			ops = append(ops, *s.pending.patchByTarget[target])
		}
		msgs = append(msgs, protocol.ProtocolMessage{Type: protocol.MsgPatch, Ops: ops})
	}

	for _, row := range s.pending.dataRows {
		schema := row.schema
		msgs = append(msgs, protocol.ProtocolMessage{Type: protocol.MsgData, Schema: &schema, Row: row.row})
	}

	s.Published.seq++
	s.pending = newPending()
	return msgs
}
