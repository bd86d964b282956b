package wire

import (
	"testing"

	"github.com/anthropics/viewport/protocol"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func sampleTreeMessage() *protocol.ProtocolMessage {
	return &protocol.ProtocolMessage{
		Type: protocol.MsgTree,
		Root: &protocol.VNode{
			ID:   1,
			Type: protocol.NodeBox,
			Props: protocol.NodeProps{
				Direction: "row",
				Gap:       intPtr(4),
			},
			Children: []*protocol.VNode{
				{ID: 2, Type: protocol.NodeText, Props: protocol.NodeProps{Content: strPtr("hi")}},
				{ID: 3, Type: protocol.NodeText, Props: protocol.NodeProps{Content: strPtr("there")}, TextAlt: strPtr("alt")},
			},
		},
	}
}

func samplePatchMessage() *protocol.ProtocolMessage {
	return &protocol.ProtocolMessage{
		Type: protocol.MsgPatch,
		Ops: []protocol.PatchOp{
			{Target: 2, Set: map[string]interface{}{"content": "changed"}, Unset: []string{"italic"}},
			{Target: 3, Remove: true},
		},
	}
}

func sampleDefineMessage() *protocol.ProtocolMessage {
	slot := 5
	return &protocol.ProtocolMessage{
		Type:      protocol.MsgDefine,
		Slot:      &slot,
		SlotValue: protocol.ColorSlot{Role: "primary", Value: "#ff0000"},
	}
}

func sampleSchemaMessage() *protocol.ProtocolMessage {
	slot := 9
	return &protocol.ProtocolMessage{
		Type: protocol.MsgSchema,
		Slot: &slot,
		Columns: []protocol.SchemaColumn{
			{ID: 0, Name: "size", Type: "uint64", Format: "human_bytes"},
			{ID: 1, Name: "seen", Type: "timestamp", Format: "relative_time"},
		},
	}
}

func sampleDataMessage() *protocol.ProtocolMessage {
	slot := 9
	return &protocol.ProtocolMessage{
		Type:   protocol.MsgData,
		Schema: &slot,
		Row:    []interface{}{uint64(2048), int64(1_700_000_000)},
	}
}

var allSampleMessages = map[string]func() *protocol.ProtocolMessage{
	"tree":   sampleTreeMessage,
	"patch":  samplePatchMessage,
	"define": sampleDefineMessage,
	"schema": sampleSchemaMessage,
	"data":   sampleDataMessage,
}

var allEncodings = []Encoding{EncodingCanonical, EncodingStringKeyed, EncodingOpcodeAbbreviated}

func TestEncodeDecodeRoundTripAllEncodings(t *testing.T) {
	for name, build := range allSampleMessages {
		for _, enc := range allEncodings {
			msg := build()
			payload, err := EncodeMessage(msg, enc)
			if err != nil {
				t.Fatalf("%s/enc=%d: EncodeMessage: %v", name, enc, err)
			}

			decoded, err := DecodeMessage(payload)
			if err != nil {
				t.Fatalf("%s/enc=%d: DecodeMessage: %v", name, enc, err)
			}
			if decoded.Type != msg.Type {
				t.Errorf("%s/enc=%d: type = %v, want %v", name, enc, decoded.Type, msg.Type)
			}
		}
	}
}

func TestThreeEncodingsProduceEquivalentTree(t *testing.T) {
	msg := sampleTreeMessage()

	var roots []*protocol.VNode
	for _, enc := range allEncodings {
		payload, err := EncodeMessage(msg, enc)
		if err != nil {
			t.Fatalf("enc=%d: EncodeMessage: %v", enc, err)
		}
		decoded, err := DecodeMessage(payload)
		if err != nil {
			t.Fatalf("enc=%d: DecodeMessage: %v", enc, err)
		}
		roots = append(roots, decoded.Root)
	}

	for i := 1; i < len(roots); i++ {
		if !vnodesEqual(roots[0], roots[i]) {
			t.Errorf("encoding %d produced a different tree than encoding 0:\n%+v\nvs\n%+v", i, roots[i], roots[0])
		}
	}
}

func vnodesEqual(a, b *protocol.VNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Type != b.Type {
		return false
	}
	if (a.Props.Content == nil) != (b.Props.Content == nil) {
		return false
	}
	if a.Props.Content != nil && *a.Props.Content != *b.Props.Content {
		return false
	}
	if a.Props.Direction != b.Props.Direction {
		return false
	}
	if (a.Props.Gap == nil) != (b.Props.Gap == nil) {
		return false
	}
	if a.Props.Gap != nil && *a.Props.Gap != *b.Props.Gap {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !vnodesEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func TestDecodeMessageUnknownOpcode(t *testing.T) {
	_, err := DecodeMessage(mustMarshal(t, []interface{}{"Z"}))
	if err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestDecodeMessageEmptyArray(t *testing.T) {
	_, err := DecodeMessage(mustMarshal(t, []interface{}{}))
	if err == nil {
		t.Fatal("expected error for empty message array")
	}
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := canonicalEncMode.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestPatchOpRoundTripUnset(t *testing.T) {
	msg := samplePatchMessage()
	for _, enc := range allEncodings {
		payload, err := EncodeMessage(msg, enc)
		if err != nil {
			t.Fatalf("enc=%d: %v", enc, err)
		}
		decoded, err := DecodeMessage(payload)
		if err != nil {
			t.Fatalf("enc=%d: %v", enc, err)
		}
		if len(decoded.Ops) != 2 {
			t.Fatalf("enc=%d: got %d ops, want 2", enc, len(decoded.Ops))
		}
		if len(decoded.Ops[0].Unset) != 1 || decoded.Ops[0].Unset[0] != "italic" {
			t.Errorf("enc=%d: unset = %v, want [italic]", enc, decoded.Ops[0].Unset)
		}
		if !decoded.Ops[1].Remove {
			t.Errorf("enc=%d: expected second op to be a remove", enc)
		}
	}
}

func TestDefineSlotRoundTrip(t *testing.T) {
	msg := sampleDefineMessage()
	for _, enc := range allEncodings {
		payload, err := EncodeMessage(msg, enc)
		if err != nil {
			t.Fatalf("enc=%d: %v", enc, err)
		}
		decoded, err := DecodeMessage(payload)
		if err != nil {
			t.Fatalf("enc=%d: %v", enc, err)
		}
		if decoded.Slot == nil || *decoded.Slot != 5 {
			t.Fatalf("enc=%d: slot = %v, want 5", enc, decoded.Slot)
		}
		color, ok := decoded.SlotValue.(protocol.ColorSlot)
		if !ok {
			t.Fatalf("enc=%d: slot value type = %T, want ColorSlot", enc, decoded.SlotValue)
		}
		if color.Role != "primary" || color.Value != "#ff0000" {
			t.Errorf("enc=%d: color = %+v", enc, color)
		}
	}
}
