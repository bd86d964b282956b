package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/anthropics/viewport/protocol"
)

// Encoding selects one of the three wire-compatible payload shapes
// (§8 testable property 6: "Three different encodings ... produce
// identical viewer render trees and identical text projections").
// Decode auto-detects whichever of the three produced a given payload
// — a viewer never needs to know which encoding a source chose.
type Encoding int

const (
	// EncodingCanonical is the required encoding of §4.2: a
	// heterogeneous array `[type, arg0, arg1, ...]` with canonical
	// small-integer property keys inside node/op objects.
	EncodingCanonical Encoding = iota
	// EncodingStringKeyed is a comparison encoding: a map keyed by
	// human-readable field names throughout, including inside node/op
	// objects. Useful for debugging and for exercising the
	// determinism property against the canonical encoding.
	EncodingStringKeyed
	// EncodingOpcodeAbbreviated is a comparison encoding: an array
	// like the canonical one, but the leading message-type slot is a
	// short string opcode instead of the numeric MessageType.
	EncodingOpcodeAbbreviated
)

var opcodeByType = map[protocol.MessageType]string{
	protocol.MsgDefine: "D",
	protocol.MsgTree:   "T",
	protocol.MsgPatch:  "P",
	protocol.MsgData:   "X",
	protocol.MsgInput:  "I",
	protocol.MsgEnv:    "V",
	protocol.MsgRegion: "R",
	protocol.MsgAudio:  "A",
	protocol.MsgCanvas: "C",
	protocol.MsgSchema: "S",
}

var typeByOpcode = func() map[string]protocol.MessageType {
	m := make(map[string]protocol.MessageType, len(opcodeByType))
	for t, op := range opcodeByType {
		m[op] = t
	}
	return m
}()

var nameByType = map[protocol.MessageType]string{
	protocol.MsgDefine: "define",
	protocol.MsgTree:   "tree",
	protocol.MsgPatch:  "patch",
	protocol.MsgData:   "data",
	protocol.MsgInput:  "input",
	protocol.MsgEnv:    "env",
	protocol.MsgRegion: "region",
	protocol.MsgAudio:  "audio",
	protocol.MsgCanvas: "canvas",
	protocol.MsgSchema: "schema",
}

var typeByName = func() map[string]protocol.MessageType {
	m := make(map[string]protocol.MessageType, len(nameByType))
	for t, n := range nameByType {
		m[n] = t
	}
	return m
}()

// canonicalEncMode produces deterministic CBOR: map keys in ascending
// order (§4.2 "Map keys are emitted in ascending integer order").
var canonicalEncMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: invalid canonical cbor options: %v", err))
	}
	return mode
}()

// EncodeMessage encodes a ProtocolMessage payload (the bytes that
// follow the 24-byte frame header) using the given encoding.
func EncodeMessage(msg *protocol.ProtocolMessage, enc Encoding) ([]byte, error) {
	var value interface{}

	switch enc {
	case EncodingStringKeyed:
		value = encodeStringKeyedMessage(msg)
	case EncodingOpcodeAbbreviated:
		value = encodeArrayMessage(msg, true)
	default:
		value = encodeArrayMessage(msg, false)
	}

	return canonicalEncMode.Marshal(value)
}

func encodeArrayMessage(msg *protocol.ProtocolMessage, abbreviated bool) []interface{} {
	var head interface{}
	if abbreviated {
		head = opcodeByType[msg.Type]
	} else {
		head = uint8(msg.Type)
	}

	args := encodeArgs(msg, true)
	out := make([]interface{}, 0, 1+len(args))
	out = append(out, head)
	out = append(out, args...)
	return out
}

// encodeArgs returns the positional arguments for a message, in the
// order the canonical encoding's examples specify (§4.2).
func encodeArgs(msg *protocol.ProtocolMessage, intKeyed bool) []interface{} {
	switch msg.Type {
	case protocol.MsgDefine:
		slot := 0
		if msg.Slot != nil {
			slot = *msg.Slot
		}
		return []interface{}{slot, encodeSlotValue(msg.SlotValue)}
	case protocol.MsgTree:
		return []interface{}{encodeVNode(msg.Root, intKeyed)}
	case protocol.MsgPatch:
		ops := make([]interface{}, len(msg.Ops))
		for i, op := range msg.Ops {
			ops[i] = encodePatchOp(op, intKeyed)
		}
		return []interface{}{ops}
	case protocol.MsgData:
		var schema interface{}
		if msg.Schema != nil {
			schema = *msg.Schema
		}
		if msg.RowDict != nil {
			return []interface{}{schema, msg.RowDict}
		}
		row := make([]interface{}, len(msg.Row))
		copy(row, msg.Row)
		return []interface{}{schema, row}
	case protocol.MsgInput:
		return []interface{}{encodeInputEvent(msg.Event, intKeyed)}
	case protocol.MsgEnv:
		return []interface{}{encodeEnvInfo(msg.Env)}
	case protocol.MsgSchema:
		slot := 0
		if msg.Slot != nil {
			slot = *msg.Slot
		}
		return []interface{}{slot, encodeSchemaColumns(msg.Columns, intKeyed)}
	default:
		return nil
	}
}

func encodeStringKeyedMessage(msg *protocol.ProtocolMessage) map[string]interface{} {
	m := map[string]interface{}{"type": nameByType[msg.Type]}

	switch msg.Type {
	case protocol.MsgDefine:
		if msg.Slot != nil {
			m["slot"] = *msg.Slot
		}
		m["value"] = encodeSlotValue(msg.SlotValue)
	case protocol.MsgTree:
		m["root"] = encodeVNode(msg.Root, false)
	case protocol.MsgPatch:
		ops := make([]interface{}, len(msg.Ops))
		for i, op := range msg.Ops {
			ops[i] = encodePatchOp(op, false)
		}
		m["ops"] = ops
	case protocol.MsgData:
		if msg.Schema != nil {
			m["schema"] = *msg.Schema
		}
		if msg.RowDict != nil {
			m["row"] = msg.RowDict
		} else {
			row := make([]interface{}, len(msg.Row))
			copy(row, msg.Row)
			m["row"] = row
		}
	case protocol.MsgInput:
		m["event"] = encodeInputEvent(msg.Event, false)
	case protocol.MsgEnv:
		m["env"] = encodeEnvInfo(msg.Env)
	case protocol.MsgSchema:
		if msg.Slot != nil {
			m["slot"] = *msg.Slot
		}
		m["columns"] = encodeSchemaColumns(msg.Columns, false)
	}

	return m
}

// DecodeMessage decodes a payload produced by any of the three
// encodings, auto-detecting the shape.
func DecodeMessage(payload []byte) (*protocol.ProtocolMessage, error) {
	var raw interface{}
	if err := cbor.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("wire: cbor unmarshal: %w", err)
	}

	if arr, ok := raw.([]interface{}); ok {
		return decodeArrayMessage(arr)
	}
	if gm, ok := asGenericMap(raw); ok {
		return decodeStringKeyedMessage(gm)
	}
	return nil, fmt.Errorf("wire: unrecognized payload shape")
}

func decodeArrayMessage(arr []interface{}) (*protocol.ProtocolMessage, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("wire: empty message array")
	}

	var msgType protocol.MessageType
	switch head := arr[0].(type) {
	case string:
		t, ok := typeByOpcode[head]
		if !ok {
			return nil, fmt.Errorf("wire: unknown opcode %q", head)
		}
		msgType = t
	default:
		n, ok := toInt(head)
		if !ok {
			return nil, fmt.Errorf("wire: unrecognized message type tag %v", head)
		}
		msgType = protocol.MessageType(n)
	}

	args := arr[1:]
	arg := func(i int) (interface{}, bool) {
		if i < len(args) {
			return args[i], true
		}
		return nil, false
	}

	return buildMessage(msgType, arg)
}

func decodeStringKeyedMessage(gm genericMap) (*protocol.ProtocolMessage, error) {
	typeVal, ok := gm["type"]
	if !ok {
		return nil, fmt.Errorf("wire: missing type field")
	}
	var msgType protocol.MessageType
	if s, ok := toString(typeVal); ok {
		t, ok := typeByName[s]
		if !ok {
			return nil, fmt.Errorf("wire: unknown message name %q", s)
		}
		msgType = t
	} else if n, ok := toInt(typeVal); ok {
		msgType = protocol.MessageType(n)
	} else {
		return nil, fmt.Errorf("wire: unrecognized type field %v", typeVal)
	}

	// For the map shape, positional index doesn't apply; arg() looks
	// fields up by name via a small per-type table below.
	names := argNamesForType(msgType)
	arg := func(i int) (interface{}, bool) {
		if i >= len(names) {
			return nil, false
		}
		v, ok := gm[names[i]]
		return v, ok
	}

	return buildMessage(msgType, arg)
}

// argNamesForType returns the field names, in positional order, that
// the string-keyed encoding uses for a message type — mirroring the
// canonical array's argument order so buildMessage can stay shared.
func argNamesForType(t protocol.MessageType) []string {
	switch t {
	case protocol.MsgDefine:
		return []string{"slot", "value"}
	case protocol.MsgTree:
		return []string{"root"}
	case protocol.MsgPatch:
		return []string{"ops"}
	case protocol.MsgData:
		return []string{"schema", "row"}
	case protocol.MsgInput:
		return []string{"event"}
	case protocol.MsgEnv:
		return []string{"env"}
	case protocol.MsgSchema:
		return []string{"slot", "columns"}
	default:
		return nil
	}
}

// buildMessage assembles a ProtocolMessage given a positional
// argument accessor, shared by both the array and map decode paths.
func buildMessage(msgType protocol.MessageType, arg func(i int) (interface{}, bool)) (*protocol.ProtocolMessage, error) {
	msg := &protocol.ProtocolMessage{Type: msgType}

	switch msgType {
	case protocol.MsgDefine:
		if v, ok := arg(0); ok {
			if n, ok := toInt(v); ok {
				msg.Slot = &n
			}
		}
		if v, ok := arg(1); ok {
			msg.SlotValue = decodeSlotValue(v)
		}
	case protocol.MsgTree:
		if v, ok := arg(0); ok {
			msg.Root = decodeVNode(v)
		}
	case protocol.MsgPatch:
		if v, ok := arg(0); ok {
			if arr, ok := v.([]interface{}); ok {
				msg.Ops = make([]protocol.PatchOp, 0, len(arr))
				for _, item := range arr {
					if op, ok := decodePatchOp(item); ok {
						msg.Ops = append(msg.Ops, op)
					}
				}
			}
		}
	case protocol.MsgData:
		if v, ok := arg(0); ok {
			if n, ok := toInt(v); ok {
				msg.Schema = &n
			}
		}
		if v, ok := arg(1); ok {
			switch row := v.(type) {
			case []interface{}:
				msg.Row = row
			case map[interface{}]interface{}:
				msg.RowDict = make(map[string]interface{}, len(row))
				for k, val := range row {
					if s, ok := k.(string); ok {
						msg.RowDict[s] = val
					}
				}
			case map[string]interface{}:
				msg.RowDict = row
			}
		}
	case protocol.MsgInput:
		if v, ok := arg(0); ok {
			msg.Event = decodeInputEvent(v)
		}
	case protocol.MsgEnv:
		if v, ok := arg(0); ok {
			msg.Env = decodeEnvInfo(v)
		}
	case protocol.MsgSchema:
		if v, ok := arg(0); ok {
			if n, ok := toInt(v); ok {
				msg.Slot = &n
			}
		}
		if v, ok := arg(1); ok {
			msg.Columns = decodeSchemaColumns(v)
		}
	default:
		// Out-of-scope types (REGION/AUDIO/CANVAS): recognized by the
		// frame codec's dispatch-by-type-byte but not decoded further
		// here — their payload shape is not specified by this core.
	}

	return msg, nil
}
