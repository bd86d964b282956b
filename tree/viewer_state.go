package tree

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/anthropics/viewport/protocol"
)

// ViewerState is the viewer-side state machine: a RenderTree plus the
// four per-entity version maps that implement staleness discard
// (§4.5, §3 Invariant 5/6). It is not internally synchronized — per
// §5 ("the protocol core is logically single-threaded per session"),
// callers serving one session from one goroutine need no lock at all;
// LockedViewerState wraps this type with a mutex for the common
// multi-goroutine case.
type ViewerState struct {
	Tree *RenderTree
	Env  *protocol.EnvInfo

	lastNodeSeq   map[int]uint64
	lastSlotSeq   map[int]uint64
	lastSchemaSeq map[int]uint64
	lastDataSeq   map[int]uint64
	treeRootSeq   uint64

	// Counters surfaced via Metrics.
	messagesProcessed int
	bytesReceived     int
	patchesApplied    int
	patchesFailed     int
	staleDrops        int
	frameTimes        *frameTimeRing

	// Logger receives per-frame diagnostics (stale drops, failed patch
	// applications). Defaults to a disabled logger so a caller that
	// never sets one pays nothing on the hot decode path.
	Logger zerolog.Logger
}

// SetLogger installs l as the destination for this ViewerState's
// per-frame diagnostics.
func (vs *ViewerState) SetLogger(l zerolog.Logger) {
	vs.Logger = l
}

// NewViewerState creates an empty ViewerState, seeding the reserved
// slot range with viewer-standard defaults (§3: "Reserved slots 0..127
// are populated by the viewer on connect with standard values").
func NewViewerState() *ViewerState {
	vs := &ViewerState{
		Tree:          NewRenderTree(),
		lastNodeSeq:   make(map[int]uint64),
		lastSlotSeq:   make(map[int]uint64),
		lastSchemaSeq: make(map[int]uint64),
		lastDataSeq:   make(map[int]uint64),
		frameTimes:    newFrameTimeRing(),
		Logger:        zerolog.Nop(),
	}
	for id, val := range protocol.DefaultSlots() {
		vs.Tree.Slots[id] = val
	}
	return vs
}

// ProcessMessage applies a decoded protocol message against frameSeq,
// the sequence number carried by the frame it arrived in, enforcing
// per-entity staleness discard (§4.5, Scenario C/D). It returns true
// if the message had any observable effect.
func (vs *ViewerState) ProcessMessage(msg protocol.ProtocolMessage, frameSeq uint64) bool {
	vs.messagesProcessed++

	switch msg.Type {
	case protocol.MsgDefine:
		return vs.processDefine(msg, frameSeq)
	case protocol.MsgTree:
		return vs.processTree(msg, frameSeq)
	case protocol.MsgPatch:
		return vs.processPatch(msg, frameSeq)
	case protocol.MsgSchema:
		return vs.processSchema(msg, frameSeq)
	case protocol.MsgData:
		return vs.processData(msg)
	case protocol.MsgEnv:
		if msg.Env != nil {
			vs.Env = msg.Env
			return true
		}
		return false
	case protocol.MsgInput:
		// Input events do not mutate viewer tree state; dispatching to
		// registered handlers is the embedding application's concern.
		return false
	default:
		// REGION/AUDIO/CANVAS: recognized, out of scope for this core.
		return false
	}
}

func (vs *ViewerState) processDefine(msg protocol.ProtocolMessage, frameSeq uint64) bool {
	if msg.Slot == nil || msg.SlotValue == nil {
		return false
	}
	slot := *msg.Slot
	if frameSeq <= vs.lastSlotSeq[slot] {
		vs.staleDrops++
		vs.Logger.Debug().Int("slot", slot).Uint64("frameSeq", frameSeq).Uint64("lastSeq", vs.lastSlotSeq[slot]).Msg("stale define dropped")
		return false
	}
	// Reserved ids: the viewer's own seed always wins a source's
	// conflicting write (§3 Invariants). A dropped reserved write still
	// records frameSeq for the slot, so a later write to it at a seq not
	// above that is counted as a stale drop.
	if protocol.IsReservedSlot(slot) {
		vs.lastSlotSeq[slot] = frameSeq
		return false
	}
	vs.Tree.Slots[slot] = msg.SlotValue
	vs.lastSlotSeq[slot] = frameSeq
	return true
}

func (vs *ViewerState) processSchema(msg protocol.ProtocolMessage, frameSeq uint64) bool {
	if msg.Slot == nil {
		return false
	}
	slot := *msg.Slot
	if frameSeq <= vs.lastSchemaSeq[slot] {
		vs.staleDrops++
		vs.Logger.Debug().Int("slot", slot).Uint64("frameSeq", frameSeq).Uint64("lastSeq", vs.lastSchemaSeq[slot]).Msg("stale schema dropped")
		return false
	}
	vs.Tree.Schemas[slot] = msg.Columns
	vs.lastSchemaSeq[slot] = frameSeq
	return true
}

func (vs *ViewerState) processTree(msg protocol.ProtocolMessage, frameSeq uint64) bool {
	// TREE unconditionally replaces the tree (§4.5: "TREE(root):
	// unconditionally replace the tree"); per-node seqs are reset
	// since node ids may be repurposed by the new tree.
	SetTreeRoot(vs.Tree, msg.Root)
	vs.lastNodeSeq = make(map[int]uint64)
	vs.treeRootSeq = frameSeq
	return true
}

func (vs *ViewerState) processPatch(msg protocol.ProtocolMessage, frameSeq uint64) bool {
	changed := false
	for _, op := range msg.Ops {
		if frameSeq <= vs.lastNodeSeq[op.Target] {
			vs.staleDrops++
			vs.Logger.Debug().Int("target", op.Target).Uint64("frameSeq", frameSeq).Uint64("lastSeq", vs.lastNodeSeq[op.Target]).Msg("stale patch op dropped")
			continue
		}
		if ApplyPatch(vs.Tree, op) {
			vs.patchesApplied++
			changed = true
		} else {
			vs.patchesFailed++
			vs.Logger.Warn().Int("target", op.Target).Msg("patch op failed to apply")
		}
		vs.lastNodeSeq[op.Target] = frameSeq
	}
	return changed
}

func (vs *ViewerState) processData(msg protocol.ProtocolMessage) bool {
	schemaSlot := 0
	if msg.Schema != nil {
		schemaSlot = *msg.Schema
	}

	row := msg.Row
	if row == nil && msg.RowDict != nil {
		row = unpackRowDict(msg.RowDict, vs.Tree.Schemas[schemaSlot])
	}
	if row == nil {
		return false
	}

	vs.Tree.DataRows[schemaSlot] = append(vs.Tree.DataRows[schemaSlot], row)
	vs.lastDataSeq[schemaSlot]++ // data rows are append-only, never coalesced or stale-dropped (§3 Invariant 7)
	return true
}

// unpackRowDict converts a self-describing dict row into positional
// order against a declared schema (§4.7: "the viewer treats both
// equivalently after unpacking"). If no schema is known yet, the dict
// keys are emitted in sorted-name order as a best-effort fallback so
// data is not silently dropped — once the schema later arrives,
// subsequent rows unpack correctly against it.
func unpackRowDict(dict map[string]interface{}, schema []protocol.SchemaColumn) []interface{} {
	if len(schema) == 0 {
		if len(dict) == 0 {
			return nil
		}
		names := make([]string, 0, len(dict))
		for k := range dict {
			names = append(names, k)
		}
		sort.Strings(names)
		row := make([]interface{}, len(names))
		for i, name := range names {
			row[i] = dict[name]
		}
		return row
	}
	row := make([]interface{}, len(schema))
	for i, col := range schema {
		row[i] = dict[col.Name]
	}
	return row
}

// TrackBytes records received byte count for metrics.
func (vs *ViewerState) TrackBytes(n int) {
	vs.bytesReceived += n
}

// ClearData removes all accumulated rows for a schema slot (open
// question #2's resolution: an explicit, additive clear rather than
// an implicit one on TREE replacement).
func (vs *ViewerState) ClearData(schemaSlot int) {
	delete(vs.Tree.DataRows, schemaSlot)
}

// DeleteSlot removes a slot's value (open question #3's resolution).
// Nodes with a now-dangling reference already degrade to the
// unresolved-placeholder rendering path (§3 Invariant 4); no new
// rendering mode is introduced.
func (vs *ViewerState) DeleteSlot(id int) {
	delete(vs.Tree.Slots, id)
}
