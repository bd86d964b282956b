// Package source implements the application-facing half of the
// protocol: a pending/published state split with coalescing, and the
// flush policies that decide when pending mutations become protocol
// messages (§4.3).
package source

import (
	"github.com/anthropics/viewport/protocol"
)

// published is the state the viewer is believed to hold, as of the
// last successful flush.
type published struct {
	tree    *protocol.VNode
	slots   map[int]protocol.SlotValue
	schemas map[int][]protocol.SchemaColumn
	seq     uint64
}

// pending accumulates uncommitted mutations between flushes.
type pending struct {
	tree          *protocol.VNode // non-nil if setTree was called since the last flush
	treeSet       bool
	patchByTarget map[int]*protocol.PatchOp // target -> merged-or-replaced op, insertion order in patchOrder
	patchOrder    []int
	slots         map[int]protocol.SlotValue
	slotOrder     []int
	schemas       map[int][]protocol.SchemaColumn
	schemaOrder   []int
	dataRows      []pendingRow
	dirty         bool
}

type pendingRow struct {
	schema int
	row    []interface{}
}

func newPending() pending {
	return pending{
		patchByTarget: make(map[int]*protocol.PatchOp),
		slots:         make(map[int]protocol.SlotValue),
		schemas:       make(map[int][]protocol.SchemaColumn),
	}
}

// SourceState holds pending and published state for one session's
// application side. It is not internally synchronized; an embedder
// serving one session from one goroutine needs no lock, matching the
// viewer-side ViewerState's concurrency story.
type SourceState struct {
	Published published
	pending   pending
}

// NewSourceState creates an empty SourceState.
func NewSourceState() *SourceState {
	return &SourceState{
		Published: published{
			slots:   make(map[int]protocol.SlotValue),
			schemas: make(map[int][]protocol.SchemaColumn),
		},
		pending: newPending(),
	}
}

// SetTree replaces the pending tree wholesale and clears any pending
// patches (§4.3: "setTree(root) overwrites any pending tree and clears
// pending patches — patches against a tree that's about to be replaced
// are meaningless").
func (s *SourceState) SetTree(root *protocol.VNode) {
	s.pending.tree = root
	s.pending.treeSet = true
	s.pending.patchByTarget = make(map[int]*protocol.PatchOp)
	s.pending.patchOrder = nil
	s.pending.dirty = true
}

// Patch queues one or more patch operations against the pending state.
// For a target with a prior pending op that is also a pure property
// `set` (no structural fields), the two are merged property-by-property
// with last-write-wins; any op carrying a structural field (remove,
// replace, children*) replaces the prior pending op for that target
// wholesale (§4.3).
func (s *SourceState) Patch(ops []protocol.PatchOp) {
	for _, op := range ops {
		s.patchOne(op)
	}
	if len(ops) > 0 {
		s.pending.dirty = true
	}
}

func (s *SourceState) patchOne(op protocol.PatchOp) {
	existing, ok := s.pending.patchByTarget[op.Target]
	if ok && isPureSet(*existing) && isPureSet(op) {
		merged := mergeSet(*existing, op)
		s.pending.patchByTarget[op.Target] = &merged
		return
	}

	opCopy := op
	if !ok {
		s.pending.patchOrder = append(s.pending.patchOrder, op.Target)
	}
	s.pending.patchByTarget[op.Target] = &opCopy
}

// isPureSet reports whether op carries only Set/Unset property
// mutations and no structural change.
func isPureSet(op protocol.PatchOp) bool {
	return !op.Remove && op.Replace == nil &&
		op.ChildrenInsert == nil && op.ChildrenRemove == nil && op.ChildrenMove == nil
}

// mergeSet merges b into a, property by property, last-write-wins,
// keeping a's target. Unset entries in b override a's Set of the same
// key and vice versa, following simple temporal order: b is later.
func mergeSet(a, b protocol.PatchOp) protocol.PatchOp {
	out := protocol.PatchOp{Target: a.Target}

	set := make(map[string]interface{}, len(a.Set)+len(b.Set))
	for k, v := range a.Set {
		set[k] = v
	}
	unset := make(map[string]bool, len(a.Unset)+len(b.Unset))
	for _, k := range a.Unset {
		unset[k] = true
	}
	for k := range unset {
		delete(set, k)
	}
	for k, v := range b.Set {
		set[k] = v
		delete(unset, k)
	}
	for _, k := range b.Unset {
		unset[k] = true
		delete(set, k)
	}

	if len(set) > 0 {
		out.Set = set
	}
	if len(unset) > 0 {
		out.Unset = make([]string, 0, len(unset))
		for k := range unset {
			out.Unset = append(out.Unset, k)
		}
	}
	if b.Transition != nil {
		out.Transition = b.Transition
	} else {
		out.Transition = a.Transition
	}
	return out
}

// DefineSlot queues a slot definition, last-write-wins per id (§4.3).
func (s *SourceState) DefineSlot(id int, value protocol.SlotValue) {
	if _, ok := s.pending.slots[id]; !ok {
		s.pending.slotOrder = append(s.pending.slotOrder, id)
	}
	s.pending.slots[id] = value
	s.pending.dirty = true
}

// DefineSchema queues a schema definition, last-write-wins per id
// (§4.3).
func (s *SourceState) DefineSchema(id int, columns []protocol.SchemaColumn) {
	if _, ok := s.pending.schemas[id]; !ok {
		s.pending.schemaOrder = append(s.pending.schemaOrder, id)
	}
	s.pending.schemas[id] = columns
	s.pending.dirty = true
}

// EmitData queues a data row. Rows are never coalesced; every call
// appends (§3 Invariant 7, §4.3).
func (s *SourceState) EmitData(schemaSlot int, row []interface{}) {
	s.pending.dataRows = append(s.pending.dataRows, pendingRow{schema: schemaSlot, row: row})
	s.pending.dirty = true
}

// HasPending reports whether a Flush would produce any messages.
func (s *SourceState) HasPending() bool {
	return s.pending.dirty
}
