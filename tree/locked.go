package tree

import (
	"sync"

	"github.com/anthropics/viewport/protocol"
)

// LockedViewerState wraps a ViewerState with a mutex, for the common
// case of a viewer serving input from one goroutine (the network
// reader) while metrics or rendering are read from another (§5: "the
// protocol core is logically single-threaded per session"; this type
// is the opt-in multi-goroutine convenience on top of that core).
type LockedViewerState struct {
	mu    sync.Mutex
	inner *ViewerState
}

// NewLockedViewerState wraps a fresh ViewerState.
func NewLockedViewerState() *LockedViewerState {
	return &LockedViewerState{inner: NewViewerState()}
}

// ProcessMessage applies msg under lock.
func (l *LockedViewerState) ProcessMessage(msg protocol.ProtocolMessage, frameSeq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.ProcessMessage(msg, frameSeq)
}

// TrackBytes records received bytes under lock.
func (l *LockedViewerState) TrackBytes(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.TrackBytes(n)
}

// RecordFrameTime records a frame processing duration under lock.
func (l *LockedViewerState) RecordFrameTime(ms float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.RecordFrameTime(ms)
}

// Metrics returns a metrics snapshot under lock.
func (l *LockedViewerState) Metrics() Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Metrics()
}

// ClearData clears accumulated rows for a schema slot under lock.
func (l *LockedViewerState) ClearData(schemaSlot int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.ClearData(schemaSlot)
}

// DeleteSlot removes a slot's value under lock.
func (l *LockedViewerState) DeleteSlot(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.DeleteSlot(id)
}

// WithTree runs fn with exclusive access to the current render tree,
// for callers that need a consistent read (e.g. a text projection or
// a layout pass) across several tree fields.
func (l *LockedViewerState) WithTree(fn func(t *RenderTree, env *protocol.EnvInfo)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.inner.Tree, l.inner.Env)
}
