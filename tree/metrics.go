package tree

// Metrics summarizes viewer performance and tree state counters (§4.5
// Metrics, §5 Resource policy).
type Metrics struct {
	MessagesProcessed int
	BytesReceived     int
	LastFrameTimeMs    float64
	PeakFrameTimeMs    float64
	AvgFrameTimeMs     float64
	MemoryUsageBytes   int
	TreeNodeCount      int
	TreeDepth          int
	SlotCount          int
	DataRowCount       int
	PatchesApplied     int
	PatchesFailed      int
	StaleDrops         int
}

// frameTimeRingCap bounds the frame-time sample ring to keep metrics
// cost O(1) amortized (§5: "kept in a bounded ring (most recent
// ~500)").
const frameTimeRingCap = 500

// frameTimeRing is a fixed-capacity ring buffer of recent frame
// processing durations in milliseconds.
type frameTimeRing struct {
	samples []float64
	next    int
	full    bool
	peak    float64
	last    float64
}

func newFrameTimeRing() *frameTimeRing {
	return &frameTimeRing{samples: make([]float64, frameTimeRingCap)}
}

func (r *frameTimeRing) record(ms float64) {
	r.samples[r.next] = ms
	r.next = (r.next + 1) % frameTimeRingCap
	if r.next == 0 {
		r.full = true
	}
	r.last = ms
	if ms > r.peak {
		r.peak = ms
	}
}

func (r *frameTimeRing) average() float64 {
	n := r.next
	if r.full {
		n = frameTimeRingCap
	}
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += r.samples[i]
	}
	return sum / float64(n)
}

// DataRowCount returns the total number of data rows accumulated
// across every schema slot.
func (t *RenderTree) DataRowCount() int {
	count := 0
	for _, rows := range t.DataRows {
		count += len(rows)
	}
	return count
}

// estimateMemory returns a rough, intentionally approximate estimate
// of viewer memory usage in bytes (§4.5 Metrics: "rough memory
// estimate"). Per-node/slot/row constants are calibration stand-ins,
// not measured — callers should treat this as order-of-magnitude only.
func estimateMemory(t *RenderTree) int {
	bytes := CountNodes(t.Root) * 200
	bytes += len(t.Slots) * 100
	bytes += t.DataRowCount() * 50
	bytes += len(t.NodeIndex) * 32
	return bytes
}

// RecordFrameTime records how long a single ProcessMessage call (or a
// batch of them for one inbound frame) took, in milliseconds. Callers
// time their own call to ProcessMessage; the core never reads the
// clock itself (§5: timestamps are a caller concern).
func (vs *ViewerState) RecordFrameTime(ms float64) {
	vs.frameTimes.record(ms)
}

// Metrics computes a metrics snapshot from the current state.
func (vs *ViewerState) Metrics() Metrics {
	m := Metrics{
		MessagesProcessed: vs.messagesProcessed,
		BytesReceived:     vs.bytesReceived,
		TreeNodeCount:     CountNodes(vs.Tree.Root),
		TreeDepth:         Depth(vs.Tree.Root),
		SlotCount:         len(vs.Tree.Slots),
		DataRowCount:      vs.Tree.DataRowCount(),
		MemoryUsageBytes:  estimateMemory(vs.Tree),
		PatchesApplied:    vs.patchesApplied,
		PatchesFailed:     vs.patchesFailed,
		StaleDrops:        vs.staleDrops,
		LastFrameTimeMs:   vs.frameTimes.last,
		PeakFrameTimeMs:   vs.frameTimes.peak,
		AvgFrameTimeMs:    vs.frameTimes.average(),
	}
	return m
}
