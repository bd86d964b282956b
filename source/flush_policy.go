package source

import (
	"sync"
	"time"

	"github.com/anthropics/viewport/protocol"
)

// Sink receives the messages produced by a flush, typically a
// connection writer that frames and sends each message. Implementations
// must not block indefinitely; a slow sink stalls the policy driving
// it.
type Sink func([]protocol.ProtocolMessage)

// Flusher is a cadence strategy governing when a SourceState's pending
// mutations become a Flush call, kept as a strategy object a
// connection owns rather than a method SourceState monkey-patches onto
// itself (Design Notes §9). The three implementations below are the
// three cadences described in §4.3.
type Flusher interface {
	// Notify is called by the embedder after any mutation that set
	// SourceState's dirty flag. A Flusher decides whether and when to
	// actually call Flush and hand the result to its Sink.
	Notify()
	// Close stops the policy, flushing any remaining pending state
	// first.
	Close()
}

// ImmediateFlusher flushes synchronously on every Notify call — the
// lowest-latency, highest-overhead cadence.
type ImmediateFlusher struct {
	state *SourceState
	sink  Sink
}

// NewImmediateFlusher creates a Flusher that flushes on every mutation.
func NewImmediateFlusher(state *SourceState, sink Sink) *ImmediateFlusher {
	return &ImmediateFlusher{state: state, sink: sink}
}

func (f *ImmediateFlusher) Notify() {
	if msgs := f.state.Flush(); len(msgs) > 0 {
		f.sink(msgs)
	}
}

func (f *ImmediateFlusher) Close() {
	f.Notify()
}

// IdleFlusher collapses a batch of synchronous mutations made within
// the same tick of the goroutine scheduler into one flush: Notify
// queues a wakeup on a buffered channel of depth 1 (further Notify
// calls while one is already queued are no-ops), and a single
// background goroutine drains it and flushes. This mirrors the
// one-goroutine-per-session model the viewer side uses: the flush
// itself always happens on the Flusher's own goroutine, never
// concurrently with the caller's mutations.
type IdleFlusher struct {
	state   *SourceState
	sink    Sink
	wake    chan struct{}
	done    chan struct{}
	closeMu sync.Mutex
	closed  bool
}

// NewIdleFlusher starts the background flush goroutine.
func NewIdleFlusher(state *SourceState, sink Sink) *IdleFlusher {
	f := &IdleFlusher{
		state: state,
		sink:  sink,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *IdleFlusher) run() {
	for range f.wake {
		if msgs := f.state.Flush(); len(msgs) > 0 {
			f.sink(msgs)
		}
	}
	close(f.done)
}

func (f *IdleFlusher) Notify() {
	select {
	case f.wake <- struct{}{}:
	default:
		// a flush is already queued; this mutation rides along with it
	}
}

func (f *IdleFlusher) Close() {
	f.closeMu.Lock()
	defer f.closeMu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.wake)
	<-f.done
}

// IntervalFlusher flushes on a fixed ticker cadence regardless of how
// often Notify is called, trading latency for a predictable,
// bandwidth-bounded message rate. Pending state is flushed once more
// on Close.
type IntervalFlusher struct {
	state  *SourceState
	sink   Sink
	ticker *time.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// NewIntervalFlusher starts a ticker-driven Flusher with the given
// period.
func NewIntervalFlusher(state *SourceState, sink Sink, period time.Duration) *IntervalFlusher {
	f := &IntervalFlusher{
		state:  state,
		sink:   sink,
		ticker: time.NewTicker(period),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *IntervalFlusher) run() {
	defer close(f.done)
	for {
		select {
		case <-f.ticker.C:
			if msgs := f.state.Flush(); len(msgs) > 0 {
				f.sink(msgs)
			}
		case <-f.stop:
			return
		}
	}
}

// Notify is a no-op for IntervalFlusher; the ticker alone decides
// cadence.
func (f *IntervalFlusher) Notify() {}

func (f *IntervalFlusher) Close() {
	f.ticker.Stop()
	close(f.stop)
	<-f.done
	if msgs := f.state.Flush(); len(msgs) > 0 {
		f.sink(msgs)
	}
}
