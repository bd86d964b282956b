package source

import (
	"sync"
	"testing"
	"time"

	"github.com/anthropics/viewport/protocol"
)

func collectingSink() (Sink, func() [][]protocol.ProtocolMessage) {
	var mu sync.Mutex
	var batches [][]protocol.ProtocolMessage
	sink := func(msgs []protocol.ProtocolMessage) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, msgs)
	}
	get := func() [][]protocol.ProtocolMessage {
		mu.Lock()
		defer mu.Unlock()
		out := make([][]protocol.ProtocolMessage, len(batches))
		copy(out, batches)
		return out
	}
	return sink, get
}

func TestImmediateFlusherFlushesOnEveryNotify(t *testing.T) {
	s := NewSourceState()
	sink, get := collectingSink()
	f := NewImmediateFlusher(s, sink)

	s.DefineSlot(1, protocol.ColorSlot{Value: "a"})
	f.Notify()
	s.DefineSlot(2, protocol.ColorSlot{Value: "b"})
	f.Notify()

	if len(get()) != 2 {
		t.Errorf("batches = %d, want 2", len(get()))
	}
}

func TestImmediateFlusherCloseFlushesRemaining(t *testing.T) {
	s := NewSourceState()
	sink, get := collectingSink()
	f := NewImmediateFlusher(s, sink)

	s.DefineSlot(1, protocol.ColorSlot{Value: "a"})
	f.Close()
	if len(get()) != 1 {
		t.Errorf("batches = %d, want 1", len(get()))
	}
}

func TestIdleFlusherDeliversEachBurstMessageOnce(t *testing.T) {
	s := NewSourceState()
	sink, get := collectingSink()
	f := NewIdleFlusher(s, sink)

	s.DefineSlot(1, protocol.ColorSlot{Value: "a"})
	f.Notify()
	s.DefineSlot(2, protocol.ColorSlot{Value: "b"})
	f.Notify()
	f.Notify()

	f.Close()

	batches := get()
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	if total != 2 {
		t.Errorf("expected 2 total messages across batches, got %d (batches=%d)", total, len(batches))
	}
}

func TestIdleFlusherCloseIsIdempotent(t *testing.T) {
	s := NewSourceState()
	sink, _ := collectingSink()
	f := NewIdleFlusher(s, sink)
	f.Close()
	f.Close() // must not panic or block
}

func TestIntervalFlusherFlushesOnTick(t *testing.T) {
	s := NewSourceState()
	sink, get := collectingSink()
	f := NewIntervalFlusher(s, sink, 20*time.Millisecond)
	defer f.Close()

	s.DefineSlot(1, protocol.ColorSlot{Value: "a"})

	time.Sleep(60 * time.Millisecond)
	if len(get()) == 0 {
		t.Error("expected at least one tick-driven flush")
	}
}

func TestIntervalFlusherFlushesRemainingOnClose(t *testing.T) {
	s := NewSourceState()
	sink, get := collectingSink()
	f := NewIntervalFlusher(s, sink, time.Hour) // long enough it never ticks in this test

	s.DefineSlot(1, protocol.ColorSlot{Value: "a"})
	f.Close()

	if len(get()) != 1 {
		t.Errorf("expected Close to flush pending state, got %d batches", len(get()))
	}
}
