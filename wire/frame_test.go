package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/anthropics/viewport/protocol"
)

func TestEncodeDecodeHeader(t *testing.T) {
	h := FrameHeader{
		Magic:   Magic,
		Version: ProtocolVersion,
		Type:    protocol.MsgTree,
		Length:  42,
		Session: 0x0001020304050607,
		Seq:     99,
	}

	buf := EncodeHeader(h)
	if len(buf) != HeaderSize {
		t.Fatalf("encoded header length = %d, want %d", len(buf), HeaderSize)
	}

	decoded, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if decoded != h {
		t.Errorf("decoded header = %+v, want %+v", decoded, h)
	}
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	buf := make([]byte, HeaderSize)
	_, err := DecodeHeader(buf)
	if err != ErrBadMagic {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}
}

func TestDecodeHeaderShortBuffer(t *testing.T) {
	_, err := DecodeHeader([]byte{0x50, 0x56})
	if err != ErrShortBuffer {
		t.Errorf("err = %v, want ErrShortBuffer", err)
	}
}

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	frame := EncodeFrame(protocol.MsgData, 7, 12, payload)

	h, p, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if h.Type != protocol.MsgData || h.Session != 7 || h.Seq != 12 {
		t.Errorf("header = %+v", h)
	}
	if !bytes.Equal(p, payload) {
		t.Errorf("payload = %v, want %v", p, payload)
	}
}

func TestDecodeFrameShortPayload(t *testing.T) {
	full := EncodeFrame(protocol.MsgTree, 1, 1, []byte{1, 2, 3})
	_, _, err := DecodeFrame(full[:HeaderSize+1])
	if err != ErrShortPayload {
		t.Errorf("err = %v, want ErrShortPayload", err)
	}
}

func TestNewSessionIDEncodesEpoch(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	id := NewSessionID(now)
	if got := SessionEpochSeconds(id); got != uint64(now.Unix()) {
		t.Errorf("epoch seconds = %d, want %d", got, now.Unix())
	}
}

func TestNewSessionIDVariesRandomBits(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	seen := make(map[uint64]bool)
	for i := 0; i < 20; i++ {
		seen[NewSessionID(now)&0xFFFF] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected randomized low 16 bits to vary across calls, got %d distinct values", len(seen))
	}
}

func TestFrameReaderFeedPartialThenRest(t *testing.T) {
	fr := NewFrameReader()
	frame := EncodeFrame(protocol.MsgDefine, 1, 1, []byte{0xAA, 0xBB})

	frames, err := fr.Feed(frame[:4])
	if err != nil {
		t.Fatalf("Feed partial: %v", err)
	}
	if len(frames) != 0 {
		t.Fatalf("expected 0 frames from partial feed, got %d", len(frames))
	}

	frames, err = fr.Feed(frame[4:])
	if err != nil {
		t.Fatalf("Feed rest: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Header.Type != protocol.MsgDefine {
		t.Errorf("frame type = %v, want MsgDefine", frames[0].Header.Type)
	}
}

func TestFrameReaderMultipleFramesInOneFeed(t *testing.T) {
	fr := NewFrameReader()
	f1 := EncodeFrame(protocol.MsgTree, 1, 1, []byte{0x01})
	f2 := EncodeFrame(protocol.MsgPatch, 1, 2, []byte{0x02, 0x03})

	var data []byte
	data = append(data, f1...)
	data = append(data, f2...)

	frames, err := fr.Feed(data)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Header.Type != protocol.MsgTree || frames[1].Header.Type != protocol.MsgPatch {
		t.Errorf("frame types = %v, %v", frames[0].Header.Type, frames[1].Header.Type)
	}
}

func TestFrameReaderResyncsOnBadMagic(t *testing.T) {
	fr := NewFrameReader()
	good := EncodeFrame(protocol.MsgTree, 1, 1, []byte{0x01})

	// One garbage byte before a well-formed frame should be skipped,
	// not treated as a fatal error.
	data := append([]byte{0xFF}, good...)

	frames, err := fr.Feed(data)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after resync, got %d", len(frames))
	}
}

func TestFrameReaderRejectsOversizedPayload(t *testing.T) {
	fr := NewFrameReaderWithLimit(4)
	oversized := EncodeFrame(protocol.MsgTree, 1, 1, []byte{1, 2, 3, 4, 5})

	_, err := fr.Feed(oversized)
	if err != ErrPayloadTooLarge {
		t.Errorf("err = %v, want ErrPayloadTooLarge", err)
	}
}
