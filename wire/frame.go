// Package wire implements the Viewport binary wire format: the
// 24-byte frame header, the streaming frame reader, session-id
// generation, and the self-describing canonical payload encoding
// (§4.1, §4.2, §6.1 of the protocol). Frame handling looks only at the
// header; DecodeMessage turns a payload into package protocol's
// logical message types. What the messages mean is left to packages
// tree and source.
package wire

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/anthropics/viewport/protocol"
)

// Wire format constants (§4.1, §6.1).
const (
	HeaderSize      = 24
	Magic           = 0x5650 // big-endian ASCII "VP"
	ProtocolVersion = 1

	// DefaultMaxPayloadLength is the policy maximum payload length in
	// bytes a FrameReader will accept before rejecting the frame
	// outright (§7 Limit errors). Implementations may lower this.
	DefaultMaxPayloadLength = ^uint32(0) // 2^32 - 1
)

// Errors returned by the frame codec (§7 Framing errors / Limit
// errors). All are locally recoverable: BadMagic and ShortBuffer are
// handled by FrameReader resynchronization/buffering, never fatal.
var (
	ErrShortBuffer     = errors.New("wire: buffer too short for frame header")
	ErrBadMagic        = errors.New("wire: invalid magic bytes in frame header")
	ErrShortPayload    = errors.New("wire: buffer too short for declared payload")
	ErrPayloadTooLarge = errors.New("wire: payload length exceeds policy maximum")
)

// FrameHeader is the fixed 24-byte frame header (§4.1):
//
//	bytes 0..1   magic, big-endian 0x5650
//	byte  2      protocol version
//	byte  3      message type
//	bytes 4..7   payload length, little-endian u32
//	bytes 8..15  session id, little-endian u64
//	bytes 16..23 sequence number, little-endian u64
type FrameHeader struct {
	Magic   uint16
	Version uint8
	Type    protocol.MessageType
	Length  uint32
	Session uint64
	Seq     uint64
}

// EncodeHeader writes the 24-byte header for a frame.
func EncodeHeader(h FrameHeader) []byte {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(buf[0:2], Magic)
	buf[2] = ProtocolVersion
	buf[3] = byte(h.Type)
	binary.LittleEndian.PutUint32(buf[4:8], h.Length)
	binary.LittleEndian.PutUint64(buf[8:16], h.Session)
	binary.LittleEndian.PutUint64(buf[16:24], h.Seq)
	return buf
}

// DecodeHeader parses a 24-byte header. Version and type bytes are
// returned verbatim; interpretation is the caller's responsibility.
func DecodeHeader(data []byte) (FrameHeader, error) {
	if len(data) < HeaderSize {
		return FrameHeader{}, ErrShortBuffer
	}

	magic := binary.BigEndian.Uint16(data[0:2])
	if magic != Magic {
		return FrameHeader{}, ErrBadMagic
	}

	return FrameHeader{
		Magic:   magic,
		Version: data[2],
		Type:    protocol.MessageType(data[3]),
		Length:  binary.LittleEndian.Uint32(data[4:8]),
		Session: binary.LittleEndian.Uint64(data[8:16]),
		Seq:     binary.LittleEndian.Uint64(data[16:24]),
	}, nil
}

// EncodeFrame builds a complete frame: header followed by payload.
func EncodeFrame(msgType protocol.MessageType, session, seq uint64, payload []byte) []byte {
	header := EncodeHeader(FrameHeader{
		Type:    msgType,
		Length:  uint32(len(payload)),
		Session: session,
		Seq:     seq,
	})
	frame := make([]byte, len(header)+len(payload))
	copy(frame, header)
	copy(frame[len(header):], payload)
	return frame
}

// DecodeFrame splits a complete frame (header + payload) out of data.
// data must contain at least HeaderSize + declared payload length
// bytes.
func DecodeFrame(data []byte) (FrameHeader, []byte, error) {
	header, err := DecodeHeader(data)
	if err != nil {
		return FrameHeader{}, nil, err
	}

	total := HeaderSize + int(header.Length)
	if len(data) < total {
		return FrameHeader{}, nil, ErrShortPayload
	}

	return header, data[HeaderSize:total], nil
}

// NewSessionID generates a session id per §3: upper 48 bits are
// seconds-since-epoch, lower 16 bits are random. Sessions generated
// within the same second by the same process are still
// overwhelmingly likely to be unique among a viewer's concurrent
// sources, and collisions are not fatal — it is the caller's scope
// ("unique among a viewer's concurrent sources") to enforce, not a
// cryptographic guarantee.
func NewSessionID(now time.Time) uint64 {
	var buf [2]byte
	_, _ = rand.Read(buf[:]) // crypto/rand.Read never errors on supported platforms
	random := binary.BigEndian.Uint16(buf[:])
	seconds := uint64(now.Unix()) & 0xFFFFFFFFFFFF // low 48 bits
	return (seconds << 16) | uint64(random)
}

// SessionEpochSeconds extracts the seconds-since-epoch component of a
// session id.
func SessionEpochSeconds(session uint64) uint64 {
	return session >> 16
}

// ── FrameReader: streaming frame parser ──────────────────────────────

// Frame holds a decoded frame header and its raw payload bytes.
type Frame struct {
	Header  FrameHeader
	Payload []byte
}

// FrameReader is a streaming parser: it accepts arbitrary byte chunks
// and emits zero or more complete frames per Feed call. A frame is
// only ever emitted once header + declared payload bytes are
// buffered — no frame is ever emitted partially (§4.1).
type FrameReader struct {
	buffer         []byte
	maxPayloadSize uint32

	// Logger receives diagnostics for rejected frames (bad magic
	// resyncs, oversized payloads). Defaults to a disabled logger.
	Logger zerolog.Logger
}

// NewFrameReader creates a streaming frame reader with the default
// (effectively unbounded) payload size policy.
func NewFrameReader() *FrameReader {
	return NewFrameReaderWithLimit(DefaultMaxPayloadLength)
}

// NewFrameReaderWithLimit creates a streaming frame reader that
// rejects any frame whose declared payload length exceeds maxPayload
// (§7 Limit errors: "the entire frame is rejected").
func NewFrameReaderWithLimit(maxPayload uint32) *FrameReader {
	return &FrameReader{
		buffer:         make([]byte, 0, 4096),
		maxPayloadSize: maxPayload,
		Logger:         zerolog.Nop(),
	}
}

// SetLogger installs l as the destination for this reader's
// rejected-frame diagnostics.
func (fr *FrameReader) SetLogger(l zerolog.Logger) {
	fr.Logger = l
}

// Feed appends data to the internal buffer and returns every complete
// frame that can now be extracted. Remaining partial bytes stay
// buffered for the next call. On a bad-magic resync, exactly one byte
// is consumed per retry (§4.1 boundary behavior).
func (fr *FrameReader) Feed(data []byte) ([]Frame, error) {
	fr.buffer = append(fr.buffer, data...)

	var frames []Frame

	for len(fr.buffer) >= HeaderSize {
		header, err := DecodeHeader(fr.buffer)
		if err != nil {
			if errors.Is(err, ErrBadMagic) {
				fr.Logger.Debug().Int("pending", len(fr.buffer)).Msg("bad magic, resyncing one byte")
				fr.buffer = fr.buffer[1:]
				continue
			}
			fr.Logger.Warn().Err(err).Msg("frame header decode failed")
			return frames, err
		}

		if header.Length > fr.maxPayloadSize {
			fr.Logger.Warn().Uint32("length", header.Length).Uint32("max", fr.maxPayloadSize).Msg("frame rejected, payload exceeds policy maximum")
			return frames, ErrPayloadTooLarge
		}

		total := HeaderSize + int(header.Length)
		if len(fr.buffer) < total {
			break // need more data
		}

		payload := make([]byte, header.Length)
		copy(payload, fr.buffer[HeaderSize:total])
		frames = append(frames, Frame{Header: header, Payload: payload})
		fr.buffer = fr.buffer[total:]
	}

	return frames, nil
}

// PendingBytes returns the number of bytes buffered but not yet
// forming a complete frame.
func (fr *FrameReader) PendingBytes() int {
	return len(fr.buffer)
}
