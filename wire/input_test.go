package wire

import (
	"testing"

	"github.com/anthropics/viewport/protocol"
)

func TestInputEventRoundTrip(t *testing.T) {
	target := 7
	msg := &protocol.ProtocolMessage{
		Type: protocol.MsgInput,
		Event: &protocol.InputEvent{
			Target: &target,
			Kind:   "click",
			X:      intPtr(10),
			Y:      intPtr(20),
		},
	}

	for _, enc := range allEncodings {
		payload, err := EncodeMessage(msg, enc)
		if err != nil {
			t.Fatalf("enc=%d: %v", enc, err)
		}
		decoded, err := DecodeMessage(payload)
		if err != nil {
			t.Fatalf("enc=%d: %v", enc, err)
		}
		if decoded.Event == nil {
			t.Fatalf("enc=%d: nil event", enc)
		}
		if decoded.Event.Kind != "click" || *decoded.Event.Target != 7 {
			t.Errorf("enc=%d: event = %+v", enc, decoded.Event)
		}
		if decoded.Event.X == nil || *decoded.Event.X != 10 {
			t.Errorf("enc=%d: x = %v, want 10", enc, decoded.Event.X)
		}
	}
}

func TestEnvInfoRoundTrip(t *testing.T) {
	msg := &protocol.ProtocolMessage{
		Type: protocol.MsgEnv,
		Env: &protocol.EnvInfo{
			ViewportVersion: 1,
			DisplayWidth:    80,
			DisplayHeight:   24,
			PixelDensity:    1.0,
			GPU:             false,
			ColorDepth:      8,
			Remote:          true,
			LatencyMs:       42.5,
		},
	}

	for _, enc := range allEncodings {
		payload, err := EncodeMessage(msg, enc)
		if err != nil {
			t.Fatalf("enc=%d: %v", enc, err)
		}
		decoded, err := DecodeMessage(payload)
		if err != nil {
			t.Fatalf("enc=%d: %v", enc, err)
		}
		if decoded.Env == nil {
			t.Fatalf("enc=%d: nil env", enc)
		}
		if decoded.Env.DisplayWidth != 80 || decoded.Env.DisplayHeight != 24 {
			t.Errorf("enc=%d: env = %+v", enc, decoded.Env)
		}
		if decoded.Env.LatencyMs != 42.5 {
			t.Errorf("enc=%d: latencyMs = %v, want 42.5", enc, decoded.Env.LatencyMs)
		}
	}
}
