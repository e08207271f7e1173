/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"testing"

	"github.com/gorilla/websocket"
)

func TestCodecsCarryEnvelope(t *testing.T) {
	msg := Message{
		Type: "updatePlayerPosition",
		Data: map[string]any{"playerId": "p1", "position": 3, "active": true},
	}

	for _, codec := range []Codec{jsonCodec{}, msgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			frame, err := codec.Encode(msg)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			got, err := codec.Decode(frame)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got.Type != msg.Type {
				t.Errorf("Expected type %q, got %q", msg.Type, got.Type)
			}

			data := dataOf(t, got)
			if data.Text("playerId") != "p1" || data["position"] != 3.0 || !data.Bool("active") {
				t.Errorf("Unexpected data after decode: %#v", data)
			}
		})
	}
}

func TestDecodeRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		frame []byte
	}{
		{"json garbage", jsonCodec{}, []byte("{not json")},
		{"json missing type", jsonCodec{}, []byte(`{"data":{"a":1}}`)},
		{"json blank type", jsonCodec{}, []byte(`{"type":"  ","data":null}`)},
		{"msgpack garbage", msgpackCodec{}, []byte{0xc1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.codec.Decode(tt.frame); !errors.Is(err, ErrMalformedMessage) {
				t.Errorf("Expected ErrMalformedMessage, got %v", err)
			}
		})
	}
}

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name      string
		frameType int
		wantErr   bool
	}{
		{"", websocket.TextMessage, false},
		{"json", websocket.TextMessage, false},
		{"MsgPack", websocket.BinaryMessage, false},
		{"xml", 0, true},
	}

	for _, tt := range tests {
		codec, err := codecByName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Expected error for %q", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", tt.name, err)
			continue
		}
		if codec.FrameType() != tt.frameType {
			t.Errorf("Expected frame type %d for %q, got %d", tt.frameType, tt.name, codec.FrameType())
		}
	}
}

func TestEncoderCachesPerCodec(t *testing.T) {
	enc := newEncoder("playerCount", map[string]any{"count": 2})

	a, err := enc.frame(jsonCodec{})
	if err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	b, _ := enc.frame(jsonCodec{})
	if &a[0] != &b[0] {
		t.Error("Expected the JSON frame to be reused")
	}

	m, err := enc.frame(msgpackCodec{})
	if err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	if string(m) == string(a) {
		t.Error("Expected a distinct msgpack frame")
	}
}
