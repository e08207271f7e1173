/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Message is the envelope for every frame in either direction.
type Message struct {
	Type string `json:"type" msgpack:"type"`
	Data any    `json:"data" msgpack:"data"`
}

// Codec turns envelopes into websocket frames and back.
type Codec interface {
	Name() string
	FrameType() int
	Encode(msg Message) ([]byte, error)
	Decode(frame []byte) (Message, error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string   { return "json" }
func (jsonCodec) FrameType() int { return websocket.TextMessage }

func (jsonCodec) Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Decode(frame []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	return validMessage(msg)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string   { return "msgpack" }
func (msgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (msgpackCodec) Encode(msg Message) ([]byte, error) {
	return msgpack.Marshal(&msg)
}

func (msgpackCodec) Decode(frame []byte) (Message, error) {
	var msg Message
	if err := msgpack.Unmarshal(frame, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	return validMessage(msg)
}

func validMessage(msg Message) (Message, error) {
	msg.Type = strings.TrimSpace(msg.Type)
	if msg.Type == "" {
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	msg.Data = normalize(msg.Data)

	return msg, nil
}

var codecs = map[string]Codec{
	"json":    jsonCodec{},
	"msgpack": msgpackCodec{},
}

// codecByName resolves the ?codec= query value; empty means JSON.
func codecByName(name string) (Codec, error) {
	if name == "" {
		return jsonCodec{}, nil
	}

	c, ok := codecs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported codec %q", name)
	}

	return c, nil
}

// encoder caches one encoding per codec while a message fans out to many
// clients.
type encoder struct {
	msg    Message
	frames map[string][]byte
}

func newEncoder(event string, data any) *encoder {
	return &encoder{msg: Message{Type: event, Data: data}}
}

func (e *encoder) frame(c Codec) ([]byte, error) {
	if b, ok := e.frames[c.Name()]; ok {
		return b, nil
	}

	b, err := c.Encode(e.msg)
	if err != nil {
		return nil, err
	}
	if e.frames == nil {
		e.frames = make(map[string][]byte, 2)
	}
	e.frames[c.Name()] = b

	return b, nil
}
