package log

import (
	"bytes"
	"io"
	"testing"
	"time"
)

func TestEncodeDecodeHandshakeEvent(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	event := Event{
		Timestamp:    ts,
		ConnectionID: "6c1d4f3e-0000-4000-8000-000000000001",
		Role:         RoleResponder,
		Category:     CategoryHandshake,
		RemoteAddr:   "127.0.0.1:4433",
		Handshake: &HandshakeEvent{
			Kind:        HandshakeInitial,
			Outcome:     OutcomeCompleted,
			Duration:    12 * time.Millisecond,
			Polls:       2,
			Version:     "TLS 1.3",
			CipherSuite: "TLS_AES_128_GCM_SHA256",
			Resumed:     true,
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: got %v, want %v (nanoseconds must survive)", decoded.Timestamp, ts)
	}
	if decoded.Role != RoleResponder || decoded.Category != CategoryHandshake {
		t.Errorf("Role/Category: got %v/%v", decoded.Role, decoded.Category)
	}
	if decoded.Handshake == nil {
		t.Fatal("Handshake payload lost")
	}
	if *decoded.Handshake != *event.Handshake {
		t.Errorf("Handshake: got %+v, want %+v", *decoded.Handshake, *event.Handshake)
	}
	if decoded.IO != nil || decoded.Error != nil || decoded.Verify != nil || decoded.StateChange != nil {
		t.Error("unset payloads must stay nil")
	}
}

func TestEncodeIsCompact(t *testing.T) {
	data, err := EncodeEvent(Event{ConnectionID: "c", IO: &IOEvent{Direction: DirectionOut, Requested: 10, Transferred: 10}})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	// Integer keys keep field names out of the encoding.
	if bytes.Contains(data, []byte("Transferred")) {
		t.Error("field names leaked into the encoding")
	}
}

func TestStreamingEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for i := 0; i < 3; i++ {
		if err := enc.Encode(Event{ConnectionID: "c", IO: &IOEvent{Transferred: i}}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i := 0; i < 3; i++ {
		var e Event
		if err := dec.Decode(&e); err != nil {
			t.Fatalf("Decode %d failed: %v", i, err)
		}
		if e.IO == nil || e.IO.Transferred != i {
			t.Errorf("event %d: got %+v", i, e.IO)
		}
	}
	var e Event
	if err := dec.Decode(&e); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestDecodeEventGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}
