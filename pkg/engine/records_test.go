package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(typ uint8, payload int) []byte {
	r := []byte{typ, 0x03, 0x03, byte(payload >> 8), byte(payload)}
	return append(r, make([]byte, payload)...)
}

func TestRecordCounter(t *testing.T) {
	var stream []byte
	stream = append(stream, record(recordHandshake, 100)...)
	stream = append(stream, record(recordChangeCipherSpec, 1)...)
	stream = append(stream, record(recordApplicationData, 300)...)
	stream = append(stream, record(recordAlert, 2)...)
	stream = append(stream, record(99, 0)...)

	tests := []struct {
		name  string
		chunk int
	}{
		{"whole", len(stream)},
		{"bytewise", 1},
		{"split headers", 3},
		{"odd", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c recordCounter
			for p := stream; len(p) > 0; {
				n := min(tt.chunk, len(p))
				c.observe(p[:n])
				p = p[n:]
			}

			got := c.snapshot()
			assert.Equal(t, uint64(5), got.Records)
			assert.Equal(t, uint64(len(stream)), got.Bytes)
			assert.Equal(t, uint64(1), got.Handshake)
			assert.Equal(t, uint64(1), got.ChangeCipherSpec)
			assert.Equal(t, uint64(1), got.ApplicationData)
			assert.Equal(t, uint64(1), got.Alert)
			assert.Equal(t, uint64(1), got.Other)
		})
	}
}

func TestRecordCounterPartialHeader(t *testing.T) {
	var c recordCounter
	c.observe([]byte{recordHandshake, 0x03})
	assert.Zero(t, c.snapshot().Records)

	c.observe([]byte{0x03, 0x00, 0x00})
	assert.Equal(t, uint64(1), c.snapshot().Records)
}
