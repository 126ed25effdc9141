package engine

import (
	"sync"

	"golang.org/x/crypto/cryptobyte"
)

// TLS record content types.
const (
	recordChangeCipherSpec = 20
	recordAlert            = 21
	recordHandshake        = 22
	recordApplicationData  = 23

	recordHeaderLen = 5
)

// DirectionStats counts TLS records seen in one direction. Record types are
// taken from the outer header, so TLS 1.3 handshake messages after the
// ServerHello are counted as application data.
type DirectionStats struct {
	Records          uint64 `cbor:"1,keyasint" json:"records"`
	Bytes            uint64 `cbor:"2,keyasint" json:"bytes"`
	Handshake        uint64 `cbor:"3,keyasint,omitempty" json:"handshake,omitempty"`
	Alert            uint64 `cbor:"4,keyasint,omitempty" json:"alert,omitempty"`
	ChangeCipherSpec uint64 `cbor:"5,keyasint,omitempty" json:"changeCipherSpec,omitempty"`
	ApplicationData  uint64 `cbor:"6,keyasint,omitempty" json:"applicationData,omitempty"`
	Other            uint64 `cbor:"7,keyasint,omitempty" json:"other,omitempty"`
}

// RecordStats counts TLS records sent to and received from the socket.
type RecordStats struct {
	Sent     DirectionStats `cbor:"1,keyasint" json:"sent"`
	Received DirectionStats `cbor:"2,keyasint" json:"received"`
}

// recordCounter tracks record boundaries in a ciphertext stream that arrives
// in arbitrary chunks.
type recordCounter struct {
	mu     sync.Mutex
	header []byte
	skip   int
	stats  DirectionStats
}

func (r *recordCounter) observe(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Bytes += uint64(len(p))
	for len(p) > 0 {
		if r.skip > 0 {
			n := min(r.skip, len(p))
			r.skip -= n
			p = p[n:]
			continue
		}

		n := min(recordHeaderLen-len(r.header), len(p))
		r.header = append(r.header, p[:n]...)
		p = p[n:]
		if len(r.header) < recordHeaderLen {
			return
		}

		var (
			typ     uint8
			version uint16
			length  uint16
		)
		s := cryptobyte.String(r.header)
		if !s.ReadUint8(&typ) || !s.ReadUint16(&version) || !s.ReadUint16(&length) {
			return
		}
		r.count(typ)
		r.skip = int(length)
		r.header = r.header[:0]
	}
}

func (r *recordCounter) count(typ uint8) {
	r.stats.Records++
	switch typ {
	case recordHandshake:
		r.stats.Handshake++
	case recordAlert:
		r.stats.Alert++
	case recordChangeCipherSpec:
		r.stats.ChangeCipherSpec++
	case recordApplicationData:
		r.stats.ApplicationData++
	default:
		r.stats.Other++
	}
}

func (r *recordCounter) snapshot() DirectionStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
