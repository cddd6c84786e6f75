package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Dependency-free ULID generator. ULIDs are 26-character Crockford Base32
// strings with a 48-bit millisecond timestamp prefix, so IDs sort by
// creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a fresh ULID. Safe for concurrent use; a sequence
// counter keeps IDs generated within the same millisecond unique.
func NewULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// Sequence in bytes 6-7 keeps same-millisecond IDs distinct.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

func generateULID() string { return NewULID() }

// encodeBase32 encodes 128 bits as 26 Crockford Base32 characters by
// walking the bit string 5 bits at a time, left-padded to 130 bits.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	// Bit offset of each output character, counted from the end.
	for i := range out {
		shift := uint(5 * (25 - i))
		out[i] = crockford[extract5(b, shift)]
	}
	return string(out[:])
}

// extract5 pulls the 5-bit group that starts shift bits above the least
// significant bit of the 128-bit value.
func extract5(b [16]byte, shift uint) byte {
	var v byte
	for bit := uint(0); bit < 5; bit++ {
		pos := shift + bit
		if pos >= 128 {
			continue
		}
		byteIdx := 15 - pos/8
		if b[byteIdx]&(1<<(pos%8)) != 0 {
			v |= 1 << bit
		}
	}
	return v
}
