// Package checksum produces the x-cursor-checksum request header.
package checksum

import (
	"encoding/base64"
	"time"
)

// DefaultMachineID is sent when no machine id is configured.
const DefaultMachineID = "cursor-search-mcp"

const seed byte = 165

// Generate returns base64(obfuscated 6-byte millisecond timestamp) followed by
// machineID. Each byte is XORed with the previous output byte, starting from
// 165, and offset by its index.
func Generate(now time.Time, machineID string) string {
	ms := uint64(now.UnixMilli())
	buf := []byte{
		byte(ms >> 40), byte(ms >> 32), byte(ms >> 24),
		byte(ms >> 16), byte(ms >> 8), byte(ms),
	}

	w := seed
	for i, b := range buf {
		buf[i] = (b ^ w) + byte(i%256)
		w = buf[i]
	}
	return base64.StdEncoding.EncodeToString(buf) + machineID
}

// Generator builds header values from a clock and a fixed machine id.
type Generator struct {
	MachineID string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Header returns a checksum for the current time.
func (g Generator) Header() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	id := g.MachineID
	if id == "" {
		id = DefaultMachineID
	}
	return Generate(now(), id)
}
