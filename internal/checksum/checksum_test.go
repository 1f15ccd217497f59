package checksum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_KnownValues(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "paaoq6+0"},
		{1700000000000, "pDAB55OY"},
		{1700000000001, "pDAB55OX"},
	}

	for _, tc := range tests {
		got := Generate(time.UnixMilli(tc.ms), "machine")
		assert.Equal(t, tc.want+"machine", got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	now := time.UnixMilli(1712345678901)
	assert.Equal(t, Generate(now, "id"), Generate(now, "id"))
	assert.NotEqual(t, Generate(now, "id"), Generate(now.Add(time.Millisecond), "id"))
	assert.NotEqual(t, Generate(now, "id"), Generate(now, "other"))
}

func TestGenerator_Header(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	g := Generator{Now: func() time.Time { return fixed }}
	assert.Equal(t, "pDAB55OY"+DefaultMachineID, g.Header())

	g.MachineID = "box-1"
	assert.Equal(t, "pDAB55OYbox-1", g.Header())

	assert.Len(t, Generator{MachineID: "x"}.Header(), 9)
}
