package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLittleEndianReadWrite(t *testing.T) {
	b := make([]byte, 4)
	var v uint32 = 0x01020304

	PutU32(b, v)
	// LE: 04 03 02 01
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b)
	assert.Equal(t, v, U32(b))
}

func TestLittleEndianAt(t *testing.T) {
	buf := make([]byte, 12)

	PutU32At(buf, 0, 7)
	PutU32At(buf, 4, 0xDEADBEEF)

	assert.Equal(t, uint32(7), U32At(buf, 0))
	assert.Equal(t, uint32(0xDEADBEEF), U32At(buf, 4))
	assert.Equal(t, uint32(0), U32At(buf, 8))
}

func TestAppendU32(t *testing.T) {
	b := AppendU32([]byte("k"), 0x0A0B0C0D)
	assert.Equal(t, []byte{'k', 0x0D, 0x0C, 0x0B, 0x0A}, b)
}
