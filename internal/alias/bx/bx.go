// stand for bytes helper
package bx

import "encoding/binary"

var LE = binary.LittleEndian

// --- LE ---
func U32(b []byte) uint32       { return LE.Uint32(b) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }

// --- LE: At (offset) ---
func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }

// AppendU32 appends v to b in little-endian order.
func AppendU32(b []byte, v uint32) []byte { return LE.AppendUint32(b, v) }
