// Package cser implements a compact canonical serialization format.
// Values are split across two streams: booleans and byte-length prefixes
// go into a bit stream, the value bytes themselves into a byte stream.
// Small integers therefore cost only as many bytes as they need, and
// every value has exactly one legal encoding, which makes the output
// suitable for hashing.
package cser

import (
	"errors"
	"math/big"

	"github.com/rony4d/go-bonding-ledger/utils/bits"
	"github.com/rony4d/go-bonding-ledger/utils/fast"
)

var (
	// ErrNonCanonicalEncoding is returned when data is readable but not
	// packed minimally, or unused trailing bits are non-zero.
	ErrNonCanonicalEncoding = errors.New("non canonical encoding")
	// ErrMalformedEncoding is returned when the structure is invalid or truncated.
	ErrMalformedEncoding = errors.New("malformed encoding")
	// ErrTooLargeAlloc is returned when a decoded size exceeds the allowed limit.
	ErrTooLargeAlloc = errors.New("too large allocation")
)

// MaxAlloc limits decoded byte slice sizes to prevent OOM on malicious input.
const MaxAlloc = 100 * 1024

// Writer serializes into the two underlying streams.
type Writer struct {
	BitsW  *bits.Writer
	BytesW *fast.Writer
}

// Reader deserializes from the two underlying streams.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

// NewWriter creates a ready-to-use writer with pre-allocated buffers.
func NewWriter() *Writer {
	bbits := &bits.Array{Bytes: make([]byte, 0, 32)}
	bbytes := make([]byte, 0, 200)
	return &Writer{
		BitsW:  bits.NewWriter(bbits),
		BytesW: fast.NewWriter(bbytes),
	}
}

// writeUint64Compact encodes v as a varint: 7 data bits per byte, the
// high bit set on the terminal byte.
func writeUint64Compact(bytesW *fast.Writer, v uint64) {
	for {
		chunk := v & 0x7f
		v = v >> 7
		if v == 0 {
			chunk |= 0x80
		}
		bytesW.WriteByte(byte(chunk))
		if v == 0 {
			break
		}
	}
}

// readUint64Compact decodes the varint written by writeUint64Compact.
func readUint64Compact(bytesR *fast.Reader) uint64 {
	v := uint64(0)
	stop := false
	for i := 0; !stop; i++ {
		chunk := uint64(bytesR.ReadByte())
		stop = (chunk & 0x80) != 0
		word := chunk & 0x7f
		v |= word << (i * 7)
		// a zero terminal chunk would mean the value was padded
		if i > 0 && stop && word == 0 {
			panic(ErrNonCanonicalEncoding)
		}
	}
	return v
}

// writeUint64BitCompact writes v little-endian using the minimum number
// of bytes, but no fewer than minSize. Returns the number of bytes written.
func writeUint64BitCompact(bytesW *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		bytesW.WriteByte(byte(v))
		size++
		v = v >> 8
	}
	return
}

// readUint64BitCompact reads size little-endian bytes back into an integer.
func readUint64BitCompact(bytesR *fast.Reader, size int) uint64 {
	var (
		v    uint64
		last byte
	)
	buf := bytesR.Read(size)
	for i, b := range buf {
		v |= uint64(b) << uint(8*i)
		last = b
	}
	// a zero most significant byte means the value was padded
	if size > 1 && last == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	return v
}

// readU64_bits reads the byte count from the bit stream, then that many
// bytes from the byte stream.
func (r *Reader) readU64_bits(minSize int, bitsForSize int) uint64 {
	size := r.BitsR.Read(bitsForSize)
	size += uint(minSize)
	return readUint64BitCompact(r.BytesR, int(size))
}

// writeU64_bits writes the value bytes to the byte stream and the byte
// count (offset from minSize) to the bit stream.
func (w *Writer) writeU64_bits(minSize int, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

// U8 writes a byte directly; no size prefix needed.
func (w *Writer) U8(v uint8) {
	w.BytesW.WriteByte(v)
}

// U8 reads a byte.
func (r *Reader) U8() uint8 {
	return r.BytesR.ReadByte()
}

// U16 writes a uint16 in 1-2 bytes (1 size bit).
func (w *Writer) U16(v uint16) {
	w.writeU64_bits(1, 1, uint64(v))
}

// U16 reads a uint16.
func (r *Reader) U16() uint16 {
	v64 := r.readU64_bits(1, 1)
	return uint16(v64)
}

// U32 writes a uint32 in 1-4 bytes (2 size bits).
func (w *Writer) U32(v uint32) {
	w.writeU64_bits(1, 2, uint64(v))
}

// U32 reads a uint32.
func (r *Reader) U32() uint32 {
	v64 := r.readU64_bits(1, 2)
	return uint32(v64)
}

// U64 writes a uint64 in 1-8 bytes (3 size bits).
func (w *Writer) U64(v uint64) {
	w.writeU64_bits(1, 3, v)
}

// U64 reads a uint64.
func (r *Reader) U64() uint64 {
	return r.readU64_bits(1, 3)
}

// VarUint writes a uint64 with the same layout as U64.
func (w *Writer) VarUint(v uint64) {
	w.writeU64_bits(1, 3, v)
}

// VarUint reads a uint64 with the same layout as U64.
func (r *Reader) VarUint() uint64 {
	return r.readU64_bits(1, 3)
}

// U56 writes an integer of up to 56 bits in 0-7 bytes (3 size bits).
// Used for slice lengths.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("Value too big")
	}
	w.writeU64_bits(0, 3, v)
}

// U56 reads an integer of up to 56 bits.
func (r *Reader) U56() uint64 {
	return r.readU64_bits(0, 3)
}

// I64 writes a signed integer as a sign bit plus absolute value.
func (w *Writer) I64(v int64) {
	w.Bool(v < 0)
	if v < 0 {
		w.U64(uint64(-v))
	} else {
		w.U64(uint64(v))
	}
}

// I64 reads a signed integer.
func (r *Reader) I64() int64 {
	neg := r.Bool()
	abs := r.U64()
	// negative zero is not canonical
	if neg && abs == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	if neg {
		return -int64(abs)
	}
	return int64(abs)
}

// Bool writes a single bit.
func (w *Writer) Bool(v bool) {
	u8 := uint(0)
	if v {
		u8 = 1
	}
	w.BitsW.Write(1, u8)
}

// Bool reads a single bit.
func (r *Reader) Bool() bool {
	u8 := r.BitsR.Read(1)
	return u8 != 0
}

// FixedBytes writes raw bytes with no length prefix.
func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Write(v)
}

// FixedBytes reads exactly len(v) raw bytes into v.
func (r *Reader) FixedBytes(v []byte) {
	buf := r.BytesR.Read(len(v))
	copy(v, buf)
}

// SliceBytes writes a length-prefixed byte slice.
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}

// SliceBytes reads a length-prefixed byte slice of at most maxLen bytes.
func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}

// PaddedBytes left-pads b with zeroes to at least n bytes.
func PaddedBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	padding := make([]byte, n-len(b))
	return append(padding, b...)
}

// BigInt writes a non-negative big integer as a length-prefixed
// big-endian magnitude. The sign is not encoded.
func (w *Writer) BigInt(v *big.Int) {
	bigBytes := []byte{}
	if v.Sign() != 0 {
		bigBytes = v.Bytes()
	}
	w.SliceBytes(bigBytes)
}

// BigInt reads a non-negative big integer.
func (r *Reader) BigInt() *big.Int {
	buf := r.SliceBytes(512)
	if len(buf) == 0 {
		return new(big.Int)
	}
	if buf[0] == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	return new(big.Int).SetBytes(buf)
}
