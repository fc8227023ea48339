package bcodec

import "errors"

// ErrHighBitSet is returned by Base128Decode when an input byte has its
// high bit set, which is illegal inside a base-128-packed sysex payload
// (spec.md §4.1: "decoding rejects bytes with the high bit set").
var ErrHighBitSet = errors.New("bcodec: base-128 byte with high bit set")

// Base128Encode packs src as 7-bit-per-byte little-endian groups, the MIDI-safe
// packing sysex payloads use. Every run of 7 input bytes yields 8
// output bytes; a final partial run of n<7 input bytes yields n+1 output
// bytes (4 input bytes -> 5 output bytes, matching spec.md §4.1 and §6 S1).
func Base128Encode(src []byte) []byte {
	dst := make([]byte, 0, Base128EncodedLen(len(src)))

	var b uint32
	i := 0
	for _, c := range src {
		b |= uint32(c) << uint(i)
		dst = append(dst, byte(b&0x7f))
		b >>= 7
		i++
		if i == 7 {
			dst = append(dst, byte(b))
			b = 0
			i = 0
		}
	}
	if i > 0 {
		dst = append(dst, byte(b))
	}
	return dst
}

// Base128EncodedLen returns ceil(n*8/7), the number of bytes Base128Encode
// produces for an n-byte input (spec.md §8 property 1).
func Base128EncodedLen(n int) int {
	return (n*8 + 6) / 7
}

// Base128Decode reverses Base128Encode. It rejects any byte with bit 7 set.
func Base128Decode(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src)*7/8)

	var b uint32
	i := 0
	for _, c := range src {
		if c&0x80 != 0 {
			return nil, ErrHighBitSet
		}
		b |= uint32(c) << uint(i)
		if i == 0 {
			i = 7
		} else {
			dst = append(dst, byte(b&0xff))
			b >>= 8
			i--
		}
	}
	return dst, nil
}
