// Package osc implements the subset of OSC 1.0 spec.md needs: message and
// bundle encode/decode with ",ifs" plus tag-only T/F/N arguments, and a
// glob-style address pattern matcher. Grounded on original_source/osc.c's
// oscgetint/oscgetstr/oscgetfloat/oscputint/oscputstr/oscputfloat cursor
// style, reworked into Go value semantics instead of mutating a shared
// cursor struct via pointers into fixed buffers.
package osc

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	ErrTruncated     = errors.New("osc: truncated message")
	ErrBadAlignment  = errors.New("osc: argument data not 4-byte aligned")
	ErrBadTypeTag    = errors.New("osc: malformed type tag")
	ErrWrongArgType  = errors.New("osc: argument type mismatch")
	ErrNoMoreArgs    = errors.New("osc: no more arguments")
	ErrExtraArgs     = errors.New("osc: extra arguments")
	ErrAddressFormat = errors.New("osc: address does not start with '/'")
	ErrStringTooBig  = errors.New("osc: string does not fit in buffer")
)

// pad4 returns n rounded up to the next multiple of 4.
func pad4(n int) int {
	return (n + 3) &^ 3
}

// putString appends s NUL-terminated and zero-padded to a 4-byte boundary.
func putString(dst []byte, s string) []byte {
	dst = append(dst, s...)
	dst = append(dst, 0)
	for len(dst)%4 != 0 {
		dst = append(dst, 0)
	}
	return dst
}

// getString reads a NUL-terminated, 4-byte-padded string starting at buf[0].
// It returns the string and the number of bytes consumed.
func getString(buf []byte) (string, int, error) {
	i := 0
	for i < len(buf) && buf[i] != 0 {
		i++
	}
	if i == len(buf) {
		return "", 0, ErrTruncated
	}
	n := pad4(i + 1)
	if n > len(buf) {
		return "", 0, ErrTruncated
	}
	return string(buf[:i]), n, nil
}

// Message is a decoded, or to-be-encoded, OSC message: an address plus a
// type tag (without the leading ',') and the raw bytes of its arguments.
type Message struct {
	Address string
	Types   string
	argdata []byte
}

// EncodeMessage serializes addr/types/args (types has no leading comma) into
// an OSC message. types characters: 'i' (int32), 'f' (float32), 's'
// (string), 'T'/'F'/'N' (tag-only, arg ignored/omitted for those slots).
func EncodeMessage(addr string, types string, args ...any) ([]byte, error) {
	if len(addr) == 0 || addr[0] != '/' {
		return nil, ErrAddressFormat
	}

	buf := make([]byte, 0, 64)
	buf = putString(buf, addr)
	buf = putString(buf, ","+types)

	ai := 0
	for _, tg := range types {
		switch tg {
		case 'i':
			v, err := asInt32(args[ai])
			if err != nil {
				return nil, err
			}
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], uint32(v))
			buf = append(buf, b[:]...)
			ai++
		case 'f':
			v, err := asFloat32(args[ai])
			if err != nil {
				return nil, err
			}
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
			buf = append(buf, b[:]...)
			ai++
		case 's':
			s, ok := args[ai].(string)
			if !ok {
				return nil, ErrWrongArgType
			}
			buf = putString(buf, s)
			ai++
		case 'T', 'F', 'N':
			// tag-only: no argument consumed, no bytes written.
		default:
			return nil, ErrBadTypeTag
		}
	}
	return buf, nil
}

func asInt32(v any) (int32, error) {
	switch x := v.(type) {
	case int32:
		return x, nil
	case int:
		return int32(x), nil
	default:
		return 0, ErrWrongArgType
	}
}

func asFloat32(v any) (float32, error) {
	switch x := v.(type) {
	case float32:
		return x, nil
	case float64:
		return float32(x), nil
	default:
		return 0, ErrWrongArgType
	}
}

// DecodeMessage parses a single (non-bundle) OSC message.
func DecodeMessage(buf []byte) (Message, error) {
	addr, n, err := getString(buf)
	if err != nil {
		return Message{}, err
	}
	if len(addr) == 0 || addr[0] != '/' {
		return Message{}, ErrAddressFormat
	}
	buf = buf[n:]

	tags, n, err := getString(buf)
	if err != nil {
		return Message{}, err
	}
	if len(tags) == 0 || tags[0] != ',' {
		return Message{}, ErrBadTypeTag
	}
	buf = buf[n:]

	return Message{Address: addr, Types: tags[1:], argdata: buf}, nil
}

// Reader consumes a Message's arguments left to right, matching the cursor
// semantics of original_source/osc.c's oscgetint/oscgetstr/oscgetfloat: it
// records the first error and further reads on an errored Reader are no-ops.
type Reader struct {
	types string
	buf   []byte
	err   error
}

// NewReader starts reading m's arguments from the first one.
func NewReader(m Message) *Reader {
	return &Reader{types: m.Types, buf: m.argdata}
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) tag() byte {
	if r.types == "" {
		return 0
	}
	return r.types[0]
}

func (r *Reader) advance() {
	if r.types != "" {
		r.types = r.types[1:]
	}
}

// Int reads an 'i' argument, or treats 'T'/'F' as 1/0 the way
// original_source/osc.c's oscgetint does.
func (r *Reader) Int() int32 {
	if r.err != nil {
		return 0
	}
	switch r.tag() {
	case 'i':
		if len(r.buf) < 4 {
			r.err = ErrTruncated
			return 0
		}
		v := int32(binary.BigEndian.Uint32(r.buf))
		r.buf = r.buf[4:]
		r.advance()
		return v
	case 'T':
		r.advance()
		return 1
	case 'F':
		r.advance()
		return 0
	case 0:
		r.err = ErrNoMoreArgs
		return 0
	default:
		r.err = ErrWrongArgType
		return 0
	}
}

// Float reads an 'f' (or 'i', widened) argument.
func (r *Reader) Float() float32 {
	if r.err != nil {
		return 0
	}
	switch r.tag() {
	case 'f':
		if len(r.buf) < 4 {
			r.err = ErrTruncated
			return 0
		}
		v := math.Float32frombits(binary.BigEndian.Uint32(r.buf))
		r.buf = r.buf[4:]
		r.advance()
		return v
	case 'i':
		return float32(r.Int())
	case 0:
		r.err = ErrNoMoreArgs
		return 0
	default:
		r.err = ErrWrongArgType
		return 0
	}
}

// String reads an 's' argument, treating 'N' as an empty string.
func (r *Reader) String() string {
	if r.err != nil {
		return ""
	}
	switch r.tag() {
	case 's':
		s, n, err := getString(r.buf)
		if err != nil {
			r.err = err
			return ""
		}
		r.buf = r.buf[n:]
		r.advance()
		return s
	case 'N':
		r.advance()
		return ""
	case 0:
		r.err = ErrNoMoreArgs
		return ""
	default:
		r.err = ErrWrongArgType
		return ""
	}
}

// More reports whether there are unconsumed type-tag characters.
func (r *Reader) More() bool {
	return r.err == nil && r.types != ""
}

// End reports an error if there are leftover type tags or argument bytes,
// matching original_source/osc.c's oscend.
func (r *Reader) End() error {
	if r.err != nil {
		return r.err
	}
	if r.types != "" {
		return ErrExtraArgs
	}
	if len(r.buf) != 0 {
		return ErrExtraArgs
	}
	return nil
}

// Bundle incrementally builds a "#bundle" packet out of zero or more
// messages, matching original_source/oscmix.c's oscsend/oscflush
// accumulate-then-flush pattern (spec.md §4.3: "The emitter accumulates
// into a single growing bundle per handler tick, flushed at end-of-tick").
type Bundle struct {
	buf []byte
}

// NewBundle starts a bundle with a zero timetag (spec.md says the timetag is
// always zero or 1 and is ignored by this engine).
func NewBundle() *Bundle {
	buf := putString(nil, "#bundle")
	var tt [8]byte // timetag 0
	buf = append(buf, tt[:]...)
	return &Bundle{buf: buf}
}

// Add appends a length-prefixed message to the bundle.
func (b *Bundle) Add(addr string, types string, args ...any) error {
	msg, err := EncodeMessage(addr, types, args...)
	if err != nil {
		return err
	}
	var lenb [4]byte
	binary.BigEndian.PutUint32(lenb[:], uint32(len(msg)))
	b.buf = append(b.buf, lenb[:]...)
	b.buf = append(b.buf, msg...)
	return nil
}

// AddMessage appends an already-decoded or already-built Message, re-using
// its raw argument bytes directly rather than re-encoding from typed args.
// This is how the bridge forwards a Message produced by the register tree's
// Emitters (which build Messages via EncodeMessage/DecodeMessage internally)
// on to a UDP bundle without unpacking and repacking its arguments.
func (b *Bundle) AddMessage(m Message) {
	buf := putString(nil, m.Address)
	buf = putString(buf, ","+m.Types)
	buf = append(buf, m.argdata...)

	var lenb [4]byte
	binary.BigEndian.PutUint32(lenb[:], uint32(len(buf)))
	b.buf = append(b.buf, lenb[:]...)
	b.buf = append(b.buf, buf...)
}

// Empty reports whether no messages have been added.
func (b *Bundle) Empty() bool {
	return len(b.buf) == 16 // "#bundle" (8) + timetag (8), no sub-messages
}

// Bytes returns the accumulated bundle packet.
func (b *Bundle) Bytes() []byte {
	return b.buf
}

// DecodeBundleOrMessage parses either a "#bundle" packet (recursively, per
// spec.md §4.3) or a single message, returning the flattened list of
// messages in wire order.
func DecodeBundleOrMessage(buf []byte) ([]Message, error) {
	if len(buf) >= 8 && string(buf[:7]) == "#bundle" && buf[7] == 0 {
		return decodeBundle(buf)
	}
	m, err := DecodeMessage(buf)
	if err != nil {
		return nil, err
	}
	return []Message{m}, nil
}

func decodeBundle(buf []byte) ([]Message, error) {
	// "#bundle\0" (8 bytes) + 8-byte timetag (ignored).
	if len(buf) < 16 {
		return nil, ErrTruncated
	}
	buf = buf[16:]

	var out []Message
	for len(buf) > 0 {
		if len(buf) < 4 {
			return nil, ErrTruncated
		}
		n := int(binary.BigEndian.Uint32(buf))
		buf = buf[4:]
		if n < 0 || n > len(buf) {
			return nil, ErrTruncated
		}
		sub, err := DecodeBundleOrMessage(buf[:n])
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
		buf = buf[n:]
	}
	return out, nil
}
