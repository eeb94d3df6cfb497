package cbor

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"slices"
	"unicode/utf8"
)

// EncOptions configures encoding. The zero value produces the
// deterministic encoding: minimal-width headers, definite lengths, map
// entries sorted by the bytes of their encoded keys, and floats written
// as 8-byte doubles.
type EncOptions struct {
	// NonDeterministic writes map entries in insertion order instead of
	// sorting them. The output of equal maps may then differ.
	NonDeterministic bool

	// ShortestFloat writes each float in the narrowest of half, single or
	// double precision that keeps its exact bit pattern.
	ShortestFloat bool

	// MaxNestedLevels limits how deep arrays, maps and tags may nest.
	// Zero means DefaultMaxNestedLevels.
	MaxNestedLevels int
}

// Marshal returns the deterministic encoding of v.
// A nil Value is encoded as null.
func Marshal(v Value) ([]byte, error) {
	return EncOptions{}.Marshal(v)
}

// Marshal returns the encoding of v with opts.
func (opts EncOptions) Marshal(v Value) ([]byte, error) {
	return opts.Append(nil, v)
}

// Append appends the encoding of v to dst and returns the extended buffer.
// On error it returns dst unchanged.
func (opts EncOptions) Append(dst []byte, v Value) ([]byte, error) {
	e := newEncodeState(dst, opts)
	if err := e.encode(v, 0); err != nil {
		return dst[:len(dst):len(dst)], err
	}
	return e.buf, nil
}

func newEncodeState(dst []byte, opts EncOptions) *encodeState {
	maxDepth := opts.MaxNestedLevels
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestedLevels
	}
	return &encodeState{buf: dst, opts: opts, maxDepth: maxDepth}
}

type encodeState struct {
	buf      []byte
	opts     EncOptions
	maxDepth int
}

func (e *encodeState) writeHeader(h Header) {
	e.buf = AppendHeader(e.buf, h)
}

func (e *encodeState) encode(v Value, depth int) error {
	switch v := v.(type) {
	case nil:
		e.writeHeader(SimpleHeader(Null))
	case Int:
		e.writeHeader(IntHeader(int64(v)))
	case BigInt:
		return e.encodeBigInt(v.Int)
	case Bytes:
		e.writeHeader(BytesHeader(uint64(len(v))))
		e.buf = append(e.buf, v...)
	case String:
		if !utf8.ValidString(string(v)) {
			return &InvalidUTF8Error{Offset: len(e.buf)}
		}
		e.writeHeader(TextHeader(uint64(len(v))))
		e.buf = append(e.buf, v...)
	case Array:
		if depth >= e.maxDepth {
			return &MaxNestedLevelsError{Max: e.maxDepth, Offset: len(e.buf)}
		}
		e.writeHeader(ArrayHeader(uint64(len(v))))
		for _, item := range v {
			if err := e.encode(item, depth+1); err != nil {
				return err
			}
		}
	case *Map:
		if depth >= e.maxDepth {
			return &MaxNestedLevelsError{Max: e.maxDepth, Offset: len(e.buf)}
		}
		return e.encodeMap(v, depth)
	case Tagged:
		if depth >= e.maxDepth {
			return &MaxNestedLevelsError{Max: e.maxDepth, Offset: len(e.buf)}
		}
		e.writeHeader(TagHeader(v.Number))
		return e.encode(v.Content, depth+1)
	case Simple:
		if !v.Valid() {
			return &InvalidSimpleValueError{Value: byte(v), Offset: len(e.buf)}
		}
		e.writeHeader(SimpleHeader(v))
	case Float:
		e.encodeFloat64(float64(v))
	default:
		return fmt.Errorf("cbor: unsupported value type %T", v)
	}
	return nil
}

func (e *encodeState) encodeBigInt(i *big.Int) error {
	if i == nil {
		i = new(big.Int)
	}
	if i.Sign() >= 0 {
		if !i.IsUint64() {
			return ErrValueTooLarge
		}
		e.writeHeader(UnsignedHeader(i.Uint64()))
		return nil
	}

	// -1-n is encoded as n
	n := new(big.Int).Not(i)
	if !n.IsUint64() {
		return ErrValueTooLarge
	}
	e.writeHeader(NegativeHeader(n.Uint64()))
	return nil
}

func (e *encodeState) encodeFloat64(f float64) {
	if e.opts.ShortestFloat {
		e.writeHeader(FloatHeader(shortestFloat(f)))
		return
	}
	e.writeHeader(FloatHeader(FloatValue{Width: FloatDouble, Bits: math.Float64bits(f)}))
}

// mapSpan locates one encoded entry of a map in the output buffer:
// the key is buf[key:value] and the value is buf[value:end].
type mapSpan struct {
	key   int
	value int
	end   int
}

func (e *encodeState) cmpMapSpan(a, b mapSpan) int {
	return bytes.Compare(e.buf[a.key:a.value], e.buf[b.key:b.value])
}

func (e *encodeState) encodeMap(m *Map, depth int) error {
	entries := m.Entries()
	e.writeHeader(MapHeader(uint64(len(entries))))

	if e.opts.NonDeterministic || len(entries) < 2 {
		for _, entry := range entries {
			if err := e.encode(entry.Key, depth+1); err != nil {
				return err
			}
			if err := e.encode(entry.Value, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	// Write the entries in any order while recording where each key and
	// value landed, sort the spans by key bytes, then rewrite the payload
	// in sorted order.
	start := len(e.buf)
	spans := make([]mapSpan, 0, len(entries))
	for _, entry := range entries {
		keyStart := len(e.buf)
		if err := e.encode(entry.Key, depth+1); err != nil {
			return err
		}
		valueStart := len(e.buf)
		if err := e.encode(entry.Value, depth+1); err != nil {
			return err
		}
		spans = append(spans, mapSpan{key: keyStart, value: valueStart, end: len(e.buf)})
	}
	slices.SortFunc(spans, e.cmpMapSpan)

	scratch := make([]byte, 0, len(e.buf)-start)
	for _, span := range spans {
		scratch = append(scratch, e.buf[span.key:span.end]...)
	}
	copy(e.buf[start:], scratch)
	return nil
}
