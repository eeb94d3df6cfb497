package cbor

import (
	"bytes"
	"math/big"
)

// Value is a CBOR data item.
//
// The following types implement Value:
//   - Int
//   - BigInt
//   - Bytes
//   - String
//   - Array
//   - *Map
//   - Tagged
//   - Simple
//   - Float
type Value interface {
	// MajorType returns the major type the value is encoded with.
	MajorType() MajorType

	isValue()
}

var (
	_ Value = Int(0)
	_ Value = BigInt{}
	_ Value = Bytes(nil)
	_ Value = String("")
	_ Value = Array(nil)
	_ Value = (*Map)(nil)
	_ Value = Tagged{}
	_ Value = Simple(0)
	_ Value = Float(0)
)

func (Int) isValue()    {}
func (BigInt) isValue() {}
func (Bytes) isValue()  {}
func (String) isValue() {}
func (Array) isValue()  {}
func (*Map) isValue()   {}
func (Tagged) isValue() {}
func (Simple) isValue() {}
func (Float) isValue()  {}

// Int is an integer (major type 0 or 1) that fits an int64.
type Int int64

func (i Int) MajorType() MajorType {
	if i < 0 {
		return MajorTypeNegative
	}
	return MajorTypeUnsigned
}

// BigInt is an integer outside the int64 range. Decoding produces it for
// unsigned integers above math.MaxInt64 and negative integers below
// math.MinInt64. Use NewBigInt to construct one.
type BigInt struct {
	*big.Int
}

func (i BigInt) MajorType() MajorType {
	if i.Int != nil && i.Sign() < 0 {
		return MajorTypeNegative
	}
	return MajorTypeUnsigned
}

// NewBigInt returns x as an Int if it fits an int64, otherwise as a BigInt.
func NewBigInt(x *big.Int) Value {
	if x.IsInt64() {
		return Int(x.Int64())
	}
	return BigInt{new(big.Int).Set(x)}
}

// Bytes is a byte string (major type 2).
type Bytes []byte

func (Bytes) MajorType() MajorType { return MajorTypeBytes }

// String is a UTF-8 text string (major type 3).
type String string

func (String) MajorType() MajorType { return MajorTypeString }

// Array is an array of data items (major type 4).
type Array []Value

func (Array) MajorType() MajorType { return MajorTypeArray }

// Tagged is a tag number wrapping one data item (major type 6).
type Tagged struct {
	Number  TagNumber
	Content Value
}

func (Tagged) MajorType() MajorType { return MajorTypeTag }

// Simple is a simple value (major type 7). Values 24 to 31 are reserved
// and cannot be encoded.
type Simple uint8

const (
	False     Simple = 20
	True      Simple = 21
	Null      Simple = 22
	Undefined Simple = 23
)

func (Simple) MajorType() MajorType { return MajorTypeOther }

// NewSimple returns b as a Simple, rejecting the reserved range 24..31.
func NewSimple(b byte) (Simple, error) {
	s := Simple(b)
	if !s.Valid() {
		return 0, &InvalidSimpleValueError{Value: b, Offset: -1}
	}
	return s, nil
}

// Valid reports whether s is outside the reserved range.
func (s Simple) Valid() bool {
	return s < 24 || s > 31
}

// Bool returns True or False.
func Bool(b bool) Simple {
	if b {
		return True
	}
	return False
}

// Float is a floating-point number (major type 7). It keeps the exact bit
// pattern of the encoded number, NaN payloads included.
type Float float64

func (Float) MajorType() MajorType { return MajorTypeOther }

// Equal reports whether a and b are the same CBOR data item.
// Two items are equal when their deterministic encodings are identical:
// map entries are compared regardless of order, floats by bit pattern,
// and a BigInt equals an Int of the same value.
// Values that cannot be encoded are equal to nothing.
func Equal(a, b Value) bool {
	x, err := Marshal(a)
	if err != nil {
		return false
	}
	y, err := Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(x, y)
}

// MapEntry is a key-value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is a map of data items (major type 5). Keys are pairwise distinct
// under Equal. Entries keep their insertion order, which is the order
// used by non-deterministic encoding.
//
// The zero value is an empty map ready to use.
type Map struct {
	entries []MapEntry

	// index maps the deterministic encoding of a key to its position
	// in entries.
	index map[string]int
}

// NewMap returns an empty map with room for n entries.
func NewMap(n int) *Map {
	return &Map{
		entries: make([]MapEntry, 0, n),
		index:   make(map[string]int, n),
	}
}

func (*Map) MajorType() MajorType { return MajorTypeMap }

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in insertion order.
// The returned slice must not be modified.
func (m *Map) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Set associates value with key. If an equal key exists, its value is
// replaced and the entry keeps its position. It fails when key cannot be
// encoded.
func (m *Map) Set(key, value Value) error {
	k, err := Marshal(key)
	if err != nil {
		return err
	}
	m.set(string(k), key, value)
	return nil
}

// set stores the entry under the encoded key k and reports whether k was
// already present.
func (m *Map) set(k string, key, value Value) bool {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = value
		return true
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
	return false
}

// Get returns the value associated with key.
func (m *Map) Get(key Value) (Value, bool) {
	if m.Len() == 0 {
		return nil, false
	}
	k, err := Marshal(key)
	if err != nil {
		return nil, false
	}
	i, ok := m.index[string(k)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key Value) bool {
	if m.Len() == 0 {
		return false
	}
	k, err := Marshal(key)
	if err != nil {
		return false
	}
	i, ok := m.index[string(k)]
	if !ok {
		return false
	}
	delete(m.index, string(k))
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	for k, j := range m.index {
		if j > i {
			m.index[k] = j - 1
		}
	}
	return true
}

