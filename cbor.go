// Package cbor implements a tree-based codec for the Concise Binary Object
// Representation (CBOR) described in RFC 8949.
//
// Decode turns bytes into a Value tree and Marshal turns a Value tree back
// into bytes. The decoder accepts definite and indefinite-length strings,
// arrays and maps; the encoder always writes definite lengths with
// minimal-width headers and, unless EncOptions.NonDeterministic is set,
// sorts map entries by the bytes of their encoded keys.
package cbor

// RawMessage is a raw encoded CBOR data item, as returned by
// Decoder.DecodeRaw.
type RawMessage []byte

// Decode decodes the data item held by m.
func (m RawMessage) Decode() (Value, error) {
	return Decode(m)
}
