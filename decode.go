package cbor

import (
	"encoding/binary"
	"math"
	"math/big"
	"unicode/utf8"
)

// DefaultMaxNestedLevels is the nesting limit used when
// DecOptions.MaxNestedLevels is zero.
const DefaultMaxNestedLevels = 512

// BigIntMode specifies how integers outside the int64 range are decoded.
type BigIntMode int

const (
	// BigIntPromote decodes them as BigInt.
	BigIntPromote BigIntMode = iota

	// BigIntReject fails with *IntegerOverflowError.
	BigIntReject
)

// DupMapKeyMode specifies how repeated keys within one map are handled.
type DupMapKeyMode int

const (
	// DupMapKeyOverwrite keeps the last value for the key.
	DupMapKeyOverwrite DupMapKeyMode = iota

	// DupMapKeyReject fails with *DuplicateMapKeyError.
	DupMapKeyReject
)

// DecOptions configures decoding. The zero value is the default
// configuration.
type DecOptions struct {
	// MaxNestedLevels limits how deep arrays, maps and tags may nest.
	// Zero means DefaultMaxNestedLevels.
	MaxNestedLevels int

	BigInt    BigIntMode
	DupMapKey DupMapKeyMode
}

// NewDecoder returns a Decoder reading data with opts.
func (opts DecOptions) NewDecoder(data []byte) *Decoder {
	maxDepth := opts.MaxNestedLevels
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestedLevels
	}
	return &Decoder{data: data, opts: opts, maxDepth: maxDepth}
}

// Decode decodes the single data item in data with opts.
// Bytes left over after the item are an error.
func (opts DecOptions) Decode(data []byte) (Value, error) {
	d := opts.NewDecoder(data)
	v, err := d.Decode()
	if err != nil {
		return nil, err
	}
	if d.More() {
		return nil, &ExtraneousDataError{Offset: d.off}
	}
	return v, nil
}

// Decode decodes the single data item in data.
// Bytes left over after the item are an error.
func Decode(data []byte) (Value, error) {
	return DecOptions{}.Decode(data)
}

// Valid reports whether data is exactly one well-formed CBOR data item.
func Valid(data []byte) bool {
	_, err := Decode(data)
	return err == nil
}

// A Decoder reads a sequence of data items from a byte slice.
// It borrows data: decoded values never alias it.
// A Decoder must not be used by multiple goroutines at once.
type Decoder struct {
	data     []byte
	off      int // next read offset
	opts     DecOptions
	maxDepth int
}

// NewDecoder returns a Decoder reading data with the default options.
func NewDecoder(data []byte) *Decoder {
	return DecOptions{}.NewDecoder(data)
}

// Offset returns the offset of the next byte to read.
func (d *Decoder) Offset() int {
	return d.off
}

// More reports whether unread bytes remain.
func (d *Decoder) More() bool {
	return d.off < len(d.data)
}

// Decode reads exactly one data item. On error the cursor is left where
// it was, so the call can be repeated or the offset inspected.
func (d *Decoder) Decode() (Value, error) {
	start := d.off
	v, err := d.decode(0)
	if err != nil {
		d.off = start
		return nil, err
	}
	return v, nil
}

// DecodeRaw reads exactly one well-formed data item and returns a copy of
// its encoded bytes.
func (d *Decoder) DecodeRaw() (RawMessage, error) {
	start := d.off
	if _, err := d.Decode(); err != nil {
		return nil, err
	}
	raw := make(RawMessage, d.off-start)
	copy(raw, d.data[start:d.off])
	return raw, nil
}

func (d *Decoder) isAvailable(n uint64) bool {
	if n > math.MaxInt {
		// int(n) will overflow
		return false
	}
	newOffset := d.off + int(n)
	if newOffset < d.off {
		// overflow
		return false
	}
	return newOffset <= len(d.data)
}

func (d *Decoder) readByte() (byte, error) {
	if !d.isAvailable(1) {
		return 0, &EndOfStreamError{Offset: d.off}
	}
	b := d.data[d.off]
	d.off++
	return b, nil
}

func (d *Decoder) readUint16() (uint16, error) {
	if !d.isAvailable(2) {
		return 0, &EndOfStreamError{Offset: d.off}
	}
	b := binary.BigEndian.Uint16(d.data[d.off:])
	d.off += 2
	return b, nil
}

func (d *Decoder) readUint32() (uint32, error) {
	if !d.isAvailable(4) {
		return 0, &EndOfStreamError{Offset: d.off}
	}
	b := binary.BigEndian.Uint32(d.data[d.off:])
	d.off += 4
	return b, nil
}

func (d *Decoder) readUint64() (uint64, error) {
	if !d.isAvailable(8) {
		return 0, &EndOfStreamError{Offset: d.off}
	}
	b := binary.BigEndian.Uint64(d.data[d.off:])
	d.off += 8
	return b, nil
}

// readBytes returns the next n bytes without copying them.
func (d *Decoder) readBytes(n uint64) ([]byte, error) {
	if !d.isAvailable(n) {
		return nil, &EndOfStreamError{Offset: d.off}
	}
	b := d.data[d.off : d.off+int(n)]
	d.off += int(n)
	return b, nil
}

// allocHint caps a length read from the input by the number of remaining
// bytes, each element taking at least size bytes.
func (d *Decoder) allocHint(n uint64, size int) int {
	remaining := uint64((len(d.data) - d.off) / size)
	return int(min(n, remaining))
}

func (d *Decoder) decode(depth int) (Value, error) {
	start := d.off
	h, err := d.readHeader()
	if err != nil {
		return nil, err
	}
	return d.decodeHeader(h, start, depth)
}

// decodeHeader decodes the data item whose header h, starting at offset
// start, has already been read.
func (d *Decoder) decodeHeader(h Header, start, depth int) (Value, error) {
	switch h.Kind {
	case HeaderUnsigned:
		return d.decodePositiveInt(h.Arg.Value(), start)

	case HeaderNegative:
		return d.decodeNegativeInt(h.Arg.Value(), start)

	case HeaderBytes:
		if h.Indefinite {
			return d.decodeIndefiniteString(HeaderBytes)
		}
		b, err := d.readBytes(h.Arg.Value())
		if err != nil {
			return nil, err
		}
		v := make(Bytes, len(b))
		copy(v, b)
		return v, nil

	case HeaderText:
		if h.Indefinite {
			return d.decodeIndefiniteString(HeaderText)
		}
		payload := d.off
		b, err := d.readBytes(h.Arg.Value())
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, &InvalidUTF8Error{Offset: payload}
		}
		return String(b), nil

	case HeaderArray:
		if depth >= d.maxDepth {
			return nil, &MaxNestedLevelsError{Max: d.maxDepth, Offset: start}
		}
		if h.Indefinite {
			return d.decodeIndefiniteArray(depth)
		}
		return d.decodeArray(h.Arg.Value(), depth)

	case HeaderMap:
		if depth >= d.maxDepth {
			return nil, &MaxNestedLevelsError{Max: d.maxDepth, Offset: start}
		}
		if h.Indefinite {
			return d.decodeIndefiniteMap(depth)
		}
		return d.decodeMap(h.Arg.Value(), depth)

	case HeaderTag:
		if depth >= d.maxDepth {
			return nil, &MaxNestedLevelsError{Max: d.maxDepth, Offset: start}
		}
		content, err := d.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		return Tagged{Number: TagNumber(h.Arg.Value()), Content: content}, nil

	case HeaderSimple:
		return h.Simple, nil

	case HeaderFloat:
		return Float(h.Float.Float64()), nil
	}

	// a break not consumed by an indefinite-length item
	return nil, &UnexpectedBreakError{Offset: start}
}

func (d *Decoder) decodePositiveInt(w uint64, start int) (Value, error) {
	if w <= math.MaxInt64 {
		return Int(w), nil
	}
	if d.opts.BigInt == BigIntReject {
		return nil, &IntegerOverflowError{Offset: start}
	}
	return BigInt{new(big.Int).SetUint64(w)}, nil
}

// decodeNegativeInt decodes the integer -1-w.
func (d *Decoder) decodeNegativeInt(w uint64, start int) (Value, error) {
	if w <= math.MaxInt64 {
		return Int(^int64(w)), nil
	}
	if d.opts.BigInt == BigIntReject {
		return nil, &IntegerOverflowError{Negative: true, Offset: start}
	}
	i := new(big.Int).SetUint64(w)
	return BigInt{i.Not(i)}, nil
}

// decodeIndefiniteString concatenates the chunks of an indefinite-length
// byte or text string up to the break.
func (d *Decoder) decodeIndefiniteString(kind HeaderKind) (Value, error) {
	buf := []byte{}
	for {
		chunkStart := d.off
		h, err := d.readHeader()
		if err != nil {
			return nil, err
		}
		if h.Kind == HeaderBreak {
			break
		}
		if h.Kind != kind || h.Indefinite {
			return nil, &InvalidIndefiniteChunkError{Offset: chunkStart}
		}

		payload := d.off
		b, err := d.readBytes(h.Arg.Value())
		if err != nil {
			return nil, err
		}
		// each chunk of a text string must be valid UTF-8 on its own
		if kind == HeaderText && !utf8.Valid(b) {
			return nil, &InvalidUTF8Error{Offset: payload}
		}
		buf = append(buf, b...)
	}

	if kind == HeaderText {
		return String(buf), nil
	}
	return Bytes(buf), nil
}

func (d *Decoder) decodeArray(n uint64, depth int) (Value, error) {
	arr := make(Array, 0, d.allocHint(n, 1))
	for i := uint64(0); i < n; i++ {
		v, err := d.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func (d *Decoder) decodeIndefiniteArray(depth int) (Value, error) {
	arr := Array{}
	for {
		start := d.off
		h, err := d.readHeader()
		if err != nil {
			return nil, err
		}
		if h.Kind == HeaderBreak {
			return arr, nil
		}
		v, err := d.decodeHeader(h, start, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func (d *Decoder) decodeMap(n uint64, depth int) (Value, error) {
	m := NewMap(d.allocHint(n, 2))
	for i := uint64(0); i < n; i++ {
		keyStart := d.off
		key, err := d.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		value, err := d.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		if err := d.setMapEntry(m, key, value, keyStart); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (d *Decoder) decodeIndefiniteMap(depth int) (Value, error) {
	m := NewMap(0)
	for {
		keyStart := d.off
		h, err := d.readHeader()
		if err != nil {
			return nil, err
		}
		if h.Kind == HeaderBreak {
			return m, nil
		}
		key, err := d.decodeHeader(h, keyStart, depth+1)
		if err != nil {
			return nil, err
		}
		value, err := d.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		if err := d.setMapEntry(m, key, value, keyStart); err != nil {
			return nil, err
		}
	}
}

func (d *Decoder) setMapEntry(m *Map, key, value Value, keyStart int) error {
	k, err := EncOptions{MaxNestedLevels: d.maxDepth}.Marshal(key)
	if err != nil {
		return err
	}
	if m.set(string(k), key, value) && d.opts.DupMapKey == DupMapKeyReject {
		return &DuplicateMapKeyError{Offset: keyStart}
	}
	return nil
}
