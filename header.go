package cbor

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// MajorType is the high-order 3 bits of the initial byte of a data item.
type MajorType byte

const (
	MajorTypeUnsigned MajorType = 0
	MajorTypeNegative MajorType = 1
	MajorTypeBytes    MajorType = 2
	MajorTypeString   MajorType = 3
	MajorTypeArray    MajorType = 4
	MajorTypeMap      MajorType = 5
	MajorTypeTag      MajorType = 6
	MajorTypeOther    MajorType = 7
)

// additional information values with a special meaning
const (
	infoUint8Following  = 24
	infoUint16Following = 25
	infoUint32Following = 26
	infoUint64Following = 27
	infoIndefinite      = 31
)

// Width is the encoded width of a header argument.
type Width uint8

const (
	// WidthImmediate stores the argument (0..23) in the initial byte.
	WidthImmediate Width = iota
	Width8
	Width16
	Width32
	Width64
)

// Len returns the number of argument bytes following the initial byte.
func (w Width) Len() int {
	switch w {
	case Width8:
		return 1
	case Width16:
		return 2
	case Width32:
		return 4
	case Width64:
		return 8
	}
	return 0
}

// SizedValue is an unsigned header argument together with its encoded width.
// A SizedValue is always normalized: it uses the smallest width that holds
// its value, so equal values always compare equal and encode identically.
// The zero value is the immediate 0.
type SizedValue struct {
	width Width
	value uint64
}

// NewSizedValue returns the normalized SizedValue for v.
func NewSizedValue(v uint64) SizedValue {
	switch {
	case v < infoUint8Following:
		return SizedValue{width: WidthImmediate, value: v}
	case v <= math.MaxUint8:
		return SizedValue{width: Width8, value: v}
	case v <= math.MaxUint16:
		return SizedValue{width: Width16, value: v}
	case v <= math.MaxUint32:
		return SizedValue{width: Width32, value: v}
	default:
		return SizedValue{width: Width64, value: v}
	}
}

// Value returns the numeric value of the argument.
func (s SizedValue) Value() uint64 {
	return s.value
}

// Width returns the width s is encoded with.
func (s SizedValue) Width() Width {
	return s.width
}

func (s SizedValue) additionalInfo() byte {
	switch s.width {
	case Width8:
		return infoUint8Following
	case Width16:
		return infoUint16Following
	case Width32:
		return infoUint32Following
	case Width64:
		return infoUint64Following
	}
	return byte(s.value)
}

// FloatWidth is the precision of an encoded floating-point number.
type FloatWidth uint8

const (
	FloatHalf FloatWidth = iota + 1
	FloatSingle
	FloatDouble
)

// FloatValue is an IEEE 754 bit pattern as found in a header.
type FloatValue struct {
	Width FloatWidth
	Bits  uint64
}

// Float64 converts f to a float64. The conversion is exact, NaN payloads
// included.
func (f FloatValue) Float64() float64 {
	switch f.Width {
	case FloatHalf:
		return float64(float16.Frombits(uint16(f.Bits)).Float32())
	case FloatSingle:
		return float64(math.Float32frombits(uint32(f.Bits)))
	}
	return math.Float64frombits(f.Bits)
}

// HeaderKind distinguishes the variants of a Header.
// The kinds of major types 0 to 6 share their numeric values.
type HeaderKind uint8

const (
	HeaderUnsigned HeaderKind = iota
	HeaderNegative
	HeaderBytes
	HeaderText
	HeaderArray
	HeaderMap
	HeaderTag
	HeaderSimple
	HeaderFloat
	HeaderBreak
)

// Header is the head of a data item: the initial byte and the argument
// bytes that follow it.
//
// Arg holds the value of unsigned integers, the biased magnitude ^n of
// negative integers, the length of strings, the count of arrays and maps,
// and the tag number. Indefinite marks strings, arrays and maps whose
// length is terminated by a break instead.
type Header struct {
	Kind       HeaderKind
	Arg        SizedValue
	Indefinite bool
	Simple     Simple
	Float      FloatValue
}

func UnsignedHeader(v uint64) Header {
	return Header{Kind: HeaderUnsigned, Arg: NewSizedValue(v)}
}

// NegativeHeader returns the header of the integer -1-magnitude.
func NegativeHeader(magnitude uint64) Header {
	return Header{Kind: HeaderNegative, Arg: NewSizedValue(magnitude)}
}

// IntHeader returns the unsigned or negative integer header for v.
func IntHeader(v int64) Header {
	ui := uint64(v >> 63)
	kind := HeaderKind(ui) & HeaderNegative
	ui ^= uint64(v)
	return Header{Kind: kind, Arg: NewSizedValue(ui)}
}

func BytesHeader(n uint64) Header {
	return Header{Kind: HeaderBytes, Arg: NewSizedValue(n)}
}

func TextHeader(n uint64) Header {
	return Header{Kind: HeaderText, Arg: NewSizedValue(n)}
}

func ArrayHeader(n uint64) Header {
	return Header{Kind: HeaderArray, Arg: NewSizedValue(n)}
}

func MapHeader(pairs uint64) Header {
	return Header{Kind: HeaderMap, Arg: NewSizedValue(pairs)}
}

func IndefiniteBytesHeader() Header {
	return Header{Kind: HeaderBytes, Indefinite: true}
}

func IndefiniteTextHeader() Header {
	return Header{Kind: HeaderText, Indefinite: true}
}

func IndefiniteArrayHeader() Header {
	return Header{Kind: HeaderArray, Indefinite: true}
}

func IndefiniteMapHeader() Header {
	return Header{Kind: HeaderMap, Indefinite: true}
}

func TagHeader(n TagNumber) Header {
	return Header{Kind: HeaderTag, Arg: NewSizedValue(uint64(n))}
}

func SimpleHeader(s Simple) Header {
	return Header{Kind: HeaderSimple, Simple: s}
}

func FloatHeader(f FloatValue) Header {
	return Header{Kind: HeaderFloat, Float: f}
}

func BreakHeader() Header {
	return Header{Kind: HeaderBreak}
}

// MajorType returns the major type h is encoded with.
func (h Header) MajorType() MajorType {
	if h.Kind >= HeaderSimple {
		return MajorTypeOther
	}
	return MajorType(h.Kind)
}

// IsCompleteDataItem reports whether h is a whole data item on its own,
// with no payload or children following it.
func (h Header) IsCompleteDataItem() bool {
	switch h.Kind {
	case HeaderUnsigned, HeaderNegative, HeaderSimple, HeaderFloat:
		return true
	case HeaderBytes, HeaderText, HeaderArray, HeaderMap:
		return !h.Indefinite && h.Arg.Value() == 0
	}
	return false
}

// AppendHeader appends the encoding of h to dst and returns the extended
// buffer. Arguments are written in their normalized width.
func AppendHeader(dst []byte, h Header) []byte {
	switch h.Kind {
	case HeaderSimple:
		if h.Simple < infoUint8Following {
			return append(dst, byte(MajorTypeOther)<<5|byte(h.Simple))
		}
		return append(dst, byte(MajorTypeOther)<<5|infoUint8Following, byte(h.Simple))
	case HeaderFloat:
		switch h.Float.Width {
		case FloatHalf:
			dst = append(dst, 0xf9) // half-precision float (two-byte IEEE 754)
			return binary.BigEndian.AppendUint16(dst, uint16(h.Float.Bits))
		case FloatSingle:
			dst = append(dst, 0xfa) // single-precision float (four-byte IEEE 754)
			return binary.BigEndian.AppendUint32(dst, uint32(h.Float.Bits))
		}
		dst = append(dst, 0xfb) // double-precision float (eight-byte IEEE 754)
		return binary.BigEndian.AppendUint64(dst, h.Float.Bits)
	case HeaderBreak:
		return append(dst, 0xff)
	}

	major := h.MajorType()
	if h.Indefinite {
		return append(dst, byte(major)<<5|infoIndefinite)
	}
	return appendArgument(dst, major, h.Arg)
}

func appendArgument(dst []byte, major MajorType, arg SizedValue) []byte {
	dst = append(dst, byte(major)<<5|arg.additionalInfo())
	switch arg.width {
	case Width8:
		return append(dst, byte(arg.value))
	case Width16:
		return binary.BigEndian.AppendUint16(dst, uint16(arg.value))
	case Width32:
		return binary.BigEndian.AppendUint32(dst, uint32(arg.value))
	case Width64:
		return binary.BigEndian.AppendUint64(dst, arg.value)
	}
	return dst
}

// DecodeHeader reads the next header. On error the cursor is left where
// it was.
func (d *Decoder) DecodeHeader() (Header, error) {
	start := d.off
	h, err := d.readHeader()
	if err != nil {
		d.off = start
		return Header{}, err
	}
	return h, nil
}

func (d *Decoder) readHeader() (Header, error) {
	start := d.off
	ib, err := d.readByte()
	if err != nil {
		return Header{}, err
	}
	major := MajorType(ib >> 5)
	info := ib & 0x1f

	switch {
	case info > infoUint64Following && info < infoIndefinite:
		// reserved additional information values
		return Header{}, &UnknownInitialByteError{Byte: ib, Offset: start}

	case info == infoIndefinite:
		switch major {
		case MajorTypeBytes, MajorTypeString, MajorTypeArray, MajorTypeMap:
			return Header{Kind: HeaderKind(major), Indefinite: true}, nil
		case MajorTypeOther:
			return BreakHeader(), nil
		}
		return Header{}, &UnknownInitialByteError{Byte: ib, Offset: start}
	}

	arg, width, err := d.readArgument(info)
	if err != nil {
		return Header{}, err
	}

	if major == MajorTypeOther {
		switch width {
		case WidthImmediate:
			return SimpleHeader(Simple(arg)), nil
		case Width8:
			// simple values below 32 must use the one-byte encoding
			if arg < 32 {
				return Header{}, &InvalidSimpleValueError{Value: byte(arg), Offset: start}
			}
			return SimpleHeader(Simple(arg)), nil
		case Width16:
			return FloatHeader(FloatValue{Width: FloatHalf, Bits: arg}), nil
		case Width32:
			return FloatHeader(FloatValue{Width: FloatSingle, Bits: arg}), nil
		default:
			return FloatHeader(FloatValue{Width: FloatDouble, Bits: arg}), nil
		}
	}
	return Header{Kind: HeaderKind(major), Arg: NewSizedValue(arg)}, nil
}

// readArgument reads the argument selected by the additional information
// info, which must be below 28.
func (d *Decoder) readArgument(info byte) (uint64, Width, error) {
	switch info {
	// one-byte uint8_t follows
	case infoUint8Following:
		w, err := d.readByte()
		return uint64(w), Width8, err

	// two-byte uint16_t follows
	case infoUint16Following:
		w, err := d.readUint16()
		return uint64(w), Width16, err

	// four-byte uint32_t follows
	case infoUint32Following:
		w, err := d.readUint32()
		return uint64(w), Width32, err

	// eight-byte uint64_t follows
	case infoUint64Following:
		w, err := d.readUint64()
		return w, Width64, err
	}
	return uint64(info), WidthImmediate, nil
}
