package cbor

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSizedValue(t *testing.T) {
	tests := []struct {
		v     uint64
		width Width
	}{
		{0, WidthImmediate},
		{23, WidthImmediate},
		{24, Width8},
		{math.MaxUint8, Width8},
		{math.MaxUint8 + 1, Width16},
		{math.MaxUint16, Width16},
		{math.MaxUint16 + 1, Width32},
		{math.MaxUint32, Width32},
		{math.MaxUint32 + 1, Width64},
		{math.MaxUint64, Width64},
	}
	for _, tt := range tests {
		got := NewSizedValue(tt.v)
		if got.Value() != tt.v {
			t.Errorf("NewSizedValue(%d).Value() = %d", tt.v, got.Value())
		}
		if got.Width() != tt.width {
			t.Errorf("NewSizedValue(%d).Width() = %d, want %d", tt.v, got.Width(), tt.width)
		}
	}
}

func TestAppendHeader(t *testing.T) {
	tests := []struct {
		name string
		h    Header
		want []byte
	}{
		{"unsigned immediate", UnsignedHeader(23), []byte{0x17}},
		{"unsigned uint8", UnsignedHeader(24), []byte{0x18, 0x18}},
		{"unsigned uint16", UnsignedHeader(1000), []byte{0x19, 0x03, 0xe8}},
		{"unsigned uint32", UnsignedHeader(1_000_000), []byte{0x1a, 0x00, 0x0f, 0x42, 0x40}},
		{
			"unsigned uint64",
			UnsignedHeader(math.MaxUint64),
			[]byte{0x1b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		},
		{"negative one", IntHeader(-1), []byte{0x20}},
		{"negative 256", IntHeader(-256), []byte{0x38, 0xff}},
		{
			"minimum int64",
			IntHeader(math.MinInt64),
			[]byte{0x3b, 0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		},
		{
			"maximum int64",
			IntHeader(math.MaxInt64),
			[]byte{0x1b, 0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		},
		{"bytes", BytesHeader(4), []byte{0x44}},
		{"text", TextHeader(24), []byte{0x78, 0x18}},
		{"array", ArrayHeader(25), []byte{0x98, 0x19}},
		{"map", MapHeader(2), []byte{0xa2}},
		{"indefinite bytes", IndefiniteBytesHeader(), []byte{0x5f}},
		{"indefinite text", IndefiniteTextHeader(), []byte{0x7f}},
		{"indefinite array", IndefiniteArrayHeader(), []byte{0x9f}},
		{"indefinite map", IndefiniteMapHeader(), []byte{0xbf}},
		{"tag", TagHeader(TagSelfDescribe), []byte{0xd9, 0xd9, 0xf7}},
		{"false", SimpleHeader(False), []byte{0xf4}},
		{"simple 255", SimpleHeader(255), []byte{0xf8, 0xff}},
		{"half float", FloatHeader(FloatValue{Width: FloatHalf, Bits: 0x3c00}), []byte{0xf9, 0x3c, 0x00}},
		{
			"single float",
			FloatHeader(FloatValue{Width: FloatSingle, Bits: 0x47c35000}),
			[]byte{0xfa, 0x47, 0xc3, 0x50, 0x00},
		},
		{
			"double float",
			FloatHeader(FloatValue{Width: FloatDouble, Bits: 0x3ff199999999999a}),
			[]byte{0xfb, 0x3f, 0xf1, 0x99, 0x99, 0x99, 0x99, 0x99, 0x9a},
		},
		{"break", BreakHeader(), []byte{0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendHeader(nil, tt.h)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AppendHeader() mismatch (-want +got):\n%s", diff)
			}

			d := NewDecoder(got)
			h, err := d.DecodeHeader()
			if err != nil {
				t.Fatal(err)
			}
			if h != tt.h {
				t.Errorf("DecodeHeader() = %+v, want %+v", h, tt.h)
			}
			if d.More() {
				t.Errorf("DecodeHeader() left %d bytes", len(got)-d.Offset())
			}
		})
	}
}

func TestDecodeHeader_Normalizes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Header
		out  []byte
	}{
		{
			"uint32 five",
			[]byte{0x1a, 0x00, 0x00, 0x00, 0x05},
			UnsignedHeader(5),
			[]byte{0x05},
		},
		{
			"uint8 array length",
			[]byte{0x98, 0x02},
			ArrayHeader(2),
			[]byte{0x82},
		},
		{
			"uint64 negative",
			[]byte{0x3b, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00},
			NegativeHeader(0x100),
			[]byte{0x39, 0x01, 0x00},
		},
		{
			"uint16 tag",
			[]byte{0xd9, 0x00, 0x01},
			TagHeader(TagEpochDateTime),
			[]byte{0xc1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewDecoder(tt.data).DecodeHeader()
			if err != nil {
				t.Fatal(err)
			}
			if h != tt.want {
				t.Errorf("DecodeHeader() = %+v, want %+v", h, tt.want)
			}
			if diff := cmp.Diff(tt.out, AppendHeader(nil, h)); diff != "" {
				t.Errorf("AppendHeader() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", []byte{}, &EndOfStreamError{Offset: 0}},
		{"truncated uint64", []byte{0x1b, 0x01}, &EndOfStreamError{Offset: 1}},
		{"truncated half float", []byte{0xf9, 0x00}, &EndOfStreamError{Offset: 1}},
		{"reserved 28", []byte{0x1c}, &UnknownInitialByteError{Byte: 0x1c, Offset: 0}},
		{"reserved 30", []byte{0xfe}, &UnknownInitialByteError{Byte: 0xfe, Offset: 0}},
		{"indefinite negative", []byte{0x3f}, &UnknownInitialByteError{Byte: 0x3f, Offset: 0}},
		{"two-byte simple 31", []byte{0xf8, 0x1f}, &InvalidSimpleValueError{Value: 0x1f, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.data)

			// failing again gives the same error from the same place
			for i := 0; i < 2; i++ {
				_, err := d.DecodeHeader()
				if diff := cmp.Diff(tt.want, err); diff != "" {
					t.Errorf("DecodeHeader() error mismatch (-want +got):\n%s", diff)
				}
				if d.Offset() != 0 {
					t.Errorf("Offset() = %d, want 0", d.Offset())
				}
			}
		})
	}
}

func TestHeader_IsCompleteDataItem(t *testing.T) {
	tests := []struct {
		h    Header
		want bool
	}{
		{UnsignedHeader(1), true},
		{IntHeader(-5), true},
		{SimpleHeader(Null), true},
		{FloatHeader(FloatValue{Width: FloatHalf}), true},
		{BytesHeader(0), true},
		{TextHeader(0), true},
		{ArrayHeader(0), true},
		{MapHeader(0), true},
		{BytesHeader(1), false},
		{ArrayHeader(3), false},
		{IndefiniteArrayHeader(), false},
		{TagHeader(TagURI), false},
		{BreakHeader(), false},
	}
	for _, tt := range tests {
		if got := tt.h.IsCompleteDataItem(); got != tt.want {
			t.Errorf("%+v.IsCompleteDataItem() = %t, want %t", tt.h, got, tt.want)
		}
	}
}

func TestHeader_MajorType(t *testing.T) {
	tests := []struct {
		h    Header
		want MajorType
	}{
		{UnsignedHeader(1), MajorTypeUnsigned},
		{NegativeHeader(0), MajorTypeNegative},
		{IndefiniteBytesHeader(), MajorTypeBytes},
		{TextHeader(1), MajorTypeString},
		{ArrayHeader(1), MajorTypeArray},
		{MapHeader(1), MajorTypeMap},
		{TagHeader(0), MajorTypeTag},
		{SimpleHeader(True), MajorTypeOther},
		{FloatHeader(FloatValue{Width: FloatDouble}), MajorTypeOther},
		{BreakHeader(), MajorTypeOther},
	}
	for _, tt := range tests {
		if got := tt.h.MajorType(); got != tt.want {
			t.Errorf("%+v.MajorType() = %d, want %d", tt.h, got, tt.want)
		}
	}
}

func TestFloatValue_Float64(t *testing.T) {
	tests := []struct {
		f    FloatValue
		want float64
	}{
		{FloatValue{Width: FloatHalf, Bits: 0x0001}, 5.960464477539063e-8},
		{FloatValue{Width: FloatHalf, Bits: 0x7bff}, 65504},
		{FloatValue{Width: FloatHalf, Bits: 0xc400}, -4},
		{FloatValue{Width: FloatSingle, Bits: 0x47c35000}, 100000},
		{FloatValue{Width: FloatDouble, Bits: 0xc010666666666666}, -4.1},
	}
	for _, tt := range tests {
		if got := tt.f.Float64(); got != tt.want {
			t.Errorf("%+v.Float64() = %v, want %v", tt.f, got, tt.want)
		}
	}

	// NaN payloads survive widening
	nan := FloatValue{Width: FloatHalf, Bits: 0x7e01}.Float64()
	if got := math.Float64bits(nan); got != 0x7ff8040000000000 {
		t.Errorf("Float64bits() = %#x, want %#x", got, uint64(0x7ff8040000000000))
	}
}
