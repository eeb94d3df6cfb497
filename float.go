package cbor

import "math"

// shortestFloat returns f in the narrowest IEEE 754 format that holds its
// bit pattern exactly.
func shortestFloat(f float64) FloatValue {
	f64 := math.Float64bits(f)
	sign := f64 >> 63
	exp := int((f64>>52)&0x7ff) - 1023
	frac := f64 & 0xfffffffffffff

	if exp == -1023 && frac == 0 {
		// 0.0 in float16
		return FloatValue{Width: FloatHalf, Bits: sign << 15}
	}
	if exp == 1024 {
		if frac == 0 {
			// inf in float16
			return FloatValue{Width: FloatHalf, Bits: sign<<15 | 0x7c00}
		} else if frac&0x8000000000000 != 0 && frac&((1<<42)-1) == 0 {
			// qNaN in float16, payload preserved
			return FloatValue{Width: FloatHalf, Bits: sign<<15 | 0x7c00 | frac>>42}
		}
	}

	// try converting to subnormal float16
	if -24 <= exp && exp < -14 {
		shift := -exp + 53 - 24 - 1
		if frac&((1<<shift)-1) == 0 {
			frac |= 1 << 52
			return FloatValue{Width: FloatHalf, Bits: sign<<15 | frac>>shift}
		}
	}

	// try converting to normal float16
	if -14 <= exp && exp <= 15 {
		if frac&((1<<42)-1) == 0 {
			return FloatValue{Width: FloatHalf, Bits: sign<<15 | uint64(exp+15)<<10 | frac>>42}
		}
	}

	// try converting to subnormal float32
	if -149 <= exp && exp < -126 {
		shift := -exp + 53 - 149 - 1
		if frac&((1<<shift)-1) == 0 {
			frac |= 1 << 52
			return FloatValue{Width: FloatSingle, Bits: sign<<31 | frac>>shift}
		}
	}

	// try converting to normal float32
	if -126 <= exp && exp <= 127 {
		if frac&((1<<29)-1) == 0 {
			return FloatValue{Width: FloatSingle, Bits: sign<<31 | uint64(exp+127)<<23 | frac>>29}
		}
	}

	return FloatValue{Width: FloatDouble, Bits: f64}
}
