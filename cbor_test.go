package cbor

import (
	"math"
	"math/big"

	"github.com/google/go-cmp/cmp"
)

// xorshift64 is a pseudo random number generator.
// https://en.wikipedia.org/wiki/Xorshift
type xorshift64 uint64

func newXorshift64() *xorshift64 {
	x := xorshift64(42)
	return &x
}

func (x *xorshift64) Uint64() uint64 {
	a := *x
	a ^= a << 13
	a ^= a >> 7
	a ^= a << 17
	*x = a
	return uint64(a)
}

// shuffle permutes s in place (Fisher-Yates).
func (x *xorshift64) shuffle(s []MapEntry) {
	for i := len(s) - 1; i > 0; i-- {
		j := int(x.Uint64() % uint64(i+1))
		s[i], s[j] = s[j], s[i]
	}
}

// valueOpts compares Value trees: floats by bit pattern, big integers by
// value and maps regardless of entry order.
var valueOpts = cmp.Options{
	cmp.Comparer(func(x, y Float) bool {
		return math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	}),
	cmp.Comparer(func(x, y BigInt) bool {
		return x.Int != nil && y.Int != nil && x.Cmp(y.Int) == 0
	}),
	cmp.Comparer(func(x, y *Map) bool {
		return Equal(x, y)
	}),
}

// mapOf builds a map from alternating keys and values.
func mapOf(kv ...Value) *Map {
	m := NewMap(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		if err := m.Set(kv[i], kv[i+1]); err != nil {
			panic(err)
		}
	}
	return m
}

func bigInt(s string) BigInt {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big integer: " + s)
	}
	return BigInt{i}
}

func negZero() Float {
	return Float(math.Copysign(0, -1))
}

func float64bits(b uint64) Float {
	return Float(math.Float64frombits(b))
}
