package types

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// Resolution is the number of fractional bits of a UQ112x112 value.
const Resolution = 112

var (
	// MaxUint112 is the largest value a reserve can hold.
	MaxUint112 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 112), uint256.NewInt(1))

	// Q112 is 1.0 in UQ112x112.
	Q112 = new(uint256.Int).Lsh(uint256.NewInt(1), Resolution)
)

// EncodeUQ112x112 encodes a uint112 as a UQ112x112.
func EncodeUQ112x112(y *uint256.Int) *uint256.Int {
	return new(uint256.Int).Lsh(y, Resolution)
}

// UQDiv divides a UQ112x112 by a uint112, returning a UQ112x112.
// A zero divisor yields zero.
func UQDiv(x, y *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(x, y)
}

// Price returns numerator/denominator as a UQ112x112.
func Price(numerator, denominator *uint256.Int) *uint256.Int {
	return UQDiv(EncodeUQ112x112(numerator), denominator)
}

// AdvanceCumulative adds price*elapsed to an accumulator. The sum wraps
// modulo 2^256; only differences between two observations are meaningful.
func AdvanceCumulative(cumulative, price *uint256.Int, elapsed uint32) *uint256.Int {
	delta := new(uint256.Int).Mul(price, uint256.NewInt(uint64(elapsed)))
	return new(uint256.Int).Add(cumulative, delta)
}

// AveragePrice returns the time-weighted average price between two
// accumulator observations taken elapsed seconds apart, as a UQ112x112.
// The subtraction wraps, so an accumulator overflow between the observations
// does not affect the result.
func AveragePrice(cumulativeStart, cumulativeEnd *uint256.Int, elapsed uint32) *uint256.Int {
	if elapsed == 0 {
		return new(uint256.Int)
	}
	delta := new(uint256.Int).Sub(cumulativeEnd, cumulativeStart)
	return delta.Div(delta, uint256.NewInt(uint64(elapsed)))
}

// ElapsedSeconds returns the seconds between two 32-bit block timestamps,
// accounting for one wraparound.
func ElapsedSeconds(from, to uint32) uint32 {
	return to - from
}

// UQ112x112ToDec converts a UQ112x112 into an 18-decimal LegacyDec.
func UQ112x112ToDec(x *uint256.Int) math.LegacyDec {
	scaled := new(big.Int).Mul(x.ToBig(), math.LegacyOneDec().BigInt())
	scaled.Rsh(scaled, Resolution)
	return math.LegacyNewDecFromBigIntWithPrec(scaled, math.LegacyPrecision)
}
