// Package ratio provides a fixed-point fraction type with
// parts-per-billion resolution.
//
// Election math must come out bit-identical for every party computing
// it, so fractions are stored as an integer numerator over a fixed,
// public denominator and every operation truncates deterministically.
// Floating point is never involved.
package ratio

import (
	"fmt"
	"math/bits"
)

// Accuracy is the fixed denominator: one billion parts.
const Accuracy = 1_000_000_000

// Ratio is a fraction in [0, 1] expressed in billionths.
type Ratio uint32

const (
	Zero Ratio = 0
	One  Ratio = Accuracy
)

// FromRational returns p/q rounded down to the nearest billionth.
// Values above one saturate at One; a zero denominator yields Zero.
func FromRational(p, q uint64) Ratio {
	if q == 0 {
		return Zero
	}
	if p >= q {
		return One
	}
	hi, lo := bits.Mul64(p, Accuracy)
	// p < q guarantees hi < q, so the division cannot overflow
	r, _ := bits.Div64(hi, lo, q)
	return Ratio(r)
}

// Mul returns floor(r * v / Accuracy). The result never exceeds v.
func (r Ratio) Mul(v uint64) uint64 {
	if r >= One {
		return v
	}
	hi, lo := bits.Mul64(uint64(r), v)
	q, _ := bits.Div64(hi, lo, Accuracy)
	return q
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d.%07d%%", uint64(r)/(Accuracy/100), uint64(r)%(Accuracy/100))
}
