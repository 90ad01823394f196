// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
)

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
	half = 0.5
)

const (
	eps64 = 0x1p-52
	eps32 = 0x1p-23
)

// Float is the scalar domain of every search: a real floating-point type.
type Float = constraints.Float

// wide reports whether T carries float64 precision.
// The addition is rounded in T, so 𝟷 + 𝚎𝚙𝚜𝟼𝟺 collapses back to 𝟷 for 32-bit scalars.
func wide[T Float]() bool {
	return T(1)+eps64 > T(1)
}

// epsOf returns the machine epsilon of T.
func epsOf[T Float]() T {
	if wide[T]() {
		return eps64
	}
	return eps32
}

// iterFiniteMax bounds the ψ₃-shrinkage used to recover a finite
// evaluation point: ⌈-㏒₂ 𝚎𝚙𝚜𝚖𝚌𝚑⌉ halvings exhaust the mantissa of T.
func iterFiniteMax[T Float]() int {
	return int(math.Ceil(-math.Log2(float64(epsOf[T]()))))
}

func infOf[T Float]() T {
	return T(math.Inf(1))
}

func nanOf[T Float]() T {
	return T(math.NaN())
}

func isFinite[T Float](x T) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isNaN[T Float](x T) bool {
	return x != x
}

func abs[T Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// nextAfter returns the next representable T after x towards y.
func nextAfter[T Float](x, y T) T {
	if wide[T]() {
		return T(math.Nextafter(float64(x), float64(y)))
	}
	return T(math.Nextafter32(float32(x), float32(y)))
}

func sqrt[T Float](x T) T {
	return T(math.Sqrt(float64(x)))
}

// rayTo writes out = x + ɑd.
func rayTo[T Float](out, x, d []T, alpha T) {
	if len(x) != len(d) || len(out) != len(x) {
		panic("bound check error")
	}
	if o, ok := any(out).([]float64); ok {
		floats.AddScaledTo(o, any(x).([]float64), float64(alpha), any(d).([]float64))
		return
	}
	for i := range out {
		out[i] = x[i] + alpha*d[i]
	}
}

// dot computes ⟨a, b⟩.
func dot[T Float](a, b []T) T {
	if len(a) != len(b) {
		panic("bound check error")
	}
	if x, ok := any(a).([]float64); ok {
		return T(floats.Dot(x, any(b).([]float64)))
	}
	var s T
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// normInf computes ‖ v ‖∞.
func normInf[T Float](v []T) T {
	if x, ok := any(v).([]float64); ok {
		return T(floats.Norm(x, math.Inf(1)))
	}
	var n T
	for _, x := range v {
		if a := abs(x); a > n {
			n = a
		}
	}
	return n
}

// norm2 computes ‖ v ‖₂.
func norm2[T Float](v []T) T {
	if x, ok := any(v).([]float64); ok {
		return T(floats.Norm(x, 2))
	}
	var s T
	for _, x := range v {
		s += x * x
	}
	return T(math.Sqrt(float64(s)))
}

// clip bounds x to [lo, hi].
func clip[T Float](x, lo, hi T) T {
	return min(max(x, lo), hi)
}
