package numdiff

import (
	"errors"
	"math"

	"golang.org/x/exp/constraints"
)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// Approx represents a numerical differentiation algorithm to estimate the
// derivative of a scalar function φ along a search ray.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
//
// # License
//
//   - https://github.com/scipy/scipy/blob/main/LICENSE.txt
type Approx[T constraints.Float] struct {
	// Function of which to estimate the derivative.
	Object func(x T) T
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute the absolute step size as
	// h = RelStep * sign(x) * max(1, abs(x)) with RelStep selected
	// automatically when zero: √𝚎𝚙𝚜 for Forward, ∛𝚎𝚙𝚜 for Central.
	RelStep T
	// Absolute step size to use. RelStep is used when AbsStep is zero.
	// For the Central method the sign of AbsStep is ignored.
	AbsStep T
	// Lower and upper bounds on x. Use them to limit the range of function
	// evaluation; the step folds back into the feasible interval.
	Lower, Upper T
}

// Check validates the parameters and fills the bound defaults.
func (a *Approx[T]) Check() (err error) {
	switch {
	case a.Object == nil:
		err = errors.New("object function is required")
	case a.Method != Forward && a.Method != Central:
		err = errors.New("unknown method")
	case a.RelStep < 0 || isNaN(a.RelStep):
		err = errors.New("relative step must not less than 0")
	}
	if a.Lower == 0 && a.Upper == 0 || isNaN(a.Lower) || isNaN(a.Upper) {
		a.Lower, a.Upper = T(math.Inf(-1)), T(math.Inf(1))
	}
	if a.Lower > a.Upper {
		err = errors.New("invalid bound range")
	}
	return
}

// Slope estimates dφ/dx at x by finite differences.
func (a *Approx[T]) Slope(x T) T {
	h := a.step(x)
	if a.Method == Central {
		if lo, hi := x-h, x+h; lo >= a.Lower && hi <= a.Upper {
			return (a.Object(hi) - a.Object(lo)) / (two * h)
		}
		// Near a bound fall back to the one-side difference that stays feasible.
	}
	if x+h < a.Lower || x+h > a.Upper {
		h = -h
	}
	if x+h > a.Upper {
		h = a.Upper - x
	} else if x+h < a.Lower {
		h = a.Lower - x
	}
	f0 := a.Object(x)
	return (a.Object(x+h) - f0) / h
}

// step computes the absolute step size; Slope folds it into the bounds.
func (a *Approx[T]) step(x T) T {
	if a.AbsStep != 0 {
		if a.Method == Central {
			return abs(a.AbsStep)
		}
		return a.AbsStep
	}
	rel := a.RelStep
	if rel == 0 {
		if a.Method == Central {
			rel = cubeEps[T]()
		} else {
			rel = sqrtEps[T]()
		}
	}
	h := rel * max(one, abs(x))
	if x < 0 {
		h = -h
	}
	if a.Method == Central {
		h = abs(h)
	}
	return h
}

const (
	one = 1.0
	two = 2.0
)

func abs[T constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func isNaN[T constraints.Float](x T) bool {
	return x != x
}

func epsOf[T constraints.Float]() T {
	if T(1)+T(0x1p-52) > T(1) {
		return 0x1p-52
	}
	return 0x1p-23
}

// sqrtEps is the square root of machine precision.
func sqrtEps[T constraints.Float]() T {
	return T(math.Sqrt(float64(epsOf[T]())))
}

// cubeEps is the cube root of machine precision.
func cubeEps[T constraints.Float]() T {
	return T(math.Cbrt(float64(epsOf[T]())))
}
