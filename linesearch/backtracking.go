// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

// Default parameters of the BackTracking search.
const (
	btC1      = 1e-4
	btRhoHi   = 0.5
	btRhoLo   = 0.1
	btMaxIter = 1000
)

// BackTracking shrinks the trial step until the Armijo sufficient-decrease
// condition φ(ɑ) ≤ φ(0) + c₁·ɑ·φ′(0) holds. The next trial is the minimizer
// of a quadratic (Order 2) or cubic (Order 3) interpolant of the recent
// probes, clamped to shrink by a factor inside [RhoLo, RhoHi].
//
// Only φ values are evaluated; the slope is never queried past the origin,
// which makes this the cheapest search for expensive gradients.
//
// The zero value selects c₁=10⁻⁴, ρ𝚑𝚒=0.5, ρ𝚕𝚘=0.1, cubic interpolation
// and at most 1000 iterations.
type BackTracking[T Float] struct {
	// C1 is the sufficient-decrease coefficient. Zero selects 1e-4.
	C1 T
	// RhoHi bounds the mildest allowed shrink factor. Zero selects 0.5.
	RhoHi T
	// RhoLo bounds the sharpest allowed shrink factor. Zero selects 0.1.
	RhoLo T
	// Order selects the interpolant: 2 quadratic, 3 cubic. Zero selects 3.
	Order int
	// MaxIterations bounds the shrink loop. Zero selects 1000.
	MaxIterations int
	// Logger emits the probes when set.
	Logger *Logger
}

func (s *BackTracking[T]) defaults() (c1, rhoHi, rhoLo T, order, maxIter int) {
	c1, rhoHi, rhoLo, order, maxIter = s.C1, s.RhoHi, s.RhoLo, s.Order, s.MaxIterations
	if c1 <= 0 {
		c1 = btC1
	}
	if rhoHi <= 0 {
		rhoHi = btRhoHi
	}
	if rhoLo <= 0 {
		rhoLo = btRhoLo
	}
	if order == 0 {
		order = 3
	}
	if order != 2 && order != 3 {
		panic("interpolation order must be 2 or 3")
	}
	if maxIter <= 0 {
		maxIter = btMaxIter
	}
	return
}

// Search shrinks step until the Armijo condition holds.
func (s *BackTracking[T]) Search(obj Objective[T], step, phi0, slope0 T, mayTerminate bool) (T, Status, error) {
	c1, rhoHi, rhoLo, order, maxIter := s.defaults()
	switch {
	case !isFinite(phi0) || !isFinite(slope0):
		return 0, SearchErrNonFinite, stepError(SearchErrNonFinite, step)
	case slope0 >= 0:
		return 0, SearchErrNonDescent, descentError(T(0), slope0, nanOf[T]())
	case step <= 0:
		panic("initial step must be positive")
	}

	alpha1, alpha2 := step, step
	phi1, phi2 := phi0, obj.Value(alpha2)

	for iter := 0; !isFinite(phi2); iter++ {
		if iter >= iterFiniteMax[T]() {
			return 0, SearchWarnNonFinite, nil
		}
		alpha1 = alpha2
		alpha2 = alpha1 / two
		phi2 = obj.Value(alpha2)
	}

	for iter := 0; phi2 > phi0+c1*alpha2*slope0; iter++ {
		if iter >= maxIter {
			return alpha2, SearchErrMaxIter, stepError(SearchErrMaxIter, alpha2)
		}

		var alphaTmp T
		if order == 2 || iter == 0 {
			// Minimizer of the quadratic through φ(0), φ′(0), φ(ɑ₂).
			alphaTmp = -(slope0 * alpha2 * alpha2) / (two * (phi2 - phi0 - slope0*alpha2))
		} else {
			// Minimizer of the cubic through φ(0), φ′(0), φ(ɑ₁), φ(ɑ₂).
			div := one / (alpha1 * alpha1 * alpha2 * alpha2 * (alpha2 - alpha1))
			r1 := phi2 - phi0 - slope0*alpha2
			r2 := phi1 - phi0 - slope0*alpha1
			a := (alpha1*alpha1*r1 - alpha2*alpha2*r2) * div
			b := (-alpha1*alpha1*alpha1*r1 + alpha2*alpha2*alpha2*r2) * div
			if abs(a) <= epsOf[T]() {
				alphaTmp = slope0 / (two * b)
			} else {
				d := max(b*b-3*a*slope0, zero)
				alphaTmp = (-b + sqrt(d)) / (3 * a)
			}
		}

		alpha1 = alpha2
		// Keep the shrink factor inside [rhoLo, rhoHi]; a NaN interpolant
		// falls back to the bound.
		if hi := alpha2 * rhoHi; !(alphaTmp < hi) {
			alphaTmp = hi
		}
		if lo := alpha2 * rhoLo; !(alphaTmp > lo) {
			alphaTmp = lo
		}
		alpha2 = alphaTmp

		phi1, phi2 = phi2, obj.Value(alpha2)
		if s.Logger.enable(TraceLinesearch) {
			s.Logger.log("backtrack %4d: alpha = %v, phi = %v\n", iter+1, float64(alpha2), float64(phi2))
		}
	}
	return alpha2, SearchConv, nil
}
