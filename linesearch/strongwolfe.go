// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

// Default parameters of the StrongWolfe search.
const (
	swC1       = 1e-4
	swC2       = 0.9
	swRho      = 2.0
	swAlphaMax = 65536.0
	swZoomIter = 10
)

// StrongWolfe is the classical two-phase search of Nocedal & Wright
// (Algorithms 3.5 and 3.6): grow the step by ρ until a bracket around an
// acceptable point exists, then zoom on the bracket with cubic interpolation
// until the strong Wolfe conditions
//
//	φ(ɑ) ≤ φ(0) + c₁·ɑ·φ′(0) and |φ′(ɑ)| ≤ c₂·|φ′(0)|
//
// are satisfied.
//
// The zero value selects c₁=10⁻⁴, c₂=0.9, ρ=2, ɑ𝚖𝚊𝚡=65536.
type StrongWolfe[T Float] struct {
	// C1 is the sufficient-decrease coefficient. Zero selects 1e-4.
	C1 T
	// C2 is the curvature coefficient. Zero selects 0.9.
	C2 T
	// Rho is the bracketing growth factor. Zero selects 2.
	Rho T
	// AlphaMax bounds the bracketing phase. Zero selects 65536.
	AlphaMax T
	// ZoomIterations bounds the zoom phase. Zero selects 10.
	ZoomIterations int
	// Logger emits the bracket endpoints when set.
	Logger *Logger
}

func (s *StrongWolfe[T]) defaults() (c1, c2, rho, alphaMax T, zoomIter int) {
	c1, c2, rho, alphaMax, zoomIter = s.C1, s.C2, s.Rho, s.AlphaMax, s.ZoomIterations
	if c1 <= 0 {
		c1 = swC1
	}
	if c2 <= 0 {
		c2 = swC2
	}
	if rho <= 1 {
		rho = swRho
	}
	if alphaMax <= 0 {
		alphaMax = swAlphaMax
	}
	if zoomIter <= 0 {
		zoomIter = swZoomIter
	}
	return
}

// Search brackets and zooms until the strong Wolfe conditions hold.
func (s *StrongWolfe[T]) Search(obj Objective[T], step, phi0, slope0 T, mayTerminate bool) (T, Status, error) {
	c1, c2, rho, alphaMax, zoomIter := s.defaults()
	switch {
	case !isFinite(phi0) || !isFinite(slope0):
		return 0, SearchErrNonFinite, stepError(SearchErrNonFinite, step)
	case slope0 >= 0:
		return 0, SearchErrNonDescent, descentError(T(0), slope0, nanOf[T]())
	case step <= 0:
		panic("initial step must be positive")
	}

	aPrev, a := T(0), step
	phiPrev := phi0
	for i := 1; a < alphaMax; i++ {
		phiA := obj.Value(a)

		if phiA > phi0+c1*a*slope0 || (phiA >= phiPrev && i > 1) {
			return s.zoom(obj, aPrev, a, phi0, slope0, c1, c2, zoomIter)
		}

		slopeA := obj.Slope(a)
		if abs(slopeA) <= -c2*slope0 {
			return a, SearchConv, nil
		}
		if slopeA >= 0 {
			return s.zoom(obj, a, aPrev, phi0, slope0, c1, c2, zoomIter)
		}

		if s.Logger.enable(TraceBracket) {
			s.Logger.log("strong wolfe bracket %4d: alpha = %v, phi = %v, slope = %v\n",
				i, float64(a), float64(phiA), float64(slopeA))
		}
		aPrev, a = a, a*rho
		phiPrev = phiA
	}
	return alphaMax, SearchWarnReachMax, nil
}

// zoom shrinks the bracket [lo, hi] with cubic interpolation until a point
// satisfying the strong Wolfe conditions is found (N&W Algorithm 3.6).
// The endpoints need not be ordered: lo always carries the lowest φ seen.
func (s *StrongWolfe[T]) zoom(obj Objective[T], lo, hi, phi0, slope0, c1, c2 T, maxIter int) (T, Status, error) {
	phiLo, slopeLo := obj.ValueSlope(lo)
	phiHi, slopeHi := obj.ValueSlope(hi)
	alpha := nanOf[T]()
	for iter := 0; iter < maxIter; iter++ {
		if lo < hi {
			alpha = cubicMin(lo, hi, phiLo, phiHi, slopeLo, slopeHi)
		} else {
			alpha = cubicMin(hi, lo, phiHi, phiLo, slopeHi, slopeLo)
		}
		if s.Logger.enable(TraceBisect) {
			s.Logger.log("strong wolfe zoom %4d: [%v, %v] -> %v\n",
				iter+1, float64(lo), float64(hi), float64(alpha))
		}

		phiA, slopeA := obj.ValueSlope(alpha)
		if phiA > phi0+c1*alpha*slope0 || phiA > phiLo {
			hi, phiHi, slopeHi = alpha, phiA, slopeA
			continue
		}
		if abs(slopeA) <= -c2*slope0 {
			return alpha, SearchConv, nil
		}
		if slopeA*(hi-lo) >= 0 {
			hi, phiHi, slopeHi = lo, phiLo, slopeLo
		}
		lo, phiLo, slopeLo = alpha, phiA, slopeA
	}
	return alpha, SearchErrMaxIter, stepError(SearchErrMaxIter, alpha)
}

// cubicMin returns the minimizer of the cubic interpolating φ and φ′ at both
// endpoints of [a, b] (N&W eq. 3.59).
func cubicMin[T Float](a, b, phiA, phiB, slopeA, slopeB T) T {
	d1 := slopeA + slopeB - 3*(phiA-phiB)/(a-b)
	d2 := sqrt(d1*d1 - slopeA*slopeB)
	return b - (b-a)*((slopeB+d2-d1)/(slopeB-slopeA+two*d2))
}
