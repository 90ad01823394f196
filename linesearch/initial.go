// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

// Default parameters of the InitialHagerZhang estimator, following
// CG_DESCENT.
const (
	ihzPsi0   = 0.01
	ihzPsi1   = 0.2
	ihzPsi2   = 2.0
	ihzPsi3   = 0.1
	ihzAlpha0 = 1.0
)

// InitialHagerZhang guesses the first trial step as described by
// Hager & Zhang (stages I0 and I1-I2 of CG_DESCENT).
//
// On the first outer iteration the guess is scaled from the norms of the
// iterate and its gradient. On subsequent iterations a quadratic is fitted
// through φ(0), φ′(0) and a probe at ψ1·ɑ𝚙𝚛𝚎𝚟: when the fit is convex and
// decreasing its minimizer is returned with mayTerminate set, so the search
// may accept it immediately once the Wolfe conditions hold.
//
// The zero value selects ψ0=0.01, ψ1=0.2, ψ2=2.0, ψ3=0.1, ɑ𝚖𝚊𝚡=∞, ɑ0=1.
type InitialHagerZhang[T Float] struct {
	// Psi0 scales the norm-based guess of the very first iteration.
	Psi0 T
	// Psi1 scales the probe step of the quadratic fit.
	Psi1 T
	// Psi2 scales the previous step when the quadratic fit is rejected.
	Psi2 T
	// Psi3 shrinks the probe until φ evaluates to a finite value.
	Psi3 T
	// AlphaMax is the ceiling of the guessed step.
	AlphaMax T
	// Alpha0 seeds the first-iteration guess before the norm-based
	// refinement. Zero selects 1.
	Alpha0 T
	// Logger emits the chosen step when set.
	Logger *Logger
}

func (s *InitialHagerZhang[T]) defaults() (psi0, psi1, psi2, psi3, alphaMax, alpha0 T) {
	psi0, psi1, psi2, psi3, alpha0 = s.Psi0, s.Psi1, s.Psi2, s.Psi3, s.Alpha0
	if psi0 <= 0 {
		psi0 = ihzPsi0
	}
	if psi1 <= 0 {
		psi1 = ihzPsi1
	}
	if psi2 <= 0 {
		psi2 = ihzPsi2
	}
	if psi3 <= 0 {
		psi3 = ihzPsi3
	}
	alphaMax = s.AlphaMax
	if alphaMax <= 0 {
		alphaMax = infOf[T]()
	}
	if alpha0 <= 0 {
		alpha0 = ihzAlpha0
	}
	return
}

// InitialStep guesses ɑ and stores it with the mayTerminate flag into state.
func (s *InitialHagerZhang[T]) InitialStep(state *State[T], phi0, slope0 T, obj Objective[T]) (T, bool) {
	psi0, psi1, psi2, psi3, alphaMax, alpha0 := s.defaults()

	if isNaN(state.Alpha) || state.Alpha == 0 {
		// First outer iteration: refine the seed from the norms of the
		// iterate and its gradient.
		alpha := alpha0
		if gradNorm := normInf(state.Grad); gradNorm != 0 {
			if xNorm := normInf(state.X); xNorm != 0 {
				alpha = psi0 * xNorm / gradNorm
			} else if phi0 != 0 {
				alpha = psi0 * abs(phi0) / norm2(state.Grad)
			}
		}
		alpha = min(alpha, alphaMax)
		if s.Logger.enable(TraceAlpha) {
			s.Logger.log("initial step (I0): alpha = %v\n", float64(alpha))
		}
		state.Alpha, state.MayTerminate = alpha, false
		return alpha, false
	}

	// Subsequent iterations: quadratic interpolation on a shrunken probe.
	alphaTest := min(psi1*state.Alpha, alphaMax)
	phiTest := obj.Value(alphaTest)
	for iter := 0; !isFinite(phiTest); iter++ {
		if iter >= iterFiniteMax[T]() {
			state.Alpha, state.MayTerminate = 0, true
			return 0, true
		}
		alphaTest *= psi3
		phiTest = obj.Value(alphaTest)
	}

	a := (phiTest - phi0 - slope0*alphaTest) / (alphaTest * alphaTest)
	var alpha T
	mayTerminate := false
	if isFinite(a) && a > 0 && phiTest <= phi0 {
		// Quadratic is convex and decreasing: jump to its minimizer.
		alpha = -slope0 / (two * a)
		if alpha < alphaMax {
			mayTerminate = true
		} else {
			alpha = alphaMax
		}
		if s.Logger.enable(TraceAlpha) {
			s.Logger.log("initial step (I1): quadratic minimizer alpha = %v\n", float64(alpha))
		}
	} else if phiTest > phi0 {
		alpha = alphaTest
	} else {
		alpha = min(alphaMax, psi2*state.Alpha)
	}
	if s.Logger.enable(TraceAlpha) {
		s.Logger.log("initial step (I2): alpha = %v, mayTerminate = %v\n", float64(alpha), mayTerminate)
	}
	state.Alpha, state.MayTerminate = alpha, mayTerminate
	return alpha, mayTerminate
}

// InitialStatic always guesses the same step. With Scaled set the step is
// min(ɑ, ‖𝐝‖₂)/‖𝐝‖₂, so the trial point moves a distance of min(ɑ, ‖𝐝‖₂):
// ɑ for directions longer than ɑ, the full direction otherwise.
//
// The zero value selects ɑ=1 unscaled.
type InitialStatic[T Float] struct {
	// Alpha is the fixed step. Zero selects 1.
	Alpha T
	// Scaled caps the step at the direction norm and divides it by that norm.
	Scaled bool
}

func (s InitialStatic[T]) InitialStep(state *State[T], phi0, slope0 T, obj Objective[T]) (T, bool) {
	alpha := s.Alpha
	if alpha <= 0 {
		alpha = one
	}
	if s.Scaled {
		if dNorm := norm2(state.Dir); dNorm > 0 {
			alpha = min(alpha, dNorm) / dNorm
		}
	}
	state.Alpha, state.MayTerminate = alpha, false
	return alpha, false
}

// InitialPrevious reuses the step accepted on the previous outer iteration,
// clipped to [AlphaMin, AlphaMax].
//
// The zero value selects ɑ=1 for the first iteration with no clipping.
type InitialPrevious[T Float] struct {
	// Alpha is used on the first iteration. Zero selects 1.
	Alpha T
	// AlphaMin, AlphaMax clip the previous step. Both zero disables the
	// lower bound; AlphaMax zero disables the upper bound.
	AlphaMin, AlphaMax T
}

func (s InitialPrevious[T]) InitialStep(state *State[T], phi0, slope0 T, obj Objective[T]) (T, bool) {
	alphaMax := s.AlphaMax
	if alphaMax <= 0 {
		alphaMax = infOf[T]()
	}
	alpha := state.Alpha
	if isNaN(alpha) || alpha == 0 {
		alpha = s.Alpha
		if alpha <= 0 {
			alpha = one
		}
	}
	alpha = clip(alpha, s.AlphaMin, alphaMax)
	state.Alpha = alpha
	return alpha, state.MayTerminate
}

// InitialQuadratic fits a quadratic through φ(0), φ′(0) and the objective
// value of the previous outer iteration and guesses the minimizer of the fit,
// a common choice for quasi-Newton outer loops (Nocedal & Wright eq. 3.60).
//
// The zero value selects ɑ0=1, ɑ𝚖𝚒𝚗=10⁻¹², ɑ𝚖𝚊𝚡=∞ without snapping.
type InitialQuadratic[T Float] struct {
	// Alpha0 is used when no previous objective value is available.
	// Zero selects 1.
	Alpha0 T
	// AlphaMin is the smallest guess. Zero selects 1e-12.
	AlphaMin T
	// AlphaMax is the largest guess. Zero selects +∞.
	AlphaMax T
	// SnapToUnit replaces any guess in (0.75, 1.25) with exactly 1 so that
	// Newton-like directions keep their natural step.
	SnapToUnit bool
}

func (s InitialQuadratic[T]) InitialStep(state *State[T], phi0, slope0 T, obj Objective[T]) (T, bool) {
	alpha0, alphaMin, alphaMax := s.Alpha0, s.AlphaMin, s.AlphaMax
	if alpha0 <= 0 {
		alpha0 = one
	}
	if alphaMin <= 0 {
		alphaMin = 1e-12
	}
	if alphaMax <= 0 {
		alphaMax = infOf[T]()
	}
	var alpha T
	if isNaN(state.FPrev) || abs(slope0) <= epsOf[T]() {
		alpha = alpha0
	} else {
		// Minimizer of the quadratic through (0, φ0, φ′0) whose predicted
		// decrease equals the previous decrease FPrev - φ0.
		alpha = two * (phi0 - state.FPrev) / slope0
		alpha = clip(alpha, alphaMin, alphaMax)
		if s.SnapToUnit && alpha > 0.75 && alpha < 1.25 {
			alpha = one
		}
	}
	state.Alpha, state.MayTerminate = alpha, false
	return alpha, false
}

// InitialConstantChange scales the previous step so the first-order predicted
// decrease ɑ·φ′(0) matches that of the previous iteration, ɑ𝚙𝚛𝚎𝚟·φ′𝚙𝚛𝚎𝚟, keeping
// |Δ𝒇| roughly constant across outer iterations.
//
// The zero value selects ɑ0=1, ɑ𝚖𝚒𝚗=10⁻¹², ɑ𝚖𝚊𝚡=∞.
type InitialConstantChange[T Float] struct {
	// Alpha0 is used when no previous slope is available. Zero selects 1.
	Alpha0 T
	// AlphaMin is the smallest guess. Zero selects 1e-12.
	AlphaMin T
	// AlphaMax is the largest guess. Zero selects +∞.
	AlphaMax T
}

func (s InitialConstantChange[T]) InitialStep(state *State[T], phi0, slope0 T, obj Objective[T]) (T, bool) {
	alpha0, alphaMin, alphaMax := s.Alpha0, s.AlphaMin, s.AlphaMax
	if alpha0 <= 0 {
		alpha0 = one
	}
	if alphaMin <= 0 {
		alphaMin = 1e-12
	}
	if alphaMax <= 0 {
		alphaMax = infOf[T]()
	}
	var alpha T
	switch {
	case isNaN(state.SlopePrev) || state.SlopePrev == 0 ||
		isNaN(state.Alpha) || state.Alpha == 0 || abs(slope0) <= epsOf[T]():
		alpha = alpha0
	default:
		alpha = clip(state.Alpha*state.SlopePrev/slope0, alphaMin, alphaMax)
	}
	state.Alpha, state.MayTerminate = alpha, false
	return alpha, false
}
