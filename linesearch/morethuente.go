// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

// Default parameters of the MoreThuente search.
const (
	mtFTol    = 1e-4
	mtGTol    = 0.9
	mtXTol    = 1e-8
	mtStepMin = 1e-16
	mtStepMax = 65536.0
	mtMaxIter = 100

	mtExtraLower = 1.1
	mtExtraUpper = 4.0
	mtShrink     = 0.66
)

const (
	mtStageArmijo = 1
	mtStageWolfe  = 2
)

// MoreThuente is the safeguarded cubic/quadratic interpolation search of
// Moré & Thuente (MINPACK dcsrch/dcstep). It maintains an interval whose
// endpoints bracket a minimizer of the modified function
//
//	ψ(ɑ) = φ(ɑ) - φ(0) - 𝒇𝚝𝚘𝚕·ɑ·φ′(0)
//
// until a step satisfies the strong Wolfe conditions
//
//	φ(ɑ) ≤ φ(0) + 𝒇𝚝𝚘𝚕·ɑ·φ′(0) and |φ′(ɑ)| ≤ 𝚐𝚝𝚘𝚕·|φ′(0)|.
//
// The zero value selects 𝒇𝚝𝚘𝚕=10⁻⁴, 𝚐𝚝𝚘𝚕=0.9, 𝚡𝚝𝚘𝚕=10⁻⁸,
// steps in [10⁻¹⁶, 65536] and at most 100 evaluations.
type MoreThuente[T Float] struct {
	// FTol is the sufficient-decrease coefficient. Zero selects 1e-4.
	FTol T
	// GTol is the curvature coefficient. Zero selects 0.9.
	GTol T
	// XTol is the relative width below which the bracket is considered
	// resolved. Zero selects 1e-8.
	XTol T
	// StepMin, StepMax bound the step. Zero selects 1e-16 and 65536.
	StepMin, StepMax T
	// MaxIterations bounds the number of objective evaluations.
	// Zero selects 100.
	MaxIterations int
	// Logger emits the bracket when set.
	Logger *Logger
}

func (s *MoreThuente[T]) defaults() (fTol, gTol, xTol, stepMin, stepMax T, maxIter int) {
	fTol, gTol, xTol, stepMin, stepMax, maxIter =
		s.FTol, s.GTol, s.XTol, s.StepMin, s.StepMax, s.MaxIterations
	if fTol <= 0 {
		fTol = mtFTol
	}
	if gTol <= 0 {
		gTol = mtGTol
	}
	if xTol <= 0 {
		xTol = mtXTol
	}
	if stepMin <= 0 {
		stepMin = mtStepMin
	}
	if stepMax <= 0 {
		stepMax = mtStepMax
	}
	if maxIter <= 0 {
		maxIter = mtMaxIter
	}
	return
}

// Search drives the interval update until acceptance or exhaustion.
func (s *MoreThuente[T]) Search(obj Objective[T], step, phi0, slope0 T, mayTerminate bool) (T, Status, error) {
	fTol, gTol, xTol, stepMin, stepMax, maxIter := s.defaults()
	switch {
	case !isFinite(phi0) || !isFinite(slope0):
		return 0, SearchErrNonFinite, stepError(SearchErrNonFinite, step)
	case slope0 >= 0:
		return 0, SearchErrNonDescent, descentError(T(0), slope0, nanOf[T]())
	case step <= 0:
		panic("initial step must be positive")
	}

	stp := clip(step, stepMin, stepMax)
	gTest := fTol * slope0

	origin := probe[T]{alpha: 0, value: phi0, slope: slope0}
	x, y := origin, origin // x holds the best step so far
	bracket := false
	stage := mtStageArmijo

	width := stepMax - stepMin
	width1 := width / half
	bndLo, bndHi := T(0), stp+mtExtraUpper*stp

	for iter := 0; iter < maxIter; iter++ {
		f, g := obj.ValueSlope(stp)
		fTest := phi0 + stp*gTest
		if s.Logger.enable(TraceLinesearch) {
			s.Logger.log("more-thuente %4d: alpha = %v, phi = %v, slope = %v\n",
				iter+1, float64(stp), float64(f), float64(g))
		}

		switch {
		case bracket && (stp <= bndLo || stp >= bndHi):
			return stp, SearchWarnRoundErr, nil
		case bracket && bndHi-bndLo <= xTol*bndHi:
			return stp, SearchWarnRoundErr, nil
		case stp == stepMax && f <= fTest && g <= gTest:
			return stp, SearchWarnReachMax, nil
		case stp == stepMin && (f > fTest || g >= gTest):
			return stp, SearchWarnReachMin, nil
		case f <= fTest && abs(g) <= gTol*(-slope0):
			return stp, SearchConv, nil
		}

		if stage == mtStageArmijo && f <= fTest && g >= 0 {
			stage = mtStageWolfe
		}

		p := probe[T]{alpha: stp, value: f, slope: g}
		if stage == mtStageArmijo && f <= x.value && f > fTest {
			// Interpolate on the modified function ψ until the sufficient
			// decrease holds, then switch back to φ.
			pm := probe[T]{alpha: stp, value: f - stp*gTest, slope: g - gTest}
			xm := probe[T]{alpha: x.alpha, value: x.value - x.alpha*gTest, slope: x.slope - gTest}
			ym := probe[T]{alpha: y.alpha, value: y.value - y.alpha*gTest, slope: y.slope - gTest}
			stp = trialStep(&xm, &ym, pm, &bracket, bndLo, bndHi)
			x = probe[T]{alpha: xm.alpha, value: xm.value + xm.alpha*gTest, slope: xm.slope + gTest}
			y = probe[T]{alpha: ym.alpha, value: ym.value + ym.alpha*gTest, slope: ym.slope + gTest}
		} else {
			stp = trialStep(&x, &y, p, &bracket, bndLo, bndHi)
		}

		if bracket {
			// Force sufficient interval decay, bisecting when interpolation stalls.
			if w := abs(y.alpha - x.alpha); w >= mtShrink*width1 {
				stp = x.alpha + half*(y.alpha-x.alpha)
			}
			width1 = width
			width = abs(y.alpha - x.alpha)
			bndLo, bndHi = min(x.alpha, y.alpha), max(x.alpha, y.alpha)
		} else {
			bndLo = stp + mtExtraLower*(stp-x.alpha)
			bndHi = stp + mtExtraUpper*(stp-x.alpha)
		}
		if s.Logger.enable(TraceBracket) {
			s.Logger.log("more-thuente bracket: [%v, %v] next = %v\n",
				float64(bndLo), float64(bndHi), float64(stp))
		}

		stp = clip(stp, stepMin, stepMax)
		if bracket && (stp <= bndLo || stp >= bndHi) ||
			bracket && bndHi-bndLo <= xTol*bndHi {
			// The interval cannot produce a better trial: fall back to the
			// best step and let the entry tests report the warning.
			stp = x.alpha
		}
	}
	return x.alpha, SearchErrMaxIter, stepError(SearchErrMaxIter, x.alpha)
}

// trialStep computes a safeguarded interpolation step (MINPACK dcstep) and
// updates the interval [x, y] so it keeps containing a minimizer.
//
// x is the endpoint with the least value, p the current trial. When bracket
// is set, p.alpha lies between x.alpha and y.alpha and the slope at x is
// negative toward p.
func trialStep[T Float](x, y *probe[T], p probe[T], bracket *bool, stpMin, stpMax T) T {
	var next T
	sgnd := p.slope * (x.slope / abs(x.slope))

	switch {
	case p.value > x.value:
		// Higher value: the minimum is bracketed between x and p. Take the
		// cubic step when it is closer to x, else average it with the
		// quadratic step.
		cubic := interpCubic(*x, p)
		quad := x.alpha + ((x.slope/((x.value-p.value)/(p.alpha-x.alpha)+x.slope))/two)*(p.alpha-x.alpha)
		if abs(cubic-x.alpha) < abs(quad-x.alpha) {
			next = cubic
		} else {
			next = cubic + (quad-cubic)/two
		}
		*bracket = true
	case sgnd < 0:
		// Lower value, opposite slopes: bracketed. Take the cubic step when
		// it is farther from p, else the secant step.
		cubic := interpCubic(p, *x)
		secant := p.alpha + (p.slope/(p.slope-x.slope))*(x.alpha-p.alpha)
		if abs(cubic-p.alpha) > abs(secant-p.alpha) {
			next = cubic
		} else {
			next = secant
		}
		*bracket = true
	case abs(p.slope) < abs(x.slope):
		// Lower value, same slope signs, decreasing magnitude. The cubic is
		// used only when it tends to infinity in the step direction or its
		// minimum lies beyond p.
		cubic := interpCubicBeyond(p, *x, stpMin, stpMax)
		secant := p.alpha + (p.slope/(p.slope-x.slope))*(x.alpha-p.alpha)
		var stpf T
		if *bracket {
			if abs(cubic-p.alpha) < abs(secant-p.alpha) {
				stpf = cubic
			} else {
				stpf = secant
			}
			if p.alpha > x.alpha {
				stpf = min(p.alpha+mtShrink*(y.alpha-p.alpha), stpf)
			} else {
				stpf = max(p.alpha+mtShrink*(y.alpha-p.alpha), stpf)
			}
		} else {
			if abs(cubic-p.alpha) > abs(secant-p.alpha) {
				stpf = cubic
			} else {
				stpf = secant
			}
			stpf = clip(stpf, stpMin, stpMax)
		}
		next = stpf
	default:
		// Lower value, same slope signs, non-decreasing magnitude.
		if *bracket {
			next = interpCubic(p, *y)
		} else if p.alpha > x.alpha {
			next = stpMax
		} else {
			next = stpMin
		}
	}

	// Update the interval.
	if p.value > x.value {
		*y = p
	} else {
		if sgnd < 0 {
			*y = *x
		}
		*x = p
	}
	return next
}

// interpCubic returns the minimizer of the cubic interpolating value and
// slope at the probes a and b, expressed from the a endpoint.
func interpCubic[T Float](a, b probe[T]) T {
	theta := 3*(b.value-a.value)/(a.alpha-b.alpha) + b.slope + a.slope
	s := max(abs(theta), abs(b.slope), abs(a.slope))
	gamma := s * sqrt((theta/s)*(theta/s)-(b.slope/s)*(a.slope/s))
	if a.alpha > b.alpha {
		gamma = -gamma
	}
	p := (gamma - a.slope) + theta
	q := ((gamma - a.slope) + gamma) + b.slope
	r := p / q
	return a.alpha + r*(b.alpha-a.alpha)
}

// interpCubicBeyond computes the cubic step for the case where the cubic may
// not attain a minimum in the step direction: when it does not, the step
// falls back to the bound in that direction.
func interpCubicBeyond[T Float](p, x probe[T], stpMin, stpMax T) T {
	theta := 3*(x.value-p.value)/(p.alpha-x.alpha) + x.slope + p.slope
	s := max(abs(theta), abs(x.slope), abs(p.slope))
	// gamma = 0 only arises when the cubic does not tend to infinity in the
	// direction of the step.
	gamma := s * sqrt(max((theta/s)*(theta/s)-(x.slope/s)*(p.slope/s), zero))
	if p.alpha > x.alpha {
		gamma = -gamma
	}
	pp := (gamma - p.slope) + theta
	q := (gamma + (x.slope - p.slope)) + gamma
	r := pp / q
	switch {
	case r < 0 && gamma != 0:
		return p.alpha + r*(x.alpha-p.alpha)
	case p.alpha > x.alpha:
		return stpMax
	default:
		return stpMin
	}
}
