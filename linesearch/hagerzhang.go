// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

const (
	hzDelta   = 0.1
	hzSigma   = 0.9
	hzRho     = 5.0
	hzEps     = 1e-6
	hzGamma   = 0.66
	hzPsi3    = 0.1
	hzMaxIter = 50
)

// HagerZhang performs the bracketing line search of Hager and Zhang (2006).
//
// The search maintains a bracket [a, b] satisfying (HZ, eq. 4.4):
//   - φ′(a) < 0 and φ(a) ≤ φ𝚕𝚒𝚖 ≡ φ(0) + ε|φ(0)|
//   - φ′(b) ≥ 0, or φ(b) > φ𝚕𝚒𝚖
//
// and refines it by alternating double-secant and bisection steps until a
// step satisfies either the Wolfe conditions
//
//	δφ′(0) ≥ (φ(c) - φ(0))/c and φ′(c) ≥ σφ′(0)
//
// or the approximate Wolfe test
//
//	(2δ-1)φ′(0) ≥ φ′(c) ≥ σφ′(0) and φ(c) ≤ φ𝚕𝚒𝚖
//
// whose purpose is to avoid stalling near a minimum where φ(c) - φ(0) is
// dominated by roundoff. The two are equivalent for smooth φ when δ < ½.
//
// The zero value configures the defaults of the CG_DESCENT reference:
// δ = 0.1, σ = 0.9, ρ = 5, ε = 1e-6, γ = 0.66, ψ₃ = 0.1, 50 iterations and
// no step ceiling.
type HagerZhang[T Float] struct {
	// Delta is the sufficient-decrease coefficient δ, 0 < δ < σ.
	Delta T
	// Sigma is the curvature coefficient σ, δ < σ < 1.
	Sigma T
	// AlphaMax is the finite step ceiling ɑ𝚖𝚊𝚡.
	AlphaMax T
	// Rho is the bracket expansion factor ρ > 1.
	Rho T
	// Eps scales the reference level φ𝚕𝚒𝚖 = φ(0) + ε|φ(0)|.
	Eps T
	// Gamma is the refinement progress threshold γ: a secant pass must
	// shrink the bracket below γ(b - a) or a bisection step is taken.
	Gamma T
	// Psi3 is the shrinkage factor ψ₃ applied while the trial value is
	// not finite.
	Psi3 T
	// MaxIterations bounds the bracketing and refinement iterations together.
	MaxIterations int
	// Logger receives optional diagnostics.
	Logger *Logger
}

// probe records one evaluated trial step together with φ(ɑ) and φ′(ɑ).
type probe[T Float] struct {
	alpha, value, slope T
}

// hzSearch is the state of a single invocation, discarded on return.
type hzSearch[T Float] struct {
	HagerZhang[T]
	obj    Objective[T]
	probes []probe[T] // index 0 always holds (0, φ(0), φ′(0))
	phiLim T
}

// Search finds a step satisfying the Wolfe or approximate Wolfe conditions.
func (hz HagerZhang[T]) Search(obj Objective[T], step, phi0, slope0 T, mayTerminate bool) (T, Status, error) {
	if hz.Delta == 0 {
		hz.Delta = hzDelta
	}
	if hz.Sigma == 0 {
		hz.Sigma = hzSigma
	}
	if hz.AlphaMax == 0 {
		hz.AlphaMax = infOf[T]()
	}
	if hz.Rho == 0 {
		hz.Rho = hzRho
	}
	if hz.Eps == 0 {
		hz.Eps = hzEps
	}
	if hz.Gamma == 0 {
		hz.Gamma = hzGamma
	}
	if hz.Psi3 == 0 {
		hz.Psi3 = hzPsi3
	}
	if hz.MaxIterations == 0 {
		hz.MaxIterations = hzMaxIter
	}

	if !isFinite(phi0) || !isFinite(slope0) {
		return 0, SearchErrNonFinite, stepError(SearchErrNonFinite, T(0))
	}
	if slope0 >= 0 {
		return 0, SearchErrNonDescent, descentError(T(0), slope0, nanOf[T]())
	}
	if !(step > 0) {
		panic("initial step must be positive")
	}

	s := &hzSearch[T]{HagerZhang: hz, obj: obj}
	s.probes = make([]probe[T], 1, hz.MaxIterations+iterFiniteMax[T]()+5)
	s.probes[0] = probe[T]{0, phi0, slope0}
	s.phiLim = phi0 + hz.Eps*abs(phi0)
	return s.search(step, mayTerminate)
}

func (s *hzSearch[T]) push(alpha, value, slope T) int {
	s.probes = append(s.probes, probe[T]{alpha, value, slope})
	return len(s.probes) - 1
}

// wolfe reports whether (c, φ(c), φ′(c)) passes either acceptance test.
func (s *hzSearch[T]) wolfe(c, phiC, slopeC T) bool {
	phi0, slope0 := s.probes[0].value, s.probes[0].slope
	if s.Delta*slope0 >= (phiC-phi0)/c && slopeC >= s.Sigma*slope0 {
		return true
	}
	return (2*s.Delta-1)*slope0 >= slopeC && slopeC >= s.Sigma*slope0 && phiC <= s.phiLim
}

func (s *hzSearch[T]) search(c T, mayTerminate bool) (T, Status, error) {
	log := s.Logger
	if log.enable(TraceParameters) {
		log.log("hagerzhang: delta = %v, sigma = %v, rho = %v, eps = %v, gamma = %v, alphamax = %v\n",
			s.Delta, s.Sigma, s.Rho, s.Eps, s.Gamma, s.AlphaMax)
	}

	alphaMax := s.AlphaMax
	iterFinite := iterFiniteMax[T]()

	// Shrink c until φ(c) and φ′(c) are finite, so trial points that land
	// outside the domain of φ (barriers, constraints) cannot poison the
	// bracket.
	phiC, slopeC := s.obj.ValueSlope(c)
	for iter := 1; !(isFinite(phiC) && isFinite(slopeC)) && iter < iterFinite; iter++ {
		mayTerminate = false
		c *= s.Psi3
		phiC, slopeC = s.obj.ValueSlope(c)
		if log.enable(TraceBarrierCoef) {
			log.log("rescue: c = %v, phi = %v\n", c, phiC)
		}
	}
	if !(isFinite(phiC) && isFinite(slopeC)) {
		if log.enable(TraceLinesearch) {
			log.log("failed to achieve finite evaluation point, using alpha = 0\n")
		}
		return 0, SearchWarnNonFinite, nil
	}
	s.push(c, phiC, slopeC)

	// A quadratic-fit initial guess may short-circuit bracketing.
	if mayTerminate && s.wolfe(c, phiC, slopeC) {
		if log.enable(TraceFinal) {
			log.log("initial step satisfies Wolfe: alpha = %v\n", c)
		}
		return c, SearchConv, nil
	}

	// Bracket construction (HZ stages B0-B3).
	ia, ib := 0, 1
	iter, bracketed := 1, false
	for !bracketed && iter < s.MaxIterations {
		switch last := len(s.probes) - 1; {
		case slopeC >= 0:
			// The slope turned upward: the upper endpoint is found. Scan
			// backward for the most recent probe still under the reference
			// level to serve as the lower endpoint.
			ib = last
			for i := ib - 1; i >= 0; i-- {
				if s.probes[i].value <= s.phiLim {
					ia = i
					break
				}
			}
			if log.enable(TraceBracket) {
				log.log("bracketed on slope: a = %v, b = %v\n", s.probes[ia].alpha, s.probes[ib].alpha)
			}
			bracketed = true
		case s.probes[last].value > s.phiLim:
			// Still descending but above the reference height: a minimum
			// lies between the last two probes.
			ia, ib = s.bisect(last-1, last)
			if log.enable(TraceBracket) {
				log.log("bracketed on value: a = %v, b = %v\n", s.probes[ia].alpha, s.probes[ib].alpha)
			}
			bracketed = true
		default:
			// Still descending under the limit: expand the interval.
			cold := c
			c *= s.Rho
			if c > alphaMax {
				c = (alphaMax + cold) / 2
				if log.enable(TraceLinesearch) {
					log.log("bisecting towards alphamax: c = %v, cold = %v, alphamax = %v\n", c, cold, alphaMax)
				}
				if c == cold || nextAfter(c, infOf[T]()) >= alphaMax {
					// No representable step is left below the ceiling.
					return cold, SearchConv | SearchBoundary, nil
				}
			}
			phiC, slopeC = s.obj.ValueSlope(c)
			for iterF := 1; !(isFinite(phiC) && isFinite(slopeC)) &&
				c > nextAfter(cold, infOf[T]()) && iterF < iterFinite; iterF++ {
				alphaMax = c // lower the ceiling into the known-finite region
				c = (cold + c) / 2
				phiC, slopeC = s.obj.ValueSlope(c)
				if log.enable(TraceBarrierCoef) {
					log.log("expansion rescue: c = %v, phi = %v\n", c, phiC)
				}
			}
			if !(isFinite(phiC) && isFinite(slopeC)) {
				return cold, SearchWarnNonFinite, nil
			}
			if slopeC < 0 && c == alphaMax {
				// The ceiling with the value still decreasing: roundoff in a
				// barrier penalty or an over-large barrier coefficient can
				// pin the search here, so accept c to prevent looping.
				if log.enable(TraceLinesearch) {
					log.log("reached alphamax with negative slope, accepting boundary step %v\n", c)
				}
				return c, SearchConv | SearchBoundary, nil
			}
			s.push(c, phiC, slopeC)
		}
		iter++
	}

	// Refinement: alternate double-secant and bisection on the bracket.
	for iter < s.MaxIterations {
		a, b := s.probes[ia].alpha, s.probes[ib].alpha
		if !(b > a) {
			panic("bound check error")
		}
		if log.enable(TraceIter) {
			log.log("iteration %d: bracket = [%v, %v]\n", iter, a, b)
		}
		if b-a <= epsOf[T]()*abs(b) {
			// Floating-point resolution on the bracket is exhausted.
			return a, SearchWarnRoundErr, nil
		}

		ok, iA, iB, err := s.secant2(ia, ib)
		if err != nil {
			return s.probes[ia].alpha, SearchErrNonDescent, err
		}
		if ok {
			alpha := s.probes[iA].alpha
			if log.enable(TraceFinal) {
				log.log("accepted: alpha = %v, phi = %v\n", alpha, s.probes[iA].value)
			}
			return alpha, SearchConv, nil
		}

		A, B := s.probes[iA].alpha, s.probes[iB].alpha
		if !(B > A) {
			panic("bound check error")
		}
		if B-A < s.Gamma*(b-a) {
			// The secant made good progress.
			if nextAfter(s.probes[ia].value, infOf[T]()) >= s.probes[ib].value &&
				nextAfter(s.probes[iA].value, infOf[T]()) >= s.probes[iB].value {
				// So flat the secant cannot improve anything, time to quit.
				if log.enable(TraceLinesearch) {
					log.log("flat bracket, accepting alpha = %v\n", A)
				}
				return A, SearchWarnFlat, nil
			}
			ia, ib = iA, iB
		} else {
			// The secant is converging too slowly, bisect instead.
			c = (A + B) / 2
			phiC, slopeC = s.obj.ValueSlope(c)
			if log.enable(TraceIter) {
				log.log("midpoint fallback: c = %v, phi = %v\n", c, phiC)
			}
			if !(isFinite(phiC) && isFinite(slopeC)) {
				return s.probes[iA].alpha, SearchWarnNonFinite, nil
			}
			ic := s.push(c, phiC, slopeC)
			ia, ib, err = s.update(iA, iB, ic)
			if err != nil {
				return s.probes[iA].alpha, SearchErrNonDescent, err
			}
		}
		iter++
	}

	alpha := s.probes[ia].alpha
	return alpha, SearchErrMaxIter, stepError(SearchErrMaxIter, alpha)
}

// secantRoot returns the root of the linear interpolant of φ′ through the
// endpoints, the minimizer of the quadratic model of φ on [a, b].
func secantRoot[T Float](a, b, slopeA, slopeB T) T {
	return (a*slopeB - b*slopeA) / (slopeB - slopeA)
}

// secant2 performs the double secant refinement (HZ stages S1-S4): take a
// secant step, update the bracket, and when exactly one endpoint moved take
// a second secant between the new endpoint and the original one.
func (s *hzSearch[T]) secant2(ia, ib int) (ok bool, iA, iB int, err error) {
	log := s.Logger
	pa, pb := s.probes[ia], s.probes[ib]
	if !(pa.slope < 0 && pb.slope >= 0) {
		return false, ia, ib, descentError(pa.alpha, pa.slope, pb.slope)
	}

	c := secantRoot(pa.alpha, pb.alpha, pa.slope, pb.slope)
	if log.enable(TraceSecant2) {
		log.log("secant2: a = %v, b = %v, c = %v\n", pa.alpha, pb.alpha, c)
	}
	phiC, slopeC := s.obj.ValueSlope(c)
	ic := s.push(c, phiC, slopeC)
	if s.wolfe(c, phiC, slopeC) {
		return true, ic, ic, nil
	}
	if iA, iB, err = s.update(ia, ib, ic); err != nil {
		return false, iA, iB, err
	}

	again := false
	switch {
	case iB == ic:
		// Only the upper endpoint was replaced by the last evaluation.
		c = secantRoot(s.probes[ib].alpha, s.probes[iB].alpha, s.probes[ib].slope, s.probes[iB].slope)
		again = true
	case iA == ic:
		c = secantRoot(s.probes[ia].alpha, s.probes[iA].alpha, s.probes[ia].slope, s.probes[iA].slope)
		again = true
	}
	if again && s.probes[iA].alpha <= c && c <= s.probes[iB].alpha {
		if log.enable(TraceSecant2) {
			log.log("secant2 again: c = %v\n", c)
		}
		phiC, slopeC = s.obj.ValueSlope(c)
		ic = s.push(c, phiC, slopeC)
		if s.wolfe(c, phiC, slopeC) {
			return true, ic, ic, nil
		}
		iA, iB, err = s.update(iA, iB, ic)
	}
	return false, iA, iB, err
}

// update refines the bracket with the candidate probe ic (HZ stages U0-U3).
func (s *hzSearch[T]) update(ia, ib, ic int) (int, int, error) {
	pa, pb, pc := s.probes[ia], s.probes[ib], s.probes[ic]
	// Bracket invariants (HZ, eq. 4.4)
	if !(pa.slope < 0) || !(pa.value <= s.phiLim) {
		return ia, ib, descentError(pa.alpha, pa.slope, pb.slope)
	}
	if !(pb.alpha > pa.alpha) {
		panic("bound check error")
	}
	if log := s.Logger; log.enable(TraceUpdate) {
		log.log("update: a = %v, b = %v, c = %v\n", pa.alpha, pb.alpha, pc.alpha)
	}

	if pc.alpha < pa.alpha || pc.alpha > pb.alpha {
		return ia, ib, nil // out of the bracketing interval
	}
	if pc.slope >= 0 {
		return ia, ic, nil // a closer upper endpoint
	}
	// φ may not be monotonic between a and c, so only replace the lower
	// endpoint when the value also stays under the reference level.
	// Replacing a is riskier than replacing b: it leaves the secure zone.
	if pc.value <= s.phiLim {
		return ic, ib, nil
	}
	// φ′(c) < 0 with φ(c) above the limit: the minimum lies in [a, c].
	a, b := s.bisect(ia, ic)
	return a, b, nil
}

// bisect shrinks an interval whose upper endpoint still has a negative slope
// but a value above the reference level (HZ stage U3 with θ = ½) until one
// midpoint turns upward in slope or the width is exhausted.
func (s *hzSearch[T]) bisect(ia, ib int) (int, int) {
	log := s.Logger
	a, b := s.probes[ia].alpha, s.probes[ib].alpha
	if !(s.probes[ia].slope < 0 && s.probes[ia].value <= s.phiLim &&
		s.probes[ib].slope < 0 && s.probes[ib].value > s.phiLim && b > a) {
		panic("bound check error")
	}
	for b-a > epsOf[T]()*abs(b) {
		d := (a + b) / 2
		phiD, slopeD := s.obj.ValueSlope(d)
		if log.enable(TraceBisect) {
			log.log("bisect: d = %v, phi = %v, dphi = %v\n", d, phiD, slopeD)
		}
		id := s.push(d, phiD, slopeD)
		if slopeD >= 0 {
			return ia, id // found the upper endpoint
		}
		if phiD <= s.phiLim {
			a, ia = d, id // still descending, but safe
		} else {
			b, ib = d, id
		}
	}
	return ia, ib
}
