// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linesearch provides one-dimensional line-search algorithms used as
// inner routines by multivariate unconstrained-optimization methods.
//
// Given a current iterate 𝐱, a descent direction 𝐝 and an objective 𝒇 with
// gradient 𝒇′, a search chooses a step length ɑ > 0 along the ray 𝐱 + ɑ𝐝
// that makes sufficient progress toward a minimum of φ(ɑ) ≡ 𝒇(𝐱 + ɑ𝐝).
//
// The searches only see the univariate restriction through the Objective
// interface; the Ray adapter produces it from a vector objective. Initial-step
// estimators produce the first trial ɑ handed to a search on each outer
// iteration.
//
// # Reference:
//
//   - W.W. Hager, H. Zhang, Algorithm 851: CG_DESCENT, a conjugate gradient
//     method with guaranteed descent. ACM TOMS 32(1), 2006.
//   - J. Nocedal, S.J. Wright, Numerical Optimization, 2nd edition, 2006.
package linesearch

// Searcher finds a step length ɑ along a fixed search ray.
//
// The step argument is the first trial ɑ > 0, phi0 = φ(0) and slope0 = φ′(0)
// are supplied by the caller and must be finite with slope0 < 0. When
// mayTerminate is set the trial step came from a quadratic-fit estimator and
// is eligible for immediate acceptance.
//
// On success the returned status has the SearchConv bit set; SearchBoundary
// marks a step accepted at the ɑ𝚖𝚊𝚡 ceiling with the slope still negative.
// On failure the error is a *StepError carrying the tentative step.
type Searcher[T Float] interface {
	Search(obj Objective[T], step, phi0, slope0 T, mayTerminate bool) (alpha T, status Status, err error)
}

// Stepper guesses the first trial step of an outer iteration.
//
// Implementations read and update the caller-owned State: the chosen ɑ is
// stored in state.Alpha and the returned mayTerminate in state.MayTerminate
// before being handed to the Searcher.
type Stepper[T Float] interface {
	InitialStep(state *State[T], phi0, slope0 T, obj Objective[T]) (alpha T, mayTerminate bool)
}

// State is the per-iterate bookkeeping an outer optimizer carries between
// line-search calls. The search core never allocates vectors: X, Dir and the
// scratch buffers are owned by the caller and reused across iterations.
type State[T Float] struct {
	X   []T // current iterate
	Dir []T // search direction, ⟨𝒇′(𝐱), 𝐝⟩ < 0

	XNew []T // preallocated scratch for trial points
	Grad []T // gradient at X, read by norm-based estimators

	// Alpha is the step chosen on the previous outer iteration.
	Alpha T
	// FPrev is the previous objective value. NaN before the first iteration.
	FPrev T
	// SlopePrev is the previous directional slope φ′(0).
	SlopePrev T
	// MayTerminate marks Alpha as a quadratic-fit minimum that is eligible
	// for immediate Wolfe acceptance by the search.
	MayTerminate bool
}

// NewState allocates the scratch buffers for an n-dimensional problem.
// To avoid race conditions, separate states need to be created for each
// goroutine.
func NewState[T Float](x, dir []T) *State[T] {
	if len(x) != len(dir) {
		panic("bound check error")
	}
	return &State[T]{
		X: x, Dir: dir,
		XNew:  make([]T, len(x)),
		Grad:  make([]T, len(x)),
		FPrev: nanOf[T](),
	}
}
