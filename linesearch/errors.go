// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"fmt"
)

// Status reports the outcome of a search as a bitfield:
// one of the class bits below, possibly refined by a subcode.
type Status int

const (
	SearchNone Status = 0
	// SearchConv the returned step satisfies the acceptance test.
	SearchConv Status = 1 << (4 + iota)
	// SearchWarn the search stopped early but the returned step is safe to take.
	SearchWarn
	// SearchError the search failed, see the returned error.
	SearchError
	// SearchBoundary the step hit the ceiling ɑ𝚖𝚊𝚡 while the slope was still
	// negative. The feasible region ends here: the step was accepted without
	// verifying any Wolfe condition and the caller decides whether to treat
	// it as convergence or as an obstacle.
	SearchBoundary
)

const (
	// SearchErrNonDescent φ′(0) ≥ 0, or a bracket endpoint lost its descent slope.
	SearchErrNonDescent Status = SearchError | (1 + iota)
	// SearchErrNonFinite φ(0) or φ′(0) is NaN or infinite.
	SearchErrNonFinite
	// SearchErrMaxIter the iteration limit elapsed without acceptance.
	SearchErrMaxIter
	// SearchWarnNonFinite shrinkage never reached a finite evaluation point.
	SearchWarnNonFinite Status = SearchWarn | (1 + iota)
	// SearchWarnRoundErr floating-point resolution on the bracket is exhausted.
	SearchWarnRoundErr
	// SearchWarnFlat the function is flat on the bracket.
	SearchWarnFlat
	// SearchWarnReachMax the step was clipped at the upper bound.
	SearchWarnReachMax
	// SearchWarnReachMin the step was clipped at the lower bound.
	SearchWarnReachMin
)

// StepError signals a failed search. It carries the tentative step so the
// caller can still advance by a (possibly suboptimal) ɑ if it chooses, and
// the endpoint slopes when the failure is a violated descent invariant.
type StepError struct {
	Status Status
	Alpha  float64
	SlopeA float64
	SlopeB float64
}

func (e *StepError) Error() string {
	switch e.Status {
	case SearchErrNonDescent:
		return fmt.Sprintf("search direction is not a direction of descent (dphi_a = %v, dphi_b = %v); "+
			"this may indicate inaccurate user-provided derivatives", e.SlopeA, e.SlopeB)
	case SearchErrNonFinite:
		return "initial value and slope must be finite"
	case SearchErrMaxIter:
		return fmt.Sprintf("line search failed to converge, reached maximum iterations (alpha = %v)", e.Alpha)
	}
	return fmt.Sprintf("line search failed with status %#x (alpha = %v)", int(e.Status), e.Alpha)
}

func stepError[T Float](status Status, alpha T) *StepError {
	return &StepError{Status: status, Alpha: float64(alpha)}
}

func descentError[T Float](alpha, slopeA, slopeB T) *StepError {
	return &StepError{
		Status: SearchErrNonDescent,
		Alpha:  float64(alpha),
		SlopeA: float64(slopeA),
		SlopeB: float64(slopeB),
	}
}
