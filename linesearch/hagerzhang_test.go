// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestHZQuadratic(t *testing.T) {

	phi := func(s float64) float64 { return (s - 1) * (s - 1) }
	der := func(s float64) float64 { return 2 * (s - 1) }
	obj := Scalar[float64]{Phi: phi, Der: der}

	var hz HagerZhang[float64]
	alpha, status, err := hz.Search(obj, 0.5, phi(0), der(0), false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status&SearchConv == 0:
		t.Fatal("unexpected search status", status)
	case math.Abs(alpha-1) > 1e-6:
		t.Fatal("unexpected step", alpha)
	}

	// Identical inputs must reproduce the identical step.
	again, _, err := hz.Search(obj, 0.5, phi(0), der(0), false)
	if err != nil || again != alpha {
		t.Fatal("search is not deterministic", again, alpha)
	}

}

// The minimizer of a strictly convex quadratic is found in one secant step.
func TestHZQuadraticExact(t *testing.T) {

	a, b := 2.0, -3.0
	phi := func(s float64) float64 { return 0.5*a*s*s + b*s }
	der := func(s float64) float64 { return a*s + b }
	obj := Scalar[float64]{Phi: phi, Der: der}

	var hz HagerZhang[float64]
	alpha, status, err := hz.Search(obj, 1, phi(0), der(0), false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status&SearchConv == 0:
		t.Fatal("unexpected search status", status)
	case ulpDiff(alpha, -b/a) > 2:
		t.Fatal("unexpected step", alpha)
	}

}

func TestHZQuartic(t *testing.T) {

	phi := func(s float64) float64 {
		d := s - 0.1
		return 100*d*d*d*d + d*d
	}
	der := func(s float64) float64 {
		d := s - 0.1
		return 400*d*d*d + 2*d
	}
	obj := &countObj{obj: Scalar[float64]{Phi: phi, Der: der}}

	var hz HagerZhang[float64]
	alpha, status, err := hz.Search(obj, 1, phi(0), der(0), false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status&SearchConv == 0:
		t.Fatal("unexpected search status", status)
	case alpha <= 0.02 || alpha >= 0.2:
		t.Fatal("unexpected step", alpha)
	case obj.n > 10:
		t.Fatal("too many evaluations", obj.n)
	case !hzWolfeHold(alpha, hzDelta, hzSigma, hzEps, phi, der):
		t.Fatal("accepted step violates the acceptance test")
	}

}

func TestHZNonDescent(t *testing.T) {

	phi := func(s float64) float64 {
		if s >= 1 {
			return math.Inf(1)
		}
		return 1 / (1 - s)
	}
	der := func(s float64) float64 {
		if s >= 1 {
			return math.Inf(1)
		}
		return 1 / ((1 - s) * (1 - s))
	}
	obj := Scalar[float64]{Phi: phi, Der: der}

	var hz HagerZhang[float64]
	_, status, err := hz.Search(obj, 0.5, phi(0), der(0), false)

	var stepErr *StepError
	switch {
	case status != SearchErrNonDescent:
		t.Fatal("unexpected search status", status)
	case !errors.As(err, &stepErr):
		t.Fatal("unexpected error type", err)
	case stepErr.Status != SearchErrNonDescent:
		t.Fatal("unexpected error status", stepErr.Status)
	}

}

func TestHZBarrier(t *testing.T) {

	phi := func(s float64) float64 {
		if s >= 1 {
			return math.Inf(1)
		}
		return -1.5*s + 1/(1-s)
	}
	der := func(s float64) float64 {
		if s >= 1 {
			return math.Inf(1)
		}
		return -1.5 + 1/((1-s)*(1-s))
	}
	obj := Scalar[float64]{Phi: phi, Der: der}

	// The first trial lands beyond the barrier and must be rescued.
	var hz HagerZhang[float64]
	alpha, status, err := hz.Search(obj, 2, phi(0), der(0), false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status&SearchConv == 0:
		t.Fatal("unexpected search status", status)
	case !(alpha > 0 && alpha < 0.5):
		t.Fatal("unexpected step", alpha)
	case !isFinite(phi(alpha)):
		t.Fatal("accepted step is outside the domain")
	}

}

// A bracket whose endpoints cannot be told apart by value ends the search
// early instead of burning the iteration limit.
func TestHZFlat(t *testing.T) {

	phi := func(s float64) float64 { return 1.0 }
	der := func(s float64) float64 {
		if s < 1 {
			return -1
		}
		return 1
	}
	obj := Scalar[float64]{Phi: phi, Der: der}

	var hz HagerZhang[float64]
	alpha, status, err := hz.Search(obj, 1, 1, -1, false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status != SearchWarnFlat:
		t.Fatal("unexpected search status", status)
	case !(alpha > 0 && alpha <= 1):
		t.Fatal("unexpected step", alpha)
	}

}

func TestHZBoundary(t *testing.T) {

	phi := func(s float64) float64 { return -s }
	der := func(s float64) float64 { return -1 }
	obj := Scalar[float64]{Phi: phi, Der: der}

	hz := HagerZhang[float64]{AlphaMax: 10, MaxIterations: 100}
	alpha, status, err := hz.Search(obj, 1, 0, -1, false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status&SearchBoundary == 0:
		t.Fatal("unexpected search status", status)
	case alpha > 10:
		t.Fatal("step exceeds the ceiling", alpha)
	}

}

func TestHZNonFinite(t *testing.T) {

	nan := math.NaN()
	obj := Scalar[float64]{
		Phi: func(s float64) float64 { return nan },
		Der: func(s float64) float64 { return nan },
	}

	var hz HagerZhang[float64]

	// Shrinkage never reaches a finite point: stay at the current iterate.
	alpha, status, err := hz.Search(obj, 1, 0, -1, false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status != SearchWarnNonFinite:
		t.Fatal("unexpected search status", status)
	case alpha != 0:
		t.Fatal("unexpected step", alpha)
	}

	// A non-finite origin is fatal.
	_, status, err = hz.Search(obj, 1, nan, -1, false)
	if status != SearchErrNonFinite || err == nil {
		t.Fatal("unexpected search status", status, err)
	}

}

// A quadratic-fit guess that already satisfies the acceptance test is taken
// after a single evaluation.
func TestHZMayTerminate(t *testing.T) {

	phi := func(s float64) float64 { return (s - 1) * (s - 1) }
	der := func(s float64) float64 { return 2 * (s - 1) }
	obj := &countObj{obj: Scalar[float64]{Phi: phi, Der: der}}

	var hz HagerZhang[float64]
	alpha, status, err := hz.Search(obj, 1, phi(0), der(0), true)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status&SearchConv == 0:
		t.Fatal("unexpected search status", status)
	case alpha != 1:
		t.Fatal("unexpected step", alpha)
	case obj.n != 1:
		t.Fatal("unexpected evaluation count", obj.n)
	}

}

// Once bracketed, the bracket width never grows across refinement iterations.
func TestHZBracketMonotone(t *testing.T) {

	phi := func(s float64) float64 { return 2 - math.Sin(10*s) }
	der := func(s float64) float64 { return -10 * math.Cos(10*s) }
	obj := Scalar[float64]{Phi: phi, Der: der}

	var trace bytes.Buffer
	hz := HagerZhang[float64]{Logger: &Logger{Mask: TraceIter, Msg: &trace}}
	_, status, err := hz.Search(obj, 1, phi(0), der(0), false)
	if err != nil || status&SearchConv == 0 {
		t.Fatal("search failed", status, err)
	}

	width := math.Inf(1)
	scan := bufio.NewScanner(&trace)
	for scan.Scan() {
		line := scan.Text()
		if !strings.HasPrefix(line, "iteration") {
			continue
		}
		var iter int
		var a, b float64
		if _, err := fmt.Sscanf(line, "iteration %d: bracket = [%v, %v]", &iter, &a, &b); err != nil {
			t.Fatal("unexpected trace line", line)
		}
		if b-a > width {
			t.Fatal("bracket width grew", b-a, width)
		}
		width = b - a
	}

}

func TestHZScalarFuncs(t *testing.T) {

	for _, fg := range scalarFGs {
		// Lift the objective so φ(0) ≠ 0: with φ(0) = 0 the reference level
		// φ𝚕𝚒𝚖 = φ(0) + ε|φ(0)| collapses onto φ(0) and the flat-region guard
		// may stop the search at the origin.
		raw := fg[0]
		phi := func(s float64) float64 { return raw(s) + 2 }
		der := fg[1]
		obj := Scalar[float64]{Phi: phi, Der: der}

		var hz HagerZhang[float64]
		alpha, status, err := hz.Search(obj, 1, phi(0), der(0), false)
		switch {
		case err != nil:
			t.Fatal("search failed", err)
		case status&SearchConv == 0:
			t.Fatal("unexpected search status", status)
		case !hzWolfeHold(alpha, hzDelta, hzSigma, hzEps, phi, der):
			t.Fatal("accepted step violates the acceptance test", alpha)
		}
	}

}

func TestHZFloat32(t *testing.T) {

	phi := func(s float32) float32 { return (s - 1) * (s - 1) }
	der := func(s float32) float32 { return 2 * (s - 1) }
	obj := Scalar[float32]{Phi: phi, Der: der}

	var hz HagerZhang[float32]
	alpha, status, err := hz.Search(obj, 0.5, phi(0), der(0), false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status&SearchConv == 0:
		t.Fatal("unexpected search status", status)
	case math.Abs(float64(alpha)-1) > 1e-3:
		t.Fatal("unexpected step", alpha)
	}

}
