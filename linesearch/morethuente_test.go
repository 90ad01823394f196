// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"
	"math/rand"
	"testing"
)

func TestMoreThuenteScalarFuncs(t *testing.T) {

	for _, fg := range scalarFGs {
		phi, der := fg[0], fg[1]
		obj := Scalar[float64]{Phi: phi, Der: der}

		for i := 0; i < 3; i++ {
			step := 0.5 + rand.Float64()
			var mt MoreThuente[float64]
			alpha, status, err := mt.Search(obj, step, phi(0), der(0), false)
			switch {
			case err != nil:
				t.Fatal("search failed", err)
			case status != SearchConv:
				t.Fatal("unexpected search status", status)
			case !strongWolfeHold(alpha, mtFTol, mtGTol, phi, der):
				t.Fatal("accepted step violates the strong Wolfe conditions", alpha)
			}
		}
	}

}

func TestMoreThuenteQuadratic(t *testing.T) {

	phi := func(s float64) float64 { return (s - 1) * (s - 1) }
	der := func(s float64) float64 { return 2 * (s - 1) }
	obj := Scalar[float64]{Phi: phi, Der: der}

	// A tight curvature tolerance pins the step near the minimizer.
	mt := MoreThuente[float64]{GTol: 1e-3}
	alpha, status, err := mt.Search(obj, 0.5, phi(0), der(0), false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status != SearchConv:
		t.Fatal("unexpected search status", status)
	case math.Abs(alpha-1) > 1e-6:
		t.Fatal("unexpected step", alpha)
	}

}

// Test cases from Moré & Thuente (1994), table 1: φ(ɑ) = -ɑ/(ɑ²+β).
func TestMoreThuenteTable(t *testing.T) {

	const beta = 2.0
	phi := func(s float64) float64 { return -s / (s*s + beta) }
	der := func(s float64) float64 { return (s*s - beta) / ((s*s + beta) * (s*s + beta)) }
	obj := Scalar[float64]{Phi: phi, Der: der}

	mt := MoreThuente[float64]{FTol: 1e-3, GTol: 1e-1}
	for _, step := range []float64{1e-3, 1e-1, 1e1, 1e3} {
		alpha, status, err := mt.Search(obj, step, phi(0), der(0), false)
		switch {
		case err != nil:
			t.Fatal("search failed", err)
		case status != SearchConv:
			t.Fatal("unexpected search status", status)
		case !strongWolfeHold(alpha, 1e-3, 1e-1, phi, der):
			t.Fatal("accepted step violates the strong Wolfe conditions", alpha)
		}
	}

}

func TestMoreThuenteBounds(t *testing.T) {

	// A linear decrease can never satisfy the curvature condition:
	// the search must stop at the ceiling instead of diverging.
	phi := func(s float64) float64 { return -s }
	der := func(s float64) float64 { return -1 }
	obj := Scalar[float64]{Phi: phi, Der: der}

	mt := MoreThuente[float64]{StepMax: 16}
	alpha, status, err := mt.Search(obj, 1, 0, -1, false)
	switch {
	case err != nil:
		t.Fatal("search failed", err)
	case status != SearchWarnReachMax:
		t.Fatal("unexpected search status", status)
	case alpha != 16:
		t.Fatal("unexpected step", alpha)
	}

}

func TestMoreThuenteInvalid(t *testing.T) {

	obj := Scalar[float64]{
		Phi: func(s float64) float64 { return s },
		Der: func(s float64) float64 { return 1 },
	}

	var mt MoreThuente[float64]
	_, status, err := mt.Search(obj, 1, 0, 1, false)
	if status != SearchErrNonDescent || err == nil {
		t.Fatal("unexpected search status", status, err)
	}

	_, status, err = mt.Search(obj, 1, math.Inf(1), -1, false)
	if status != SearchErrNonFinite || err == nil {
		t.Fatal("unexpected search status", status, err)
	}

}
