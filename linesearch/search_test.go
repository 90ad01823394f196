// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"
	"testing"
)

// scalarFGs are classic scalar objectives with analytic slopes.
var scalarFGs = [][2]func(float64) float64{
	{
		func(s float64) float64 { return -s - math.Pow(s, 3) + math.Pow(s, 4) },
		func(s float64) float64 { return -1 - 3*math.Pow(s, 2) + 4*math.Pow(s, 3) },
	},
	{
		func(s float64) float64 { return math.Exp(-4*s) + math.Pow(s, 2) },
		func(s float64) float64 { return -4*math.Exp(-4*s) + 2*s },
	},
	{
		func(s float64) float64 { return -math.Sin(10 * s) },
		func(s float64) float64 { return -10 * math.Cos(10*s) },
	},
}

func strongWolfeHold(s, c1, c2 float64, phi, der func(float64) float64) bool {
	phi0, der0 := phi(0), der(0)
	if phi(s) > phi0+c1*s*der0 {
		return false
	}
	return math.Abs(der(s)) <= math.Abs(c2*der0)
}

func armijoHold(s, c1 float64, phi, der func(float64) float64) bool {
	return phi(s) <= phi(0)+c1*s*der(0)
}

// hzWolfeHold mirrors the two acceptance forms of the Hager-Zhang search.
func hzWolfeHold(s, delta, sigma, eps float64, phi, der func(float64) float64) bool {
	phi0, der0 := phi(0), der(0)
	phiLim := phi0 + eps*math.Abs(phi0)
	phiS, derS := phi(s), der(s)
	if delta*der0 >= (phiS-phi0)/s && derS >= sigma*der0 {
		return true
	}
	return (2*delta-1)*der0 >= derS && derS >= sigma*der0 && phiS <= phiLim
}

// countObj wraps an Objective and counts objective evaluations.
type countObj struct {
	obj Objective[float64]
	n   int
}

func (c *countObj) Value(alpha float64) float64 { c.n++; return c.obj.Value(alpha) }

func (c *countObj) Slope(alpha float64) float64 { c.n++; return c.obj.Slope(alpha) }

func (c *countObj) ValueSlope(alpha float64) (float64, float64) {
	c.n++
	return c.obj.ValueSlope(alpha)
}

func TestStateBuffers(t *testing.T) {

	x := []float64{1, 2}
	dir := []float64{-1, 0}
	state := NewState(x, dir)

	switch {
	case len(state.XNew) != 2 || len(state.Grad) != 2:
		t.Fatal("unexpected scratch size")
	case !math.IsNaN(state.FPrev):
		t.Fatal("unexpected previous value")
	case state.Alpha != 0 || state.MayTerminate:
		t.Fatal("unexpected initial step state")
	}

}

func ulpDiff(a, b float64) int64 {
	if a == b {
		return 0
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.MaxInt64
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		if a == b {
			return 0
		}
		return math.MaxInt64
	}
	aInt := math.Float64bits(a)
	bInt := math.Float64bits(b)
	if aInt>>63 != bInt>>63 {
		return math.MaxInt64
	}
	diff := int64(aInt) - int64(bInt)
	if diff < 0 {
		return -diff
	}
	return diff
}
