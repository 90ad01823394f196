// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"github.com/curioloop/linesearch/numdiff"
)

// Evaluation is a function type for evaluating the objective function and
// gradient: the result 𝒇(𝐱) is returned and 𝒇′(𝐱) is stored into g.
type Evaluation[T Float] func(x []T, g []T) (f T)

// Objective is the univariate restriction φ(ɑ) = 𝒇(𝐱 + ɑ𝐝) of an outer
// objective along a fixed ray. Nothing is cached: each Ray call performs
// exactly one evaluation of the underlying objective, while Func evaluates φ
// twice for every finite-difference slope.
type Objective[T Float] interface {
	// Value evaluates φ(ɑ).
	Value(alpha T) T
	// Slope evaluates φ′(ɑ) = ⟨𝒇′(𝐱 + ɑ𝐝), 𝐝⟩.
	Slope(alpha T) T
	// ValueSlope evaluates φ(ɑ) and φ′(ɑ) with a single fused evaluation.
	ValueSlope(alpha T) (T, T)
}

// Ray adapts an outer vector objective as a scalar φ(ɑ) along 𝐱 + ɑ𝐝.
//
// XNew is a shared mutable buffer: every call overwrites the trial point, so
// repeated calls invalidate prior contents. X and Dir are never mutated.
type Ray[T Float] struct {
	Eval Evaluation[T]
	X    []T // current iterate
	Dir  []T // search direction
	XNew []T // trial point 𝐱 + ɑ𝐝, overwritten on every evaluation
	GNew []T // gradient at the trial point, overwritten on every evaluation
}

// NewRay builds the adapter for an outer objective at (x, dir),
// allocating the trial buffers.
func NewRay[T Float](eval Evaluation[T], x, dir []T) *Ray[T] {
	if len(x) != len(dir) {
		panic("bound check error")
	}
	return &Ray[T]{
		Eval: eval,
		X:    x, Dir: dir,
		XNew: make([]T, len(x)),
		GNew: make([]T, len(x)),
	}
}

// At binds the adapter to the caller-owned state buffers so that the trial
// point lands in state.XNew, the convention outer optimizers rely on to
// advance 𝐱 without recomputing the accepted point.
func At[T Float](eval Evaluation[T], state *State[T]) *Ray[T] {
	return &Ray[T]{
		Eval: eval,
		X:    state.X, Dir: state.Dir,
		XNew: state.XNew,
		GNew: state.Grad,
	}
}

func (r *Ray[T]) Value(alpha T) T {
	rayTo(r.XNew, r.X, r.Dir, alpha)
	return r.Eval(r.XNew, r.GNew)
}

func (r *Ray[T]) Slope(alpha T) T {
	rayTo(r.XNew, r.X, r.Dir, alpha)
	r.Eval(r.XNew, r.GNew)
	return dot(r.GNew, r.Dir)
}

func (r *Ray[T]) ValueSlope(alpha T) (T, T) {
	rayTo(r.XNew, r.X, r.Dir, alpha)
	f := r.Eval(r.XNew, r.GNew)
	return f, dot(r.GNew, r.Dir)
}

// Scalar packs explicit φ and φ′ callbacks into an Objective, for callers
// who already work in the univariate domain.
type Scalar[T Float] struct {
	Phi func(T) T
	Der func(T) T
}

func (s Scalar[T]) Value(alpha T) T { return s.Phi(alpha) }

func (s Scalar[T]) Slope(alpha T) T { return s.Der(alpha) }

func (s Scalar[T]) ValueSlope(alpha T) (T, T) { return s.Phi(alpha), s.Der(alpha) }

// Func adapts a plain scalar function without an analytic derivative:
// the slope is estimated by finite differences.
type Func[T Float] struct {
	Phi  func(T) T
	diff numdiff.Approx[T]
}

// NewFunc wraps φ with a finite-difference slope of the given method.
func NewFunc[T Float](phi func(T) T, m numdiff.Method) *Func[T] {
	f := &Func[T]{Phi: phi}
	f.diff = numdiff.Approx[T]{Object: phi, Method: m}
	if err := f.diff.Check(); err != nil {
		panic(err)
	}
	return f
}

func (f *Func[T]) Value(alpha T) T { return f.Phi(alpha) }

func (f *Func[T]) Slope(alpha T) T { return f.diff.Slope(alpha) }

func (f *Func[T]) ValueSlope(alpha T) (T, T) { return f.Phi(alpha), f.diff.Slope(alpha) }
