// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

// Static accepts the supplied trial step unchanged, turning the outer loop
// into fixed-step descent. Pair it with InitialStatic for a constant step or
// with any other estimator to take its guess verbatim.
type Static[T Float] struct{}

// Search returns the trial step without evaluating the objective.
func (Static[T]) Search(obj Objective[T], step, phi0, slope0 T, mayTerminate bool) (T, Status, error) {
	switch {
	case !isFinite(phi0) || !isFinite(slope0):
		return 0, SearchErrNonFinite, stepError(SearchErrNonFinite, step)
	case slope0 >= 0:
		return 0, SearchErrNonDescent, descentError(T(0), slope0, nanOf[T]())
	case step <= 0:
		panic("initial step must be positive")
	}
	return step, SearchConv, nil
}
