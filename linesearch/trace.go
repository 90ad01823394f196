// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"fmt"
	"io"
)

// TraceLevel is a bitmask selecting which stages of a search emit diagnostics.
type TraceLevel uint32

const (
	// TraceFinal report the accepted step.
	TraceFinal TraceLevel = 1 << iota
	// TraceIter report every refinement iteration.
	TraceIter
	// TraceParameters report the effective search configuration.
	TraceParameters
	// TraceGradient report slope values at trial points; nothing in this
	// package emits at this level.
	TraceGradient
	// TraceSearchDir report ray information; nothing in this package emits
	// at this level.
	TraceSearchDir
	// TraceAlpha report the step guessed by the initial-step estimators.
	TraceAlpha
	// TraceBeta report curvature quantities; nothing in this package emits
	// at this level.
	TraceBeta
	// TraceBracket report bracket construction.
	TraceBracket
	// TraceLinesearch report expansion and rescue decisions.
	TraceLinesearch
	// TraceUpdate report bracket endpoint replacement.
	TraceUpdate
	// TraceSecant2 report the double secant refinement.
	TraceSecant2
	// TraceBisect report the safeguarded bisection.
	TraceBisect
	// TraceBarrierCoef report barrier shrinkage during finite-value rescue.
	TraceBarrierCoef

	// TraceAll enables every stage.
	TraceAll TraceLevel = 1<<13 - 1
)

// Logger handles diagnostic output for a search.
// A nil Logger, or one without a writer, is silent.
// Note the writer must be thread-safe when searches share it.
type Logger struct {
	Mask TraceLevel
	Msg  io.Writer
}

func (l *Logger) enable(lv TraceLevel) bool {
	return l != nil && l.Msg != nil && l.Mask&lv > 0
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}
