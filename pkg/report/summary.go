// Package report provides exporters that turn a finished run into output a
// human can read: a console summary and a static HTML site.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/denizgursoy/naica/pkg/naica"
)

// Symbols for outcomes
const (
	symbolSuccess     = "✓"
	symbolConditional = "~"
	symbolFailure     = "✗"
)

// Summary counts cases and steps per outcome.
type Summary struct {
	CasesTotal       int
	CasesPassed      int
	CasesConditional int
	CasesFailed      int
	StepsTotal       int
	StepsPassed      int
	StepsConditional int
	StepsFailed      int
	Duration         time.Duration
}

// Summarize counts the cases and steps of a run.
func Summarize(rc *naica.RunContext) Summary {
	var s Summary
	for _, tc := range rc.Cases() {
		s.CasesTotal++
		s.Duration += tc.Duration()
		count(tc.Outcome(), &s.CasesPassed, &s.CasesConditional, &s.CasesFailed)

		for _, step := range tc.Steps() {
			s.StepsTotal++
			count(step.Outcome(), &s.StepsPassed, &s.StepsConditional, &s.StepsFailed)
		}
	}
	return s
}

func count(o naica.Outcome, passed, conditional, failed *int) {
	switch o {
	case naica.Failure:
		*failed++
	case naica.ConditionalSuccess:
		*conditional++
	default:
		*passed++
	}
}

func symbol(o naica.Outcome) string {
	switch o {
	case naica.Failure:
		return symbolFailure
	case naica.ConditionalSuccess:
		return symbolConditional
	default:
		return symbolSuccess
	}
}

// stepTitle names a step by its actions, or by its position when it has none.
func stepTitle(number int, step *naica.StepRecord) string {
	if actions := step.Actions(); len(actions) > 0 {
		return strings.Join(actions, "; ")
	}
	return fmt.Sprintf("step %d", number)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d)/float64(time.Microsecond))
	}
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
