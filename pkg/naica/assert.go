package naica

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/assert"
)

// stepT records testify assertion failures on the current step.
type stepT struct {
	rc *RunContext
}

func (s stepT) Errorf(format string, args ...any) {
	s.rc.AddResult(strings.TrimSpace(fmt.Sprintf(format, args...)))
	s.rc.Fail()
}

// Assert returns testify assertions bound to the current step. A failed
// assertion adds its message as a result, marks the step failed and returns
// false, so step functions can return it directly:
//
//	return rc.Assert().Equal(5, basket.Apples())
func (rc *RunContext) Assert() *assert.Assertions {
	return assert.New(stepT{rc: rc})
}
