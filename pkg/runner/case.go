package runner

import (
	"fmt"

	"github.com/denizgursoy/naica/pkg/naica"
)

// CaseRunner drives the ordered operations of one case.
type CaseRunner struct {
	id          string
	operations  []naica.Operation
	failFast    bool
	failFastSet bool
	hooks       []*naica.Hooks
}

// NewCaseRunner creates a runner for the case registered under id. Fail-fast
// is off unless WithFailFast or the suite configuration turns it on.
func NewCaseRunner(id string, operations ...naica.Operation) *CaseRunner {
	return &CaseRunner{
		id:         id,
		operations: operations,
	}
}

func (c *CaseRunner) WithOperations(operations ...naica.Operation) *CaseRunner {
	c.operations = append(c.operations, operations...)

	return c
}

// WithFailFast makes the case stop at its first failed operation. An explicit
// value takes precedence over the suite configuration.
func (c *CaseRunner) WithFailFast(failFast bool) *CaseRunner {
	c.failFast = failFast
	c.failFastSet = true

	return c
}

func (c *CaseRunner) WithHooks(hooks ...*naica.Hooks) *CaseRunner {
	c.hooks = append(c.hooks, hooks...)

	return c
}

func (c *CaseRunner) ID() string {
	return c.id
}

func (c *CaseRunner) Operations() []naica.Operation {
	out := make([]naica.Operation, len(c.operations))
	copy(out, c.operations)
	return out
}

func (c *CaseRunner) FailFast() bool {
	return c.failFast
}

// Run opens the case, executes its operations and stops it. It reports
// whether every executed operation succeeded.
func (c *CaseRunner) Run(rc *naica.RunContext) bool {
	return c.run(rc, naica.NewHookExecutor(c.hooks...), c.failFast)
}

func (c *CaseRunner) run(rc *naica.RunContext, hooks *naica.HookExecutor, failFast bool) bool {
	if c.failFastSet {
		failFast = c.failFast
	}

	tc, ready := c.init(rc, hooks)
	defer c.finish(rc, tc, hooks)

	if !ready {
		return false
	}
	return c.execute(rc, hooks, failFast)
}

// init opens the case. It reports false when a BeforeCase hook panicked, in
// which case no operation runs.
func (c *CaseRunner) init(rc *naica.RunContext, hooks *naica.HookExecutor) (*naica.CaseRecord, bool) {
	tc := rc.NewCase(c.id)
	rc.Logger().Info("Starting case", "case", c.id, "operations", len(c.operations))
	ready := runCaseHook(rc, "before case", func() { hooks.ExecuteBeforeCase(rc, tc) })
	return tc, ready
}

func (c *CaseRunner) execute(rc *naica.RunContext, hooks *naica.HookExecutor, failFast bool) bool {
	passed := true
	for _, op := range c.operations {
		ok := runCaseHook(rc, "before operation", func() { hooks.ExecuteBeforeOperation(rc, op) }) &&
			ExecuteOperation(rc, op)
		if !runCaseHook(rc, "after operation", func() { hooks.ExecuteAfterOperation(rc, op, ok) }) {
			ok = false
		}

		if !ok {
			passed = false
			if failFast {
				rc.Logger().Debug("Stopping case at first failure", "case", c.id)
				break
			}
		}
	}
	return passed
}

func (c *CaseRunner) finish(rc *naica.RunContext, tc *naica.CaseRecord, hooks *naica.HookExecutor) {
	rc.Stop()
	runCaseHook(rc, "after case", func() { hooks.ExecuteAfterCase(rc, tc) })
	rc.Logger().Info("Ending case",
		"case", c.id,
		"outcome", tc.Outcome().String(),
		"steps", len(tc.Steps()),
		"duration", tc.Duration(),
	)
}

// ExecuteOperation runs a single operation. A panic escaping the operation
// is logged, recorded as a result on the current step, marks that step
// failed and is reported as false.
func ExecuteOperation(rc *naica.RunContext, op naica.Operation) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			caseID := ""
			if tc := rc.CurrentCase(); tc != nil {
				caseID = tc.ID()
			}
			rc.Logger().Error("Operation panicked", "case", caseID, "panic", r)
			rc.AddResult(fmt.Sprintf("operation panicked: %v", r))
			rc.Fail()
			ok = false
		}
	}()

	return op.Execute(rc)
}

// runHook calls fn and returns the value of a panic escaping it, after
// logging it.
func runHook(rc *naica.RunContext, hook string, fn func()) (recovered any) {
	defer func() {
		if recovered = recover(); recovered != nil {
			rc.Logger().Error("Hook panicked", "hook", hook, "panic", recovered)
		}
	}()

	fn()
	return nil
}

// runCaseHook is runHook for hooks of an open case. A panic is recorded on
// the current step, which is marked failed, and reported as false.
func runCaseHook(rc *naica.RunContext, hook string, fn func()) bool {
	r := runHook(rc, hook, fn)
	if r == nil {
		return true
	}
	rc.AddResult(fmt.Sprintf("%s hook panicked: %v", hook, r))
	rc.Fail()
	return false
}
