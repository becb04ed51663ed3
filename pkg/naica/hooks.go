package naica

import "sort"

// Hooks holds lifecycle hooks for a run.
// All registered hooks are executed, sorted by Order.
type Hooks struct {
	// Order determines execution order (lower = runs first).
	// Default is 0. Hooks with same Order run in registration order.
	Order int

	// BeforeAll runs once before the first case.
	BeforeAll func(rc *RunContext)

	// AfterAll runs once after the last case, before exporters.
	AfterAll func(rc *RunContext)

	// BeforeCase runs after a case was opened and before its first operation.
	BeforeCase func(rc *RunContext, tc *CaseRecord)

	// AfterCase runs after a case was stopped.
	AfterCase func(rc *RunContext, tc *CaseRecord)

	// BeforeOperation runs before each top-level operation of a case.
	BeforeOperation func(rc *RunContext, op Operation)

	// AfterOperation runs after each top-level operation with its result.
	AfterOperation func(rc *RunContext, op Operation, succeeded bool)
}

// SortHooks sorts hooks by Order (ascending).
// Hooks with the same Order maintain their relative order (stable sort).
func SortHooks(hooks []*Hooks) []*Hooks {
	sorted := make([]*Hooks, len(hooks))
	copy(sorted, hooks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	return sorted
}

// HookExecutor manages execution of multiple hooks.
type HookExecutor struct {
	hooks []*Hooks // sorted by Order
}

// NewHookExecutor creates a new HookExecutor with sorted hooks.
func NewHookExecutor(hooks ...*Hooks) *HookExecutor {
	validHooks := make([]*Hooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			validHooks = append(validHooks, h)
		}
	}

	return &HookExecutor{
		hooks: SortHooks(validHooks),
	}
}

// Len returns the number of registered hooks.
func (e *HookExecutor) Len() int {
	return len(e.hooks)
}

func (e *HookExecutor) ExecuteBeforeAll(rc *RunContext) {
	for _, h := range e.hooks {
		if h.BeforeAll != nil {
			h.BeforeAll(rc)
		}
	}
}

func (e *HookExecutor) ExecuteAfterAll(rc *RunContext) {
	for _, h := range e.hooks {
		if h.AfterAll != nil {
			h.AfterAll(rc)
		}
	}
}

func (e *HookExecutor) ExecuteBeforeCase(rc *RunContext, tc *CaseRecord) {
	for _, h := range e.hooks {
		if h.BeforeCase != nil {
			h.BeforeCase(rc, tc)
		}
	}
}

func (e *HookExecutor) ExecuteAfterCase(rc *RunContext, tc *CaseRecord) {
	for _, h := range e.hooks {
		if h.AfterCase != nil {
			h.AfterCase(rc, tc)
		}
	}
}

func (e *HookExecutor) ExecuteBeforeOperation(rc *RunContext, op Operation) {
	for _, h := range e.hooks {
		if h.BeforeOperation != nil {
			h.BeforeOperation(rc, op)
		}
	}
}

func (e *HookExecutor) ExecuteAfterOperation(rc *RunContext, op Operation, succeeded bool) {
	for _, h := range e.hooks {
		if h.AfterOperation != nil {
			h.AfterOperation(rc, op, succeeded)
		}
	}
}
