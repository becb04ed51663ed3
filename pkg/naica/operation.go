package naica

import "fmt"

// SequenceConfig configures a Sequence operation.
type SequenceConfig struct {
	// Actions run in order; the first failing action stops the sequence.
	Actions []Action

	// Conditions are evaluated in order after all actions succeeded; the
	// first failing condition stops evaluation.
	Conditions []Condition

	// NewStep opens a fresh step before anything is recorded.
	NewStep bool

	// Description is recorded as action text before running.
	Description []string

	// OnSuccess is recorded as result text when everything passed.
	OnSuccess []string

	// OnFailure is recorded as result text when an action or condition failed.
	OnFailure []string

	// AfterAction is called after each individual action with its result.
	AfterAction func(rc *RunContext, action Action, succeeded bool)

	// RecordResult replaces the default recording of the outcome. When set,
	// the step is neither failed nor given the OnSuccess or OnFailure texts
	// by the sequence itself.
	RecordResult func(rc *RunContext, succeeded bool)

	// AfterResult is called after the success or failure results were
	// recorded.
	AfterResult func(rc *RunContext, succeeded bool)
}

// Sequence runs a list of actions, then a list of conditions, and records
// the outcome into the current step.
type Sequence struct {
	actions     []Action
	conditions  []Condition
	newStep     bool
	description []string
	onSuccess   []string
	onFailure   []string
	afterAction func(rc *RunContext, action Action, succeeded bool)
	record      func(rc *RunContext, succeeded bool)
	afterResult func(rc *RunContext, succeeded bool)
}

// NewSequence builds a Sequence. Result texts keep their first occurrence
// only.
func NewSequence(cfg SequenceConfig) (*Sequence, error) {
	for i, a := range cfg.Actions {
		if a == nil {
			return nil, fmt.Errorf("action %d: %w", i, ErrNilAction)
		}
	}
	for i, c := range cfg.Conditions {
		if c == nil {
			return nil, fmt.Errorf("condition %d: %w", i, ErrNilCondition)
		}
	}

	return &Sequence{
		actions:     append([]Action(nil), cfg.Actions...),
		conditions:  append([]Condition(nil), cfg.Conditions...),
		newStep:     cfg.NewStep,
		description: append([]string(nil), cfg.Description...),
		onSuccess:   newTextSet(cfg.OnSuccess...).values(),
		onFailure:   newTextSet(cfg.OnFailure...).values(),
		afterAction: cfg.AfterAction,
		record:      cfg.RecordResult,
		afterResult: cfg.AfterResult,
	}, nil
}

// MustSequence is like NewSequence but panics on a configuration error.
func MustSequence(cfg SequenceConfig) *Sequence {
	s, err := NewSequence(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Do is shorthand for a Sequence with one action and some conditions.
func Do(action Action, conditions ...Condition) *Sequence {
	return MustSequence(SequenceConfig{
		Actions:    []Action{action},
		Conditions: conditions,
	})
}

// Execute implements Operation.
func (s *Sequence) Execute(rc *RunContext) bool {
	if s.newStep {
		rc.AddStep()
	}
	for _, text := range s.description {
		rc.AddAction(text)
	}

	success := s.performActions(rc)
	if success {
		success = s.evaluateConditions(rc)
	}

	if s.record != nil {
		s.record(rc, success)
	} else {
		s.recordResult(rc, success)
	}
	if s.afterResult != nil {
		s.afterResult(rc, success)
	}

	return success
}

func (s *Sequence) recordResult(rc *RunContext, success bool) {
	if success {
		for _, text := range s.onSuccess {
			rc.AddResult(text)
		}
		return
	}
	rc.Fail()
	for _, text := range s.onFailure {
		rc.AddResult(text)
	}
}

func (s *Sequence) performActions(rc *RunContext) bool {
	for _, action := range s.actions {
		ok := action.Perform(rc)
		if s.afterAction != nil {
			s.afterAction(rc, action, ok)
		}
		if !ok {
			return false
		}
	}
	return true
}

func (s *Sequence) evaluateConditions(rc *RunContext) bool {
	for _, condition := range s.conditions {
		if !condition.Evaluate(rc) {
			return false
		}
	}
	return true
}

// ConditionalConfig configures a Conditional operation.
type ConditionalConfig struct {
	// Condition is evaluated once and selects the branch.
	Condition Condition

	// OnTrue runs when the condition holds.
	OnTrue []Operation

	// OnFalse runs when the condition does not hold.
	OnFalse []Operation

	// ContinueOnFailure runs every operation of the chosen branch even after
	// one failed. By default the branch stops at the first failure.
	ContinueOnFailure bool
}

// Conditional branches on a Condition.
type Conditional struct {
	condition Condition
	onTrue    []Operation
	onFalse   []Operation
	failFast  bool
}

// NewConditional builds a Conditional.
func NewConditional(cfg ConditionalConfig) (*Conditional, error) {
	if cfg.Condition == nil {
		return nil, ErrNilCondition
	}
	if err := checkOperations("on true", cfg.OnTrue); err != nil {
		return nil, err
	}
	if err := checkOperations("on false", cfg.OnFalse); err != nil {
		return nil, err
	}

	return &Conditional{
		condition: cfg.Condition,
		onTrue:    append([]Operation(nil), cfg.OnTrue...),
		onFalse:   append([]Operation(nil), cfg.OnFalse...),
		failFast:  !cfg.ContinueOnFailure,
	}, nil
}

// MustConditional is like NewConditional but panics on a configuration error.
func MustConditional(cfg ConditionalConfig) *Conditional {
	c, err := NewConditional(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// If is shorthand for a fail-fast Conditional with only a true branch.
func If(condition Condition, onTrue ...Operation) *Conditional {
	return MustConditional(ConditionalConfig{Condition: condition, OnTrue: onTrue})
}

func checkOperations(branch string, ops []Operation) error {
	for i, op := range ops {
		if op == nil {
			return fmt.Errorf("%s operation %d: %w", branch, i, ErrNilOperation)
		}
	}
	return nil
}

// FailFast reports whether a branch stops at its first failing operation.
func (c *Conditional) FailFast() bool {
	return c.failFast
}

// Execute implements Operation. It returns the condition's result, not the
// result of the branch that ran.
func (c *Conditional) Execute(rc *RunContext) bool {
	result := c.condition.Evaluate(rc)
	if result {
		c.runBranch(rc, c.onTrue)
	} else {
		c.runBranch(rc, c.onFalse)
	}
	return result
}

func (c *Conditional) runBranch(rc *RunContext, ops []Operation) {
	for _, op := range ops {
		if !op.Execute(rc) && c.failFast {
			return
		}
	}
}

type noOp struct{}

func (noOp) Execute(*RunContext) bool {
	return true
}

var noOpInstance Operation = noOp{}

// NoOp returns the operation that does nothing and always succeeds. Use it
// where an Operation is required but nothing should happen.
func NoOp() Operation {
	return noOpInstance
}

// HumanStepConfig configures a HumanStep operation.
type HumanStepConfig struct {
	// Actions describe what the person has to do.
	Actions []string

	// ExpectedResults describe what the person should observe.
	ExpectedResults []string

	// ReuseStep records into the current step instead of opening a new one.
	ReuseStep bool
}

// HumanStep records a step that must be carried out manually. The step is
// flagged executed-by-human, which makes its outcome ConditionalSuccess.
type HumanStep struct {
	actions         []string
	expectedResults []string
	reuseStep       bool
}

// NewHumanStep builds a HumanStep.
func NewHumanStep(cfg HumanStepConfig) *HumanStep {
	return &HumanStep{
		actions:         append([]string(nil), cfg.Actions...),
		expectedResults: append([]string(nil), cfg.ExpectedResults...),
		reuseStep:       cfg.ReuseStep,
	}
}

// Execute implements Operation. It always succeeds.
func (h *HumanStep) Execute(rc *RunContext) bool {
	if rc.CurrentCase() == nil {
		return true
	}
	if !h.reuseStep {
		rc.AddStep()
	}
	rc.MarkExecutedByHuman()
	for _, text := range h.actions {
		rc.AddAction(text)
	}
	for _, text := range h.expectedResults {
		rc.AddResult(text)
	}
	return true
}

// Chain is a Condition that holds when all of its conditions hold. It stops
// at the first one that does not. An empty Chain holds.
type Chain []Condition

// Evaluate implements Condition.
func (c Chain) Evaluate(rc *RunContext) bool {
	for _, condition := range c {
		if !condition.Evaluate(rc) {
			return false
		}
	}
	return true
}
