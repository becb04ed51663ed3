package naica

import "time"

// CaseRecord is an ordered sequence of steps for one logical test case.
// Steps are append-only; the most recently added step is the implicit
// target of AddAction, AddResult, AddAttachment and Fail.
type CaseRecord struct {
	id         string
	steps      []*StepRecord
	startTime  time.Time
	finishTime time.Time
	now        func() time.Time
}

// NewCaseRecord creates an open case whose start time is now.
func NewCaseRecord(id string) *CaseRecord {
	return newCaseRecord(id, time.Now)
}

func newCaseRecord(id string, now func() time.Time) *CaseRecord {
	return &CaseRecord{
		id:        id,
		startTime: now(),
		now:       now,
	}
}

// ID returns the caller supplied case identifier.
func (c *CaseRecord) ID() string {
	return c.id
}

// Steps returns the steps in the order they were added.
func (c *CaseRecord) Steps() []*StepRecord {
	out := make([]*StepRecord, len(c.steps))
	copy(out, c.steps)
	return out
}

// CurrentStep returns the most recently added step, or nil before the first
// one exists.
func (c *CaseRecord) CurrentStep() *StepRecord {
	if len(c.steps) == 0 {
		return nil
	}
	return c.steps[len(c.steps)-1]
}

// CurrentStepNumber returns the 1-based position of the current step, or 0
// when there are no steps.
func (c *CaseRecord) CurrentStepNumber() int {
	return len(c.steps)
}

// AddStep appends a new empty step and makes it current.
func (c *CaseRecord) AddStep() *StepRecord {
	step := NewStepRecord()
	c.steps = append(c.steps, step)
	return step
}

// AddAction records an action on the current step, creating one if needed.
func (c *CaseRecord) AddAction(description string) {
	c.stepOrNew().AddAction(description)
}

// AddResult records a result on the current step, creating one if needed.
func (c *CaseRecord) AddResult(description string) {
	c.stepOrNew().AddResult(description)
}

// AddAttachment stores an attachment on the current step, creating one if
// needed.
func (c *CaseRecord) AddAttachment(attachment Attachment) {
	c.stepOrNew().AddAttachment(attachment)
}

// Fail marks the current step failed, creating one if needed.
func (c *CaseRecord) Fail() {
	c.stepOrNew().Fail()
}

func (c *CaseRecord) stepOrNew() *StepRecord {
	if step := c.CurrentStep(); step != nil {
		return step
	}
	return c.AddStep()
}

// Stop records the finish time as now. An explicit Stop always overwrites a
// previous finish time.
func (c *CaseRecord) Stop() {
	c.finishTime = c.now()
}

// Finished reports whether the case has a finish time.
func (c *CaseRecord) Finished() bool {
	return !c.finishTime.IsZero()
}

// StartTime returns when the case was first opened.
func (c *CaseRecord) StartTime() time.Time {
	return c.startTime
}

// FinishTime returns when the case was stopped. The zero time means the case
// is still open.
func (c *CaseRecord) FinishTime() time.Time {
	return c.finishTime
}

// Duration is finish minus start, or now minus start while the case is open.
func (c *CaseRecord) Duration() time.Duration {
	if !c.Finished() {
		return c.now().Sub(c.startTime)
	}
	return c.finishTime.Sub(c.startTime)
}

// Failed reports whether any step failed.
func (c *CaseRecord) Failed() bool {
	return c.Outcome() == Failure
}

// Outcome combines the outcomes of all steps. A case without steps is a
// Success.
func (c *CaseRecord) Outcome() Outcome {
	outcomes := make([]Outcome, len(c.steps))
	for i, step := range c.steps {
		outcomes[i] = step.Outcome()
	}
	return Combine(outcomes...)
}
