package naica

import "github.com/google/uuid"

// StepRecord is the smallest recorded unit of a case: what was attempted,
// what was observed, captured attachments and whether it failed.
type StepRecord struct {
	id              string
	actions         *textSet
	results         *textSet
	attachments     []Attachment
	failed          bool
	executedByHuman bool
}

// NewStepRecord creates an empty step with a fresh random identifier.
func NewStepRecord() *StepRecord {
	return &StepRecord{
		id:      uuid.NewString(),
		actions: newTextSet(),
		results: newTextSet(),
	}
}

// ID returns the step's opaque identifier.
func (s *StepRecord) ID() string {
	return s.id
}

// AddAction records a description of something attempted. Duplicates collapse.
func (s *StepRecord) AddAction(description string) {
	s.actions.add(description)
}

// AddResult records a description of something observed. Duplicates collapse.
func (s *StepRecord) AddResult(description string) {
	s.results.add(description)
}

// AddAttachment appends an attachment in capture order.
func (s *StepRecord) AddAttachment(attachment Attachment) {
	s.attachments = append(s.attachments, attachment)
}

// Actions returns the action descriptions in insertion order.
func (s *StepRecord) Actions() []string {
	return s.actions.values()
}

// Results returns the result descriptions in insertion order.
func (s *StepRecord) Results() []string {
	return s.results.values()
}

// HasResult reports whether the given result text was recorded.
func (s *StepRecord) HasResult(description string) bool {
	return s.results.contains(description)
}

// Attachments returns a copy of the attachments in capture order.
func (s *StepRecord) Attachments() []Attachment {
	out := make([]Attachment, len(s.attachments))
	copy(out, s.attachments)
	return out
}

// Fail marks the step failed. There is no way back.
func (s *StepRecord) Fail() {
	s.failed = true
}

// Failed reports whether the step was marked failed.
func (s *StepRecord) Failed() bool {
	return s.failed
}

// SetExecutedByHuman flags the step as performed manually rather than
// automated.
func (s *StepRecord) SetExecutedByHuman(executedByHuman bool) {
	s.executedByHuman = executedByHuman
}

// ExecutedByHuman reports whether the step was performed manually.
func (s *StepRecord) ExecutedByHuman() bool {
	return s.executedByHuman
}

// Outcome derives the step verdict. Failure dominates the human flag.
func (s *StepRecord) Outcome() Outcome {
	switch {
	case s.failed:
		return Failure
	case s.executedByHuman:
		return ConditionalSuccess
	default:
		return Success
	}
}
