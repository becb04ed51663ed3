// Package naica provides the structured test-execution engine: the run
// context that records cases and steps, the outcome algebra, and the
// composable operations that drive pluggable actions and conditions.
package naica

import (
	"context"
	"fmt"
	"io"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Logger is the interface for structured logging.
// Compatible with *slog.Logger and other structured loggers.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Data provides run-scoped state shared between actions and conditions.
type Data struct {
	values map[string]any
}

// Set stores a value.
func (d *Data) Set(key string, value any) {
	d.values[key] = value
}

// Get retrieves a value and whether the key was found.
func (d *Data) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// MustGet retrieves a value or panics if not found.
func (d *Data) MustGet(key string) any {
	v, ok := d.values[key]
	if !ok {
		panic(fmt.Sprintf("key %q not found in run data", key))
	}
	return v
}

// Values returns a shallow copy of all stored values.
func (d *Data) Values() map[string]any {
	out := make(map[string]any, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// RunContext is the mutable per-run state holder. It owns every CaseRecord
// of the run and remembers which case currently accepts implicit mutations.
//
// A RunContext is created by the top-level runner and passed explicitly to
// every Operation, Action and Condition. It is not safe for concurrent use;
// independent runs should each own their own RunContext.
type RunContext struct {
	ctx        context.Context
	logger     Logger
	properties Properties
	driver     any
	data       *Data
	now        func() time.Time

	cases      *orderedmap.OrderedMap[string, *CaseRecord]
	current    string
	hasCurrent bool
}

// New creates a RunContext with the given options.
func New(opts ...Option) *RunContext {
	rc := &RunContext{
		ctx:   context.Background(),
		data:  &Data{values: make(map[string]any)},
		now:   time.Now,
		cases: orderedmap.New[string, *CaseRecord](),
	}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.logger == nil {
		rc.logger = &noopLogger{}
	}
	if rc.properties == nil {
		rc.properties = StaticProperties{}
	}
	return rc
}

// Context returns the underlying context.Context.
func (rc *RunContext) Context() context.Context {
	return rc.ctx
}

// Logger returns the logger instance.
func (rc *RunContext) Logger() Logger {
	return rc.logger
}

// Properties returns the storage locations used by attachments and reports.
func (rc *RunContext) Properties() Properties {
	return rc.properties
}

// Driver returns the automation handle attached with WithDriver, or nil.
func (rc *RunContext) Driver() any {
	return rc.driver
}

// Data returns the run-scoped data store.
func (rc *RunContext) Data() *Data {
	return rc.data
}

// NewCase stops the current case, then returns the case registered under id
// (creating it on first use) and makes it current. Re-selecting an existing
// case keeps its original start time and does not clear its finish time.
func (rc *RunContext) NewCase(id string) *CaseRecord {
	rc.Stop()

	tc, ok := rc.cases.Get(id)
	if !ok {
		tc = newCaseRecord(id, rc.now)
		rc.cases.Set(id, tc)
	}
	rc.current = id
	rc.hasCurrent = true
	return tc
}

// Stop seals the timing of the current case. It does nothing when there is
// no current case or the current case is already stopped.
func (rc *RunContext) Stop() {
	if tc := rc.CurrentCase(); tc != nil && !tc.Finished() {
		tc.Stop()
	}
}

// Finalize stops the run and releases the driver when it implements
// io.Closer.
func (rc *RunContext) Finalize() error {
	rc.Stop()
	if closer, ok := rc.driver.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("could not close driver: %w", err)
		}
	}
	return nil
}

// CurrentCase returns the case accepting implicit mutations, or nil before
// any case was opened.
func (rc *RunContext) CurrentCase() *CaseRecord {
	if !rc.hasCurrent {
		return nil
	}
	tc, _ := rc.cases.Get(rc.current)
	return tc
}

// CurrentStep returns the current step of the current case, or nil.
func (rc *RunContext) CurrentStep() *StepRecord {
	if tc := rc.CurrentCase(); tc != nil {
		return tc.CurrentStep()
	}
	return nil
}

// Case looks up a case by id.
func (rc *RunContext) Case(id string) (*CaseRecord, bool) {
	return rc.cases.Get(id)
}

// Cases returns all accumulated cases in registration order.
func (rc *RunContext) Cases() []*CaseRecord {
	out := make([]*CaseRecord, 0, rc.cases.Len())
	for pair := rc.cases.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// LastCase returns the most recently registered case, or nil.
func (rc *RunContext) LastCase() *CaseRecord {
	if pair := rc.cases.Newest(); pair != nil {
		return pair.Value
	}
	return nil
}

// AddStep opens a new step on the current case and records each description
// as an action on it. It does nothing when no case is open.
func (rc *RunContext) AddStep(descriptions ...string) {
	tc := rc.CurrentCase()
	if tc == nil {
		return
	}
	step := tc.AddStep()
	for _, d := range descriptions {
		step.AddAction(d)
	}
}

// AddAction records an action on the current step.
func (rc *RunContext) AddAction(description string) {
	if tc := rc.CurrentCase(); tc != nil {
		tc.AddAction(description)
	}
}

// AddResult records a result on the current step.
func (rc *RunContext) AddResult(description string) {
	if tc := rc.CurrentCase(); tc != nil {
		tc.AddResult(description)
	}
}

// AddAttachment stores an attachment on the current step.
func (rc *RunContext) AddAttachment(attachment Attachment) {
	if tc := rc.CurrentCase(); tc != nil {
		tc.AddAttachment(attachment)
	}
}

// Fail marks the current step failed.
func (rc *RunContext) Fail() {
	if tc := rc.CurrentCase(); tc != nil {
		tc.Fail()
	}
}

// MarkExecutedByHuman flags the current step as performed manually.
func (rc *RunContext) MarkExecutedByHuman() {
	if tc := rc.CurrentCase(); tc != nil {
		tc.stepOrNew().SetExecutedByHuman(true)
	}
}

// Outcome combines the outcomes of all cases.
func (rc *RunContext) Outcome() Outcome {
	outcomes := make([]Outcome, 0, rc.cases.Len())
	for pair := rc.cases.Oldest(); pair != nil; pair = pair.Next() {
		outcomes = append(outcomes, pair.Value.Outcome())
	}
	return Combine(outcomes...)
}

// Failed reports whether the run outcome is Failure.
func (rc *RunContext) Failed() bool {
	return rc.Outcome() == Failure
}

// MergeInto stops rc and copies all of its cases into other, replacing any
// case of other registered under the same id. The returned context is other,
// which should be used for the rest of the run.
func (rc *RunContext) MergeInto(other *RunContext) *RunContext {
	rc.Stop()
	for pair := rc.cases.Oldest(); pair != nil; pair = pair.Next() {
		other.cases.Set(pair.Key, pair.Value)
	}
	return other
}

// noopLogger discards all log messages.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, args ...any) {}
func (n *noopLogger) Info(msg string, args ...any)  {}
func (n *noopLogger) Warn(msg string, args ...any)  {}
func (n *noopLogger) Error(msg string, args ...any) {}

// NoopLogger returns a Logger that discards everything.
func NoopLogger() Logger {
	return &noopLogger{}
}
