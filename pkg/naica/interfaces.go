//go:generate mockgen -source=interfaces.go -destination=interfaces_mock.go -package=naica
package naica

type (
	// Action is a pluggable effect against the system under test. It reports
	// success with true. Returning false is the normal failure path.
	Action interface {
		Perform(rc *RunContext) bool
	}

	// Condition is a pluggable read-only check. By convention it must not
	// change the system under test.
	Condition interface {
		Evaluate(rc *RunContext) bool
	}

	// Operation is a composable unit of test execution. Execute records what
	// it did into the run context and reports success with true.
	Operation interface {
		Execute(rc *RunContext) bool
	}

	// Exporter turns a finished run into something a human can read. It must
	// treat the context as read-only.
	Exporter interface {
		Generate(rc *RunContext) error
	}

	// Capturer writes an attachment (for example a screenshot) to path.
	Capturer interface {
		Capture(rc *RunContext, path string) error
	}
)

// ActionFunc adapts a function to Action.
type ActionFunc func(rc *RunContext) bool

// Perform implements Action.
func (f ActionFunc) Perform(rc *RunContext) bool {
	return f(rc)
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(rc *RunContext) bool

// Evaluate implements Condition.
func (f ConditionFunc) Evaluate(rc *RunContext) bool {
	return f(rc)
}

// OperationFunc adapts a function to Operation.
type OperationFunc func(rc *RunContext) bool

// Execute implements Operation.
func (f OperationFunc) Execute(rc *RunContext) bool {
	return f(rc)
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(rc *RunContext) error

// Generate implements Exporter.
func (f ExporterFunc) Generate(rc *RunContext) error {
	return f(rc)
}
