package naica

// Outcome is the three-valued verdict of a step, a case or a whole run.
// Values are ordered from weakest to strongest so that combining is a max.
type Outcome int

const (
	// Success means everything ran automatically and passed.
	Success Outcome = iota
	// ConditionalSuccess means nothing failed but at least one step was
	// performed by a human.
	ConditionalSuccess
	// Failure means at least one step failed.
	Failure
)

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ConditionalSuccess:
		return "conditional_success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Text returns the human readable wording used in reports.
func (o Outcome) Text() string {
	switch o {
	case ConditionalSuccess:
		return "conditionally successful"
	case Failure:
		return "failed"
	default:
		return "successful"
	}
}

// Combine folds outcomes: any Failure wins, then any ConditionalSuccess,
// otherwise Success. An empty input is Success.
func Combine(outcomes ...Outcome) Outcome {
	result := Success
	for _, o := range outcomes {
		if o > result {
			result = o
		}
		if result == Failure {
			return Failure
		}
	}
	return result
}
