package runner

import (
	"errors"
	"fmt"
	"os"
	"strings"

	messages "github.com/cucumber/messages/go/v21"
	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
	"github.com/denizgursoy/naica/pkg/executor"
	"github.com/denizgursoy/naica/pkg/gherkin_parser"
	"github.com/denizgursoy/naica/pkg/naica"
)

// FeatureLoader turns the scenarios of Gherkin feature files into case
// runners. Every scenario becomes a case named after it; every step becomes
// a Sequence opening a new step, bound through the step executor.
type FeatureLoader struct {
	executor           *executor.StepExecutor
	featureDirectories []string
}

func NewFeatureLoader(exec *executor.StepExecutor) *FeatureLoader {
	return &FeatureLoader{
		executor: exec,
	}
}

func (l *FeatureLoader) WithFeaturesDirectories(directories ...string) *FeatureLoader {
	l.featureDirectories = directories

	return l
}

// Load reads all feature files and returns one case runner per scenario
// matching the tag expression. An empty expression selects everything.
func (l *FeatureLoader) Load(tagExpression string) ([]*CaseRunner, error) {
	directories := l.featureDirectories
	if len(directories) == 0 {
		directories = []string{"."}
	}

	featureFiles, err := gherkin_parser.SearchFeatureFilesIn(directories)
	if err != nil {
		return nil, err
	}

	documents := make([]*messages.GherkinDocument, 0, len(featureFiles))
	for _, file := range featureFiles {
		document, err := gherkin_parser.ParseFeatureFile(file)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return l.LoadDocuments(tagExpression, documents...)
}

// LoadDocuments builds case runners from parsed documents. Scenarios sharing
// a name (scenario outline rows) get a " #n" suffix from the second one on,
// with n raised until the id is not taken, so each keeps its own case.
func (l *FeatureLoader) LoadDocuments(tagExpression string, documents ...*messages.GherkinDocument) ([]*CaseRunner, error) {
	selected := func([]string) bool { return true }
	if strings.TrimSpace(tagExpression) != "" {
		evaluator, err := tagexpressions.Parse(tagExpression)
		if err != nil {
			return nil, fmt.Errorf("invalid tag expression %q: %w", tagExpression, err)
		}
		selected = evaluator.Evaluate
	}

	used := make(map[string]bool)
	runners := make([]*CaseRunner, 0)
	for _, document := range documents {
		keywords := gherkin_parser.StepKeywords(document)

		for _, pickle := range gherkin_parser.Pickles(document) {
			if !selected(gherkin_parser.PickleTags(pickle)) {
				continue
			}

			id := pickle.Name
			for n := 2; used[id]; n++ {
				id = fmt.Sprintf("%s #%d", pickle.Name, n)
			}
			used[id] = true

			runner := NewCaseRunner(id)
			for _, step := range pickle.Steps {
				runner.WithOperations(l.stepOperation(keywords, step))
			}
			runners = append(runners, runner)
		}
	}

	return runners, nil
}

func (l *FeatureLoader) stepOperation(keywords map[string]string, step *messages.PickleStep) naica.Operation {
	description := strings.TrimSpace(gherkin_parser.Keyword(keywords, step) + " " + step.Text)

	action, err := l.executor.Action(step.Text)
	if errors.Is(err, executor.ErrUndefinedStep) {
		action = undefinedStep(step.Text)
	}

	return naica.MustSequence(naica.SequenceConfig{
		Actions:     []naica.Action{action},
		NewStep:     true,
		Description: []string{description},
	})
}

func undefinedStep(text string) naica.Action {
	return naica.ActionFunc(func(rc *naica.RunContext) bool {
		rc.AddResult("undefined step: " + text)
		return false
	})
}

// parseTagsFromArgs reads a tag expression given as "--tags <expr>" or
// "--tags=<expr>" on the test binary command line.
func parseTagsFromArgs() string {
	args := os.Args[1:]
	for i, arg := range args {
		if value, ok := strings.CutPrefix(arg, "--tags="); ok {
			return value
		}
		if arg == "--tags" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
