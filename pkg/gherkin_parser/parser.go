package gherkin_parser

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
)

const (
	FeatureExtension = ".feature"
)

// SearchFeatureFilesIn walks the directories and returns every feature file
// in lexical order per directory.
func SearchFeatureFilesIn(directories []string) ([]string, error) {
	featureFiles := make([]string, 0)

	for _, directory := range directories {
		err := filepath.Walk(directory, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				if strings.HasSuffix(info.Name(), FeatureExtension) {
					featureFiles = append(featureFiles, path)
				}
			}
			return nil
		})

		if err != nil {
			return nil, fmt.Errorf("could not search feature files in %s: %w", directory, err)
		}
	}
	return featureFiles, nil
}

func ParseGherkinFile(reader io.Reader) (*messages.GherkinDocument, error) {
	id := (&messages.Incrementing{}).NewId
	document, err := gherkin.ParseGherkinDocument(reader, id)
	if err != nil {
		return nil, err
	}
	return document, nil
}

// ParseFeatureFile reads and parses one feature file, recording path as the
// document URI.
func ParseFeatureFile(path string) (*messages.GherkinDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", path, err)
	}
	document, err := ParseGherkinFile(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("gherkin parse error in file %s: %w", path, err)
	}
	document.Uri = path
	return document, nil
}

// Pickles compiles a document into executable scenarios. Backgrounds,
// rules and scenario outline examples are expanded.
func Pickles(document *messages.GherkinDocument) []*messages.Pickle {
	if document == nil || document.Feature == nil {
		return nil
	}
	return gherkin.Pickles(*document, document.Uri, (&messages.Incrementing{}).NewId)
}

// PickleTags returns the tag names of a pickle, including the '@'.
func PickleTags(pickle *messages.Pickle) []string {
	tags := make([]string, 0, len(pickle.Tags))
	for _, tag := range pickle.Tags {
		tags = append(tags, tag.Name)
	}
	return tags
}

// StepKeywords maps every step id of the document to its resolved keyword,
// "Given", "When" or "Then". Conjunctions ("And", "But", "*") take the
// keyword of the step before them.
func StepKeywords(document *messages.GherkinDocument) map[string]string {
	keywords := make(map[string]string)
	if document == nil || document.Feature == nil {
		return keywords
	}

	for _, child := range document.Feature.Children {
		switch {
		case child.Background != nil:
			resolveKeywords(keywords, child.Background.Steps)
		case child.Scenario != nil:
			resolveKeywords(keywords, child.Scenario.Steps)
		case child.Rule != nil:
			for _, ruleChild := range child.Rule.Children {
				if ruleChild.Background != nil {
					resolveKeywords(keywords, ruleChild.Background.Steps)
				} else if ruleChild.Scenario != nil {
					resolveKeywords(keywords, ruleChild.Scenario.Steps)
				}
			}
		}
	}
	return keywords
}

func resolveKeywords(keywords map[string]string, steps []*messages.Step) {
	previous := "Given"
	for _, step := range steps {
		keyword := strings.TrimSpace(step.Keyword)
		switch keyword {
		case "And", "But", "*":
			keyword = previous
		}
		keywords[step.Id] = keyword
		previous = keyword
	}
}

// Keyword returns the resolved keyword of a pickle step, or an empty string
// when the step is unknown.
func Keyword(keywords map[string]string, step *messages.PickleStep) string {
	if len(step.AstNodeIds) == 0 {
		return ""
	}
	return keywords[step.AstNodeIds[0]]
}
