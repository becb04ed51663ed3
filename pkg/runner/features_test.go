package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	messages "github.com/cucumber/messages/go/v21"
	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/naica/pkg/executor"
	"github.com/denizgursoy/naica/pkg/gherkin_parser"
	"github.com/denizgursoy/naica/pkg/naica"
)

const basketFeature = `Feature: Basket

  @smoke
  Scenario: Add apples
    Given the basket is empty
    When I add 3 apples
    And I add 2 apples
    Then the basket holds 5 apples

  @slow
  Scenario: Unknown step
    Given the basket is empty
    When I juggle the apples

  Scenario Outline: Add many
    Given the basket is empty
    When I add <n> apples
    Then the basket holds <n> apples

    Examples:
      | n |
      | 1 |
      | 4 |
`

type basket struct {
	apples int
}

func basketSteps(b *basket) *executor.StepExecutor {
	return executor.NewStepExecutor().
		MustRegisterStep(`^the basket is empty$`, func() { b.apples = 0 }).
		MustRegisterStep(`^I add (\d+) apples$`, func(n int) { b.apples += n }).
		MustRegisterStep(`^the basket holds (\d+) apples$`, func(n int) bool { return b.apples == n })
}

func parseDocument(t *testing.T, content string) *messages.GherkinDocument {
	t.Helper()
	document, err := gherkin_parser.ParseGherkinFile(strings.NewReader(content))
	require.NoError(t, err)
	return document
}

func caseIDs(runners []*CaseRunner) []string {
	ids := make([]string, 0, len(runners))
	for _, r := range runners {
		ids = append(ids, r.ID())
	}
	return ids
}

// withArgs replaces os.Args for the duration of a test.
func withArgs(t *testing.T, args ...string) {
	t.Helper()
	original := os.Args
	os.Args = append([]string{"naica.test"}, args...)
	t.Cleanup(func() { os.Args = original })
}

// =============================================================================
// FeatureLoader Tests
// =============================================================================

func TestFeatureLoader_LoadDocuments(t *testing.T) {
	document := parseDocument(t, basketFeature)

	t.Run("creates a case per scenario", func(t *testing.T) {
		runners, err := NewFeatureLoader(executor.NewStepExecutor()).LoadDocuments("", document)
		require.NoError(t, err)
		require.Equal(t, []string{"Add apples", "Unknown step", "Add many", "Add many #2"}, caseIDs(runners))
		require.Len(t, runners[0].Operations(), 4)
	})

	t.Run("numbered ids never collide with scenario names", func(t *testing.T) {
		colliding := parseDocument(t, `Feature: Numbers

  Scenario: Pay
    Given the basket is empty

  Scenario: Pay #2
    Given the basket is empty

  Scenario: Pay
    Given the basket is empty
`)
		runners, err := NewFeatureLoader(executor.NewStepExecutor()).LoadDocuments("", colliding)
		require.NoError(t, err)
		require.Equal(t, []string{"Pay", "Pay #2", "Pay #3"}, caseIDs(runners))
	})

	t.Run("filters by tag expression", func(t *testing.T) {
		loader := NewFeatureLoader(executor.NewStepExecutor())

		runners, err := loader.LoadDocuments("@smoke", document)
		require.NoError(t, err)
		require.Equal(t, []string{"Add apples"}, caseIDs(runners))

		runners, err = loader.LoadDocuments("not @slow", document)
		require.NoError(t, err)
		require.Equal(t, []string{"Add apples", "Add many", "Add many #2"}, caseIDs(runners))
	})

	t.Run("rejects an invalid tag expression", func(t *testing.T) {
		_, err := NewFeatureLoader(executor.NewStepExecutor()).LoadDocuments("(@smoke", document)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid tag expression")
	})

	t.Run("records keywords and results of each step", func(t *testing.T) {
		b := &basket{}
		runners, err := NewFeatureLoader(basketSteps(b)).LoadDocuments("@smoke", document)
		require.NoError(t, err)

		rc := naica.New()
		require.True(t, runners[0].Run(rc))
		require.Equal(t, 5, b.apples)

		steps := rc.LastCase().Steps()
		require.Len(t, steps, 4)
		require.Equal(t, []string{"Given the basket is empty"}, steps[0].Actions())
		require.Equal(t, []string{"When I add 3 apples"}, steps[1].Actions())
		require.Equal(t, []string{"When I add 2 apples"}, steps[2].Actions())
		require.Equal(t, []string{"Then the basket holds 5 apples"}, steps[3].Actions())
		require.Equal(t, naica.Success, rc.Outcome())
	})

	t.Run("undefined steps fail with a result", func(t *testing.T) {
		runners, err := NewFeatureLoader(basketSteps(&basket{})).LoadDocuments("@slow", document)
		require.NoError(t, err)

		rc := naica.New()
		require.False(t, runners[0].Run(rc))

		steps := rc.LastCase().Steps()
		require.Len(t, steps, 2)
		require.False(t, steps[0].Failed())
		require.True(t, steps[1].Failed())
		require.Equal(t, []string{"undefined step: I juggle the apples"}, steps[1].Results())
	})
}

func TestFeatureLoader_Load(t *testing.T) {
	t.Run("reads feature files from the directories", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "basket.feature"), []byte(basketFeature), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a feature"), 0o644))

		runners, err := NewFeatureLoader(executor.NewStepExecutor()).
			WithFeaturesDirectories(dir).
			Load("@smoke")
		require.NoError(t, err)
		require.Equal(t, []string{"Add apples"}, caseIDs(runners))
	})

	t.Run("fails on a missing directory", func(t *testing.T) {
		_, err := NewFeatureLoader(executor.NewStepExecutor()).
			WithFeaturesDirectories(filepath.Join(t.TempDir(), "missing")).
			Load("")
		require.Error(t, err)
	})

	t.Run("fails on invalid gherkin", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.feature"), []byte("Feature: a\nFeature: b\n"), 0o644))

		_, err := NewFeatureLoader(executor.NewStepExecutor()).WithFeaturesDirectories(dir).Load("")
		require.Error(t, err)
	})
}

func TestParseTagsFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"no tags", []string{"-test.v"}, ""},
		{"separate value", []string{"-test.v", "--tags", "@smoke"}, "@smoke"},
		{"joined value", []string{"--tags=@smoke and not @slow"}, "@smoke and not @slow"},
		{"missing value", []string{"--tags"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			require.Equal(t, tt.expected, parseTagsFromArgs())
		})
	}
}
