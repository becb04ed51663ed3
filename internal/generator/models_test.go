package generator

import (
	"strings"
	"testing"

	"github.com/denizgursoy/naica/pkg/gherkin_parser"
	"github.com/stretchr/testify/require"
)

func TestNewStepStub(t *testing.T) {
	tests := []struct {
		text     string
		pattern  string
		params   []string
		function string
	}{
		{"I open the login page", `^I open the login page$`, nil, "stepIOpenTheLoginPage"},
		{"I have 3 apples", `^I have (-?\d+) apples$`, []string{ParamInt}, "stepIHaveApples"},
		{"the total is -2.50", `^the total is (-?\d*\.?\d+)$`, []string{ParamFloat}, "stepTheTotalIs"},
		{`I log in as "alice" with "secret"`, `^I log in as "([^"]*)" with "([^"]*)"$`, []string{ParamString, ParamString}, "stepILogInAsWith"},
		{"version v2 is (beta)", `^version v2 is \(beta\)$`, nil, "stepVersionV2IsBeta"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			stub := NewStepStub(tt.text)
			require.Equal(t, tt.text, stub.Text)
			require.Equal(t, tt.pattern, stub.Pattern)
			require.Equal(t, tt.params, stub.Params)
			require.Equal(t, tt.function, stub.FunctionName)
		})
	}
}

func TestCollectSteps(t *testing.T) {
	document, err := gherkin_parser.ParseGherkinFile(strings.NewReader(`Feature: Shop

  Scenario: Buy
    Given I have 3 apples
    And I have "3" apples
    When I eat 1 apple

  Scenario: Eat
    Given I have 10 apples
    When I eat 2 apple
`))
	require.NoError(t, err)

	stubs := CollectSteps(document)
	require.Len(t, stubs, 3)
	require.Equal(t, "stepIHaveApples", stubs[0].FunctionName)
	require.Equal(t, "stepIHaveApples2", stubs[1].FunctionName)
	require.Equal(t, "stepIEatApple", stubs[2].FunctionName)
	require.Equal(t, "I eat 1 apple", stubs[2].Text)

	require.Empty(t, CollectSteps())
}

// =============================================================================
// Generate Tests
// =============================================================================

func TestOutput_Generate(t *testing.T) {
	t.Run("should generate the runner and the stubs", func(t *testing.T) {
		output := &Output{
			PackageName:        "shop",
			FeatureDirectories: []string{"features"},
			Steps: []*StepStub{
				NewStepStub("I have 3 apples"),
				NewStepStub("I open the shop"),
			},
		}

		builder := &strings.Builder{}
		require.NoError(t, output.Generate(builder))

		text := builder.String()
		require.Contains(t, text, "package shop")
		require.Contains(t, text, `"github.com/denizgursoy/naica/pkg/executor"`)
		require.Contains(t, text, `"github.com/denizgursoy/naica/pkg/runner"`)
		require.Contains(t, text, "steps := executor.NewStepExecutor().")
		require.Contains(t, text, `MustRegisterStep("^I have (-?\\d+) apples$", stepIHaveApples)`)
		require.Contains(t, text, `MustRegisterStep("^I open the shop$", stepIOpenTheShop)`)
		require.Contains(t, text, `runner.NewFeatureLoader(steps).WithFeaturesDirectories("features")`)
		require.Contains(t, text, "RunT(t)")
		require.Contains(t, text, `var errPending = errors.New("pending")`)
		require.Contains(t, text, "// stepIOpenTheShop implements: I open the shop\nfunc stepIOpenTheShop(rc *naica.RunContext) error {\n\treturn errPending\n}")
	})

	t.Run("defaults to package main", func(t *testing.T) {
		builder := &strings.Builder{}
		require.NoError(t, (&Output{}).Generate(builder))
		require.True(t, strings.HasPrefix(builder.String(), "// Code generated by naica scaffold"))
		require.Contains(t, builder.String(), "package main")
	})
}
