package generator

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	messages "github.com/cucumber/messages/go/v21"
	"github.com/denizgursoy/naica/pkg/gherkin_parser"
)

const (
	naicaPackage    = "github.com/denizgursoy/naica/pkg/naica"
	executorPackage = "github.com/denizgursoy/naica/pkg/executor"
	runnerPackage   = "github.com/denizgursoy/naica/pkg/runner"

	ParamString = "string"
	ParamInt    = "int"
	ParamFloat  = "float64"
)

var parameterRegex = regexp.MustCompile(`"[^"]*"|-?\d+(?:\.\d+)?`)

type (
	// StepStub is one generated step function. Step texts that differ only in
	// their quoted strings or numbers share a stub.
	StepStub struct {
		Text         string
		Pattern      string
		FunctionName string
		Params       []string
	}

	Output struct {
		PackageName        string // if empty, defaults to "main"
		FeatureDirectories []string
		Steps              []*StepStub
	}
)

// CollectSteps returns one stub per distinct step pattern found in the
// documents, in order of first appearance.
func CollectSteps(documents ...*messages.GherkinDocument) []*StepStub {
	byPattern := make(map[string]bool)
	names := make(map[string]int)
	stubs := make([]*StepStub, 0)

	for _, document := range documents {
		for _, pickle := range gherkin_parser.Pickles(document) {
			for _, step := range pickle.Steps {
				stub := NewStepStub(step.Text)
				if byPattern[stub.Pattern] {
					continue
				}
				byPattern[stub.Pattern] = true

				names[stub.FunctionName]++
				if n := names[stub.FunctionName]; n > 1 {
					stub.FunctionName = fmt.Sprintf("%s%d", stub.FunctionName, n)
				}
				stubs = append(stubs, stub)
			}
		}
	}
	return stubs
}

// NewStepStub derives the pattern, parameters and function name of a step
// text. Quoted strings become string parameters and numbers become int or
// float64 parameters.
func NewStepStub(text string) *StepStub {
	stub := &StepStub{Text: text}

	var pattern strings.Builder
	var words strings.Builder
	pattern.WriteString("^")

	last := 0
	for _, loc := range parameterRegex.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		token := text[start:end]
		if token[0] != '"' && !standalone(text, start, end) {
			continue
		}

		pattern.WriteString(regexp.QuoteMeta(text[last:start]))
		words.WriteString(text[last:start])
		words.WriteString(" ")

		switch {
		case token[0] == '"':
			pattern.WriteString(`"([^"]*)"`)
			stub.Params = append(stub.Params, ParamString)
		case strings.Contains(token, "."):
			pattern.WriteString(`(-?\d*\.?\d+)`)
			stub.Params = append(stub.Params, ParamFloat)
		default:
			pattern.WriteString(`(-?\d+)`)
			stub.Params = append(stub.Params, ParamInt)
		}
		last = end
	}
	pattern.WriteString(regexp.QuoteMeta(text[last:]))
	pattern.WriteString("$")
	words.WriteString(text[last:])

	stub.Pattern = pattern.String()
	stub.FunctionName = functionName(words.String())
	return stub
}

// standalone reports whether the number at text[start:end] is not part of a
// word such as "v2".
func standalone(text string, start, end int) bool {
	isWord := func(r byte) bool {
		return r == '_' || unicode.IsLetter(rune(r)) || unicode.IsDigit(rune(r))
	}
	if start > 0 && isWord(text[start-1]) {
		return false
	}
	if end < len(text) && isWord(text[end]) {
		return false
	}
	return true
}

func functionName(text string) string {
	var b strings.Builder
	b.WriteString("step")
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(strings.ToLower(word))
		if runes[0] < unicode.MaxASCII {
			runes[0] = unicode.ToUpper(runes[0])
		}
		for _, r := range runes {
			if r < unicode.MaxASCII {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// Generate writes a test file registering every stub and running the
// feature directories as a suite.
func (o *Output) Generate(writer io.Writer) error {
	pkgName := o.PackageName
	if pkgName == "" {
		pkgName = "main"
	}
	file := jen.NewFile(pkgName)
	file.HeaderComment("Code generated by naica scaffold. Implement the step functions below.")

	// steps := executor.NewStepExecutor().MustRegisterStep(...)...
	registration := jen.Id("steps").Op(":=").Qual(executorPackage, "NewStepExecutor").Call()
	for _, stub := range o.Steps {
		registration.Id(".").Line().Id("MustRegisterStep").Call(jen.Lit(stub.Pattern), jen.Id(stub.FunctionName))
	}

	directories := make([]jen.Code, 0, len(o.FeatureDirectories))
	for _, dir := range o.FeatureDirectories {
		directories = append(directories, jen.Lit(dir))
	}

	suite := jen.Qual(runnerPackage, "NewSuiteRunner").Call().Id(".").Line().
		Id("WithFeatures").Call(
		jen.Qual(runnerPackage, "NewFeatureLoader").Call(jen.Id("steps")).Dot("WithFeaturesDirectories").Call(directories...),
	).Id(".").Line().
		Id("RunT").Call(jen.Id("t"))

	file.Func().Id("TestNaica").Params(
		jen.Id("t").Op("*").Qual("testing", "T"),
	).Block(registration, jen.Line(), suite)

	file.Line()
	file.Var().Id("errPending").Op("=").Qual("errors", "New").Call(jen.Lit("pending"))

	for _, stub := range o.Steps {
		params := []jen.Code{jen.Id("rc").Op("*").Qual(naicaPackage, "RunContext")}
		for i, param := range stub.Params {
			params = append(params, jen.Id("arg"+strconv.Itoa(i+1)).Id(param))
		}

		file.Line()
		file.Comment(stub.FunctionName + " implements: " + stub.Text)
		file.Func().Id(stub.FunctionName).Params(params...).Error().Block(
			jen.Return(jen.Id("errPending")),
		)
	}

	return file.Render(writer)
}
