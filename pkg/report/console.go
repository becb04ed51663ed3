package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/denizgursoy/naica/pkg/naica"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorGreen   = "\033[32m"
	colorRed     = "\033[31m"
	colorYellow  = "\033[33m"
	colorKeyword = "\033[38;2;207;142;109m" // #CF8E6D
	colorText    = "\033[38;2;188;190;196m" // #BCBEC4
	colorDimmed  = "\033[38;2;111;115;122m" // #6F737A
)

// ConsoleExporter prints every case with its steps, then a summary.
type ConsoleExporter struct {
	out       io.Writer
	useColors bool
}

func NewConsoleExporter(out io.Writer, useColors bool) *ConsoleExporter {
	return &ConsoleExporter{
		out:       out,
		useColors: useColors,
	}
}

// Generate implements naica.Exporter.
func (e *ConsoleExporter) Generate(rc *naica.RunContext) error {
	var b strings.Builder

	for _, tc := range rc.Cases() {
		e.writeCase(&b, tc)
	}
	e.writeSummary(&b, Summarize(rc), rc.Outcome())

	_, err := io.WriteString(e.out, b.String())
	return err
}

func (e *ConsoleExporter) color(c, s string) string {
	if e.useColors {
		return c + s + colorReset
	}
	return s
}

func (e *ConsoleExporter) outcomeColor(o naica.Outcome) string {
	switch o {
	case naica.Failure:
		return colorRed
	case naica.ConditionalSuccess:
		return colorYellow
	default:
		return colorGreen
	}
}

func (e *ConsoleExporter) writeCase(b *strings.Builder, tc *naica.CaseRecord) {
	outcome := tc.Outcome()
	fmt.Fprintf(b, "\n%s %s %s\n",
		e.color(colorKeyword, "Case:"),
		e.color(colorText, tc.ID()),
		e.color(colorDimmed, fmt.Sprintf("(%s, %s)", outcome.Text(), formatDuration(tc.Duration()))),
	)

	for i, step := range tc.Steps() {
		o := step.Outcome()
		fmt.Fprintf(b, "  %s %s\n", e.color(e.outcomeColor(o), symbol(o)), e.color(colorText, stepTitle(i+1, step)))

		resultColor := colorDimmed
		if o == naica.Failure {
			resultColor = colorRed
		}
		for _, result := range step.Results() {
			b.WriteString(e.color(resultColor, "      "+result) + "\n")
		}
		for _, attachment := range step.Attachments() {
			b.WriteString(e.color(colorDimmed, fmt.Sprintf("      [%s] %s: %s", attachment.Type, attachment.Name, attachment.Locator)) + "\n")
		}
	}
}

func (e *ConsoleExporter) writeSummary(b *strings.Builder, s Summary, outcome naica.Outcome) {
	b.WriteString("\n")
	b.WriteString(e.summaryLine(fmt.Sprintf("%d case(s)", s.CasesTotal), s.CasesPassed, s.CasesConditional, s.CasesFailed) + "\n")
	b.WriteString(e.summaryLine(fmt.Sprintf("%d step(s)", s.StepsTotal), s.StepsPassed, s.StepsConditional, s.StepsFailed) + "\n")
	fmt.Fprintf(b, "Run %s\n", e.color(e.outcomeColor(outcome), outcome.Text()))
}

func (e *ConsoleExporter) summaryLine(head string, passed, conditional, failed int) string {
	parts := []string{}
	if passed > 0 {
		parts = append(parts, e.color(colorGreen, fmt.Sprintf("%d passed", passed)))
	}
	if conditional > 0 {
		parts = append(parts, e.color(colorYellow, fmt.Sprintf("%d conditional", conditional)))
	}
	if failed > 0 {
		parts = append(parts, e.color(colorRed, fmt.Sprintf("%d failed", failed)))
	}
	if len(parts) == 0 {
		return head
	}
	return head + " (" + strings.Join(parts, ", ") + ")"
}
