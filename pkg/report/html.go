package report

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/denizgursoy/naica/pkg/naica"
)

// RunDirectoryLayout is the time layout naming each run directory.
const RunDirectoryLayout = "2006-01-02 150405"

// ErrNoReportDirectory is returned when the run has no report directory.
var ErrNoReportDirectory = errors.New("report directory is not configured")

// HTMLExporter writes a static site per run under the report directory:
//
//	<report dir>/<YYYY-MM-DD HHMMSS>/index.html
//	<report dir>/<YYYY-MM-DD HHMMSS>/<case>/<case>.html
//
// Snapshot files are copied next to the page of their case.
type HTMLExporter struct {
	now   func() time.Time
	index *template.Template
	page  *template.Template
}

// HTMLOption configures an HTMLExporter.
type HTMLOption func(*HTMLExporter)

// WithHTMLClock replaces time.Now for naming the run directory.
func WithHTMLClock(now func() time.Time) HTMLOption {
	return func(e *HTMLExporter) {
		e.now = now
	}
}

func NewHTMLExporter(opts ...HTMLOption) *HTMLExporter {
	e := &HTMLExporter{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}

	funcs := template.FuncMap{
		"formatDuration": formatDuration,
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04:05")
		},
		"outcomeClass": func(o naica.Outcome) string { return o.String() },
		"symbol":       symbol,
	}
	e.index = template.Must(template.New("index").Funcs(funcs).Parse(htmlStyle + indexTemplate))
	e.page = template.Must(template.New("case").Funcs(funcs).Parse(htmlStyle + caseTemplate))
	return e
}

type indexData struct {
	ExecutedAt time.Time
	Outcome    naica.Outcome
	Summary    Summary
	Cases      []caseLink
}

type caseLink struct {
	ID       string
	Href     string
	Outcome  naica.Outcome
	Steps    int
	Duration time.Duration
}

type caseData struct {
	ID       string
	Outcome  naica.Outcome
	Start    time.Time
	Finish   time.Time
	Duration time.Duration
	Steps    []stepData
}

type stepData struct {
	Number      int
	Outcome     naica.Outcome
	Human       bool
	Actions     []string
	Results     []string
	Attachments []attachmentData
}

type attachmentData struct {
	Type  string
	Name  string
	Href  string
	Image bool
}

// Generate implements naica.Exporter. Attachment copy failures are logged
// and the page links the original location instead.
func (e *HTMLExporter) Generate(rc *naica.RunContext) error {
	base := rc.Properties().ReportDirectory()
	if base == "" {
		return ErrNoReportDirectory
	}

	executedAt := e.now()
	runDir := filepath.Join(base, executedAt.Format(RunDirectoryLayout))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("could not create report directory %q: %w", runDir, err)
	}

	index := indexData{
		ExecutedAt: executedAt,
		Outcome:    rc.Outcome(),
		Summary:    Summarize(rc),
	}
	for _, tc := range rc.Cases() {
		name := naica.CaseFileName(tc.ID())
		if err := e.writeCase(rc, filepath.Join(runDir, name), name, tc); err != nil {
			return err
		}
		index.Cases = append(index.Cases, caseLink{
			ID:       tc.ID(),
			Href:     name + "/" + name + ".html",
			Outcome:  tc.Outcome(),
			Steps:    len(tc.Steps()),
			Duration: tc.Duration(),
		})
	}

	return render(e.index, filepath.Join(runDir, "index.html"), index)
}

func (e *HTMLExporter) writeCase(rc *naica.RunContext, dir, name string, tc *naica.CaseRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create case directory %q: %w", dir, err)
	}

	data := caseData{
		ID:       tc.ID(),
		Outcome:  tc.Outcome(),
		Start:    tc.StartTime(),
		Finish:   tc.FinishTime(),
		Duration: tc.Duration(),
	}
	for i, step := range tc.Steps() {
		sd := stepData{
			Number:  i + 1,
			Outcome: step.Outcome(),
			Human:   step.ExecutedByHuman(),
			Actions: step.Actions(),
			Results: step.Results(),
		}
		for _, attachment := range step.Attachments() {
			sd.Attachments = append(sd.Attachments, copyAttachment(rc, dir, attachment))
		}
		data.Steps = append(data.Steps, sd)
	}

	return render(e.page, filepath.Join(dir, name+".html"), data)
}

func copyAttachment(rc *naica.RunContext, dir string, attachment naica.Attachment) attachmentData {
	data := attachmentData{
		Type:  attachment.Type.String(),
		Name:  attachment.Name,
		Href:  attachment.Locator,
		Image: attachment.Type == naica.AttachmentSnapshot,
	}
	if attachment.Type != naica.AttachmentSnapshot || attachment.Locator == "" {
		return data
	}

	target := filepath.Base(attachment.Locator)
	if err := copyFile(attachment.Locator, filepath.Join(dir, target)); err != nil {
		rc.Logger().Warn("Could not copy attachment", "attachment", attachment.Name, "locator", attachment.Locator, "error", err)
		return data
	}
	data.Href = target
	return data
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func render(tmpl *template.Template, path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report file %q: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("could not render report %q: %w", path, err)
	}
	return nil
}

const htmlStyle = `{{define "style"}}<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #f8f9fa; color: #212529; line-height: 1.6; padding: 2rem;
  }
  h1 { font-size: 1.5rem; margin-bottom: 0.25rem; font-weight: 700; }
  .meta { font-size: 0.8rem; color: #868e96; margin-bottom: 1.5rem; }
  table { width: 100%; border-collapse: collapse; background: #fff; }
  th, td { text-align: left; padding: 0.5rem 0.75rem; border-bottom: 1px solid #dee2e6; vertical-align: top; }
  th { background: #f1f3f5; font-size: 0.85rem; }
  ul { list-style: none; }
  .success { color: #2b8a3e; }
  .conditional_success { color: #e67700; }
  .failure { color: #c92a2a; }
  .summary { display: flex; gap: 2rem; margin-bottom: 1.5rem; }
  .summary .number { font-size: 1.4rem; font-weight: 700; }
  .summary .label { font-size: 0.75rem; color: #868e96; }
  img.snapshot { max-width: 320px; border: 1px solid #dee2e6; }
</style>{{end}}`

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Test Execution Report</title>
{{template "style"}}
</head>
<body>
<h1>Test Execution Report</h1>
<div class="meta">Executed at {{formatTime .ExecutedAt}}</div>
<div class="summary">
  <div><div class="number {{outcomeClass .Outcome}}">{{.Outcome.Text}}</div><div class="label">Run</div></div>
  <div><div class="number">{{.Summary.CasesTotal}}</div><div class="label">Cases</div></div>
  <div><div class="number success">{{.Summary.CasesPassed}}</div><div class="label">Passed</div></div>
  <div><div class="number conditional_success">{{.Summary.CasesConditional}}</div><div class="label">Conditional</div></div>
  <div><div class="number failure">{{.Summary.CasesFailed}}</div><div class="label">Failed</div></div>
  <div><div class="number">{{formatDuration .Summary.Duration}}</div><div class="label">Duration</div></div>
</div>
{{if not .Cases}}<p>No cases were executed.</p>{{else}}
<table>
  <tr><th></th><th>Case</th><th>Steps</th><th>Duration</th></tr>
  {{range .Cases}}
  <tr>
    <td class="{{outcomeClass .Outcome}}">{{symbol .Outcome}}</td>
    <td><a href="{{.Href}}">{{.ID}}</a></td>
    <td>{{.Steps}}</td>
    <td>{{formatDuration .Duration}}</td>
  </tr>
  {{end}}
</table>
{{end}}
</body>
</html>
`

const caseTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.ID}}</title>
{{template "style"}}
</head>
<body>
<h1 class="{{outcomeClass .Outcome}}">{{symbol .Outcome}} {{.ID}}</h1>
<div class="meta">{{.Outcome.Text}}, started {{formatTime .Start}}{{if not .Finish.IsZero}}, finished {{formatTime .Finish}}{{end}}, {{formatDuration .Duration}} &middot; <a href="../index.html">all cases</a></div>
<table>
  <tr><th>#</th><th></th><th>Actions</th><th>Results</th><th>Attachments</th></tr>
  {{range .Steps}}
  <tr>
    <td>{{.Number}}</td>
    <td class="{{outcomeClass .Outcome}}">{{symbol .Outcome}}{{if .Human}} (manual){{end}}</td>
    <td><ul>{{range .Actions}}<li>{{.}}</li>{{end}}</ul></td>
    <td><ul>{{range .Results}}<li>{{.}}</li>{{end}}</ul></td>
    <td>{{range .Attachments}}<div><a href="{{.Href}}">{{.Name}}</a>{{if .Image}}<br><img class="snapshot" src="{{.Href}}" alt="{{.Name}}">{{end}}</div>{{end}}</td>
  </tr>
  {{end}}
</table>
</body>
</html>
`
