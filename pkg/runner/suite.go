package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/denizgursoy/naica/pkg/naica"
	"github.com/denizgursoy/naica/pkg/report"
)

type (
	// T is the subset of *testing.T used by RunT.
	T interface {
		Helper()
		Errorf(format string, args ...any)
	}

	// SuiteRunner drives a list of case runners against one RunContext and
	// hands the finished context to its exporters.
	SuiteRunner struct {
		cases     []*CaseRunner
		features  *FeatureLoader
		exporters []naica.Exporter
		hooks     []*naica.Hooks
		configs   []*naica.Config
		options   []naica.Option
		rc        *naica.RunContext
		output    io.Writer
	}
)

func NewSuiteRunner(cases ...*CaseRunner) *SuiteRunner {
	return &SuiteRunner{
		cases: cases,
	}
}

func (s *SuiteRunner) WithCases(cases ...*CaseRunner) *SuiteRunner {
	s.cases = append(s.cases, cases...)

	return s
}

// WithFeatures adds the scenarios of feature files as cases. They run after
// the explicitly added cases.
func (s *SuiteRunner) WithFeatures(loader *FeatureLoader) *SuiteRunner {
	s.features = loader

	return s
}

func (s *SuiteRunner) WithExporters(exporters ...naica.Exporter) *SuiteRunner {
	s.exporters = append(s.exporters, exporters...)

	return s
}

func (s *SuiteRunner) WithHooks(hooks ...*naica.Hooks) *SuiteRunner {
	s.hooks = append(s.hooks, hooks...)

	return s
}

// WithConfig adds a configuration. Several configs are merged in the order
// they were added.
func (s *SuiteRunner) WithConfig(config *naica.Config) *SuiteRunner {
	s.configs = append(s.configs, config)

	return s
}

func (s *SuiteRunner) WithConfigFunc(configFunction func() *naica.Config) *SuiteRunner {
	if configFunction != nil {
		s.configs = append(s.configs, configFunction())
	}

	return s
}

// WithOptions passes options to the RunContext the suite creates. They are
// applied after the options derived from the configuration.
func (s *SuiteRunner) WithOptions(options ...naica.Option) *SuiteRunner {
	s.options = append(s.options, options...)

	return s
}

// WithOutput sets where the console report is written. It defaults to
// os.Stdout.
func (s *SuiteRunner) WithOutput(w io.Writer) *SuiteRunner {
	s.output = w

	return s
}

// WithRunContext makes the suite record into an existing context instead of
// creating one.
func (s *SuiteRunner) WithRunContext(rc *naica.RunContext) *SuiteRunner {
	s.rc = rc

	return s
}

// Run executes every case in order, finalizes the context and invokes the
// exporters. A failing case never stops the ones after it. The returned error
// joins feature loading, finalization and exporter errors; failed cases are
// reported through the context outcome only.
//
// Unless Config.DisableReporter is set, a console exporter writing to
// os.Stdout (or the writer given to WithOutput) runs before the exporters
// added with WithExporters.
func (s *SuiteRunner) Run() (*naica.RunContext, error) {
	config := naica.MergeConfigs(s.configs...)

	cases := append([]*CaseRunner(nil), s.cases...)
	if s.features != nil {
		tags := config.Tags
		if tags == "" {
			tags = parseTagsFromArgs()
		}
		loaded, err := s.features.Load(tags)
		if err != nil {
			return nil, err
		}
		cases = append(cases, loaded...)
	}

	rc := s.rc
	if rc == nil {
		rc = naica.New(s.contextOptions(config)...)
	}

	exporters := s.exporters
	if !config.DisableReporter {
		output := s.output
		if output == nil {
			output = os.Stdout
		}
		exporters = append([]naica.Exporter{report.NewConsoleExporter(output, !config.NoColor)}, exporters...)
	}

	hooks := naica.NewHookExecutor(s.hooks...)
	runHook(rc, "before all", func() { hooks.ExecuteBeforeAll(rc) })
	for _, c := range cases {
		caseHooks := naica.NewHookExecutor(append(append([]*naica.Hooks(nil), s.hooks...), c.hooks...)...)
		runCase(rc, c, caseHooks, config.FailFast)
	}
	runHook(rc, "after all", func() { hooks.ExecuteAfterAll(rc) })

	var errs []error
	if err := rc.Finalize(); err != nil {
		errs = append(errs, err)
	}
	for i, exporter := range exporters {
		if err := generate(exporter, rc); err != nil {
			rc.Logger().Error("Exporter failed", "exporter", i, "error", err)
			errs = append(errs, fmt.Errorf("exporter %d: %w", i, err))
		}
	}

	return rc, errors.Join(errs...)
}

// runCase runs c and keeps a panic inside it from reaching the suite.
func runCase(rc *naica.RunContext, c *CaseRunner, hooks *naica.HookExecutor, failFast bool) {
	defer func() {
		if r := recover(); r != nil {
			rc.Logger().Error("Case panicked", "case", c.id, "panic", r)
			if tc, ok := rc.Case(c.id); ok {
				tc.AddResult(fmt.Sprintf("case panicked: %v", r))
				tc.Fail()
				tc.Stop()
			}
		}
	}()

	c.run(rc, hooks, failFast)
}

// generate converts a panicking exporter into an error.
func generate(exporter naica.Exporter, rc *naica.RunContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exporter panicked: %v", r)
		}
	}()

	return exporter.Generate(rc)
}

// RunT runs the suite and fails t when the run errored or its outcome is a
// failure.
func (s *SuiteRunner) RunT(t T) *naica.RunContext {
	t.Helper()

	rc, err := s.Run()
	if err != nil {
		t.Errorf("naica run error: %v", err)
	}
	if rc != nil && rc.Failed() {
		for _, tc := range rc.Cases() {
			if tc.Failed() {
				t.Errorf("case %q failed", tc.ID())
			}
		}
	}
	return rc
}

func (s *SuiteRunner) contextOptions(config *naica.Config) []naica.Option {
	var logger naica.Logger
	switch {
	case config.DisableLog:
		logger = naica.NoopLogger()
	case config.Logger != nil:
		logger = config.Logger
	default:
		logger = slog.Default()
	}

	options := []naica.Option{
		naica.WithLogger(logger),
		naica.WithProperties(config.Properties()),
	}
	return append(options, s.options...)
}
