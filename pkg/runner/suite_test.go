package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/denizgursoy/naica/pkg/naica"
)

var quiet = &naica.Config{DisableReporter: true, DisableLog: true}

type fakeT struct {
	errors []string
}

func (f *fakeT) Helper() {}
func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("driver gone") }

type countingCloser struct {
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func sequence(ok bool, onSuccess ...string) naica.Operation {
	return naica.MustSequence(naica.SequenceConfig{
		Actions:   []naica.Action{naica.ActionFunc(func(*naica.RunContext) bool { return ok })},
		OnSuccess: onSuccess,
	})
}

// =============================================================================
// End-to-end Tests
// =============================================================================

func TestSuiteRunner_EndToEnd(t *testing.T) {
	t.Run("successful case", func(t *testing.T) {
		rc, err := NewSuiteRunner(NewCaseRunner("T1", sequence(true, "ok"))).
			WithConfig(quiet).
			Run()
		require.NoError(t, err)

		require.Equal(t, naica.Success, rc.Outcome())
		require.Len(t, rc.Cases(), 1)
		tc, ok := rc.Case("T1")
		require.True(t, ok)
		require.Len(t, tc.Steps(), 1)
		require.Contains(t, tc.Steps()[0].Results(), "ok")
		require.True(t, tc.Finished())
	})

	t.Run("failing case", func(t *testing.T) {
		rc, err := NewSuiteRunner(NewCaseRunner("T1", sequence(false, "ok"))).
			WithConfig(quiet).
			Run()
		require.NoError(t, err)

		require.Equal(t, naica.Failure, rc.Outcome())
		tc, _ := rc.Case("T1")
		require.Len(t, tc.Steps(), 1)
		require.True(t, tc.Steps()[0].Failed())
		require.NotContains(t, tc.Steps()[0].Results(), "ok")
	})
}

// =============================================================================
// SuiteRunner Tests
// =============================================================================

func TestSuiteRunner_Run(t *testing.T) {
	t.Run("a failing case does not stop the next ones", func(t *testing.T) {
		rc, err := NewSuiteRunner(NewCaseRunner("T1", sequence(false))).
			WithCases(NewCaseRunner("T2", sequence(true))).
			WithConfig(quiet).
			Run()
		require.NoError(t, err)

		require.Len(t, rc.Cases(), 2)
		require.Equal(t, naica.Failure, rc.Cases()[0].Outcome())
		require.Equal(t, naica.Success, rc.Cases()[1].Outcome())
		require.True(t, rc.Cases()[1].Finished())
	})

	t.Run("config fail-fast applies unless the case sets it", func(t *testing.T) {
		var calls []string
		_, err := NewSuiteRunner(
			NewCaseRunner("suite default", step(&calls, "a", false), step(&calls, "b", true)),
			NewCaseRunner("explicit", step(&calls, "c", false), step(&calls, "d", true)).WithFailFast(false),
		).
			WithConfig(quiet).
			WithConfig(&naica.Config{FailFast: true}).
			Run()
		require.NoError(t, err)
		require.Equal(t, []string{"a", "c", "d"}, calls)
	})

	t.Run("invokes exporters in order and joins their errors", func(t *testing.T) {
		controller := gomock.NewController(t)
		first := naica.NewMockExporter(controller)
		second := naica.NewMockExporter(controller)
		third := naica.NewMockExporter(controller)

		errFirst := errors.New("first failed")
		errThird := errors.New("third failed")
		gomock.InOrder(
			first.EXPECT().Generate(gomock.Any()).Return(errFirst),
			second.EXPECT().Generate(gomock.Any()).Return(nil),
			third.EXPECT().Generate(gomock.Any()).Return(errThird),
		)

		rc, err := NewSuiteRunner(NewCaseRunner("T1", sequence(true))).
			WithConfig(quiet).
			WithExporters(first, second).
			WithExporters(third).
			Run()

		require.NotNil(t, rc)
		require.ErrorIs(t, err, errFirst)
		require.ErrorIs(t, err, errThird)
		require.Contains(t, err.Error(), "exporter 0")
		require.Contains(t, err.Error(), "exporter 2")
	})

	t.Run("exporters see a finished run", func(t *testing.T) {
		var finished bool
		exporter := naica.ExporterFunc(func(rc *naica.RunContext) error {
			finished = rc.LastCase().Finished()
			return nil
		})

		_, err := NewSuiteRunner(NewCaseRunner("T1")).WithConfig(quiet).WithExporters(exporter).Run()
		require.NoError(t, err)
		require.True(t, finished)
	})

	t.Run("finalize errors are returned", func(t *testing.T) {
		_, err := NewSuiteRunner(NewCaseRunner("T1")).
			WithConfig(quiet).
			WithOptions(naica.WithDriver(failingCloser{})).
			Run()
		require.Error(t, err)
		require.Contains(t, err.Error(), "driver gone")
	})

	t.Run("runs suite hooks around all cases", func(t *testing.T) {
		var events []string
		late := &naica.Hooks{
			Order:      1,
			BeforeAll:  func(*naica.RunContext) { events = append(events, "before all 1") },
			AfterAll:   func(*naica.RunContext) { events = append(events, "after all 1") },
			BeforeCase: func(_ *naica.RunContext, tc *naica.CaseRecord) { events = append(events, "case "+tc.ID()) },
		}
		early := &naica.Hooks{
			BeforeAll: func(*naica.RunContext) { events = append(events, "before all 0") },
			AfterAll:  func(*naica.RunContext) { events = append(events, "after all 0") },
		}
		caseOnly := &naica.Hooks{
			AfterCase: func(_ *naica.RunContext, tc *naica.CaseRecord) { events = append(events, "after "+tc.ID()) },
		}

		_, err := NewSuiteRunner(NewCaseRunner("T1").WithHooks(caseOnly), NewCaseRunner("T2")).
			WithConfig(quiet).
			WithHooks(late, early).
			Run()
		require.NoError(t, err)
		require.Equal(t, []string{
			"before all 0", "before all 1",
			"case T1", "after T1",
			"case T2",
			"after all 0", "after all 1",
		}, events)
	})

	t.Run("records into a given run context", func(t *testing.T) {
		existing := naica.New()
		existing.NewCase("earlier")
		existing.Stop()

		rc, err := NewSuiteRunner(NewCaseRunner("T1")).
			WithConfig(quiet).
			WithRunContext(existing).
			Run()
		require.NoError(t, err)
		require.Same(t, existing, rc)
		require.Len(t, rc.Cases(), 2)
	})

	t.Run("uses the configured logger", func(t *testing.T) {
		logger := &recordingLogger{}
		_, err := NewSuiteRunner(NewCaseRunner("T1")).
			WithConfigFunc(func() *naica.Config {
				return &naica.Config{DisableReporter: true, Logger: logger}
			}).
			Run()
		require.NoError(t, err)
		require.Equal(t, []string{"Starting case", "Ending case"}, logger.infoMessages)
	})

	t.Run("prints the console report before other exporters", func(t *testing.T) {
		var out bytes.Buffer
		var printedFirst bool
		_, err := NewSuiteRunner(NewCaseRunner("T1", sequence(true))).
			WithConfig(&naica.Config{DisableLog: true, NoColor: true}).
			WithOutput(&out).
			WithExporters(naica.ExporterFunc(func(*naica.RunContext) error {
				printedFirst = strings.Contains(out.String(), "Run successful")
				return nil
			})).
			Run()
		require.NoError(t, err)
		require.True(t, printedFirst)
		require.Contains(t, out.String(), "Case: T1 (successful")
	})

	t.Run("disabled reporter prints nothing", func(t *testing.T) {
		var out bytes.Buffer
		_, err := NewSuiteRunner(NewCaseRunner("T1")).WithConfig(quiet).WithOutput(&out).Run()
		require.NoError(t, err)
		require.Empty(t, out.String())
	})

	t.Run("passes configured directories as properties", func(t *testing.T) {
		dir := t.TempDir()
		rc, err := NewSuiteRunner().
			WithConfig(quiet).
			WithConfig(&naica.Config{ReportDirectory: dir}).
			Run()
		require.NoError(t, err)
		require.Equal(t, dir, rc.Properties().ReportDirectory())
	})
}

func TestSuiteRunner_Panics(t *testing.T) {
	t.Run("a panicking hook does not stop later cases or exporters", func(t *testing.T) {
		var calls []string
		closer := &countingCloser{}
		exported := false
		hooks := &naica.Hooks{
			BeforeOperation: func(rc *naica.RunContext, _ naica.Operation) {
				if rc.CurrentCase().ID() == "T1" {
					panic("boom")
				}
			},
		}

		rc, err := NewSuiteRunner(
			NewCaseRunner("T1", step(&calls, "a", true)),
			NewCaseRunner("T2", step(&calls, "b", true)),
		).
			WithConfig(quiet).
			WithHooks(hooks).
			WithOptions(naica.WithDriver(closer)).
			WithExporters(naica.ExporterFunc(func(*naica.RunContext) error {
				exported = true
				return nil
			})).
			Run()

		require.NoError(t, err)
		require.Equal(t, []string{"b"}, calls)
		require.Equal(t, naica.Failure, rc.Cases()[0].Outcome())
		require.Equal(t, naica.Success, rc.Cases()[1].Outcome())
		require.True(t, exported)
		require.Equal(t, 1, closer.closed)
	})

	t.Run("panicking suite hooks are only logged", func(t *testing.T) {
		logger := &recordingLogger{}
		existing := naica.New(naica.WithLogger(logger))
		existing.NewCase("earlier")
		existing.Stop()
		hooks := &naica.Hooks{
			BeforeAll: func(*naica.RunContext) { panic("before") },
			AfterAll:  func(*naica.RunContext) { panic("after") },
		}

		rc, err := NewSuiteRunner(NewCaseRunner("T1", sequence(true))).
			WithConfig(quiet).
			WithRunContext(existing).
			WithHooks(hooks).
			Run()

		require.NoError(t, err)
		require.Equal(t, naica.Success, rc.Outcome())
		require.Equal(t, []string{"Hook panicked", "Hook panicked"}, logger.errorMessages)
	})

	t.Run("a panicking exporter becomes an error", func(t *testing.T) {
		secondRan := false
		_, err := NewSuiteRunner(NewCaseRunner("T1")).
			WithConfig(quiet).
			WithExporters(
				naica.ExporterFunc(func(*naica.RunContext) error { panic("disk gone") }),
				naica.ExporterFunc(func(*naica.RunContext) error {
					secondRan = true
					return nil
				}),
			).
			Run()

		require.EqualError(t, err, "exporter 0: exporter panicked: disk gone")
		require.True(t, secondRan)
	})
}

func TestSuiteRunner_WithFeatures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basket.feature"), []byte(basketFeature), 0o644))

	t.Run("runs explicit cases before feature scenarios", func(t *testing.T) {
		b := &basket{}
		rc, err := NewSuiteRunner(NewCaseRunner("setup")).
			WithFeatures(NewFeatureLoader(basketSteps(b)).WithFeaturesDirectories(dir)).
			WithConfig(quiet).
			WithConfig(&naica.Config{Tags: "not @slow"}).
			Run()
		require.NoError(t, err)

		ids := make([]string, 0)
		for _, tc := range rc.Cases() {
			ids = append(ids, tc.ID())
		}
		require.Equal(t, []string{"setup", "Add apples", "Add many", "Add many #2"}, ids)
		require.Equal(t, naica.Success, rc.Outcome())
	})

	t.Run("reads tags from the command line", func(t *testing.T) {
		withArgs(t, "--tags", "@slow")

		rc, err := NewSuiteRunner().
			WithFeatures(NewFeatureLoader(basketSteps(&basket{})).WithFeaturesDirectories(dir)).
			WithConfig(quiet).
			Run()
		require.NoError(t, err)
		require.Len(t, rc.Cases(), 1)
		require.Equal(t, naica.Failure, rc.Outcome())
	})

	t.Run("feature loading errors stop the run", func(t *testing.T) {
		rc, err := NewSuiteRunner(NewCaseRunner("T1")).
			WithFeatures(NewFeatureLoader(basketSteps(&basket{})).WithFeaturesDirectories(dir)).
			WithConfig(&naica.Config{DisableReporter: true, DisableLog: true, Tags: "(@slow"}).
			Run()
		require.Error(t, err)
		require.Nil(t, rc)
	})
}

// =============================================================================
// RunT Tests
// =============================================================================

func TestSuiteRunner_RunT(t *testing.T) {
	t.Run("passes a successful run", func(t *testing.T) {
		ft := &fakeT{}
		rc := NewSuiteRunner(NewCaseRunner("T1", sequence(true))).WithConfig(quiet).RunT(ft)
		require.Empty(t, ft.errors)
		require.Equal(t, naica.Success, rc.Outcome())
	})

	t.Run("reports every failed case", func(t *testing.T) {
		ft := &fakeT{}
		NewSuiteRunner(
			NewCaseRunner("T1", sequence(false)),
			NewCaseRunner("T2", sequence(true)),
			NewCaseRunner("T3", sequence(false)),
		).WithConfig(quiet).RunT(ft)
		require.Equal(t, []string{`case "T1" failed`, `case "T3" failed`}, ft.errors)
	})

	t.Run("reports run errors", func(t *testing.T) {
		ft := &fakeT{}
		NewSuiteRunner(NewCaseRunner("T1")).
			WithConfig(quiet).
			WithExporters(naica.ExporterFunc(func(*naica.RunContext) error { return errors.New("disk full") })).
			RunT(ft)
		require.Equal(t, []string{"naica run error: exporter 0: disk full"}, ft.errors)
	})
}
