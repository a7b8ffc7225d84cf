package godog_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/i18ncheck/i18ncheck/pkg/checker"
	"github.com/i18ncheck/i18ncheck/pkg/templates"
)

// testdataRoot returns the absolute path to the testdata directory.
func testdataRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "testdata")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find repo root (no go.mod)")
		}
		dir = parent
	}
}

func TestFeatures(t *testing.T) {
	root := testdataRoot(t)
	featuresDir := filepath.Join(root, "features")
	fixturesDir := filepath.Join(root, "fixtures")

	resolver, err := templates.Load()
	if err != nil {
		t.Fatalf("loading template catalog: %v", err)
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			initializeScenario(ctx, fixturesDir, resolver)
		},
		Options: &godog.Options{
			Format:        "pretty",
			Paths:         []string{featuresDir},
			TestingT:      t,
			StopOnFailure: false,
			Strict:        false,
		},
	}

	if suite.Run() != 0 {
		// Non-zero means failures occurred; godog already reported them
		// through the testing.T integration.
	}
}

// scenarioState holds per-scenario state for step definitions.
type scenarioState struct {
	fixturesDir string
	resolver    *templates.Resolver

	docName     string
	contentType string
	headers     map[string][]string

	assertions []checker.Assertion

	// assertedIndices tracks which assertion indices have been explicitly
	// asserted by error/warning/info/message steps. Used by the
	// "no other errors or warnings" step.
	assertedIndices map[int]bool
}

// markAsserted records that an assertion at the given index has been
// explicitly checked by an assertion step.
func (s *scenarioState) markAsserted(idx int) {
	if s.assertedIndices == nil {
		s.assertedIndices = make(map[int]bool)
	}
	s.assertedIndices[idx] = true
}

// find asserts that an assertion with the given id and severity exists
// and marks it as checked.
func (s *scenarioState) find(id string, sev checker.Severity) error {
	if s.assertions == nil && s.docName == "" {
		return fmt.Errorf("no check result available")
	}
	for i, a := range s.assertions {
		if a.ID == id && a.Severity == sev {
			s.markAsserted(i)
			return nil
		}
	}
	return fmt.Errorf("expected %s %s but it was not reported.\nGot assertions:\n%s",
		strings.ToLower(string(sev)), id, formatAssertions(s.assertions))
}

func initializeScenario(ctx *godog.ScenarioContext, fixturesDir string, resolver *templates.Resolver) {
	s := &scenarioState{
		fixturesDir: fixturesDir,
		resolver:    resolver,
	}

	// ================================================================
	// Given steps
	// ================================================================

	ctx.Step(`^an HTML document named '([^']*)'$`, func(name string) error {
		s.docName = name
		s.contentType = ""
		s.headers = map[string][]string{}
		return nil
	})

	ctx.Step(`^it is served with Content-Type '([^']*)'$`, func(value string) error {
		s.contentType = value
		return nil
	})

	ctx.Step(`^it is served with header '([^:]+): ([^']*)'$`, func(name, value string) error {
		s.headers[name] = append(s.headers[name], value)
		return nil
	})

	// ================================================================
	// When steps
	// ================================================================

	ctx.Step(`^the document is checked$`, func() error {
		s.assertions = nil
		s.assertedIndices = nil

		path := filepath.Join(s.fixturesDir, s.docName)
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading fixture: %w", err)
		}

		headers := make(map[string][]string, len(s.headers)+1)
		for name, values := range s.headers {
			headers[name] = append([]string(nil), values...)
		}
		ct := s.contentType
		if ct == "" {
			ct = "text/html"
		}
		headers["Content-Type"] = []string{ct}

		res := checker.NewResource("file://"+path, body, headers)
		assertions, err := checker.Analyze(res, s.resolver)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		s.assertions = assertions
		return nil
	})

	// ================================================================
	// Then steps
	// ================================================================

	ctx.Step(`^(?:the )?error (\w+) is reported$`, func(id string) error {
		return s.find(id, checker.Error)
	})
	ctx.Step(`^warning (\w+) is reported$`, func(id string) error {
		return s.find(id, checker.Warning)
	})
	ctx.Step(`^info (\w+) is reported$`, func(id string) error {
		return s.find(id, checker.Info)
	})
	ctx.Step(`^message (\w+) is reported$`, func(id string) error {
		return s.find(id, checker.Message)
	})

	ctx.Step(`^assertion (\w+) has context '([^']*)'$`, func(id, want string) error {
		for _, a := range s.assertions {
			if a.ID != id {
				continue
			}
			for _, c := range a.Contexts {
				if c == want {
					return nil
				}
			}
			return fmt.Errorf("assertion %s has contexts %q, want one equal to %q", id, a.Contexts, want)
		}
		return fmt.Errorf("assertion %s was not reported.\nGot assertions:\n%s",
			id, formatAssertions(s.assertions))
	})

	ctx.Step(`^exactly (\d+) assertions? (?:is|are) reported$`, func(n int) error {
		if len(s.assertions) != n {
			return fmt.Errorf("expected %d assertions, got %d:\n%s",
				n, len(s.assertions), formatAssertions(s.assertions))
		}
		return nil
	})

	// No errors or warnings at all (also skips already-asserted assertions)
	noIssues := func() error {
		var unexpected []string
		for i, a := range s.assertions {
			if s.assertedIndices[i] {
				continue
			}
			if a.Severity == checker.Error || a.Severity == checker.Warning {
				unexpected = append(unexpected, formatAssertion(a))
			}
		}
		if len(unexpected) > 0 {
			return fmt.Errorf("unexpected errors/warnings:\n  %s", strings.Join(unexpected, "\n  "))
		}
		return nil
	}
	ctx.Step(`^no errors or warnings are reported$`, noIssues)
	ctx.Step(`^no other errors or warnings are reported$`, noIssues)
}

// formatAssertion renders one assertion for failure messages.
func formatAssertion(a checker.Assertion) string {
	if len(a.Contexts) == 0 {
		return fmt.Sprintf("%s(%s)", a.Severity, a.ID)
	}
	return fmt.Sprintf("%s(%s) [%s]", a.Severity, a.ID, strings.Join(a.Contexts, " | "))
}

// formatAssertions returns a human-readable string of all assertions.
func formatAssertions(assertions []checker.Assertion) string {
	if len(assertions) == 0 {
		return "  (no assertions)"
	}
	var sb strings.Builder
	for _, a := range assertions {
		sb.WriteString("  ")
		sb.WriteString(formatAssertion(a))
		sb.WriteString("\n")
	}
	return sb.String()
}
