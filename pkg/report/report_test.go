package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/i18ncheck/i18ncheck/pkg/checker"
)

func sampleAssertions() []checker.Assertion {
	a := checker.NewAssertion("info_charset_http", checker.Info, []string{"utf-8"})
	a.Title = "Character encoding from HTTP"
	b := checker.NewAssertion("rep_charset_conflict", checker.Error, []string{"iso-8859-1", "utf-8"})
	b.Title = "Conflicting character encoding declarations"
	return []checker.Assertion{a, b}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	New("http://example.com/", sampleAssertions()).WriteText(&buf)
	out := buf.String()

	if !strings.Contains(out, "ERROR(rep_charset_conflict)") {
		t.Errorf("missing error line:\n%s", out)
	}
	if !strings.Contains(out, "[iso-8859-1 | utf-8]") {
		t.Errorf("missing contexts:\n%s", out)
	}
	if !strings.Contains(out, "Errors: 1, Warnings: 0, Info: 1") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestWriteTextClean(t *testing.T) {
	var buf bytes.Buffer
	New("", nil).WriteText(&buf)
	if !strings.Contains(buf.String(), "No errors detected.") {
		t.Errorf("got:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	r := New("http://example.com/", sampleAssertions())
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Clean {
		t.Error("expected clean=false")
	}
	if out.ErrorCount != 1 || out.InfoCount != 1 {
		t.Errorf("counts: %+v", out)
	}
	if len(out.Assertions) != 2 {
		t.Errorf("assertions: %+v", out.Assertions)
	}
}

func TestWriteJSONEmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := New("", nil).WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"assertions": []`) {
		t.Errorf("nil assertions must serialize as an empty array:\n%s", buf.String())
	}
}
