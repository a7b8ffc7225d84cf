package checker

import (
	"reflect"
	"testing"
)

func TestSeverityRankOrder(t *testing.T) {
	// The tie-break rank follows declaration order, not alphabetic
	// order: INFO < WARNING < ERROR < MESSAGE.
	ordered := []Severity{Info, Warning, Error, Message}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("expected %s to rank below %s", ordered[i-1], ordered[i])
		}
	}
}

func TestAssertionOrdering(t *testing.T) {
	a := NewAssertion("rep_charset_conflict", Error, []string{})
	b := NewAssertion("rep_charset_none", Warning, []string{})
	if !a.Less(b) {
		t.Error("expected ordering by id first")
	}

	// Same id: severity rank breaks the tie.
	c := NewAssertion("rep_charset_none", Info, []string{})
	d := NewAssertion("rep_charset_none", Message, []string{})
	if !c.Less(d) {
		t.Error("expected INFO to sort before MESSAGE for equal ids")
	}
}

func TestAssertionEqualityIsByID(t *testing.T) {
	a := NewAssertion("rep_lang_conflict", Error, []string{"en", "de"})
	b := NewAssertion("rep_lang_conflict", Error, []string{})
	b.Title = "different title"
	if !a.Equal(b) {
		t.Error("assertions with the same id must be equal regardless of text and contexts")
	}
	c := NewAssertion("rep_charset_none", Error, []string{})
	if a.Equal(c) {
		t.Error("assertions with different ids must not be equal")
	}
}

func TestNewAssertionPanicsOnBadArguments(t *testing.T) {
	cases := []struct {
		name string
		fn   func()
	}{
		{"empty id", func() { NewAssertion("", Error, []string{}) }},
		{"empty severity", func() { NewAssertion("x", "", []string{}) }},
		{"nil contexts", func() { NewAssertion("x", Error, nil) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tc.fn()
		})
	}
}

func TestSortAssertions(t *testing.T) {
	list := []Assertion{
		NewAssertion("rep_charset_none", Warning, []string{}),
		NewAssertion("info_doctype", Info, []string{}),
		NewAssertion("no_content", Message, []string{}),
		NewAssertion("rep_charset_conflict", Error, []string{}),
	}
	SortAssertions(list)

	var ids []string
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	want := []string{"info_doctype", "no_content", "rep_charset_conflict", "rep_charset_none"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("got order %v, want %v", ids, want)
	}
}

func TestResourceHeaderLookupIsCaseInsensitive(t *testing.T) {
	res := NewResource("", nil, map[string][]string{
		"content-type": {"text/html"},
	})
	if got := res.Header("Content-Type"); got != "text/html" {
		t.Errorf("got %q", got)
	}
	if got := res.Header("CONTENT-TYPE"); got != "text/html" {
		t.Errorf("got %q", got)
	}
	if res.HasHeader("X-Missing") {
		t.Error("unexpected header")
	}
}

func TestResourceRepeatedHeaderConcatenation(t *testing.T) {
	// Repeated values are concatenated with no delimiter. This mirrors
	// the original checker's append behavior and is deliberate.
	res := NewResource("", nil, map[string][]string{
		"Content-Language": {"en", "de"},
	})
	if got := res.Header("Content-Language"); got != "ende" {
		t.Errorf("got %q, want %q", got, "ende")
	}
	if got := res.HeaderValues("Content-Language"); !reflect.DeepEqual(got, []string{"en", "de"}) {
		t.Errorf("got %v", got)
	}
}
