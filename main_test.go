package main

import (
	"errors"
	"testing"
)

// run must surface findings through the error return so deferred
// cleanup (the --json file handle) executes before the process exits.
func TestRunReturnsFindingsSentinel(t *testing.T) {
	flagJSON = ""
	flagContentType = "text/html"

	err := run("testdata/fixtures/no-charset.html")
	if !errors.Is(err, errFindings) {
		t.Fatalf("expected errFindings, got %v", err)
	}
}

func TestRunCleanDocument(t *testing.T) {
	flagJSON = ""
	flagContentType = "text/html"

	if err := run("testdata/fixtures/utf8-clean.html"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
