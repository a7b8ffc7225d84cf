package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/i18ncheck/i18ncheck/pkg/checker"
	"github.com/i18ncheck/i18ncheck/pkg/fetch"
	"github.com/i18ncheck/i18ncheck/pkg/report"
	"github.com/i18ncheck/i18ncheck/pkg/templates"
)

const version = "0.1.0"

// errFindings signals that the check ran to completion and found errors.
// It travels up through cobra so deferred cleanup in run still executes
// before the process exits with status 1.
var errFindings = errors.New("errors detected")

var (
	flagJSON        string
	flagContentType string
	flagTimeout     time.Duration
)

func main() {
	root := &cobra.Command{
		Use:     "i18ncheck <url-or-file>",
		Short:   "Check a web document for internationalization problems",
		Long:    "i18ncheck analyzes an HTML/XHTML document and reports findings about its character encoding, language, and text direction declarations.",
		Args:    cobra.ExactArgs(1),
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(args[0])
		},
	}
	root.Flags().StringVar(&flagJSON, "json", "", "write JSON output to a file, or '-' for stdout")
	root.Flags().StringVar(&flagContentType, "content-type", "text/html", "Content-Type header to assume for local files")
	root.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "fetch timeout for URLs")

	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(2)
	}
}

func run(target string) error {
	tpl, err := templates.Load()
	if err != nil {
		return err
	}
	if err := validateCatalog(tpl); err != nil {
		return err
	}

	res, err := loadResource(target)
	if err != nil {
		return err
	}

	assertions, err := checker.Analyze(res, tpl)
	if err != nil {
		return err
	}

	r := report.New(res.URL(), assertions)
	r.WriteText(os.Stderr)

	switch flagJSON {
	case "":
	case "-":
		if err := r.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	default:
		f, err := os.Create(flagJSON)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagJSON, err)
		}
		defer f.Close()
		if err := r.WriteJSON(f); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	}

	// Exit codes follow the usual checker contract: 0 clean, 1 errors.
	if !r.IsClean() {
		return errFindings
	}
	return nil
}

// validateCatalog confirms the embedded catalog covers everything the
// rule catalog can emit. A miss is a startup configuration error.
func validateCatalog(tpl *templates.Resolver) error {
	var pairs []templates.Pair
	for _, p := range checker.EmittablePairs() {
		pairs = append(pairs, templates.Pair{ID: p.ID, Severity: string(p.Severity)})
	}
	return tpl.Validate(pairs)
}

// loadResource turns a URL or local path into a checker Resource. Local
// files are given a synthesized Content-Type header so header-dependent
// rules behave predictably.
func loadResource(target string) (*checker.Resource, error) {
	if u, err := url.Parse(target); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		client := &http.Client{Timeout: flagTimeout}
		ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
		defer cancel()
		result, err := fetch.Fetch(ctx, client, target)
		if err != nil {
			return nil, err
		}
		return checker.NewResource(result.URL, result.Body, result.Headers), nil
	}

	body, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	headers := map[string][]string{}
	if strings.TrimSpace(flagContentType) != "" {
		headers["Content-Type"] = []string{flagContentType}
	}
	return checker.NewResource("", body, headers), nil
}
