// Package fetch retrieves a web document into a checker Resource. The
// checker core performs no I/O; cancellation and timeouts live here.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a response is read. Encoding and
// language declarations live near the top of a document; 10 MiB is far
// past anything a rule inspects.
const maxBodyBytes = 10 << 20

// Result carries the retrieved document before it becomes a Resource.
type Result struct {
	URL     string
	Body    []byte
	Headers map[string][]string
	Status  int
}

// Fetch GETs the document at url and captures its body and response
// headers. No retries are attempted; pass a client with the timeout
// policy you want.
func Fetch(ctx context.Context, client *http.Client, url string) (*Result, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	headers := make(map[string][]string, len(resp.Header))
	for name, values := range resp.Header {
		headers[name] = append([]string(nil), values...)
	}

	return &Result{
		URL:     url,
		Body:    body,
		Headers: headers,
		Status:  resp.StatusCode,
	}, nil
}
