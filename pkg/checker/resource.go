package checker

import (
	"net/textproto"
	"strings"
)

// Resource is one retrieved web document: its origin, body bytes, and
// the HTTP response headers it arrived with. Header names are matched
// case-insensitively. A Resource is read-only once built; the checker
// borrows it for the duration of a single analysis.
type Resource struct {
	url     string
	body    []byte
	headers map[string][]string
}

// NewResource builds a Resource. Header names are canonicalized so
// later lookups are case-insensitive; value order is preserved.
func NewResource(url string, body []byte, headers map[string][]string) *Resource {
	canon := make(map[string][]string, len(headers))
	for name, values := range headers {
		key := textproto.CanonicalMIMEHeaderKey(name)
		canon[key] = append(canon[key], values...)
	}
	return &Resource{url: url, body: body, headers: canon}
}

// URL returns the document's origin URL, possibly empty for local input.
func (r *Resource) URL() string { return r.url }

// Body returns the raw document bytes.
func (r *Resource) Body() []byte { return r.body }

// Header returns the value of the named header. Repeated header values
// are concatenated with no delimiter between them; downstream rules
// depend on that exact shape. Use HeaderValues for the untouched list.
func (r *Resource) Header(name string) string {
	values := r.headers[textproto.CanonicalMIMEHeaderKey(name)]
	if len(values) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(v)
	}
	return sb.String()
}

// HeaderValues returns all values of the named header in arrival order,
// or nil if the header is absent.
func (r *Resource) HeaderValues(name string) []string {
	return r.headers[textproto.CanonicalMIMEHeaderKey(name)]
}

// HasHeader reports whether the named header is present.
func (r *Resource) HasHeader(name string) bool {
	return len(r.headers[textproto.CanonicalMIMEHeaderKey(name)]) > 0
}
