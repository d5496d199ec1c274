package types

import (
	"net/textproto"
	"net/url"

	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
)

// RequestContext carries everything the classification pipeline needs to know
// about one inbound visit. It lives for the duration of a single request and
// is never persisted.
type RequestContext struct {
	ClientIP    string
	UserAgent   string
	CountryHint string
	Query       url.Values
	Headers     map[string]string
	Telemetry   *telemetry.ClientTelemetry
}

// Header returns a header value, empty when absent. Keys are stored in
// canonical MIME form and the lookup name is canonicalized the same way, so
// callers may use any casing.
func (r *RequestContext) Header(name string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[textproto.CanonicalMIMEHeaderKey(name)]
}
