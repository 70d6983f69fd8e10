package interceptor

import (
	"net/url"
	"strings"
)

// Query parameter vocabulary understood inside in-app message content.
// Names are case-sensitive.
const (
	ParamInFrame             = "inFrame"
	ParamInAppBrowser        = "inAppBrowser"
	ParamShowCloseButton     = "showCloseButton"
	ParamButtonID            = "buttonID"
	ParamAnalyticsIdentifier = "analytics_identifier"
)

// SchemeDismiss closes the surface when navigated to, e.g. dismiss://.
const SchemeDismiss = "dismiss"

// QueryParam is one name/value pair as it appeared in the query string.
// HasValue is false for a bare name such as "inFrame".
type QueryParam struct {
	Name     string
	Value    string
	HasValue bool
}

// Link is a parsed navigation target. Params keeps the original order and
// duplicates; lookups return the last occurrence.
type Link struct {
	URL    *url.URL
	Params []QueryParam
}

// ParseLink parses raw into a Link.
func ParseLink(raw string) (*Link, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewLink(u), nil
}

// NewLink builds a Link from an already-parsed URL.
func NewLink(u *url.URL) *Link {
	return &Link{URL: u, Params: parseQuery(u.RawQuery)}
}

// parseQuery splits a raw query into ordered params. Undecodable pieces are
// kept verbatim rather than dropped.
func parseQuery(raw string) []QueryParam {
	if raw == "" {
		return nil
	}
	var params []QueryParam
	for _, piece := range strings.Split(raw, "&") {
		if piece == "" {
			continue
		}
		name, value, hasValue := strings.Cut(piece, "=")
		params = append(params, QueryParam{
			Name:     unescape(name),
			Value:    unescape(value),
			HasValue: hasValue,
		})
	}
	return params
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

// Scheme returns the lower-cased URL scheme, or "" for scheme-less links.
func (l *Link) Scheme() string {
	return strings.ToLower(l.URL.Scheme)
}

// IsWeb reports whether the link is an ordinary browsable link. Links with
// no scheme count as browsable.
func (l *Link) IsWeb() bool {
	switch l.Scheme() {
	case "http", "https", "":
		return true
	}
	return false
}

// Has reports whether a parameter named name is present, with or without a
// value.
func (l *Link) Has(name string) bool {
	for _, p := range l.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Value returns the value of the last parameter named name that carries a
// value.
func (l *Link) Value(name string) (string, bool) {
	for i := len(l.Params) - 1; i >= 0; i-- {
		p := l.Params[i]
		if p.Name == name && p.HasValue {
			return p.Value, true
		}
	}
	return "", false
}

func (l *Link) InFrame() bool         { return l.Has(ParamInFrame) }
func (l *Link) InAppBrowser() bool    { return l.Has(ParamInAppBrowser) }
func (l *Link) ShowCloseButton() bool { return l.Has(ParamShowCloseButton) }

// Identifiers returns the buttonID and analytics_identifier values, in that
// order. A parameter written with "=" counts even when its value is empty; a
// bare name does not.
func (l *Link) Identifiers() []string {
	var ids []string
	for _, name := range []string{ParamButtonID, ParamAnalyticsIdentifier} {
		if v, ok := l.Value(name); ok {
			ids = append(ids, v)
		}
	}
	return ids
}

// String returns the full URL.
func (l *Link) String() string {
	return l.URL.String()
}

// ComposeLoadURL returns u with the inFrame marker appended, so navigations
// back into the same content are recognized as internal. The result is
// re-parsed and an error is returned if it is not a valid URL.
func ComposeLoadURL(u *url.URL) (*url.URL, error) {
	composed := *u
	if composed.RawQuery == "" {
		composed.RawQuery = ParamInFrame
	} else {
		composed.RawQuery += "&" + ParamInFrame
	}
	return url.Parse(composed.String())
}
