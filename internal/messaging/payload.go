package messaging

import "strings"

// MILinkPrefix marks an in-app message that should be rendered by the
// custom surface instead of the vendor's native layout.
const MILinkPrefix = "mi_link:"

// Payload is a decoded in-app message or push notification body.
type Payload map[string]any

// MILink returns the link carried in the title text after the mi_link:
// prefix. ok is false when the title does not carry the prefix.
func (p Payload) MILink() (link string, ok bool) {
	text, found := lookupString(p["title"], "text")
	if !found || !strings.HasPrefix(text, MILinkPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(text, MILinkPrefix)), true
}

// MessageID returns the message identifier, or "" when the payload has none.
func (p Payload) MessageID() string {
	for _, key := range []string{"id", "messageId"} {
		if id, ok := p[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// NotificationURLs returns aps.alert.url and aps.url, in that order, for
// whichever are present.
func (p Payload) NotificationURLs() []string {
	aps, ok := asMap(p["aps"])
	if !ok {
		return nil
	}
	var urls []string
	if u, ok := lookupString(aps["alert"], "url"); ok {
		urls = append(urls, u)
	}
	if u, ok := aps["url"].(string); ok {
		urls = append(urls, u)
	}
	return urls
}

func lookupString(v any, key string) (string, bool) {
	m, ok := asMap(v)
	if !ok {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Payload:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}
