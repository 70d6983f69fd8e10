// Package linkscan classifies every link in an in-app message document the
// way a message surface would when the link is tapped.
package linkscan

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/runnerr0/inkgate/internal/interceptor"
)

// Finding is the outcome of tapping one link.
type Finding struct {
	Href            string             `json:"href"`
	URL             string             `json:"url"`
	Action          interceptor.Action `json:"action"`
	Policy          interceptor.Policy `json:"policy"`
	TearsDown       bool               `json:"tears_down"`
	Identifiers     []string           `json:"identifiers,omitempty"`
	InFrame         bool               `json:"in_frame"`
	InAppBrowser    bool               `json:"in_app_browser"`
	ShowCloseButton bool               `json:"show_close_button"`
}

// Describe classifies u as a navigation inside a surface.
func Describe(u *url.URL, inAppBrowser bool) Finding {
	l := interceptor.NewLink(u)
	c := interceptor.Classify(l, inAppBrowser)
	return Finding{
		Href:            u.String(),
		URL:             u.String(),
		Action:          c.Action,
		Policy:          c.Policy(),
		TearsDown:       c.TearsDown(),
		Identifiers:     c.Identifiers,
		InFrame:         l.InFrame(),
		InAppBrowser:    l.InAppBrowser(),
		ShowCloseButton: l.ShowCloseButton(),
	}
}

// Scan finds <a href="..."> values in document order, resolves them against
// baseURL and classifies each one. Duplicate URLs are reported once;
// malformed hrefs are skipped.
func Scan(baseURL string, r io.Reader) ([]Finding, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	seen := make(map[string]struct{})
	var out []Finding

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if !strings.EqualFold(a.Key, "href") {
					continue
				}
				href := strings.TrimSpace(a.Val)
				if href == "" {
					continue
				}

				u, err := url.Parse(href)
				if err != nil {
					continue
				}
				resolved := base.ResolveReference(u)

				s := resolved.String()
				if _, ok := seen[s]; ok {
					continue
				}
				seen[s] = struct{}{}

				f := Describe(resolved, false)
				f.Href = href
				out = append(out, f)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return out, nil
}
