package interceptor

import "net/url"

// fakePlatform records every call a Surface makes.
type fakePlatform struct {
	presented   []*Surface
	tornDown    []*Surface
	loaded      []string
	revealed    int
	closeButton []bool
	opened      []string
}

func (f *fakePlatform) Present(s *Surface)          { f.presented = append(f.presented, s) }
func (f *fakePlatform) Teardown(s *Surface)         { f.tornDown = append(f.tornDown, s) }
func (f *fakePlatform) Load(s *Surface, u *url.URL) { f.loaded = append(f.loaded, u.String()) }
func (f *fakePlatform) Reveal(s *Surface)           { f.revealed++ }
func (f *fakePlatform) SetCloseButtonVisible(s *Surface, visible bool) {
	f.closeButton = append(f.closeButton, visible)
}
func (f *fakePlatform) OpenURL(u *url.URL) { f.opened = append(f.opened, u.String()) }

// tokens collects handler invocations.
type tokens []string

func (t *tokens) handler() Handler {
	return func(token string) { *t = append(*t, token) }
}

func mustURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}
