package interceptor

import (
	"fmt"
	"log/slog"
	"net/url"
)

// State is the lifecycle position of a Surface.
type State int

const (
	StateCreated State = iota
	StateLoading
	StateLoaded
	StateNavigating
	StateDismissed
	StateExternalHandoff
)

var stateNames = map[State]string{
	StateCreated:         "created",
	StateLoading:         "loading",
	StateLoaded:          "loaded",
	StateNavigating:      "navigating",
	StateDismissed:       "dismissed",
	StateExternalHandoff: "external_handoff",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the surface has been torn down.
func (s State) Terminal() bool {
	return s == StateDismissed || s == StateExternalHandoff
}

// Handler receives the button or analytics identifier of a tapped link.
type Handler func(token string)

// Platform is the host UI a Surface drives. All calls are made from the
// goroutine that drives the Surface.
type Platform interface {
	// Present puts the surface on screen. The host calls DidPresent once it
	// is visible and then Begin.
	Present(s *Surface)
	// Teardown removes the surface from screen.
	Teardown(s *Surface)
	// Load starts loading u in the surface's web view.
	Load(s *Surface, u *url.URL)
	// Reveal fades the content in and stops the loading indicator.
	Reveal(s *Surface)
	// SetCloseButtonVisible shows or hides the native close control.
	SetCloseButtonVisible(s *Surface, visible bool)
	// OpenURL asks the system to open u outside the app.
	OpenURL(u *url.URL)
}

// Options configures a new Surface.
type Options struct {
	// InAppBrowser makes the surface a first-class browser that loads every
	// http(s) navigation in place.
	InAppBrowser bool
	// ShowCloseButton shows the native close control from the start.
	ShowCloseButton bool
}

// Surface is one in-app message or in-app browser display. It is not safe
// for concurrent use; drive it from the UI goroutine.
type Surface struct {
	platform Platform
	handler  Handler
	logger   *slog.Logger

	link         *url.URL
	inAppBrowser bool
	closeButton  bool

	state       State
	current     *Link
	successor   *Surface
	presented   bool
	onPresented []func()
}

// New creates a surface for link without presenting it.
func New(p Platform, link *url.URL, opts Options, handler Handler) *Surface {
	if handler == nil {
		handler = func(string) {}
	}
	return &Surface{
		platform:     p,
		handler:      handler,
		logger:       slog.Default().With("component", "surface"),
		link:         link,
		inAppBrowser: opts.InAppBrowser,
		closeButton:  opts.ShowCloseButton,
		state:        StateCreated,
	}
}

// Show creates a surface for link and asks the platform to present it.
func Show(p Platform, link *url.URL, opts Options, handler Handler) *Surface {
	s := New(p, link, opts, handler)
	p.Present(s)
	return s
}

func (s *Surface) State() State             { return s.state }
func (s *Surface) Link() *url.URL           { return s.link }
func (s *Surface) InAppBrowser() bool       { return s.inAppBrowser }
func (s *Surface) CloseButtonVisible() bool { return s.closeButton }
func (s *Surface) Current() *Link           { return s.current }
func (s *Surface) Successor() *Surface      { return s.successor }

// OnPresented registers fn to run when the host reports the surface visible.
// If that already happened fn runs immediately.
func (s *Surface) OnPresented(fn func()) {
	if s.presented {
		fn()
		return
	}
	s.onPresented = append(s.onPresented, fn)
}

// DidPresent is called by the host once the surface is on screen.
func (s *Surface) DidPresent() {
	if s.presented {
		return
	}
	s.presented = true
	hooks := s.onPresented
	s.onPresented = nil
	for _, fn := range hooks {
		fn()
	}
}

// Begin composes the URL to load and starts loading it. A URL that cannot be
// composed tears the surface down instead.
func (s *Surface) Begin() {
	if s.state != StateCreated {
		return
	}

	composed, err := ComposeLoadURL(s.link)
	if err != nil {
		s.logger.Warn("invalid in-app message link, dismissing", "link", s.link.String(), "error", err)
		s.teardown(StateDismissed)
		return
	}

	s.current = NewLink(composed)
	if s.current.ShowCloseButton() {
		s.showCloseButton()
	}

	s.state = StateLoading
	s.platform.Load(s, composed)
}

// DecidePolicy classifies a navigation the web view is about to perform,
// carries out its side effects, and returns whether the web view may load
// it.
func (s *Surface) DecidePolicy(target *url.URL) Policy {
	if s.state.Terminal() {
		return PolicyCancel
	}

	c := Classify(NewLink(target), s.inAppBrowser)
	s.logger.Debug("navigation classified", "url", target.String(), "action", c.Action.String())

	for _, id := range c.Identifiers {
		s.handler(id)
	}

	switch c.Action {
	case ActionLoad:
		s.current = c.Link
		if s.current.ShowCloseButton() {
			s.showCloseButton()
		}
		if s.state == StateLoaded {
			s.state = StateNavigating
		}
	case ActionOpenInAppBrowser:
		s.teardown(StateDismissed)
		s.successor = Show(s.platform, target, Options{InAppBrowser: true}, s.handler)
	case ActionOpenExternal:
		// The surface stays up so the user can come back to it.
		s.platform.OpenURL(target)
	case ActionDismiss:
		s.teardown(StateDismissed)
	case ActionDeepLink:
		s.platform.OpenURL(target)
		s.teardown(StateExternalHandoff)
	}

	return c.Policy()
}

// DidFinish is called when a page load completes.
func (s *Surface) DidFinish() {
	if s.state.Terminal() {
		return
	}
	s.state = StateLoaded
	s.platform.Reveal(s)
}

// Close handles a tap on the close control. The handler is not called.
func (s *Surface) Close() {
	s.teardown(StateDismissed)
}

// showCloseButton turns the close control on. Nothing turns it back off.
func (s *Surface) showCloseButton() {
	if s.closeButton {
		return
	}
	s.closeButton = true
	s.platform.SetCloseButtonVisible(s, true)
}

func (s *Surface) teardown(final State) {
	if s.state.Terminal() {
		return
	}
	s.state = final
	s.platform.Teardown(s)
}
