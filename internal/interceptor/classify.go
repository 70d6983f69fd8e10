package interceptor

import "fmt"

// Action is what the surface does with a requested navigation.
type Action int

const (
	// ActionLoad lets the navigation load inside the surface.
	ActionLoad Action = iota
	// ActionOpenInAppBrowser replaces the surface with an in-app browser.
	ActionOpenInAppBrowser
	// ActionOpenExternal hands an http(s) link to the system browser. The
	// surface stays up.
	ActionOpenExternal
	// ActionDismiss closes the surface.
	ActionDismiss
	// ActionDeepLink hands a custom-scheme URL to the host and closes the
	// surface.
	ActionDeepLink
)

var actionNames = map[Action]string{
	ActionLoad:             "load",
	ActionOpenInAppBrowser: "open_in_app_browser",
	ActionOpenExternal:     "open_external",
	ActionDismiss:          "dismiss",
	ActionDeepLink:         "deep_link",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Policy is the answer given to the web view for a navigation.
type Policy int

const (
	PolicyAllow Policy = iota
	PolicyCancel
)

func (p Policy) String() string {
	if p == PolicyAllow {
		return "allow"
	}
	return "cancel"
}

// MarshalText encodes the policy by name.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Classification is the outcome of classifying one navigation.
type Classification struct {
	Link        *Link
	Action      Action
	Identifiers []string
}

// Policy returns allow only for in-place loads.
func (c Classification) Policy() Policy {
	if c.Action == ActionLoad {
		return PolicyAllow
	}
	return PolicyCancel
}

// TearsDown reports whether acting on c ends the current surface.
func (c Classification) TearsDown() bool {
	switch c.Action {
	case ActionOpenInAppBrowser, ActionDismiss, ActionDeepLink:
		return true
	}
	return false
}

// Classify decides what to do with a navigation to l on a surface that is,
// or is not, an in-app browser. It has no side effects.
func Classify(l *Link, inAppBrowser bool) Classification {
	c := Classification{Link: l, Identifiers: l.Identifiers()}

	switch {
	case l.IsWeb():
		switch {
		case inAppBrowser, l.InFrame():
			c.Action = ActionLoad
		case l.InAppBrowser():
			c.Action = ActionOpenInAppBrowser
		default:
			c.Action = ActionOpenExternal
		}
	case l.Scheme() == SchemeDismiss:
		c.Action = ActionDismiss
	default:
		c.Action = ActionDeepLink
	}

	return c
}
