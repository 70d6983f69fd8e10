// Package messaging adapts a vendor messaging SDK's callbacks to the seen
// gate and the link interceptor.
package messaging

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/runnerr0/inkgate/internal/events"
	"github.com/runnerr0/inkgate/internal/interceptor"
	"github.com/runnerr0/inkgate/internal/seen"
)

// ShowDecision tells the vendor SDK how to treat an in-app message.
type ShowDecision int

const (
	// DecisionNative lets the SDK render the message itself.
	DecisionNative ShowDecision = iota
	// DecisionCustom means a custom surface has taken the message over.
	DecisionCustom
	// DecisionSuppressed drops the message.
	DecisionSuppressed
)

var decisionNames = map[ShowDecision]string{
	DecisionNative:     "native",
	DecisionCustom:     "custom",
	DecisionSuppressed: "suppressed",
}

func (d ShowDecision) String() string {
	if name, ok := decisionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

func (d ShowDecision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// EventDelegate is the set of callbacks a vendor messaging SDK delivers.
type EventDelegate interface {
	DecideDisplay(ctx context.Context, payload Payload) ShowDecision
	OnDeviceTokenRegistered(ctx context.Context, token []byte) error
	OnRemoteNotification(ctx context.Context, payload Payload) bool
}

// TokenRegistrar receives the push token as a hex string.
type TokenRegistrar interface {
	RegisterDeviceToken(ctx context.Context, hexToken string) error
}

// LinkHandler opens universal links carried by push notifications.
type LinkHandler interface {
	HandleUniversalLink(ctx context.Context, u *url.URL) bool
}

// Adapter is the EventDelegate wired to a seen gate and a display platform.
type Adapter struct {
	gate      seen.Gate
	platform  interceptor.Platform
	sink      events.Sink
	registrar TokenRegistrar
	links     LinkHandler
	logger    *slog.Logger
}

var _ EventDelegate = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

func WithSink(s events.Sink) Option              { return func(a *Adapter) { a.sink = s } }
func WithTokenRegistrar(r TokenRegistrar) Option { return func(a *Adapter) { a.registrar = r } }
func WithLinkHandler(h LinkHandler) Option       { return func(a *Adapter) { a.links = h } }
func WithLogger(l *slog.Logger) Option           { return func(a *Adapter) { a.logger = l } }

// NewAdapter builds an Adapter. Without WithSink click events are logged.
func NewAdapter(gate seen.Gate, platform interceptor.Platform, opts ...Option) *Adapter {
	a := &Adapter{gate: gate, platform: platform}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.sink == nil {
		a.sink = events.LogSink{Logger: a.logger}
	}
	return a
}

// DecideDisplay implements EventDelegate.
func (a *Adapter) DecideDisplay(ctx context.Context, payload Payload) ShowDecision {
	d, _ := a.Decide(ctx, payload)
	return d
}

// Decide is DecideDisplay that also returns the surface it presented, if any.
// The message is marked shown once the platform reports the surface visible.
func (a *Adapter) Decide(ctx context.Context, payload Payload) (ShowDecision, *interceptor.Surface) {
	raw, ok := payload.MILink()
	if !ok {
		return DecisionNative, nil
	}

	link, err := url.Parse(raw)
	if err != nil || link.Scheme == "" {
		a.logger.Warn("in-app message link is not a valid url", "link", raw)
		return DecisionSuppressed, nil
	}

	id := payload.MessageID()
	if !a.gate.CanShow(ctx, id) {
		a.logger.Debug("in-app message already shown", "message_id", id)
		return DecisionSuppressed, nil
	}

	markCtx := context.WithoutCancel(ctx)
	s := interceptor.New(a.platform, link, interceptor.Options{}, a.clickHandler(markCtx, raw, id))
	s.OnPresented(func() { a.gate.MarkShown(markCtx, id) })
	a.platform.Present(s)

	return DecisionCustom, s
}

// ReportNavigation classifies a navigation made inside a message the caller
// renders itself and publishes a click event for each identifier it carries.
func (a *Adapter) ReportNavigation(ctx context.Context, miLink, messageID string, u *url.URL, inAppBrowser bool) interceptor.Classification {
	c := interceptor.Classify(interceptor.NewLink(u), inAppBrowser)
	click := a.clickHandler(ctx, miLink, messageID)
	for _, id := range c.Identifiers {
		click(id)
	}
	return c
}

func (a *Adapter) clickHandler(ctx context.Context, miLink, messageID string) interceptor.Handler {
	return func(token string) {
		e := events.NewClickEvent(token, miLink, messageID)
		if err := a.sink.Publish(ctx, e); err != nil {
			a.logger.Warn("failed to publish click event", "button_id", token, "error", err)
		}
	}
}

// OnDeviceTokenRegistered implements EventDelegate.
func (a *Adapter) OnDeviceTokenRegistered(ctx context.Context, token []byte) error {
	hexToken := hex.EncodeToString(token)
	if a.registrar == nil {
		a.logger.Debug("no token registrar configured", "token", hexToken)
		return nil
	}
	if err := a.registrar.RegisterDeviceToken(ctx, hexToken); err != nil {
		return fmt.Errorf("register device token: %w", err)
	}
	return nil
}

// OnRemoteNotification implements EventDelegate. Every url the notification
// carries is handed to the link handler; it reports whether any was handled.
func (a *Adapter) OnRemoteNotification(ctx context.Context, payload Payload) bool {
	if a.links == nil {
		return false
	}
	handled := false
	for _, raw := range payload.NotificationURLs() {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" {
			a.logger.Warn("notification url is not valid", "url", raw)
			continue
		}
		if a.links.HandleUniversalLink(ctx, u) {
			handled = true
		}
	}
	return handled
}
