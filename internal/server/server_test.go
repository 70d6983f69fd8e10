package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/inkgate/internal/events"
	"github.com/runnerr0/inkgate/internal/messaging"
	"github.com/runnerr0/inkgate/internal/seen"
	"github.com/runnerr0/inkgate/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *seen.Store) {
	t.Helper()
	gate := seen.New(storage.NewMemoryStore(), nil)
	return New(gate, Options{MaxRequestSize: 4096}), gate
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec, out := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
}

func TestCanShowAndMarkShown(t *testing.T) {
	s, gate := newTestServer(t)

	rec, out := do(t, s, http.MethodGet, "/v1/messages/m1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["can_show"])

	rec, out = do(t, s, http.MethodPost, "/v1/messages/m1/shown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["marked"])
	assert.False(t, gate.CanShow(context.Background(), "m1"))

	_, out = do(t, s, http.MethodGet, "/v1/messages/m1", "")
	assert.Equal(t, false, out["can_show"])
}

func TestDecide(t *testing.T) {
	s, _ := newTestServer(t)
	msg := `{"id":"m1","title":{"text":"mi_link:https://mi.example.com/p/1"}}`

	rec, out := do(t, s, http.MethodPost, "/v1/messages/decide", msg)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "custom", out["decision"])
	assert.Equal(t, "m1", out["message_id"])
	assert.Equal(t, "https://mi.example.com/p/1", out["link"])

	// Not marked until the caller reports it shown.
	_, out = do(t, s, http.MethodPost, "/v1/messages/decide", msg)
	assert.Equal(t, "custom", out["decision"])

	do(t, s, http.MethodPost, "/v1/messages/m1/shown", "")
	_, out = do(t, s, http.MethodPost, "/v1/messages/decide", msg)
	assert.Equal(t, "suppressed", out["decision"])
	assert.Nil(t, out["link"])
}

func TestDecide_Native(t *testing.T) {
	s, _ := newTestServer(t)
	_, out := do(t, s, http.MethodPost, "/v1/messages/decide", `{"id":"m1","title":{"text":"Sale"}}`)
	assert.Equal(t, "native", out["decision"])
}

func TestDecide_BadBody(t *testing.T) {
	s, _ := newTestServer(t)
	rec, out := do(t, s, http.MethodPost, "/v1/messages/decide", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, out["error"])
}

func TestDecide_BodyTooLarge(t *testing.T) {
	s, _ := newTestServer(t)
	big := `{"id":"` + strings.Repeat("x", 8192) + `"}`
	rec, _ := do(t, s, http.MethodPost, "/v1/messages/decide", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassify(t *testing.T) {
	s, _ := newTestServer(t)

	rec, out := do(t, s, http.MethodPost, "/v1/links/classify",
		`{"url":"https://shop.example.com/x?inAppBrowser&buttonID=browse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "open_in_app_browser", out["action"])
	assert.Equal(t, "cancel", out["policy"])
	assert.Equal(t, []any{"browse"}, out["identifiers"])

	_, out = do(t, s, http.MethodPost, "/v1/links/classify",
		`{"url":"https://shop.example.com/x","in_app_browser":true}`)
	assert.Equal(t, "load", out["action"])
}

func TestClassify_MissingURL(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := do(t, s, http.MethodPost, "/v1/links/classify", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNavigate_PublishesClickEvents(t *testing.T) {
	var got []events.ClickEvent
	sink := events.SinkFunc(func(ctx context.Context, e events.ClickEvent) error {
		got = append(got, e)
		return nil
	})
	gate := seen.New(storage.NewMemoryStore(), nil)
	s := New(gate, Options{Adapter: []messaging.Option{messaging.WithSink(sink)}})

	rec, out := do(t, s, http.MethodPost, "/v1/messages/navigate",
		`{"url":"dismiss://?buttonID=close&analytics_identifier=promo","mi_link":"https://mi.example.com/p/1","message_id":"m1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dismiss", out["action"])
	assert.Equal(t, true, out["tears_down"])

	require.Len(t, got, 2)
	assert.Equal(t, "close", got[0].ButtonID)
	assert.Equal(t, "promo", got[1].ButtonID)
	for _, e := range got {
		assert.Equal(t, events.ClickEventName, e.Name)
		assert.Equal(t, "https://mi.example.com/p/1", e.MILink)
		assert.Equal(t, "m1", e.MessageID)
	}
}

func TestNavigate_PlainLinkPublishesNothing(t *testing.T) {
	var got []events.ClickEvent
	sink := events.SinkFunc(func(ctx context.Context, e events.ClickEvent) error {
		got = append(got, e)
		return nil
	})
	s := New(seen.New(storage.NewMemoryStore(), nil), Options{Adapter: []messaging.Option{messaging.WithSink(sink)}})

	rec, out := do(t, s, http.MethodPost, "/v1/messages/navigate", `{"url":"https://shop.example.com/x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "open_external", out["action"])
	assert.Empty(t, got)
}

func TestNavigate_MissingURL(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := do(t, s, http.MethodPost, "/v1/messages/navigate", `{"message_id":"m1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoute(t *testing.T) {
	s, _ := newTestServer(t)

	rec, out := do(t, s, http.MethodPost, "/v1/deeplinks/route",
		`{"url":"ink-retail-uikit://movableink-inkredible-retail.herokuapp.com/category/womens/dresses/"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["matched"])
	d, ok := out["deeplink"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "products", d["kind"])
	assert.Equal(t, "women", d["gender"])
	assert.Equal(t, "dresses", d["category"])

	_, out = do(t, s, http.MethodPost, "/v1/deeplinks/route", `{"url":"ink-retail-uikit://host/cart"}`)
	assert.Equal(t, false, out["matched"])
	assert.Nil(t, out["deeplink"])
}

func TestRoute_BadURL(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := do(t, s, http.MethodPost, "/v1/deeplinks/route", `{"url":"%zz"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	assert.NoError(t, <-done)
}
