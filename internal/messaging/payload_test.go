package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayload_MILink(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
		ok      bool
	}{
		{"any map", Payload{"title": map[string]any{"text": "mi_link:https://x.test/a"}}, "https://x.test/a", true},
		{"string map", Payload{"title": map[string]string{"text": "mi_link: https://x.test/a "}}, "https://x.test/a", true},
		{"no prefix", Payload{"title": map[string]any{"text": "Sale"}}, "", false},
		{"prefix not leading", Payload{"title": map[string]any{"text": "see mi_link:https://x.test"}}, "", false},
		{"title not a map", Payload{"title": "mi_link:https://x.test"}, "", false},
		{"no title", Payload{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.payload.MILink()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayload_MessageID(t *testing.T) {
	assert.Equal(t, "a", Payload{"id": "a", "messageId": "b"}.MessageID())
	assert.Equal(t, "b", Payload{"messageId": "b"}.MessageID())
	assert.Equal(t, "b", Payload{"id": "", "messageId": "b"}.MessageID())
	assert.Equal(t, "", Payload{"id": 42}.MessageID())
}

func TestPayload_NotificationURLs(t *testing.T) {
	p := Payload{"aps": map[string]any{"alert": map[string]any{"url": "a"}, "url": "b"}}
	assert.Equal(t, []string{"a", "b"}, p.NotificationURLs())

	assert.Equal(t, []string{"b"}, Payload{"aps": map[string]any{"url": "b"}}.NotificationURLs())
	assert.Nil(t, Payload{}.NotificationURLs())
}
