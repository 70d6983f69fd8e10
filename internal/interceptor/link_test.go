package interceptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLink_PreservesOrderAndDuplicates(t *testing.T) {
	l, err := ParseLink("https://x/y?buttonID=1&inFrame&buttonID=2&empty=")
	require.NoError(t, err)

	require.Len(t, l.Params, 4)
	assert.Equal(t, QueryParam{Name: "buttonID", Value: "1", HasValue: true}, l.Params[0])
	assert.Equal(t, QueryParam{Name: "inFrame"}, l.Params[1])
	assert.Equal(t, QueryParam{Name: "buttonID", Value: "2", HasValue: true}, l.Params[2])
	assert.Equal(t, QueryParam{Name: "empty", HasValue: true}, l.Params[3])
}

func TestLink_ValueLastMatchWins(t *testing.T) {
	l, err := ParseLink("https://x/y?buttonID=first&buttonID=second")
	require.NoError(t, err)

	v, ok := l.Value(ParamButtonID)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestLink_ValueSkipsBareNames(t *testing.T) {
	l, err := ParseLink("https://x/y?buttonID=real&buttonID")
	require.NoError(t, err)

	v, ok := l.Value(ParamButtonID)
	assert.True(t, ok)
	assert.Equal(t, "real", v)
}

func TestLink_Flags(t *testing.T) {
	l, err := ParseLink("https://x/y?inFrame=ignored&inAppBrowser&showCloseButton=0")
	require.NoError(t, err)

	assert.True(t, l.InFrame(), "presence alone marks inFrame")
	assert.True(t, l.InAppBrowser())
	assert.True(t, l.ShowCloseButton())

	plain, err := ParseLink("https://x/y?a=b")
	require.NoError(t, err)
	assert.False(t, plain.InFrame())
	assert.False(t, plain.InAppBrowser())
	assert.False(t, plain.ShowCloseButton())
}

func TestLink_ParamNamesAreCaseSensitive(t *testing.T) {
	l, err := ParseLink("https://x/y?INFRAME&ButtonID=7")
	require.NoError(t, err)

	assert.False(t, l.InFrame())
	assert.Empty(t, l.Identifiers())
}

func TestLink_IdentifiersOrder(t *testing.T) {
	l, err := ParseLink("https://x/y?analytics_identifier=a1&buttonID=b1")
	require.NoError(t, err)

	assert.Equal(t, []string{"b1", "a1"}, l.Identifiers())
}

func TestLink_IdentifiersDecoded(t *testing.T) {
	l, err := ParseLink("myapp://go?buttonID=shop%20now")
	require.NoError(t, err)

	assert.Equal(t, []string{"shop now"}, l.Identifiers())
}

func TestLink_IdentifiersEmptyValueCounts(t *testing.T) {
	l, err := ParseLink("dismiss://?buttonID=&analytics_identifier=close")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "close"}, l.Identifiers())
}

func TestLink_IdentifiersBareNameSkipped(t *testing.T) {
	l, err := ParseLink("dismiss://?buttonID&analytics_identifier=close")
	require.NoError(t, err)

	assert.Equal(t, []string{"close"}, l.Identifiers())
}

func TestLink_IsWeb(t *testing.T) {
	cases := map[string]bool{
		"https://x/y":        true,
		"HTTP://x/y":         true,
		"/relative/path":     true,
		"dismiss://":         false,
		"myapp://deeplink/x": false,
		"mailto:a@b.c":       false,
	}
	for raw, want := range cases {
		l, err := ParseLink(raw)
		require.NoError(t, err)
		assert.Equal(t, want, l.IsWeb(), raw)
	}
}

func TestComposeLoadURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://mi.example.com/p/rp/12345.html", "https://mi.example.com/p/rp/12345.html?inFrame"},
		{"https://mi.example.com/p?mi_u=abc", "https://mi.example.com/p?mi_u=abc&inFrame"},
		{"https://mi.example.com/p?a=1#top", "https://mi.example.com/p?a=1&inFrame#top"},
	}
	for _, tc := range cases {
		got, err := ComposeLoadURL(mustURL(tc.in))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.String())
	}
}

func TestComposeLoadURL_DoesNotMutateInput(t *testing.T) {
	u := mustURL("https://x/y?a=1")
	_, err := ComposeLoadURL(u)
	require.NoError(t, err)
	assert.Equal(t, "a=1", u.RawQuery)
}
