package capture

import (
	"encoding/json"
	"net/http"
	"testing"

	hhttp "github.com/abdul-hamid-achik/hitdoc/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyJSON_RoundTrip(t *testing.T) {
	inputs := []string{
		`{"target":"nurse"}`,
		`{"order":{"items":[1,2,{"id":"x"}],"paid":false,"note":null}}`,
		`[1,"two",3.5]`,
		`{}`,
	}

	for _, input := range inputs {
		pretty, ok := PrettyJSON([]byte(input))
		require.True(t, ok, input)

		var original, parsed any
		require.NoError(t, json.Unmarshal([]byte(input), &original))
		require.NoError(t, json.Unmarshal([]byte(pretty), &parsed))
		assert.Equal(t, original, parsed)
	}
}

func TestPrettyJSON_Invalid(t *testing.T) {
	for _, input := range []string{"", "target=nurse", "{broken"} {
		_, ok := PrettyJSON([]byte(input))
		assert.False(t, ok, input)
	}
}

func TestFormatRequestBody(t *testing.T) {
	assert.Nil(t, FormatRequestBody(nil))
	assert.Nil(t, FormatRequestBody([]byte("  ")))

	body := FormatRequestBody([]byte("order%5Bsize%5D=large&note=rush+please"))
	require.NotNil(t, body)
	assert.Equal(t, "order[size]=large\nnote=rush please", *body)

	body = FormatRequestBody([]byte(`{"a":[1,2]}`))
	require.NotNil(t, body)
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}", *body)
}

func TestFormatResponseBody(t *testing.T) {
	assert.Nil(t, FormatResponseBody(nil))

	body := FormatResponseBody([]byte("plain text"))
	require.NotNil(t, body)
	assert.Equal(t, "plain text", *body)
}

func TestFormatHeaders(t *testing.T) {
	assert.Equal(t, "", FormatHeaders(nil))
	assert.Equal(t, "B: 2\nA: 1", FormatHeaders([]hhttp.Header{{Name: "B", Value: "2"}, {Name: "A", Value: "1"}}))
}

func TestFormatResponseHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Request-Id", "42")
	headers.Set("Content-Length", "2")
	headers.Set("Content-Type", "text/plain")
	headers.Add("Set-Cookie", "a=1")
	headers.Add("Set-Cookie", "b=2")

	assert.Equal(t,
		"Content-Type: text/plain\nContent-Length: 2\nSet-Cookie: a=1\nSet-Cookie: b=2\nX-Request-Id: 42",
		FormatResponseHeaders(headers))
}

func TestFormatQuery(t *testing.T) {
	assert.Equal(t, "", FormatQuery(""))
	assert.Equal(t, "query: test query\norder[size]: large\nflag: ", FormatQuery("query=test+query&order%5Bsize%5D=large&flag"))
}
