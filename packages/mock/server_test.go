package mock

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdul-hamid-achik/hitdoc/packages/capture"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func views() []*document.View {
	body := "{\n  \"id\": 1\n}"
	created := "{\n  \"id\": 2\n}"
	return []*document.View{
		{
			Description: "Getting an order",
			Method:      "GET",
			Path:        "/orders/:id",
			Transcripts: []capture.Transcript{{
				ResponseStatus:  200,
				ResponseBody:    &body,
				ResponseHeaders: "Content-Type: application/json\nContent-Length: 12\nX-Request-Id: abc",
			}},
		},
		{
			Description: "Getting a missing order",
			Method:      "GET",
			Path:        "/orders/:id",
			Transcripts: []capture.Transcript{{ResponseStatus: 404}},
		},
		{
			Description: "Creating an order",
			Method:      "POST",
			Path:        "/orders",
			Transcripts: []capture.Transcript{{
				ResponseStatus:  201,
				ResponseBody:    &created,
				ResponseHeaders: "Content-Type: application/json",
			}},
		},
		{Description: "No requests", Method: "DELETE", Path: "/orders/:id"},
	}
}

func TestServer_LoadViews(t *testing.T) {
	s := NewServer()
	s.LoadViews(views())

	routes := s.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "Getting an order", routes[0].Name)
	assert.Equal(t, "/orders/:id", routes[0].PathPattern)
	assert.NotContains(t, routes[0].Response.Headers, "Content-Length")
}

func TestServer_Handler(t *testing.T) {
	var logs bytes.Buffer
	s := NewServer(WithVerbose(true), WithLogger(log.New(&logs, "", 0)))
	s.LoadViews(views())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	tests := []struct {
		name        string
		method      string
		path        string
		wantStatus  int
		wantBody    string
		wantHeaders map[string]string
	}{
		{"path token matches any id", "GET", "/orders/42", 200, "{\n  \"id\": 1\n}", map[string]string{"X-Request-Id": "abc", "Content-Type": "application/json"}},
		{"trailing slash", "GET", "/orders/42/", 200, "{\n  \"id\": 1\n}", nil},
		{"post", "POST", "/orders", 201, "{\n  \"id\": 2\n}", nil},
		{"unknown route", "GET", "/users", 404, "404 page not found\n", nil},
		{"method mismatch", "DELETE", "/orders/1", 404, "404 page not found\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, string(body))
			for k, v := range tt.wantHeaders {
				assert.Equal(t, v, resp.Header.Get(k))
			}
		})
	}

	assert.Contains(t, logs.String(), "GET /orders/42 -> 200")
	assert.Contains(t, logs.String(), "GET /users -> 404 Not Found")
}

func TestPathRegex(t *testing.T) {
	re := pathRegex("/users/:user_id/orders/:id.json")
	m := re.FindStringSubmatch("/users/7/orders/9.json")
	require.NotNil(t, m)
	assert.Equal(t, "7", m[re.SubexpIndex("user_id")])
	assert.Equal(t, "9", m[re.SubexpIndex("id")])
	assert.Nil(t, re.FindStringSubmatch("/users/7/orders/9xjson"))
}
