package proxy

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backend() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Set-Cookie", "session=secret")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	})
	mux.HandleFunc("GET /orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + r.PathValue("id") + `"}`))
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return httptest.NewServer(mux)
}

func newProxy(t *testing.T, opts ...Option) (*Recorder, *httptest.Server) {
	t.Helper()
	target := backend()
	t.Cleanup(target.Close)

	opts = append([]Option{WithLogger(log.New(io.Discard, "", 0))}, opts...)
	r, err := NewRecorder(target.URL, opts...)
	require.NoError(t, err)
	front := httptest.NewServer(r.Handler())
	t.Cleanup(front.Close)
	return r, front
}

func do(t *testing.T, method, url, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNewRecorder_InvalidTarget(t *testing.T) {
	_, err := NewRecorder("")
	require.Error(t, err)

	_, err = NewRecorder("localhost")
	require.Error(t, err)
}

func TestRecorder_RecordsExchanges(t *testing.T) {
	r, front := newProxy(t)

	resp := do(t, "POST", front.URL+"/orders", `{"sku":"A1"}`, map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer token",
	})
	got, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"sku":"A1"}`, string(got))

	do(t, "GET", front.URL+"/orders/7?expand=items", "", nil)

	views := r.Views()
	require.Len(t, views, 2)

	post := views[0]
	assert.Equal(t, "Orders", post.ResourceName)
	assert.Equal(t, "POST /orders", post.Description)
	assert.Equal(t, "/orders", post.Path)
	assert.True(t, post.Document.IsSet())
	require.Len(t, post.Transcripts, 1)

	tr := post.Transcripts[0]
	assert.Equal(t, 201, tr.ResponseStatus)
	assert.Equal(t, "Created", tr.ResponseStatusText)
	require.NotNil(t, tr.RequestBody)
	assert.Equal(t, "{\n  \"sku\": \"A1\"\n}", *tr.RequestBody)
	assert.Contains(t, tr.RequestHeaders, "Authorization: "+Filtered)
	assert.NotContains(t, tr.RequestHeaders, "Bearer token")
	assert.Contains(t, tr.ResponseHeaders, "Set-Cookie: "+Filtered)
	assert.True(t, strings.HasPrefix(tr.ResponseHeaders, "Content-Type: application/json"))

	get := views[1].Transcripts[0]
	assert.Equal(t, "/orders/7?expand=items", get.Route)
	assert.Equal(t, "expand: items", get.RequestQueryParameters)
}

func TestRecorder_GroupsAndDeduplicates(t *testing.T) {
	r, front := newProxy(t)
	do(t, "GET", front.URL+"/orders/1", "", nil)
	do(t, "GET", front.URL+"/orders/1", "", nil)
	require.Len(t, r.Views(), 1)
	assert.Len(t, r.Views()[0].Transcripts, 2)

	d, dfront := newProxy(t, WithDeduplicate(true))
	do(t, "GET", dfront.URL+"/orders/1", "", nil)
	do(t, "GET", dfront.URL+"/orders/1", "", nil)
	assert.Len(t, d.Views()[0].Transcripts, 1)
}

func TestRecorder_Exclude(t *testing.T) {
	r, front := newProxy(t, WithExclude([]string{"/health"}))

	resp := do(t, "GET", front.URL+"/health", "", nil)
	got, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(got))
	assert.Empty(t, r.Views())
}

func TestRecorder_Clear(t *testing.T) {
	r, front := newProxy(t)
	do(t, "GET", front.URL+"/orders/1", "", nil)
	r.Clear()
	assert.Empty(t, r.Views())
}

func TestResourceName(t *testing.T) {
	assert.Equal(t, "Orders", resourceName("/orders/1"))
	assert.Equal(t, "Root", resourceName("/"))
}
