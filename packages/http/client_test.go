package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerTransport_Send(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/greet", r.URL.Path)
		assert.Equal(t, "query=test+query", r.URL.RawQuery)
		assert.Equal(t, "example.org", r.Host)
		assert.Equal(t, "custom header value", r.Header.Get("X-Custom-Header"))
		assert.Empty(t, r.Header.Values("Cookie"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"target":"nurse"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hello":"nurse"}`))
	})

	transport := NewHandlerTransport(handler, "")
	req := NewRequest("POST", "/greet?query=test+query").
		SetHeader("X-Custom-Header", "custom header value").
		SetHeader("Host", transport.Host()).
		SetHeader("Cookie", "").
		SetBody([]byte(`{"target":"nurse"}`))

	resp, err := transport.Send(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "200 OK", resp.Status)
	assert.Equal(t, "17", resp.Header("Content-Length"))
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Equal(t, `{"hello":"nurse"}`, resp.BodyString())
}

func TestHandlerTransport_Host(t *testing.T) {
	assert.Equal(t, DefaultHost, NewHandlerTransport(http.NotFoundHandler(), "").Host())
	assert.Equal(t, "api.test", NewHandlerTransport(http.NotFoundHandler(), "api.test").Host())
}

func TestHandlerTransport_KeepsExplicitContentLength(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "2")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	})

	resp, err := NewHandlerTransport(handler, "").Send(context.Background(), NewRequest("PUT", "/"))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, []string{"2"}, resp.Headers.Values("Content-Length"))
}

func TestRequest_Headers(t *testing.T) {
	req := NewRequest("GET", "/orders?page=2").
		SetHeader("Accept", "text/plain").
		SetHeader("accept", "application/json")

	require.Len(t, req.Headers, 1)
	assert.Equal(t, "application/json", req.Header("ACCEPT"))
	assert.True(t, req.HasHeader("Accept"))
	assert.False(t, req.HasHeader("Cookie"))
	assert.Equal(t, "/orders", req.Path())
	assert.Equal(t, "page=2", req.RawQuery())
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/test", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL + "/api/")
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), NewRequest("GET", "/test"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Contains(t, resp.BodyString(), "hello")
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 123}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	req := NewRequest("POST", "/").
		SetHeader("Content-Type", "application/json").
		SetBody([]byte(`{"name": "test"}`))
	resp, err := client.Send(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Contains(t, resp.BodyString(), "123")
}

func TestClient_WithTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = client.Send(context.Background(), NewRequest("GET", "/"))
	assert.Error(t, err)
}

func TestClient_NoFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithFollowRedirects(false))
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), NewRequest("GET", "/redirect"))
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "/final", resp.Header("Location"))
}

func TestClient_MaxRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/first":
			http.Redirect(w, r, "/second", http.StatusFound)
		case "/second":
			http.Redirect(w, r, "/final", http.StatusFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithMaxRedirects(1))
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), NewRequest("GET", "/first"))
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "/final", resp.Header("Location"))
}

func TestClient_WithProxy(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "orders.invalid", r.Host)
		_, _ = w.Write([]byte("via proxy " + r.URL.Path))
	}))
	defer proxy.Close()

	client, err := NewClient("http://orders.invalid", WithProxy(proxy.URL))
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), NewRequest("GET", "/orders"))
	require.NoError(t, err)
	assert.Equal(t, "via proxy /orders", resp.BodyString())

	_, err = NewClient("http://orders.invalid", WithProxy("not a proxy"))
	assert.Error(t, err)
}

func TestResponse_DurationMs(t *testing.T) {
	resp := &Response{Duration: 1500 * time.Microsecond}
	assert.Equal(t, int64(1), resp.DurationMs())
}

func TestClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("ftp://example.org")
	assert.Error(t, err)

	_, err = NewClient("://bad")
	assert.Error(t, err)
}

func TestClient_Host(t *testing.T) {
	client, err := NewClient("https://api.example.com/v1")
	require.NoError(t, err)
	assert.Equal(t, "api.example.com", client.Host())
}
