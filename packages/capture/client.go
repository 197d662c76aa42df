package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	nethttp "net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sort"
	"strings"

	hhttp "github.com/abdul-hamid-achik/hitdoc/packages/http"
	"github.com/abdul-hamid-achik/hitdoc/packages/request"
	"github.com/tidwall/gjson"
)

const formContentType = "application/x-www-form-urlencoded"

// Client performs documented exchanges through a transport and records a
// transcript of each one.
type Client struct {
	transport      hhttp.Transport
	sink           Sink
	defaultHeaders []hhttp.Header
	headers        []hhttp.Header
	jar            *cookiejar.Jar
	logger         *log.Logger
	verbose        bool

	lastRequest  *hhttp.Request
	lastResponse *hhttp.Response
}

type Option func(*Client)

// WithSink sets where transcripts are appended.
func WithSink(s Sink) Option {
	return func(c *Client) {
		c.sink = s
	}
}

func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		c.defaultHeaders = setHeader(c.defaultHeaders, key, value)
	}
}

// WithDefaultHeaders sets multiple default headers, applied in name order.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		keys := make([]string, 0, len(headers))
		for k := range headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c.defaultHeaders = setHeader(c.defaultHeaders, k, headers[k])
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithVerbose logs one line per exchange.
func WithVerbose(v bool) Option {
	return func(c *Client) {
		c.verbose = v
	}
}

func NewClient(transport hhttp.Transport, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		transport: transport,
		jar:       jar,
		logger:    log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Header sets a session header sent with every following request.
func (c *Client) Header(key, value string) {
	c.headers = setHeader(c.headers, key, value)
}

func (c *Client) Get(ctx context.Context, route string) (*hhttp.Response, error) {
	return c.Perform(ctx, nethttp.MethodGet, route, nil)
}

func (c *Client) Post(ctx context.Context, route string, body any) (*hhttp.Response, error) {
	return c.Perform(ctx, nethttp.MethodPost, route, body)
}

func (c *Client) Put(ctx context.Context, route string, body any) (*hhttp.Response, error) {
	return c.Perform(ctx, nethttp.MethodPut, route, body)
}

func (c *Client) Delete(ctx context.Context, route string, body any) (*hhttp.Response, error) {
	return c.Perform(ctx, nethttp.MethodDelete, route, body)
}

// Perform sends one request and records its transcript. body may be nil, a
// string or []byte sent verbatim, *request.Params or url.Values sent
// form-encoded, or a request.JSONBody or any other value sent as JSON.
// Transport errors are returned unchanged and nothing is recorded for them.
func (c *Client) Perform(ctx context.Context, method, route string, body any) (*hhttp.Response, error) {
	data, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req := hhttp.NewRequest(strings.ToUpper(method), route).SetBody(data)
	for _, h := range c.defaultHeaders {
		req.SetHeader(h.Name, h.Value)
	}
	for _, h := range c.headers {
		req.SetHeader(h.Name, h.Value)
	}
	if contentType != "" && !req.HasHeader("Content-Type") {
		req.SetHeader("Content-Type", contentType)
	}
	req.SetHeader("Host", c.transport.Host())
	req.SetHeader("Cookie", c.cookieHeader(req))

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	c.storeCookies(req, resp)
	c.lastRequest = req
	c.lastResponse = resp

	if c.sink != nil {
		c.sink.AppendTranscript(NewTranscript(req, resp))
	}
	if c.verbose {
		c.logger.Printf("%s %s -> %d (%dms)", req.Method, req.Route, resp.StatusCode, resp.DurationMs())
	}

	return resp, nil
}

func (c *Client) LastRequest() *hhttp.Request {
	return c.lastRequest
}

func (c *Client) LastResponse() *hhttp.Response {
	return c.lastResponse
}

// LastHeaders returns the headers of the last request in the order sent.
func (c *Client) LastHeaders() []hhttp.Header {
	if c.lastRequest == nil {
		return nil
	}
	return c.lastRequest.Headers
}

func (c *Client) LastQueryString() string {
	if c.lastRequest == nil {
		return ""
	}
	return c.lastRequest.RawQuery()
}

func (c *Client) LastQueryHash() url.Values {
	values, _ := url.ParseQuery(c.LastQueryString())
	return values
}

// Status returns the status code of the last response, or 0.
func (c *Client) Status() int {
	if c.lastResponse == nil {
		return 0
	}
	return c.lastResponse.StatusCode
}

func (c *Client) ResponseBody() string {
	if c.lastResponse == nil {
		return ""
	}
	return c.lastResponse.BodyString()
}

// ResponseField looks up a gjson path in the last JSON response body.
func (c *Client) ResponseField(path string) gjson.Result {
	if c.lastResponse == nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(c.lastResponse.Body, path)
}

func (c *Client) cookieURL(req *hhttp.Request) *url.URL {
	return &url.URL{Scheme: "http", Host: c.transport.Host(), Path: req.Path()}
}

func (c *Client) cookieHeader(req *hhttp.Request) string {
	cookies := c.jar.Cookies(c.cookieURL(req))
	parts := make([]string, len(cookies))
	for i, cookie := range cookies {
		parts[i] = cookie.Name + "=" + cookie.Value
	}
	return strings.Join(parts, "; ")
}

func (c *Client) storeCookies(req *hhttp.Request, resp *hhttp.Response) {
	cookies := (&nethttp.Response{Header: resp.Headers}).Cookies()
	if len(cookies) > 0 {
		c.jar.SetCookies(c.cookieURL(req), cookies)
	}
}

func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case request.JSONBody:
		return b, "application/json", nil
	case string:
		return []byte(b), "", nil
	case *request.Params:
		return []byte(b.Encode()), formContentType, nil
	case url.Values:
		return []byte(b.Encode()), formContentType, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}
		return data, "application/json", nil
	}
}

func setHeader(headers []hhttp.Header, key, value string) []hhttp.Header {
	for i, h := range headers {
		if strings.EqualFold(h.Name, key) {
			headers[i].Value = value
			return headers
		}
	}
	return append(headers, hhttp.Header{Name: nethttp.CanonicalHeaderKey(key), Value: value})
}
