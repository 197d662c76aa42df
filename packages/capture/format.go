package capture

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"

	hhttp "github.com/abdul-hamid-achik/hitdoc/packages/http"
	"github.com/tidwall/gjson"
)

// PrettyJSON indents a JSON document with two spaces. It reports false when
// data is not JSON.
func PrettyJSON(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", false
	}
	return buf.String(), true
}

// FormatRequestBody renders JSON bodies indented and other bodies as one
// decoded key=value pair per line. Empty bodies are nil.
func FormatRequestBody(body []byte) *string {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if pretty, ok := PrettyJSON(body); ok {
		return &pretty
	}
	pairs := strings.Split(string(body), "&")
	for i, pair := range pairs {
		if decoded, err := url.QueryUnescape(pair); err == nil {
			pairs[i] = decoded
		}
	}
	out := strings.Join(pairs, "\n")
	return &out
}

// FormatResponseBody renders JSON bodies indented and other bodies verbatim.
// Empty bodies are nil.
func FormatResponseBody(body []byte) *string {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if pretty, ok := PrettyJSON(body); ok {
		return &pretty
	}
	out := string(body)
	return &out
}

// FormatHeaders renders headers one per line in their given order.
func FormatHeaders(headers []hhttp.Header) string {
	lines := make([]string, len(headers))
	for i, h := range headers {
		lines[i] = h.Name + ": " + h.Value
	}
	return strings.Join(lines, "\n")
}

// FormatResponseHeaders renders Content-Type first and the remaining headers
// sorted by name, one line per value.
func FormatResponseHeaders(headers http.Header) string {
	var contentType []string
	names := make([]string, 0, len(headers))
	for name := range headers {
		if http.CanonicalHeaderKey(name) == "Content-Type" {
			contentType = append(contentType, name)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	names = append(contentType, names...)

	var lines []string
	for _, name := range names {
		for _, v := range headers[name] {
			lines = append(lines, name+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// FormatQuery renders a raw query string as decoded "key: value" lines.
func FormatQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	var lines []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		lines = append(lines, key+": "+value)
	}
	return strings.Join(lines, "\n")
}
