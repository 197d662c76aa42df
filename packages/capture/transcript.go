package capture

import (
	"net/http"

	hhttp "github.com/abdul-hamid-achik/hitdoc/packages/http"
)

// Transcript is the normalised record of one request/response exchange.
type Transcript struct {
	Method                 string  `json:"method" yaml:"method"`
	Route                  string  `json:"route" yaml:"route"`
	RequestBody            *string `json:"request_body" yaml:"request_body"`
	RequestHeaders         string  `json:"request_headers" yaml:"request_headers"`
	RequestQueryParameters string  `json:"request_query_parameters" yaml:"request_query_parameters"`
	ResponseStatus         int     `json:"response_status" yaml:"response_status"`
	ResponseStatusText     string  `json:"response_status_text" yaml:"response_status_text"`
	ResponseBody           *string `json:"response_body" yaml:"response_body"`
	ResponseHeaders        string  `json:"response_headers" yaml:"response_headers"`
}

// Sink receives transcripts. Implementations append, never replace.
type Sink interface {
	AppendTranscript(Transcript)
}

// Log is a Sink that keeps transcripts in memory.
type Log struct {
	Transcripts []Transcript
}

func (l *Log) AppendTranscript(t Transcript) {
	l.Transcripts = append(l.Transcripts, t)
}

// NewTranscript normalises a completed exchange.
func NewTranscript(req *hhttp.Request, resp *hhttp.Response) Transcript {
	return Transcript{
		Method:                 req.Method,
		Route:                  req.Route,
		RequestBody:            FormatRequestBody(req.Body),
		RequestHeaders:         FormatHeaders(req.Headers),
		RequestQueryParameters: FormatQuery(req.RawQuery()),
		ResponseStatus:         resp.StatusCode,
		ResponseStatusText:     http.StatusText(resp.StatusCode),
		ResponseBody:           FormatResponseBody(resp.Body),
		ResponseHeaders:        FormatResponseHeaders(resp.Headers),
	}
}
