// Package coverage reports which endpoints of an OpenAPI document have
// recorded examples.
package coverage

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/getkin/kin-openapi/openapi3"
)

// Report represents an API coverage report.
type Report struct {
	TotalEndpoints   int                   `json:"totalEndpoints"`
	CoveredEndpoints int                   `json:"coveredEndpoints"`
	CoveragePercent  float64               `json:"coveragePercent"`
	ByTag            map[string]*TagReport `json:"byTag,omitempty"`
	Endpoints        []EndpointStatus      `json:"endpoints"`
	// Undocumented lists recorded requests that match no endpoint.
	Undocumented []ExecutedRequest `json:"undocumented,omitempty"`
}

// TagReport represents coverage for a specific tag.
type TagReport struct {
	Tag              string  `json:"tag"`
	TotalEndpoints   int     `json:"totalEndpoints"`
	CoveredEndpoints int     `json:"coveredEndpoints"`
	CoveragePercent  float64 `json:"coveragePercent"`
}

// EndpointStatus represents the coverage status of an endpoint.
type EndpointStatus struct {
	Method       string   `json:"method"`
	Path         string   `json:"path"`
	OperationID  string   `json:"operationId,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Covered      bool     `json:"covered"`
	RequestCount int      `json:"requestCount"`
}

// Endpoint is one operation of the OpenAPI document.
type Endpoint struct {
	Method      string
	Path        string
	OperationID string
	Tags        []string
	pattern     *regexp.Regexp
}

// ExecutedRequest is a recorded request, path only.
type ExecutedRequest struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Analyzer analyzes recorded requests against an OpenAPI document.
type Analyzer struct {
	endpoints []Endpoint
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		endpoints: make([]Endpoint, 0),
	}
}

// LoadOpenAPI loads endpoints from a YAML or JSON OpenAPI file.
func (a *Analyzer) LoadOpenAPI(path string) error {
	doc, err := openapi3.NewLoader().LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("loading OpenAPI document: %w", err)
	}
	return a.AddDocument(doc)
}

// AddDocument adds the operations of doc.
func (a *Analyzer) AddDocument(doc *openapi3.T) error {
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return fmt.Errorf("no paths found in OpenAPI document")
	}

	for _, path := range doc.Paths.InMatchingOrder() {
		item := doc.Paths.Value(path)
		for method, op := range item.Operations() {
			a.AddEndpoint(Endpoint{
				Method:      strings.ToUpper(method),
				Path:        path,
				OperationID: op.OperationID,
				Tags:        op.Tags,
			})
		}
	}
	return nil
}

var templateParam = regexp.MustCompile(`\{[^}]+\}`)

// AddEndpoint adds one endpoint. {name} segments match any value.
func (a *Analyzer) AddEndpoint(e Endpoint) {
	segments := templateParam.Split(e.Path, -1)
	for i, s := range segments {
		segments[i] = regexp.QuoteMeta(s)
	}
	e.pattern = regexp.MustCompile("^" + strings.Join(segments, "[^/]+") + "$")
	a.endpoints = append(a.endpoints, e)
}

// RequestsFromViews returns every captured request of views with the query
// string removed.
func RequestsFromViews(views []*document.View) []ExecutedRequest {
	var requests []ExecutedRequest
	for _, v := range views {
		for _, tr := range v.Transcripts {
			path := tr.Route
			if u, err := url.Parse(tr.Route); err == nil {
				path = u.Path
			}
			requests = append(requests, ExecutedRequest{Method: strings.ToUpper(tr.Method), Path: path})
		}
	}
	return requests
}

// Analyze compares recorded requests against the endpoints.
func (a *Analyzer) Analyze(requests []ExecutedRequest) *Report {
	report := &Report{
		TotalEndpoints: len(a.endpoints),
		ByTag:          make(map[string]*TagReport),
		Endpoints:      make([]EndpointStatus, 0),
	}

	coverageCount := make(map[string]int)

	for _, req := range requests {
		matched := false
		for _, endpoint := range a.endpoints {
			if matchEndpoint(req, endpoint) {
				coverageCount[endpoint.Method+" "+endpoint.Path]++
				matched = true
				break
			}
		}
		if !matched {
			report.Undocumented = append(report.Undocumented, req)
		}
	}

	for _, endpoint := range a.endpoints {
		count := coverageCount[endpoint.Method+" "+endpoint.Path]
		covered := count > 0

		report.Endpoints = append(report.Endpoints, EndpointStatus{
			Method:       endpoint.Method,
			Path:         endpoint.Path,
			OperationID:  endpoint.OperationID,
			Tags:         endpoint.Tags,
			Covered:      covered,
			RequestCount: count,
		})

		if covered {
			report.CoveredEndpoints++
		}

		for _, tag := range endpoint.Tags {
			tagReport, exists := report.ByTag[tag]
			if !exists {
				tagReport = &TagReport{Tag: tag}
				report.ByTag[tag] = tagReport
			}
			tagReport.TotalEndpoints++
			if covered {
				tagReport.CoveredEndpoints++
			}
		}
	}

	if report.TotalEndpoints > 0 {
		report.CoveragePercent = float64(report.CoveredEndpoints) / float64(report.TotalEndpoints) * 100
	}
	for _, tagReport := range report.ByTag {
		if tagReport.TotalEndpoints > 0 {
			tagReport.CoveragePercent = float64(tagReport.CoveredEndpoints) / float64(tagReport.TotalEndpoints) * 100
		}
	}

	sort.Slice(report.Endpoints, func(i, j int) bool {
		if report.Endpoints[i].Path != report.Endpoints[j].Path {
			return report.Endpoints[i].Path < report.Endpoints[j].Path
		}
		return report.Endpoints[i].Method < report.Endpoints[j].Method
	})

	return report
}

func matchEndpoint(req ExecutedRequest, endpoint Endpoint) bool {
	return req.Method == endpoint.Method && endpoint.pattern.MatchString(req.Path)
}

// FormatConsole formats the report for console output.
func (r *Report) FormatConsole() string {
	var sb strings.Builder

	sb.WriteString("\nAPI Coverage Report\n")
	sb.WriteString("===================\n\n")

	sb.WriteString(fmt.Sprintf("Total Endpoints:   %d\n", r.TotalEndpoints))
	sb.WriteString(fmt.Sprintf("Covered Endpoints: %d\n", r.CoveredEndpoints))
	sb.WriteString(fmt.Sprintf("Coverage:          %.1f%%\n\n", r.CoveragePercent))

	if len(r.ByTag) > 0 {
		sb.WriteString("Coverage by Tag:\n")
		tags := make([]string, 0, len(r.ByTag))
		for tag := range r.ByTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			t := r.ByTag[tag]
			sb.WriteString(fmt.Sprintf("  %s: %d/%d (%.1f%%)\n", tag, t.CoveredEndpoints, t.TotalEndpoints, t.CoveragePercent))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Endpoint Details:\n")
	for _, endpoint := range r.Endpoints {
		status := "[ ]"
		if endpoint.Covered {
			status = "[x]"
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s", status, endpoint.Method, endpoint.Path))
		if endpoint.RequestCount > 1 {
			sb.WriteString(fmt.Sprintf(" (x%d)", endpoint.RequestCount))
		}
		sb.WriteString("\n")
	}

	if len(r.Undocumented) > 0 {
		sb.WriteString("\nRequests outside the document:\n")
		for _, req := range r.Undocumented {
			sb.WriteString(fmt.Sprintf("  %s %s\n", req.Method, req.Path))
		}
	}

	return sb.String()
}

// FormatJSON formats the report as JSON.
func (r *Report) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
