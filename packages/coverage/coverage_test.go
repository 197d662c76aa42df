package coverage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/hitdoc/packages/capture"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersAnalyzer() *Analyzer {
	a := NewAnalyzer()
	a.AddEndpoint(Endpoint{Method: "GET", Path: "/users", OperationID: "getUsers", Tags: []string{"users"}})
	a.AddEndpoint(Endpoint{Method: "POST", Path: "/users", OperationID: "createUser", Tags: []string{"users"}})
	a.AddEndpoint(Endpoint{Method: "GET", Path: "/users/{id}", OperationID: "getUser", Tags: []string{"users"}})
	a.AddEndpoint(Endpoint{Method: "GET", Path: "/posts", Tags: []string{"posts"}})
	return a
}

func TestAnalyzer_Analyze(t *testing.T) {
	report := usersAnalyzer().Analyze([]ExecutedRequest{
		{Method: "GET", Path: "/users"},
		{Method: "GET", Path: "/users/123"},
		{Method: "GET", Path: "/users/456"},
		{Method: "DELETE", Path: "/users/1"},
	})

	assert.Equal(t, 4, report.TotalEndpoints)
	assert.Equal(t, 2, report.CoveredEndpoints)
	assert.Equal(t, 50.0, report.CoveragePercent)

	require.Contains(t, report.ByTag, "users")
	assert.Equal(t, 2, report.ByTag["users"].CoveredEndpoints)
	assert.Equal(t, 0, report.ByTag["posts"].CoveredEndpoints)

	assert.Equal(t, []ExecutedRequest{{Method: "DELETE", Path: "/users/1"}}, report.Undocumented)

	// sorted by path then method
	assert.Equal(t, "/posts", report.Endpoints[0].Path)
	assert.Equal(t, "/users/{id}", report.Endpoints[3].Path)
	assert.Equal(t, 2, report.Endpoints[3].RequestCount)
}

func TestAnalyzer_PathParametersDoNotSpanSegments(t *testing.T) {
	a := NewAnalyzer()
	a.AddEndpoint(Endpoint{Method: "GET", Path: "/users/{id}"})
	a.AddEndpoint(Endpoint{Method: "GET", Path: "/users/{id}/posts/{postId}"})

	report := a.Analyze([]ExecutedRequest{{Method: "GET", Path: "/users/1/posts/2"}})
	assert.False(t, report.Endpoints[0].Covered)
	assert.True(t, report.Endpoints[1].Covered)
}

func TestRequestsFromViews(t *testing.T) {
	views := []*document.View{
		{Transcripts: []capture.Transcript{
			{Method: "get", Route: "/users/1?include=posts"},
			{Method: "POST", Route: "/users"},
		}},
		{},
	}

	assert.Equal(t, []ExecutedRequest{
		{Method: "GET", Path: "/users/1"},
		{Method: "POST", Path: "/users"},
	}, RequestsFromViews(views))
}

func TestAnalyzer_LoadOpenAPI(t *testing.T) {
	doc := `openapi: 3.0.3
info:
  title: Users
  version: 1.0.0
paths:
  /users:
    get:
      operationId: listUsers
      tags: [users]
      responses:
        "200":
          description: OK
  /users/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
    delete:
      operationId: deleteUser
      responses:
        "204":
          description: Deleted
`
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	a := NewAnalyzer()
	require.NoError(t, a.LoadOpenAPI(path))

	report := a.Analyze([]ExecutedRequest{{Method: "DELETE", Path: "/users/9"}})
	assert.Equal(t, 2, report.TotalEndpoints)
	assert.Equal(t, 1, report.CoveredEndpoints)
}

func TestReport_Format(t *testing.T) {
	report := usersAnalyzer().Analyze([]ExecutedRequest{
		{Method: "GET", Path: "/users"},
		{Method: "GET", Path: "/users"},
		{Method: "GET", Path: "/unknown"},
	})

	console := report.FormatConsole()
	assert.Contains(t, console, "Coverage:          25.0%")
	assert.Contains(t, console, "  [x] GET /users (x2)")
	assert.Contains(t, console, "  [ ] POST /users")
	assert.Contains(t, console, "  users: 1/3 (33.3%)")
	assert.True(t, strings.HasSuffix(console, "  GET /unknown\n"))

	data, err := report.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, data, `"coveragePercent": 25`)
}
