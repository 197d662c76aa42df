package output

import (
	"bytes"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIPath(t *testing.T) {
	assert.Equal(t, "/orders/{id}", OpenAPIPath("/orders/:id"))
	assert.Equal(t, "/a/{b}/c/{d_e}", OpenAPIPath("/a/:b/c/:d_e"))
	assert.Equal(t, "/orders", OpenAPIPath("/orders"))
}

func TestBuildOpenAPI(t *testing.T) {
	doc := BuildOpenAPI(fixtureIndex())

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "Orders API", doc.Info.Title)
	require.Len(t, doc.Tags, 2)

	t.Run("query and path parameters", func(t *testing.T) {
		item := doc.Paths.Value("/orders/{id}")
		require.NotNil(t, item)
		require.NotNil(t, item.Get)
		assert.Equal(t, "Getting an order", item.Get.Summary)
		assert.Equal(t, []string{"Orders"}, item.Get.Tags)

		id := item.Get.Parameters.GetByInAndName(openapi3.ParameterInPath, "id")
		require.NotNil(t, id)
		assert.True(t, id.Required)
		assert.Equal(t, "Order id", id.Description)

		include := item.Get.Parameters.GetByInAndName(openapi3.ParameterInQuery, "include")
		require.NotNil(t, include)
		assert.Equal(t, "Related records", include.Description)

		ok := item.Get.Responses.Value("200")
		require.NotNil(t, ok)
		assert.Nil(t, item.Get.Responses.Value("default"))
		assert.Equal(t, map[string]any{"id": float64(1)}, ok.Value.Content.Get("application/json").Example)
	})

	t.Run("scoped request body", func(t *testing.T) {
		item := doc.Paths.Value("/orders")
		require.NotNil(t, item)
		require.NotNil(t, item.Post)
		require.NotNil(t, item.Post.RequestBody)

		media := item.Post.RequestBody.Value.Content.Get("application/json")
		require.NotNil(t, media)
		order := media.Schema.Value.Properties["order"]
		require.NotNil(t, order)
		assert.Contains(t, order.Value.Properties, "name")
		assert.Contains(t, order.Value.Properties, "size")
		assert.Equal(t, []string{"name"}, order.Value.Required)
		assert.Equal(t, map[string]any{"order": map[string]any{"name": "Old Name"}}, media.Example)

		created := item.Post.Responses.Value("201")
		require.NotNil(t, created)
		assert.NotNil(t, created.Value.Content.Get("application/json"), "content type parameters are dropped")
	})

	t.Run("path parameters without declarations", func(t *testing.T) {
		item := doc.Paths.Value("/users/{id}")
		require.NotNil(t, item)
		require.NotNil(t, item.Delete)
		assert.NotNil(t, item.Delete.Parameters.GetByInAndName(openapi3.ParameterInPath, "id"))
		resp := item.Delete.Responses.Value("500")
		require.NotNil(t, resp)
		assert.Nil(t, resp.Value.Content)
	})
}

func TestOpenAPIFormatter_Loads(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewOpenAPIFormatter(OpenAPIWithWriter(&buf)).Format(fixtureIndex()))

	doc, err := openapi3.NewLoader().LoadFromData(buf.Bytes())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Value("/orders/{id}"))
	assert.Equal(t, "1.0.0", doc.Info.Version)
}
