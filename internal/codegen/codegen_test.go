package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openapi-mcp-navigator/internal/model"
)

func TestGenerate_UnsupportedFormat(t *testing.T) {
	_, err := Generate(model.Endpoint{Path: "/x", Method: "GET"}, nil, nil, Options{Format: "ruby"})
	require.Error(t, err)
}

func TestGenerate_Curl_SubstitutesPathParamsAndAuth(t *testing.T) {
	ep := model.Endpoint{
		Path:   "/users/{userId}",
		Method: "GET",
		Security: []model.SecurityRequirement{
			{SchemeName: "bearerAuth"},
		},
	}
	schemes := map[string]model.SecurityScheme{
		"bearerAuth": {Name: "bearerAuth", Kind: model.SecurityHTTP, HTTPScheme: "bearer"},
	}

	out, err := Generate(ep, nil, schemes, Options{Format: Curl, IncludeAuth: true})
	require.NoError(t, err)
	assert.Contains(t, out, "/users/12345")
	assert.Contains(t, out, "Authorization: Bearer YOUR_TOKEN_HERE")
	assert.Contains(t, out, "curl -X GET")
}

func TestGenerate_JavaScript_NonHeaderAuthFallsBackToComment(t *testing.T) {
	ep := model.Endpoint{
		Path:   "/secrets",
		Method: "GET",
		Security: []model.SecurityRequirement{
			{SchemeName: "oauth"},
		},
	}
	schemes := map[string]model.SecurityScheme{
		"oauth": {Name: "oauth", Kind: model.SecurityOAuth2},
	}

	out, err := Generate(ep, nil, schemes, Options{Format: JavaScript, IncludeAuth: true})
	require.NoError(t, err)
	assert.Contains(t, out, "// authentication: oauth2 scheme \"oauth\"")
	assert.Contains(t, out, "fetch(")
}

func TestGenerate_Python_ApiKeyInHeader(t *testing.T) {
	ep := model.Endpoint{
		Path:   "/things",
		Method: "GET",
		Security: []model.SecurityRequirement{
			{SchemeName: "apiKeyAuth"},
		},
	}
	schemes := map[string]model.SecurityScheme{
		"apiKeyAuth": {Name: "apiKeyAuth", Kind: model.SecurityAPIKey, APIKeyLocation: "header", APIKeyName: "X-API-Key"},
	}

	out, err := Generate(ep, nil, schemes, Options{Format: Python, IncludeAuth: true})
	require.NoError(t, err)
	assert.Contains(t, out, `"X-API-Key": "EXAMPLE_VALUE"`)
	assert.Contains(t, out, "import requests")
}

func TestGenerate_RequestBodyPlaceholderFromSchema(t *testing.T) {
	ep := model.Endpoint{
		Path:   "/users",
		Method: "POST",
		RequestBody: &model.RequestBody{
			Content: []model.MediaType{{ContentType: "application/json", SchemaRef: "NewUser"}},
		},
	}
	schemas := map[string]model.Schema{
		"NewUser": {
			Name: "NewUser",
			Type: "object",
			Properties: []model.Property{
				{Name: "name", Schema: model.SchemaOrRef{Inline: &model.Schema{Type: "string"}}},
				{Name: "age", Schema: model.SchemaOrRef{Inline: &model.Schema{Type: "integer"}}},
			},
		},
	}

	out, err := Generate(ep, schemas, nil, Options{Format: Curl})
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "EXAMPLE_VALUE"`)
	assert.Contains(t, out, `"age": 12345`)
	assert.Contains(t, out, "Content-Type: application/json")
}

func TestGenerate_RequestBodyFallbackWhenSchemaMissing(t *testing.T) {
	ep := model.Endpoint{
		Path:   "/users",
		Method: "POST",
		RequestBody: &model.RequestBody{
			Content: []model.MediaType{{ContentType: "application/json", SchemaRef: "Ghost"}},
		},
	}

	out, err := Generate(ep, map[string]model.Schema{}, nil, Options{Format: Curl})
	require.NoError(t, err)
	assert.Contains(t, out, `{"data": "example_value"}`)
}

func TestGenerate_QueryParamsAreSortedAndTyped(t *testing.T) {
	ep := model.Endpoint{
		Path:   "/search",
		Method: "GET",
		Parameters: []model.Parameter{
			{Name: "zeta", In: model.ParamQuery, SchemaType: "string"},
			{Name: "alpha", In: model.ParamQuery, SchemaType: "integer"},
			{Name: "ignored", In: model.ParamHeader, SchemaType: "string"},
		},
	}

	out, err := Generate(ep, nil, nil, Options{Format: Curl})
	require.NoError(t, err)
	assert.Contains(t, out, "alpha=12345&zeta=EXAMPLE_VALUE")
	assert.NotContains(t, out, "ignored")
}

func TestGenerate_IsDeterministic(t *testing.T) {
	ep := model.Endpoint{Path: "/users/{id}", Method: "GET"}
	a, err := Generate(ep, nil, nil, Options{Format: Python})
	require.NoError(t, err)
	b, err := Generate(ep, nil, nil, Options{Format: Python})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlaceholderFor_NumericSuffixHeuristic(t *testing.T) {
	assert.Equal(t, numberPlaceholder, placeholderFor("userId"))
	assert.Equal(t, numberPlaceholder, placeholderFor("itemCount"))
	assert.Equal(t, stringPlaceholder, placeholderFor("name"))
}
