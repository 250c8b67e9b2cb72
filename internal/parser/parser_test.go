package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSpec = `{
  "openapi": "3.0.0",
  "info": {"title": "Widgets API", "version": "1.0.0"},
  "paths": {
    "/widgets/{id}": {
      "get": {
        "operationId": "getWidget",
        "summary": "Fetch a widget",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Widget"}}}}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "Widget": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "owner": {"$ref": "#/components/schemas/Owner"}
        }
      },
      "Owner": {
        "type": "object",
        "properties": {
          "name": {"type": "string"}
        }
      }
    }
  }
}`

func TestParse_JSONHappyPath(t *testing.T) {
	res, err := Parse(context.Background(), strings.NewReader(minimalSpec), DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Doc)
	assert.Equal(t, FormatJSON, res.Format)
	assert.Equal(t, "Widgets API", res.Doc.Info.Title)
	assert.Contains(t, res.Doc.Paths, "/widgets/{id}")
	assert.Contains(t, res.Doc.Schemas, "Widget")
	assert.Contains(t, res.Doc.Schemas, "Owner")
	assert.Empty(t, res.Errors)
}

func TestParse_MissingTitleIsDiagnosed(t *testing.T) {
	spec := `{"openapi": "3.0.0", "info": {"version": "1.0.0"}, "paths": {}}`
	res, err := Parse(context.Background(), strings.NewReader(spec), DefaultOptions())
	require.NoError(t, err)
	found := false
	for _, d := range res.Errors {
		if d.Pointer == "/info/title" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParse_MissingVersionMarkerFails(t *testing.T) {
	spec := `{"info": {"title": "X", "version": "1.0.0"}, "paths": {}}`
	_, err := Parse(context.Background(), strings.NewReader(spec), DefaultOptions())
	require.Error(t, err)
}

func TestParse_NonObjectRootFails(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader(`[1, 2, 3]`), DefaultOptions())
	require.Error(t, err)
}

func TestParse_YAMLIsDetectedAndParsed(t *testing.T) {
	spec := "openapi: 3.0.0\ninfo:\n  title: Widgets API\n  version: 1.0.0\npaths: {}\n"
	res, err := Parse(context.Background(), strings.NewReader(spec), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, res.Format)
	assert.Equal(t, "Widgets API", res.Doc.Info.Title)
}

func TestParse_SchemaDependsOnCapturesNestedRef(t *testing.T) {
	res, err := Parse(context.Background(), strings.NewReader(minimalSpec), DefaultOptions())
	require.NoError(t, err)
	widget := res.Doc.Schemas["Widget"]
	assert.Contains(t, widget.DependsOn, "Owner")
}

func TestParse_EmptyPathsWarns(t *testing.T) {
	spec := `{"openapi": "3.0.0", "info": {"title": "X", "version": "1.0.0"}, "paths": {}}`
	res, err := Parse(context.Background(), strings.NewReader(spec), DefaultOptions())
	require.NoError(t, err)
	found := false
	for _, w := range res.Warnings {
		if w.Pointer == "/paths" {
			found = true
		}
	}
	assert.True(t, found)
}
