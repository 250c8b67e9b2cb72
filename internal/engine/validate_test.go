package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSearchEndpoints_RejectsEmptyKeywords(t *testing.T) {
	_, err := validateSearchEndpoints(map[string]interface{}{"keywords": "  "})
	require.NotNil(t, err)
	assert.Equal(t, "keywords", err.Data["parameter"])
}

func TestValidateSearchEndpoints_RejectsOverlongKeywords(t *testing.T) {
	_, err := validateSearchEndpoints(map[string]interface{}{"keywords": strings.Repeat("a", 501)})
	require.NotNil(t, err)
}

func TestValidateSearchEndpoints_RejectsUnknownMethodWithSuggestions(t *testing.T) {
	_, err := validateSearchEndpoints(map[string]interface{}{
		"keywords":    "users",
		"httpMethods": []interface{}{"GETT"},
	})
	require.NotNil(t, err)
	suggestions, ok := err.Data["suggestions"].([]string)
	require.True(t, ok)
	assert.Contains(t, suggestions, "GET")
}

func TestValidateSearchEndpoints_RejectsOutOfRangePagination(t *testing.T) {
	_, err := validateSearchEndpoints(map[string]interface{}{"keywords": "users", "page": 0})
	require.NotNil(t, err)

	_, err = validateSearchEndpoints(map[string]interface{}{"keywords": "users", "perPage": 51})
	require.NotNil(t, err)
}

func TestValidateSearchEndpoints_AppliesDefaults(t *testing.T) {
	req, err := validateSearchEndpoints(map[string]interface{}{"keywords": "users"})
	require.Nil(t, err)
	assert.Equal(t, "users", req.Query)
	assert.Equal(t, 1, req.Pagination.Page)
	assert.Equal(t, 20, req.Pagination.PerPage)
}

func TestValidateSearchEndpoints_UppercasesMethodFilters(t *testing.T) {
	req, err := validateSearchEndpoints(map[string]interface{}{
		"keywords":    "users",
		"httpMethods": []interface{}{"get", "post"},
	})
	require.Nil(t, err)
	assert.Equal(t, []string{"GET", "POST"}, req.Filters.Methods)
}

func TestValidateGetSchema_RejectsEmptyComponentName(t *testing.T) {
	_, err := validateGetSchema(map[string]interface{}{"componentName": ""})
	require.NotNil(t, err)
}

func TestValidateGetSchema_RejectsOutOfRangeMaxDepth(t *testing.T) {
	_, err := validateGetSchema(map[string]interface{}{"componentName": "User", "maxDepth": 0})
	require.NotNil(t, err)

	_, err = validateGetSchema(map[string]interface{}{"componentName": "User", "maxDepth": 11})
	require.NotNil(t, err)
}

func TestValidateGetSchema_DefaultsResolveDependenciesAndDepth(t *testing.T) {
	params, err := validateGetSchema(map[string]interface{}{"componentName": "User"})
	require.Nil(t, err)
	assert.True(t, params.ResolveDependencies)
	assert.Equal(t, 5, params.Opts.MaxDepth)
	assert.True(t, params.Opts.IncludeExamples)
	assert.True(t, params.Opts.IncludeExtensions)
}

func TestValidateGetExample_RequiresMethodWhenEndpointIsPath(t *testing.T) {
	_, err := validateGetExample(map[string]interface{}{"endpoint": "/users/{id}", "format": "curl"})
	require.NotNil(t, err)
	assert.Equal(t, "method", err.Data["parameter"])
}

func TestValidateGetExample_OperationIDDoesNotRequireMethod(t *testing.T) {
	params, err := validateGetExample(map[string]interface{}{"endpoint": "getUserById", "format": "curl"})
	require.Nil(t, err)
	assert.Equal(t, "getUserById", params.Endpoint)
}

func TestValidateGetExample_RejectsUnknownFormat(t *testing.T) {
	_, err := validateGetExample(map[string]interface{}{"endpoint": "getUserById", "format": "ruby"})
	require.NotNil(t, err)
}

func TestValidateGetExample_FormatIsCaseInsensitive(t *testing.T) {
	params, err := validateGetExample(map[string]interface{}{"endpoint": "getUserById", "format": "CURL"})
	require.Nil(t, err)
	assert.EqualValues(t, "curl", params.Opts.Format)
}

func TestSuggestToolName_SuggestsClosestKnownTool(t *testing.T) {
	suggestions := suggestToolName("searchEndpoint")
	assert.Contains(t, suggestions, ToolSearchEndpoints)
}
