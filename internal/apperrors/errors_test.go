package apperrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation_CarriesParameterValueAndSuggestions(t *testing.T) {
	err := Validation("keywords", "", "must not be empty", []string{"try a non-empty keyword"})
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, -32602, err.Code())
	assert.Equal(t, "keywords", err.Data["parameter"])
	assert.Equal(t, []string{"try a non-empty keyword"}, err.Data["suggestions"])
}

func TestNotFound_CodeAndSimilarNames(t *testing.T) {
	err := NotFound("schema", "Usre", []string{"User"})
	assert.Equal(t, -1001, err.Code())
	assert.Equal(t, []string{"User"}, err.Data["similar"])
}

func TestServiceUnavailable_IsRecoverableWithRetryAfter(t *testing.T) {
	err := ServiceUnavailable(30)
	assert.True(t, err.IsRecoverable())
	assert.Equal(t, 30, err.Data["retry_after_seconds"])
	assert.Equal(t, -32603, err.Code())
}

func TestDatabaseConnection_IsRecoverable(t *testing.T) {
	assert.True(t, DatabaseConnection("connection refused").IsRecoverable())
}

func TestCodeGeneration_NamesEndpointAndFormat(t *testing.T) {
	err := CodeGeneration("/users", "ruby", "unsupported format")
	assert.Equal(t, -1002, err.Code())
	assert.Equal(t, "/users", err.Data["endpoint"])
	assert.Equal(t, "ruby", err.Data["format"])
}

func TestSchemaResolution_CarriesCyclePath(t *testing.T) {
	err := SchemaResolution("cycle detected", []string{"User", "Profile", "User"})
	assert.Equal(t, -1003, err.Code())
	assert.Equal(t, []string{"User", "Profile", "User"}, err.Data["cycle"])
}

// Sensitive keys must never cross the JSON-RPC boundary (spec §4.9 step 7,
// §8 "Sensitivity scrubbing").
func TestToJSONRPC_ScrubsSensitiveDataKeys(t *testing.T) {
	err := &Error{
		Kind:    KindInternal,
		Message: "boom",
		Data: map[string]interface{}{
			"password":      "hunter2",
			"auth_token":    "abc123",
			"db_secret":     "shh",
			"credential_id": "xyz",
			"safe_field":    "ok",
		},
	}
	resp := err.ToJSONRPC("req-1")
	require.NotNil(t, resp.Error)
	assert.NotContains(t, resp.Error.Data, "password")
	assert.NotContains(t, resp.Error.Data, "auth_token")
	assert.NotContains(t, resp.Error.Data, "db_secret")
	assert.NotContains(t, resp.Error.Data, "credential_id")
	assert.Equal(t, "ok", resp.Error.Data["safe_field"])
}

func TestToJSONRPC_WireShape(t *testing.T) {
	err := Validation("page", 0, "must be >= 1", nil)
	resp := err.ToJSONRPC(7)
	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, 7, resp.ID)
	assert.Nil(t, resp.Result)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestSuccess_WireShapeHasNoError(t *testing.T) {
	resp := Success("req-2", map[string]string{"ok": "true"})
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}
