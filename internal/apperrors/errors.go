// Package apperrors provides the standardized error Kinds of spec §7 and
// their JSON-RPC 2.0 shaping, mirroring the teacher's
// internal/errors/standard_errors.go StandardError/ErrorCode pair.
package apperrors

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Kind is one of the semantic error kinds named in spec §7.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindResourceNotFound   Kind = "ResourceNotFound"
	KindSchemaResolution   Kind = "SchemaResolutionError"
	KindCodeGeneration     Kind = "CodeGenerationError"
	KindDatabaseConnection Kind = "DatabaseConnectionError"
	KindDatabaseTimeout    Kind = "DatabaseTimeoutError"
	KindResourceExhausted  Kind = "ResourceExhausted"
	KindServiceUnavailable Kind = "ServiceUnavailable"
	KindInternal           Kind = "InternalError"
)

// rpcCode maps each Kind to its reserved JSON-RPC code (spec §6, §7).
var rpcCode = map[Kind]int{
	KindValidation:         -32602,
	KindResourceNotFound:   -1001,
	KindSchemaResolution:   -1003,
	KindCodeGeneration:     -1002,
	KindDatabaseConnection: -32603,
	KindDatabaseTimeout:    -32603,
	KindResourceExhausted:  -32603,
	KindServiceUnavailable: -32603,
	KindInternal:           -32603,
}

// Error is the application-level error type carried through the middleware
// chain; only the outermost Request Engine boundary translates it into a
// transport-level JSON-RPC error object (spec §9 "Exception control flow"
// redesign note).
type Error struct {
	Kind       Kind
	Message    string
	Data       map[string]interface{}
	Recoverable bool
}

func (e *Error) Error() string { return e.Message }

// Code returns the reserved JSON-RPC code for this error's Kind.
func (e *Error) Code() int { return rpcCode[e.Kind] }

// New builds an Error of the given kind.
func New(kind Kind, message string, data map[string]interface{}) *Error {
	return &Error{Kind: kind, Message: message, Data: data}
}

// Validation builds a ValidationError carrying the offending parameter,
// value, and suggestion list (spec §7, §8 scenario 6).
func Validation(parameter string, value interface{}, message string, suggestions []string) *Error {
	data := map[string]interface{}{"parameter": parameter}
	if value != nil {
		data["value"] = value
	}
	if len(suggestions) > 0 {
		data["suggestions"] = suggestions
	}
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("invalid parameter %q: %s", parameter, message),
		Data:    data,
	}
}

// NotFound builds a ResourceNotFound error naming similar candidates.
func NotFound(resource, name string, similar []string) *Error {
	data := map[string]interface{}{"resource": resource, "name": name}
	if len(similar) > 0 {
		data["similar"] = similar
	}
	return &Error{
		Kind:    KindResourceNotFound,
		Message: fmt.Sprintf("%s %q not found", resource, name),
		Data:    data,
	}
}

// SchemaResolution builds a SchemaResolutionError carrying the cycle path.
func SchemaResolution(message string, cyclePath []string) *Error {
	data := map[string]interface{}{}
	if len(cyclePath) > 0 {
		data["cycle"] = cyclePath
	}
	return &Error{Kind: KindSchemaResolution, Message: message, Data: data}
}

// CodeGeneration builds a CodeGenerationError naming endpoint and format.
func CodeGeneration(endpoint, format, message string) *Error {
	return &Error{
		Kind:    KindCodeGeneration,
		Message: message,
		Data:    map[string]interface{}{"endpoint": endpoint, "format": format},
	}
}

// DatabaseConnection builds a recoverable DatabaseConnectionError.
func DatabaseConnection(message string) *Error {
	return &Error{Kind: KindDatabaseConnection, Message: message, Recoverable: true}
}

// DatabaseTimeout builds a recoverable DatabaseTimeoutError.
func DatabaseTimeout(operation string, timeoutSeconds float64) *Error {
	return &Error{
		Kind:        KindDatabaseTimeout,
		Message:     fmt.Sprintf("operation %q exceeded its %0.1fs budget", operation, timeoutSeconds),
		Data:        map[string]interface{}{"operation": operation, "timeout_seconds": timeoutSeconds},
		Recoverable: true,
	}
}

// ResourceExhausted builds a recoverable, retry-after-bearing error.
func ResourceExhausted(retryAfterSeconds int) *Error {
	return &Error{
		Kind:        KindResourceExhausted,
		Message:     "concurrency cap reached",
		Data:        map[string]interface{}{"retry_after_seconds": retryAfterSeconds},
		Recoverable: true,
	}
}

// ServiceUnavailable builds the circuit-breaker-open error.
func ServiceUnavailable(retryAfterSeconds int) *Error {
	return &Error{
		Kind:        KindServiceUnavailable,
		Message:     "circuit breaker open",
		Data:        map[string]interface{}{"retry_after_seconds": retryAfterSeconds},
		Recoverable: true,
	}
}

// Internal wraps an unhandled error.
func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}

// IsRecoverable reports whether retry middleware should attempt this error.
func (e *Error) IsRecoverable() bool { return e.Recoverable }

// sensitivePattern matches data keys that must be scrubbed before an error
// crosses the transport boundary (spec §4.9 step 7).
var sensitivePattern = regexp.MustCompile(`(?i)password|token|secret|credential`)

// JSONRPCError is the wire shape of §6/§7's error object.
type JSONRPCError struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// JSONRPCResponse is the full envelope of §6.
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id,omitempty"`
	Result  interface{}   `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}

// ToJSONRPC shapes e into a JSON-RPC error response, scrubbing sensitive
// fields out of Data (spec §4.9 step 7, §7, §8 "Sensitivity scrubbing").
func (e *Error) ToJSONRPC(id interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    e.Code(),
			Message: e.Message,
			Data:    scrub(e.Data),
		},
	}
}

// Success shapes a successful tool result into the same JSON-RPC envelope
// as ToJSONRPC (spec §4.9 step 7, §6).
func Success(id interface{}, result interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func scrub(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if sensitivePattern.MatchString(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// MarshalJSON lets an *Error itself be embedded as error.data when useful
// for debugging tooling (not on the wire path, which uses ToJSONRPC).
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind                   `json:"kind"`
		Msg  string                 `json:"message"`
		Data map[string]interface{} `json:"data,omitempty"`
	}{e.Kind, e.Message, scrub(e.Data)})
}
