package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathParamNames(t *testing.T) {
	assert.Equal(t, []string{"id"}, PathParamNames("/users/{id}"))
	assert.Equal(t, []string{"userId", "orderId"}, PathParamNames("/users/{userId}/orders/{orderId}"))
	assert.Empty(t, PathParamNames("/users"))
}

func TestPathParamNames_UnterminatedBraceIsIgnored(t *testing.T) {
	assert.Empty(t, PathParamNames("/users/{id"))
}

func TestAPIDocument_SchemaByName(t *testing.T) {
	doc := &APIDocument{Schemas: []Schema{{Name: "User"}, {Name: "Order"}}}

	s, ok := doc.SchemaByName("Order")
	require.True(t, ok)
	assert.Equal(t, "Order", s.Name)

	_, ok = doc.SchemaByName("Ghost")
	assert.False(t, ok)
}

func TestAPIDocument_SchemaIndex(t *testing.T) {
	doc := &APIDocument{Schemas: []Schema{{Name: "User"}, {Name: "Order"}}}
	assert.Equal(t, 1, doc.SchemaIndex("Order"))
	assert.Equal(t, -1, doc.SchemaIndex("Ghost"))
}

func TestAPIDocument_SecuritySchemeByName(t *testing.T) {
	doc := &APIDocument{SecuritySchemes: []SecurityScheme{{Name: "bearerAuth", Kind: SecurityHTTP}}}

	s, ok := doc.SecuritySchemeByName("bearerAuth")
	require.True(t, ok)
	assert.Equal(t, SecurityHTTP, s.Kind)

	_, ok = doc.SecuritySchemeByName("ghostAuth")
	assert.False(t, ok)
}

// SchemaByName returns a pointer into the document's own slice, not a copy;
// the Resolver relies on this to carry through shared state-free reads
// without re-allocating (spec §9 "arena-plus-index model").
func TestAPIDocument_SchemaByNameReturnsPointerIntoSlice(t *testing.T) {
	doc := &APIDocument{Schemas: []Schema{{Name: "User", Type: "object"}}}
	s, ok := doc.SchemaByName("User")
	require.True(t, ok)
	s.Type = "mutated"
	assert.Equal(t, "mutated", doc.Schemas[0].Type)
}
