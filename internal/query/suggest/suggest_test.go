package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpelling_FindsCloseMatchesWithinEditDistance(t *testing.T) {
	vocab := []string{"users", "orders", "user", "usr", "products"}
	got := Spelling("usres", vocab, 5)
	assert.Contains(t, got, "users")
	assert.Contains(t, got, "user")
	assert.NotContains(t, got, "products")
}

func TestSpelling_ExcludesExactMatch(t *testing.T) {
	got := Spelling("users", []string{"users", "user"}, 5)
	assert.NotContains(t, got, "users")
}

func TestSpelling_RespectsLimit(t *testing.T) {
	vocab := []string{"aaa", "aab", "aac", "aad", "aae"}
	got := Spelling("aax", vocab, 2)
	assert.Len(t, got, 2)
}

func TestSpelling_OrdersByDistanceThenLexically(t *testing.T) {
	got := Spelling("cat", []string{"cab", "bat", "cot"}, 5)
	// bat/cot/cab are all at distance 1 from "cat"; lexical tie-break.
	assert.Equal(t, []string{"bat", "cab", "cot"}, got)
}

func TestWithinDistance(t *testing.T) {
	assert.True(t, WithinDistance("users", "user"))
	assert.True(t, WithinDistance("users", "usres"))
	assert.False(t, WithinDistance("users", "completely-different"))
}

func TestCrossModal_SuggestsOtherSurfaceOnlyWhenEmpty(t *testing.T) {
	assert.Nil(t, CrossModal(true, false))
	assert.NotEmpty(t, CrossModal(true, true))
	assert.NotEmpty(t, CrossModal(false, true))
}

func TestFieldGeneralization_ReturnsBareValue(t *testing.T) {
	assert.Equal(t, "admin", FieldGeneralization("tags", "admin"))
}
