package serialization

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterNonEmptyFields(t *testing.T) {
	data := map[string]any{
		"id":          uint(1),
		"description": "",
		"link":        nil,
		"status":      "INFO",
		"recipient":   []any{},
		"data":        map[string]any{},
		"public":      false,
	}

	result := FilterNonEmptyFields(data)

	assert.Equal(t, uint(1), result["id"])
	assert.Equal(t, "INFO", result["status"])
	// false是有效值，不应被过滤
	assert.Equal(t, false, result["public"])
	assert.NotContains(t, result, "description")
	assert.NotContains(t, result, "link")
	assert.NotContains(t, result, "recipient")
	assert.NotContains(t, result, "data")
}

func TestFilterNonEmptyFieldsExcludes(t *testing.T) {
	data := map[string]any{
		"id":       uint(1),
		"password": "secret",
	}

	result := FilterNonEmptyFields(data, "password")

	assert.Contains(t, result, "id")
	assert.NotContains(t, result, "password")
}

func TestGenerateTitle(t *testing.T) {
	timestamp := time.Now().Add(-3 * time.Minute)

	title := GenerateTitle("admin liked your post", timestamp)
	assert.True(t, strings.HasPrefix(title, "admin liked your post "))
	assert.Greater(t, len(title), len("admin liked your post "))

	assert.Equal(t, "", GenerateTitle("", timestamp))
	assert.Equal(t, "no time", GenerateTitle("no time", time.Time{}))
}
