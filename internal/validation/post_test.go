package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var appErr *models.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, models.CodeValidation, appErr.Code)
		assert.Equal(t, field, appErr.Field)
	}
}

func TestValidatePostTitle(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePostTitle("Hello"))
	assertValidation(t, ValidatePostTitle("Hell"), "title")
	assertValidation(t, ValidatePostTitle(strings.Repeat("a", MaxTitleLength+1)), "title")
}

func TestValidatePostSlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"Valid", "hello-world", false},
		{"Exactly Min Length", "abc", false},
		{"Digits", "2024", false},
		{"Too Short", "ab", true},
		{"Uppercase", "Hello-World", true},
		{"Space", "hello world", true},
		{"Underscore", "hello_world", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostSlug(tt.slug)
			if tt.wantErr {
				assertValidation(t, err, "slug")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePostContent(t *testing.T) {
	t.Parallel()

	assertValidation(t, ValidatePostContent(strings.Repeat("x", 49)), "content")
	assert.NoError(t, ValidatePostContent(strings.Repeat("x", 50)))
	assert.NoError(t, ValidatePostContent(strings.Repeat("é", 50)))
}

func TestValidateCoverImage(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateCoverImage(""))
	assert.NoError(t, ValidateCoverImage("https://images.example.com/cover.png"))
	assertValidation(t, ValidateCoverImage("not a url"), "coverImage")
	assertValidation(t, ValidateCoverImage("/relative/path.png"), "coverImage")
	assertValidation(t, ValidateCoverImage("ftp://example.com/a.png"), "coverImage")
}
