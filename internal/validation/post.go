// Package validation checks user-supplied blog input before it reaches storage.
package validation

import (
	"fmt"
	"net/url"
	"unicode/utf8"

	"github.com/sunil-gumatimath/wave-length/internal/blog"
	"github.com/sunil-gumatimath/wave-length/internal/models"
)

const (
	MinTitleLength   = 5
	MaxTitleLength   = 255
	MinSlugLength    = 3
	MaxSlugLength    = 255
	MinContentLength = 50
)

// ValidatePostTitle enforces the title length bounds.
func ValidatePostTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < MinTitleLength {
		return models.NewValidationError("title", fmt.Sprintf("title must be at least %d characters", MinTitleLength))
	}
	if n > MaxTitleLength {
		return models.NewValidationError("title", fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
	return nil
}

// ValidatePostSlug enforces the slug alphabet and length bounds.
func ValidatePostSlug(slug string) error {
	if len(slug) < MinSlugLength {
		return models.NewValidationError("slug", fmt.Sprintf("slug must be at least %d characters", MinSlugLength))
	}
	if len(slug) > MaxSlugLength {
		return models.NewValidationError("slug", fmt.Sprintf("slug must be at most %d characters", MaxSlugLength))
	}
	if !blog.IsValidSlug(slug) {
		return models.NewValidationError("slug", "slug can only contain lowercase letters, numbers, and hyphens")
	}
	return nil
}

// ValidatePostContent enforces the minimum body length.
func ValidatePostContent(content string) error {
	if utf8.RuneCountInString(content) < MinContentLength {
		return models.NewValidationError("content", fmt.Sprintf("content must be at least %d characters", MinContentLength))
	}
	return nil
}

// ValidateCoverImage accepts an empty value or an absolute http(s) URL.
func ValidateCoverImage(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.NewValidationError("coverImage", "cover image must be a valid URL")
	}
	return nil
}
