package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

const (
	MinCommentLength = 10
	MaxCommentLength = 5000
	MinNameLength    = 2
	MaxNameLength    = 100
	MaxEmailLength   = 255
)

// ValidateCommentContent checks the length of a comment, ignoring surrounding
// whitespace. Content is stored as written; escaping is left to whoever renders it.
func ValidateCommentContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < MinCommentLength {
		return models.NewValidationError("content", fmt.Sprintf("comment must be at least %d characters", MinCommentLength))
	}
	if n > MaxCommentLength {
		return models.NewValidationError("content", fmt.Sprintf("comment must be at most %d characters", MaxCommentLength))
	}
	return nil
}

// ValidateCommenterName checks the display name given on the comment form.
func ValidateCommenterName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinNameLength {
		return "", models.NewValidationError("name", fmt.Sprintf("name must be at least %d characters", MinNameLength))
	}
	if n > MaxNameLength {
		return "", models.NewValidationError("name", fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	return name, nil
}

// NormalizeEmail validates an address and returns it trimmed and lowercased.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > MaxEmailLength {
		return "", models.NewValidationError("email", "please enter a valid email")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", models.NewValidationError("email", "please enter a valid email")
	}
	return email, nil
}
