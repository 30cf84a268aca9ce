package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommentContent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"Nine Runes", "too short", true},
		{"Ten Runes", "ten chars!", false},
		{"Padding Not Counted", "   too short   ", true},
		{"Multibyte Counts Runes", "ééééééééé", true},
		{"Markup Counts As Text", "<p><i>short</i></p>", false},
		{"Too Long", strings.Repeat("a", MaxCommentLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommentContent(tt.content)
			if tt.wantErr {
				assertValidation(t, err, "content")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateCommenterName(t *testing.T) {
	t.Parallel()

	name, err := ValidateCommenterName("  Al ")
	require.NoError(t, err)
	assert.Equal(t, "Al", name)

	_, err = ValidateCommenterName("A")
	assertValidation(t, err, "name")
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		want    string
		wantErr bool
	}{
		{"Valid", "reader@example.com", "reader@example.com", false},
		{"Normalized", "  Reader@Example.COM ", "reader@example.com", false},
		{"Invalid Format", "not-an-email", "", true},
		{"Missing Domain", "user@", "", true},
		{"No TLD", "user@localhost", "", true},
		{"Display Name", "Reader <reader@example.com>", "", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmail(tt.email)
			if tt.wantErr {
				assertValidation(t, err, "email")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
