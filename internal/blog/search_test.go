package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

func searchFixture() []models.PostWithRelations {
	a := post(1, "Getting started with Go")
	a.Content = "Building services with React on the frontend."

	b := post(2, "Database tips")
	b.Excerpt = strPtr("Indexes that matter")

	c := post(3, "Travel notes")
	c.Author = models.User{ID: 2, Name: "Grace Hopper"}

	d := post(4, "Weekly links")
	d.PostCategories = []models.PostCategoryRef{{Category: models.Category{ID: 9, Name: "Kubernetes"}}}

	return []models.PostWithRelations{a, b, c, d}
}

func TestSearchEmptyQueryReturnsEmpty(t *testing.T) {
	t.Parallel()

	got := Search(searchFixture(), "")
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Search(searchFixture(), "   "))
}

func TestSearchFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  []uint
	}{
		{"content case insensitive", "REACT", []uint{1}},
		{"title", "database", []uint{2}},
		{"excerpt", "indexes", []uint{2}},
		{"author name", "hopper", []uint{3}},
		{"category name", "kube", []uint{4}},
		{"surrounding whitespace trimmed", "  travel ", []uint{3}},
		{"no match", "rust", []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(Search(searchFixture(), tt.query)))
		})
	}
}

func TestSearchPreservesOrder(t *testing.T) {
	t.Parallel()

	posts := []models.PostWithRelations{post(5, "Go one"), post(2, "Other"), post(7, "Go two")}
	assert.Equal(t, []uint{5, 7}, ids(Search(posts, "go")))
}
