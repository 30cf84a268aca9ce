// Package seed loads demo content into the blog, either from a YAML fixture
// or generated with gofakeit. Content goes through the repositories so it is
// validated like anything written through the API.
package seed

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixture is the YAML seed document. Posts reference authors by email and
// categories by slug; comments reference posts by slug.
type Fixture struct {
	Users      []UserFixture     `yaml:"users"`
	Categories []CategoryFixture `yaml:"categories"`
	Posts      []PostFixture     `yaml:"posts"`
	Comments   []CommentFixture  `yaml:"comments"`
}

type UserFixture struct {
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Avatar string `yaml:"avatar"`
	Bio    string `yaml:"bio"`
}

type CategoryFixture struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type PostFixture struct {
	Title       string     `yaml:"title"`
	Slug        string     `yaml:"slug"`
	Excerpt     string     `yaml:"excerpt"`
	Content     string     `yaml:"content"`
	CoverImage  string     `yaml:"coverImage"`
	Author      string     `yaml:"author"`
	PublishedAt *time.Time `yaml:"publishedAt"`
	Categories  []string   `yaml:"categories"`
}

type CommentFixture struct {
	Post    string `yaml:"post"`
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Content string `yaml:"content"`
}

// LoadFixture decodes a fixture, rejecting unknown keys.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("decode seed fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads a fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return LoadFixture(file)
}
