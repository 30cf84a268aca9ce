package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gosimple/slug"

	"github.com/sunil-gumatimath/wave-length/internal/blog"
)

// FakeOptions sizes a generated fixture. A zero Seed uses the clock.
type FakeOptions struct {
	Users           int
	Posts           int
	CommentsPerPost int
	Seed            int64
	Now             time.Time
}

var topics = []string{
	"Go", "Databases", "Distributed Systems", "Travel", "Photography",
	"Books", "Homelab", "Cooking", "Music", "Career",
}

// Fake builds a random but internally consistent fixture. Roughly one post in
// five is a draft; the rest are published within the past year.
func Fake(opts FakeOptions) *Fixture {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if opts.Users < 1 {
		opts.Users = 1
	}
	faker := gofakeit.New(opts.Seed)

	f := &Fixture{}
	for i := 0; i < opts.Users; i++ {
		first := faker.FirstName()
		f.Users = append(f.Users, UserFixture{
			Name:   first + " " + faker.LastName(),
			Email:  fmt.Sprintf("%s.%d@example.com", strings.ToLower(slug.Make(first)), i+1),
			Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", faker.UUID()),
			Bio:    faker.Sentence(10),
		})
	}

	for _, name := range topics {
		f.Categories = append(f.Categories, CategoryFixture{Name: name, Slug: slug.Make(name)})
	}

	for i := 0; i < opts.Posts; i++ {
		title := strings.TrimSuffix(faker.Sentence(faker.Number(4, 8)), ".")
		post := PostFixture{
			Title:      title,
			Slug:       fmt.Sprintf("%s-%d", blog.GenerateSlug(title), i+1),
			Excerpt:    faker.Sentence(15),
			Content:    faker.Paragraph(4, 5, 12, "\n\n"),
			CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", faker.UUID()),
			Author:     f.Users[faker.Number(0, len(f.Users)-1)].Email,
		}
		if faker.Number(1, 5) > 1 {
			published := faker.DateRange(opts.Now.AddDate(-1, 0, 0), opts.Now).UTC()
			post.PublishedAt = &published
		}
		for _, idx := range pick(faker, len(f.Categories), faker.Number(1, 3)) {
			post.Categories = append(post.Categories, f.Categories[idx].Slug)
		}
		f.Posts = append(f.Posts, post)

		for j := 0; j < opts.CommentsPerPost; j++ {
			commenter := f.Users[faker.Number(0, len(f.Users)-1)]
			f.Comments = append(f.Comments, CommentFixture{
				Post:    post.Slug,
				Name:    commenter.Name,
				Email:   commenter.Email,
				Content: faker.Sentence(faker.Number(6, 20)),
			})
		}
	}
	return f
}

// pick returns k distinct indexes below n.
func pick(faker *gofakeit.Faker, n, k int) []int {
	if k > n {
		k = n
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	faker.ShuffleInts(order)
	return order[:k]
}
