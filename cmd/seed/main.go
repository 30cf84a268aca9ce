// Command seed loads demo content into the blog database.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/sunil-gumatimath/wave-length/internal/cache"
	"github.com/sunil-gumatimath/wave-length/internal/config"
	"github.com/sunil-gumatimath/wave-length/internal/database"
	"github.com/sunil-gumatimath/wave-length/internal/middleware"
	"github.com/sunil-gumatimath/wave-length/internal/seed"
)

func main() {
	file := flag.String("file", "seed.yml", "YAML fixture to load")
	fake := flag.Bool("fake", false, "Generate random content instead of loading -file")
	numUsers := flag.Int("users", 8, "Number of users to generate with -fake")
	numPosts := flag.Int("posts", 30, "Number of posts to generate with -fake")
	comments := flag.Int("comments", 3, "Comments per generated post")
	randSeed := flag.Int64("seed", 0, "Random seed for -fake (0 uses the clock)")
	shouldClean := flag.Bool("clean", false, "Delete all blog content before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// A running server shares this cache; seeding bumps its generation.
	store := cache.NewStore(cache.Connect(ctx, cfg.RedisURL), time.Duration(cfg.CacheTTLSeconds)*time.Second)
	s := seed.NewSeeder(db, store)

	if *shouldClean {
		if err := s.Clear(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		log.Println("Existing content removed")
	}

	var fixture *seed.Fixture
	if *fake {
		fixture = seed.Fake(seed.FakeOptions{
			Users:           *numUsers,
			Posts:           *numPosts,
			CommentsPerPost: *comments,
			Seed:            *randSeed,
		})
	} else {
		fixture, err = seed.LoadFixtureFile(*file)
		if err != nil {
			log.Fatalf("Failed to load fixture %s: %v", *file, err)
		}
	}

	sum, err := s.Apply(ctx, fixture)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d categories, %d posts, %d comments", sum.Users, sum.Categories, sum.Posts, sum.Comments)
}
