// Command admin provides credential utilities for the blog's admin account.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sunil-gumatimath/wave-length/internal/config"
	"github.com/sunil-gumatimath/wave-length/internal/middleware"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "hash-password":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin hash-password <password>")
			os.Exit(1)
		}
		hashPassword(os.Args[2])

	case "token":
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		email := cfg.AdminEmail
		if len(os.Args) >= 3 {
			email = os.Args[2]
		}
		issueToken(cfg, email)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin hash-password <password>  - Print a bcrypt hash for ADMIN_PASSWORD_HASH")
	fmt.Println("  go run ./cmd/admin token [email]             - Print an admin bearer token")
}

func hashPassword(password string) {
	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Println(string(hash))
}

func issueToken(cfg *config.Config, email string) {
	ttl := time.Duration(cfg.JWTTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	token, err := middleware.GenerateAdminToken(cfg.JWTSecret, email, ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
