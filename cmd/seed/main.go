package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"travelshare/internal/auth"
	"travelshare/internal/cache"
	"travelshare/internal/config"
	"travelshare/internal/db"
	apperrors "travelshare/internal/errors"
	"travelshare/internal/model"
	"travelshare/internal/repository"
	"travelshare/internal/service"
)

// SeedUser is one entry of the seed file.
type SeedUser struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Trips    []string `json:"trips"`
}

func main() {
	source := flag.String("source", "seed/users.json", "path or http(s) URL of the users JSON file")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Trip{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Loading users from: %s", *source)
	users, err := loadSeedUsers(*source)
	if err != nil {
		log.Fatalf("Failed to load users: %v", err)
	}
	log.Printf("Loaded %d users", len(users))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	prover, err := auth.NewProver(cfg, auth.NewSessionStore(cacheClient))
	if err != nil {
		log.Fatalf("auth init: %v", err)
	}
	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, prover)
	tripService := service.NewTripService(userRepo, cacheClient)

	created, skipped, err := seedUsers(context.Background(), authService, tripService, users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", skipped)
}

// loadSeedUsers reads the seed list from a local file or an http(s) URL.
func loadSeedUsers(source string) ([]SeedUser, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%s returned status code: %d", source, resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", source, err)
		}
		r = f
	}
	defer r.Close()

	return decodeSeedUsers(r)
}

func decodeSeedUsers(r io.Reader) ([]SeedUser, error) {
	var users []SeedUser
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// seedUsers registers every user through the auth service, skipping emails
// that are already taken, and adds the listed catalog trips to new users.
func seedUsers(ctx context.Context, authService service.AuthService, tripService service.TripService, users []SeedUser) (created int, skipped int, err error) {
	for _, u := range users {
		user, err := authService.Register(ctx, u.Name, u.Email, u.Password, u.Password)
		if errors.Is(err, apperrors.ErrEmailTaken) {
			skipped++
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("error registering %s: %w", u.Email, err)
		}
		created++

		for _, selector := range u.Trips {
			if _, err := tripService.AddTrip(ctx, user.ID, model.TripSelector(selector)); err != nil {
				return created, skipped, fmt.Errorf("error adding trip %q for %s: %w", selector, u.Email, err)
			}
		}
	}
	return created, skipped, nil
}
