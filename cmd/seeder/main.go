package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"minibnb/internal/adapters/observability"
	"minibnb/internal/domain"
	"minibnb/internal/shared"
	mysqlrepo "minibnb/internal/storage/mysql"
)

const seedHostEmail = "host@minibnb.local"

type seedListing struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	PriceCents  int64    `json:"price_cents"`
	MaxGuests   int      `json:"max_guests"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
	Rules       string   `json:"rules"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Int("rate", cfg.SeedRate).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var listings []seedListing
	if err := json.Unmarshal(raw, &listings); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}
	log.Info().Int("count", len(listings)).Msg("seed file parsed")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	host, err := repo.GetUserByEmail(ctx, seedHostEmail)
	if errors.Is(err, domain.ErrNotFound) {
		host, err = repo.CreateUser(ctx, domain.User{
			Email:     seedHostEmail,
			FirstName: "Demo",
			LastName:  "Host",
			IsHost:    true,
		})
	}
	if err != nil {
		log.Fatal().Err(err).Msg("ensure seed host failed")
	}
	log.Info().Int64("host_id", host.ID).Msg("seed host ready")

	// bounded concurrency, paced writes (keeps a shared dev DB responsive)
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	limiter := rate.NewLimiter(rate.Limit(cfg.SeedRate), cfg.SeedRate)
	var wg sync.WaitGroup

	for _, sl := range listings {
		sl := sl

		if err := limiter.Wait(ctx); err != nil {
			log.Fatal().Err(err).Msg("rate limiter wait failed")
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			created, err := repo.CreateListing(ctx, domain.Listing{
				HostID:      host.ID,
				Title:       sl.Title,
				Description: sl.Description,
				Address:     sl.Address,
				City:        sl.City,
				Country:     sl.Country,
				PriceCents:  sl.PriceCents,
				MaxGuests:   sl.MaxGuests,
				Bedrooms:    sl.Bedrooms,
				Bathrooms:   sl.Bathrooms,
				Images:      sl.Images,
				Amenities:   sl.Amenities,
				Rules:       sl.Rules,
			})
			if err != nil {
				log.Warn().Str("title", sl.Title).Err(err).Msg("seed listing failed")
				return
			}
			log.Info().Int64("id", created.ID).Str("title", created.Title).Msg("seed listing ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
