package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "minibnb/internal/adapters/http_server"
	"minibnb/internal/adapters/observability"
	redisad "minibnb/internal/adapters/redis"
	"minibnb/internal/app"
	"minibnb/internal/shared"
	mysqlrepo "minibnb/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	authz := app.NewResolver(repo)

	h := &server.Handlers{
		Listings: app.NewListingService(repo, repo, cache, authz, cfg.CacheTTL),
		Bookings: app.NewBookingService(repo, repo, authz),
		Messages: app.NewMessageService(repo, repo, authz),
		Cohosts:  app.NewCohostService(repo, repo, repo, authz),
		Users:    app.NewUserService(repo),
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h, repo)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
