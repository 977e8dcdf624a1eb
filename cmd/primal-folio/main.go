// primal-folio serves the portfolio Content API.
//
// Configuration comes from FOLIO_* environment variables and an optional
// YAML file named by FOLIO_CONFIG. With storage "postgres" (the default)
// it connects to PostgreSQL and bootstraps the schema; with "memory" it
// seeds the default portfolio in process, which is handy for demos.
//
// Usage:
//
//	FOLIO_DB__CONN=localhost:5432 FOLIO_DB__NAME=folio \
//	FOLIO_DB__USER=folio FOLIO_DB__PASS=secret \
//	FOLIO_AUTH__JWT_SECRET=change-me ./primal-folio
//
//	FOLIO_STORAGE=memory FOLIO_AUTH__JWT_SECRET=dev ./primal-folio
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/primal-host/primal-folio/internal/auth"
	"github.com/primal-host/primal-folio/internal/config"
	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/credential"
	"github.com/primal-host/primal-folio/internal/database"
	"github.com/primal-host/primal-folio/internal/events"
	"github.com/primal-host/primal-folio/internal/logging"
	"github.com/primal-host/primal-folio/internal/mail"
	"github.com/primal-host/primal-folio/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logging.Info().Str("listen", cfg.ListenAddr).Str("storage", cfg.Storage).Msg("primal-folio starting")

	// Root context cancelled on SIGINT or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		Tokens: auth.NewManager(cfg.Auth.JWTSecret, "primal-folio", cfg.Auth.TokenTTL),
		Mailer: mail.New(cfg.Mail),
	}
	if !cfg.Mail.Enabled() {
		logging.Warn().Msg("mail not configured, contact form will answer 500")
	}

	switch cfg.Storage {
	case config.StorageMemory:
		if err := memoryDeps(ctx, cfg, &deps); err != nil {
			logging.Fatal().Err(err).Msg("failed to seed memory storage")
		}
		logging.Warn().Msg("memory storage: every change is lost on restart")

	default:
		db, err := database.Open(ctx, cfg.ConnString(), database.Options{MaxConns: cfg.DB.MaxConns})
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		logging.Info().Str("db", cfg.DB.Conn+"/"+cfg.DB.Name).Msg("database connected, schema bootstrapped")

		deps.Stores = server.Stores{
			Hero:         content.NewHeroSection(db),
			About:        content.NewAboutSection(db),
			Contact:      content.NewContactSection(db),
			Skills:       content.NewSkillStore(db),
			Projects:     content.NewProjectStore(db),
			Experiences:  content.NewExperienceStore(db),
			Testimonials: content.NewTestimonialStore(db),
		}
		creds := credential.NewStore(db)
		if ok, err := creds.Exists(ctx); err == nil && !ok {
			logging.Warn().Msg("no admin credential, run folio-admin seed")
		}
		deps.Credentials = creds
		deps.Events = events.NewManager(events.NewPersister(db.Pool))
		deps.DB = db
	}

	// Blocks until ctx is cancelled.
	srv := server.New(cfg, deps)
	if err := srv.Start(ctx); err != nil {
		logging.Fatal().Err(err).Msg("server error")
	}

	logging.Info().Msg("primal-folio stopped")
}

// memoryDeps fills deps with in-process stores holding the default
// portfolio and an admin gate using auth.initial_password.
func memoryDeps(ctx context.Context, cfg *config.Config, deps *server.Deps) error {
	hero := content.NewMemorySection[content.Hero]()
	about := content.NewMemorySection[content.About]()
	contact := content.NewMemorySection[content.Contact]()
	skills := content.NewMemorySkills()
	projects := content.NewMemoryItems[content.Project]("project")
	experiences := content.NewMemoryItems[content.Experience]("experience")
	testimonials := content.NewMemoryItems[content.Testimonial]("testimonial")

	if _, err := content.Seed(ctx, content.SeedStores{
		Hero: hero, About: about, Contact: contact, Skills: skills,
		Projects: projects, Experiences: experiences, Testimonials: testimonials,
	}, content.Defaults()); err != nil {
		return err
	}

	creds, err := credential.NewMemory(cfg.Auth.InitialPassword)
	if err != nil {
		return err
	}

	deps.Stores = server.Stores{
		Hero: hero, About: about, Contact: contact, Skills: skills,
		Projects: projects, Experiences: experiences, Testimonials: testimonials,
	}
	deps.Credentials = creds
	deps.Events = events.NewManager(events.NewMemoryLog(events.DefaultMemoryLimit))
	return nil
}
