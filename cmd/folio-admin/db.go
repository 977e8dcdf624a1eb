package main

import (
	"context"
	"fmt"
	"time"

	"github.com/primal-host/primal-folio/internal/config"
	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/credential"
	"github.com/primal-host/primal-folio/internal/database"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	seedPassword     string
	seedKeepPassword bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default portfolio and admin credential to PostgreSQL",
	Long: `seed writes the default sections and skills categories, fills the
project, experience and testimonial tables when they are empty, and sets
the admin password.

It reads the same FOLIO_* database settings as the server.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

//nolint:gochecknoglobals // Cobra boilerplate
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password [password]",
	Short: "Set the admin password directly in PostgreSQL",
	Long: `reset-password replaces the admin password hash, creating the admin row
if needed. Without an argument a random password is generated and printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResetPassword,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(seedCmd, resetPasswordCmd)
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "Admin password (default auth.initial_password)")
	seedCmd.Flags().BoolVar(&seedKeepPassword, "keep-password", false, "Leave an existing admin password unchanged")
}

func openDB(ctx context.Context) (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(ctx, cfg.ConnString(), database.Options{MaxConns: 2})
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	cfg, db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := content.Seed(ctx, content.SeedStores{
		Hero:         content.NewHeroSection(db),
		About:        content.NewAboutSection(db),
		Contact:      content.NewContactSection(db),
		Skills:       content.NewSkillStore(db),
		Projects:     content.NewProjectStore(db),
		Experiences:  content.NewExperienceStore(db),
		Testimonials: content.NewTestimonialStore(db),
	}, content.Defaults())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Seeded hero, about and contact")
	fmt.Fprintf(out, "Seeded %d skills categories\n", report.Categories)
	fmt.Fprintf(out, "Seeded %d projects, %d experiences, %d testimonials\n",
		report.Projects, report.Experiences, report.Testimonials)

	creds := credential.NewStore(db)
	if seedKeepPassword {
		ok, err := creds.Exists(ctx)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintln(out, "Admin password kept")
			return nil
		}
	}

	password := seedPassword
	if password == "" {
		password = cfg.Auth.InitialPassword
	}
	if err := creds.Reset(ctx, password); err != nil {
		return err
	}
	fmt.Fprintln(out, "Admin password set")
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	_, db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		if password, err = credential.GeneratePassword(); err != nil {
			return err
		}
	}

	creds := credential.NewStore(db)
	if err := creds.Reset(ctx, password); err != nil {
		return err
	}
	// Read the row back so a broken hash is caught here, not at login.
	if err := creds.Authenticate(ctx, password); err != nil {
		return fmt.Errorf("verify new password: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Admin password reset")
	if len(args) == 0 {
		fmt.Fprintf(out, "New password: %s\n", password)
	}
	return nil
}
