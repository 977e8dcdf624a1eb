package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/primal-host/primal-folio/internal/events"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	loginPassword string
	passwdCurrent string
	passwdNew     string
	watchCursor   int64
)

//nolint:gochecknoglobals // Cobra boilerplate
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Start an admin session",
	Long:  `login checks the admin password and keeps the session for later commands. Without --password the password is read from stdin.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		password := loginPassword
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		s, _, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		ok, err := s.Login(cmd.Context(), password)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("invalid password")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Login successful")
		return nil
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the admin session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, _, err := newStore()
		if err != nil {
			return err
		}
		if err := s.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the admin password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if err := s.ChangePassword(cmd.Context(), passwdCurrent, passwdNew); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password changed successfully")
		return nil
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var showCmd = &cobra.Command{
	Use:       "show [domain]",
	Short:     "Print the current content as JSON",
	ValidArgs: []string{"hero", "about", "contact", "skills", "projects", "experiences", "testimonials"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		doc := s.Snapshot()
		if len(args) == 0 {
			return printJSON(cmd, doc)
		}
		switch args[0] {
		case events.DomainHero:
			return printJSON(cmd, doc.Hero)
		case events.DomainAbout:
			return printJSON(cmd, doc.About)
		case events.DomainContact:
			return printJSON(cmd, doc.Contact)
		case events.DomainSkills:
			return printJSON(cmd, doc.Skills)
		case events.DomainProjects:
			return printJSON(cmd, doc.Projects)
		case events.DomainExperiences:
			return printJSON(cmd, doc.Experiences)
		default:
			return printJSON(cmd, doc.Testimonials)
		}
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print content changes as they happen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, c, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		_, err = c.Watch(cmd.Context(), watchCursor, func(ch events.Change) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n",
				ch.Seq, ch.Time.Format("2006-01-02 15:04:05"), ch.Domain, ch.Action, ch.Key)
			return err
		})
		if cmd.Context().Err() != nil {
			return nil
		}
		return err
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, passwdCmd, showCmd, watchCmd)

	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Admin password (read from stdin when empty)")

	passwdCmd.Flags().StringVar(&passwdCurrent, "current", "", "Current password")
	passwdCmd.Flags().StringVar(&passwdNew, "new", "", "New password, at least 6 characters")
	_ = passwdCmd.MarkFlagRequired("current")
	_ = passwdCmd.MarkFlagRequired("new")

	watchCmd.Flags().Int64Var(&watchCursor, "cursor", -1, "Replay changes after this sequence first")
}
