// folio-admin manages portfolio content from the command line.
//
// seed and reset-password write straight to PostgreSQL using the same
// FOLIO_* configuration as the server. Every other command talks to a
// running Content API through the Admin Content Store; log in once with
// folio-admin login and the session is kept in the user config dir.
//
// Usage:
//
//	folio-admin seed --password admin123
//	folio-admin login
//	folio-admin skills add "C++ & Systems"
//	folio-admin skills add-skill c-and-systems RUST
//	folio-admin testimonials add --file quote.json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/primal-host/primal-folio/internal/admin"
	"github.com/primal-host/primal-folio/internal/client"
	"github.com/primal-host/primal-folio/internal/credential"
	"github.com/primal-host/primal-folio/internal/logging"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	apiURL      string
	sessionPath string
	verbose     bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "folio-admin",
	Short: "Edit portfolio content",
	Long: `folio-admin edits the portfolio served by primal-folio.

Content commands need a session: run "folio-admin login" first.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Init(logging.Config{Level: level, Format: "console"})
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	defaultAPI := os.Getenv("FOLIO_API_URL")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:5000/api"
	}
	defaultSession := ".folio-admin-session"
	if dir, err := os.UserConfigDir(); err == nil {
		defaultSession = filepath.Join(dir, "folio-admin", "session")
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "Content API base URL (env FOLIO_API_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", defaultSession, "File holding the login session")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if errors.Is(err, client.ErrUnreachable) {
			fmt.Fprintln(os.Stderr, "Cannot connect to server. Please make sure the backend is running.")
		}
		os.Exit(1)
	}
}

// newStore builds a store against the API with any saved session
// restored. It makes no network calls.
func newStore() (*admin.Store, *client.Client, error) {
	c := client.New(apiURL)
	mirror, err := credential.NewMemory("")
	if err != nil {
		return nil, nil, err
	}
	s := admin.New(admin.NewRemote(c), admin.RemoteGate{Client: c, Mirror: mirror},
		admin.WithMarker(admin.FileMarker{Path: sessionPath}))

	if _, err := s.Restore(); err != nil {
		return nil, nil, err
	}
	return s, c, nil
}

// openStore returns a hydrated store with any saved session restored.
func openStore(ctx context.Context) (*admin.Store, *client.Client, error) {
	s, c, err := newStore()
	if err != nil {
		return nil, nil, err
	}
	if err := s.Hydrate(ctx); err != nil {
		return nil, nil, err
	}
	return s, c, nil
}

// openSession is openStore for commands that write.
func openSession(ctx context.Context) (*admin.Store, error) {
	s, _, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if !s.IsAuthenticated() {
		return nil, fmt.Errorf("%w: run folio-admin login", admin.ErrNotAuthenticated)
	}
	return s, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

// readJSONFile decodes path, or stdin when path is "-", into v.
func readJSONFile(cmd *cobra.Command, path string, v any) error {
	if path == "" {
		return errors.New("--file is required")
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
