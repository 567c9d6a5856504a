package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statekit-dev/statekit/internal/errors"
	"github.com/statekit-dev/statekit/pkg/authstate"
	"github.com/statekit-dev/statekit/pkg/persist"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored Authorization header",
		Long: `Manage the credential header store.

Credentials are formatted into an Authorization header value and
persisted to the configured backend so a restarted console picks
them up again.`,
	}

	cmd.AddCommand(
		authBasicCmd(),
		authBearerCmd(),
		authClearCmd(),
		authShowCmd(),
	)

	return cmd
}

// openAuthStore loads config, opens the backend and restores the store.
func openAuthStore() (*authstate.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	slot := persist.NewSlot[authstate.Session](store, cfg.Keys.Auth)
	return authstate.New(slot), nil
}

func authBasicCmd() *cobra.Command {
	var passwordEnv string

	cmd := &cobra.Command{
		Use:   "basic <username> [password]",
		Short: "Store basic credentials",
		Long: `Store a username/password pair as a Basic Authorization header.

The password can be passed as the second argument or read from an
environment variable with --password-env.

Examples:
  statekit auth basic alice s3cret
  statekit auth basic alice --password-env=CONSOLE_PASSWORD`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			var password string
			switch {
			case len(args) == 2:
				password = args[1]
			case passwordEnv != "":
				password = os.Getenv(passwordEnv)
				if password == "" {
					return fmt.Errorf("environment variable %s is empty", passwordEnv)
				}
			default:
				return fmt.Errorf("no password given; pass it as an argument or use --password-env")
			}

			store, err := openAuthStore()
			if err != nil {
				return err
			}
			if err := store.SetBasicCredentials(context.Background(), username, password); err != nil {
				if stderrors.Is(err, authstate.ErrEncodingUnsupported) {
					return errors.New("E301").Wrap(err)
				}
				return err
			}
			success("stored basic credentials for %s", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&passwordEnv, "password-env", "", "Read the password from this environment variable")

	return cmd
}

func authBearerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bearer <token>",
		Short: "Store a bearer token",
		Long: `Store an opaque token as a Bearer Authorization header.

Surrounding whitespace is trimmed before formatting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openAuthStore()
			if err != nil {
				return err
			}
			store.SetBearerToken(context.Background(), args[0])
			success("stored bearer token")
			return nil
		},
	}
}

func authClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openAuthStore()
			if err != nil {
				return err
			}
			store.Clear(context.Background())
			success("cleared credentials")
			return nil
		},
	}
}

func authShowCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored credential state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openAuthStore()
			if err != nil {
				return err
			}

			sess := store.Session()
			if sess.Type == authstate.TypeNone {
				info("no credentials stored")
				return nil
			}

			info("type:     %s", sess.Type)
			if sess.Username != "" {
				info("username: %s", sess.Username)
			}
			if reveal {
				info("header:   %s", sess.Header)
			} else {
				info("header:   %s", redactedHeader(sess))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the full header value")

	return cmd
}

func redactedHeader(sess authstate.Session) string {
	switch sess.Type {
	case authstate.TypeBasic:
		return "Basic [redacted]"
	case authstate.TypeBearer:
		return "Bearer [redacted]"
	default:
		return ""
	}
}
