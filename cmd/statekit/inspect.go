package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/statekit-dev/statekit/pkg/authstate"
	"github.com/statekit-dev/statekit/pkg/devtools"
	"github.com/statekit-dev/statekit/pkg/persist"
	"github.com/statekit-dev/statekit/pkg/uistate"
)

func inspectCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Start the state inspector",
		Long: `Start the devtools inspector over the configured backend.

The inspector serves a redacted JSON snapshot at /state, Prometheus
metrics at /metrics and a live change feed at /ws. Credential header
values never leave the process unredacted.

Examples:
  statekit inspect
  statekit inspect --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from statekit.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from statekit.json)")

	return cmd
}

func runInspect(host string, port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Devtools.Host = host
	}
	if port > 0 {
		cfg.Devtools.Port = port
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	auth := authstate.New(persist.NewSlot[authstate.Session](store, cfg.Keys.Auth))
	sidebar := uistate.NewSidebar(store, cfg.Keys.UI)

	insp := devtools.New(devtools.WithName(cfg.Name))
	insp.RegisterAuth(auth)
	insp.RegisterSidebar(sidebar)

	addr := fmt.Sprintf("%s:%d", cfg.Devtools.Host, cfg.Devtools.Port)

	printBanner()
	info("inspector on http://%s/state", addr)
	info("metrics on   http://%s/metrics", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- insp.ListenAndServe(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return insp.Shutdown(ctx)
	}
}
