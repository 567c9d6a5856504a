package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/statekit-dev/statekit/pkg/uistate"
)

func sidebarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sidebar",
		Short: "Manage the sidebar flag",
	}

	cmd.AddCommand(
		sidebarSetCmd("open", true),
		sidebarSetCmd("close", false),
		sidebarToggleCmd(),
		sidebarShowCmd(),
	)

	return cmd
}

func openSidebar() (*uistate.Sidebar, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	return uistate.NewSidebar(store, cfg.Keys.UI), nil
}

func sidebarSetCmd(name string, open bool) *cobra.Command {
	short := "Mark the sidebar closed"
	if open {
		short = "Mark the sidebar open"
	}

	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sb, err := openSidebar()
			if err != nil {
				return err
			}
			sb.SetOpen(context.Background(), open)
			success("sidebar %s", name)
			return nil
		},
	}
}

func sidebarToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the sidebar flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sb, err := openSidebar()
			if err != nil {
				return err
			}
			if sb.Toggle(context.Background()) {
				success("sidebar open")
			} else {
				success("sidebar closed")
			}
			return nil
		},
	}
}

func sidebarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the sidebar flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sb, err := openSidebar()
			if err != nil {
				return err
			}
			if sb.Open() {
				info("sidebar: open")
			} else {
				info("sidebar: closed")
			}
			return nil
		},
	}
}
