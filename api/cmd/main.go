package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Yatube/api"

	"github.com/spf13/cobra"
)

// rootCmd serves the site when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "yatube",
	Short: "Yatube blogging platform",
	Long: `Yatube serves a blogging site: posts, groups, comments and
author subscriptions. Configuration comes from the environment or a .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := api.Bootstrap()
		if err != nil {
			return err
		}
		return api.Migrate(cfg)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users, groups and posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := api.Bootstrap()
		if err != nil {
			return err
		}
		return api.Seed(cfg)
	},
}

var port string

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := api.Bootstrap()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.Run(ctx, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
