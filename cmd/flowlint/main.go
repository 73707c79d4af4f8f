package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/flowlint/internal/client"
	"github.com/alfredjeanlab/flowlint/internal/ui"
)

var (
	serverURL      string
	authToken      string
	registrySource string
	jsonOutput     bool
	noColor        bool

	// settings holds ~/.config/flowlint/config.toml. It is initialized
	// before any init function so flag defaults can read it.
	settings = mustLoadSettings()
)

// errLintFailed makes the process exit with status 1 without printing an
// error: the diagnostics have already been reported.
var errLintFailed = errors.New("lint reported errors")

func defaultServer() string {
	if s := os.Getenv("FLOWLINT_SERVER"); s != "" {
		return s
	}
	return settings.Server
}

func defaultToken() string {
	if s := os.Getenv("FLOWLINT_AUTH_TOKEN"); s != "" {
		return s
	}
	return settings.Token
}

func defaultRegistry() string {
	if s := os.Getenv("FLOWLINT_REGISTRY"); s != "" {
		return s
	}
	return settings.Registry
}

// remoteClient returns a client for --server, or nil when linting locally.
func remoteClient() client.LintClient {
	if serverURL == "" {
		return nil
	}
	return client.NewHTTPClient(serverURL, authToken)
}

var rootCmd = &cobra.Command{
	Use:           "flowlint <command>",
	Short:         "Lint workflow graphs against a node-type registry",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "flowlint server URL (empty = lint locally)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for the server")
	rootCmd.PersistentFlags().StringVar(&registrySource, "registry", defaultRegistry(), "node-type registry: file path or s3://bucket/key (empty = built-in)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "lint", Title: "Linting:"},
		&cobra.Group{ID: "reports", Title: "Reports:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Linting
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(projectCmd)

	// Reports
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errLintFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
