package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/logging"
	"github.com/hackmate-ai/hackmate/internal/server"
)

// Shared CLI flags
var (
	cfgFile string
	verbose bool
)

// ServerConfig holds the loaded server configuration (set by main)
var ServerConfig *config.Config

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	ServerConfig = c

	rootCmd := &cobra.Command{
		Use:   "hackmate",
		Short: "HackMate - security tooling chat backend",
		Long: `HackMate relays chat requests to an LLM completion backend and routes
slash commands to external security scanning plugins.

Just type 'hackmate' to start the API server.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: embedded etc/hackmate.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(ToolsCmd())

	return rootCmd
}

// ServeCmd creates the serve command
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  `Start the HackMate API server.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	if !verbose {
		logging.Disable()
	}

	c := ServerConfig
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
		c = &loaded
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := server.Run(ctx, *c); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
