package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doganjib/internal/api"
	"doganjib/internal/config"
	"doganjib/internal/logging"
	"doganjib/internal/storage"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	store  *storage.Store
	client *api.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "doganjib",
	Short: "도간집 dinner ordering from the terminal",
	Long: `doganjib is the customer and staff terminal for the 도간집 dinner service.

Browse the menu, customize a dinner, manage the cart, and check out, or talk
to the voice assistant and let it build the order for you. Staff can run the
live kitchen dashboard with 'doganjib serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		store, err = storage.Open(cfg.Store.Path, logger)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}

		client, err = api.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, store, logger)
		if err != nil {
			return fmt.Errorf("failed to create API client: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.doganjib/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(assistantCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
