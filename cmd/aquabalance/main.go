// Command aquabalance is the command-line front end of the water intake
// tracker. It works directly on the configured store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TobiasBrasser/aquabalance/internal/config"
	"github.com/TobiasBrasser/aquabalance/internal/storage"
	"github.com/TobiasBrasser/aquabalance/internal/storage/backend"
	"github.com/TobiasBrasser/aquabalance/internal/tracker"
	"github.com/TobiasBrasser/aquabalance/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run executes the CLI with args and closes the tracker afterwards.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := c.close(ctx); err == nil {
		err = cerr
	}
	return err
}

// cli holds the state shared by all subcommands.
type cli struct {
	configPath string

	store storage.Store
	app   *tracker.App
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aquabalance",
		Short: "Track your daily water intake",
		Long: `aquabalance computes a personal daily water target from your body metrics
and tracks how much you drank against it.

Start with 'aquabalance profile set --weight 70', then log with
'aquabalance log 0.25' or 'aquabalance log 250ml'.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.open,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("AQUABALANCE_CONFIG"), "path to the YAML config file")

	root.AddCommand(
		c.profileCmd(),
		c.logCmd(),
		c.statusCmd(),
		c.editCmd(),
		c.resetCmd(),
		c.historyCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if level == "" {
		level = "warn"
	}
	logging.Setup(level)

	c.store, err = backend.Open(cmd.Context(), cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	c.app, err = tracker.Open(cmd.Context(), c.store, tracker.SettingsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open tracker: %w", err)
	}
	return nil
}

func (c *cli) close(ctx context.Context) error {
	var err error
	if c.app != nil {
		err = c.app.Close(ctx)
	}
	if c.store != nil {
		if cerr := c.store.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
