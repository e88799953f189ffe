package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/talkincode/productdesk/config"
	"github.com/talkincode/productdesk/internal/app"
	"github.com/talkincode/productdesk/internal/tui"
	"go.uber.org/zap"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "productdesk",
	Short: "Manage a product catalog merged from a remote store and a local one",
	Long: `productdesk merges a remote product catalog with products kept on this
machine, and lets you search, add, edit and delete them.

Run without arguments to start the interactive terminal UI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, listCmd, exportCmd, statsCmd, encodeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.System.Debug = true
	}
	return cfg, nil
}

// startApp loads the config and wires the application. quiet keeps logs
// off stdout for commands that print results there.
func startApp(quiet bool) (app.AppContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := app.NewApplication(cfg)
	a.SetQuiet(quiet)
	if err := a.Init(cfg); err != nil {
		a.Release()
		return nil, err
	}
	return a, nil
}

func runInteractive(ctx context.Context) error {
	a, err := startApp(true)
	if err != nil {
		return err
	}
	defer a.Release()

	notes, unsubscribe, err := tui.Listen(a.Notifier())
	if err != nil {
		return err
	}
	defer unsubscribe()

	model := tui.New(ctx, a.Controller(), tui.Options{
		Encoder:    a.Encoder(),
		Notes:      notes,
		Breakpoint: a.Config().UI.Breakpoint,
		Initialize: true,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		zap.L().Error("terminal ui stopped", zap.Error(err))
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
