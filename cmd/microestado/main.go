// Command microestado serves, simulates and validates MicroEstado games.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexandrarotta/microestado/internal/catalog"
)

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "microestado",
		Short:        "MicroEstado nation simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			return setupLogging(viper.GetString("log-level"))
		},
	}
	pf := root.PersistentFlags()
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("catalog-dir", "", "directory of catalog YAML files overriding the embedded defaults")

	viper.SetEnvPrefix("MICROESTADO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(newServeCmd(), newSimulateCmd(), newCatalogCmd())
	return root
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
	return nil
}

func loadCatalog() (*catalog.Bundle, error) {
	dir := viper.GetString("catalog-dir")
	cat, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	slog.Info("catalog loaded", "version", shortVersion(cat.Version), "dir", dir,
		"projects", len(cat.Projects), "events", len(cat.Events), "l2_events", len(cat.L2Events))
	return cat, nil
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
