package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexandrarotta/microestado/internal/api"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/persistence"
	"github.com/alexandrarotta/microestado/internal/session"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the live session clock",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.Int("port", 8080, "HTTP port")
	f.String("db", "data/microestado.db", "SQLite database path")
	f.Duration("tick", 0, "tick interval (default: economy.tickMs from the catalog)")
	f.Uint64("autosave-every", 12, "ticks between autosaves")
	f.Duration("idle-after", session.DefaultIdleAfter, "evict sessions with no requests or subscribers for this long (0 keeps them)")
	f.String("admin-key", "", "bearer token for admin endpoints (empty disables them)")
	f.StringSlice("cors-origins", nil, "extra allowed CORS origins")
	f.Int("max-streams", 64, "concurrent SSE and websocket connections")
	f.String("random-org-key", "", "random.org API key (empty uses crypto/rand)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	// ── Database ──────────────────────────────────────────────────────
	dbPath := viper.GetString("db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	if prev, err := db.GetMeta("catalog_version"); err == nil && prev != cat.Version {
		slog.Warn("catalog changed since last run", "previous", shortVersion(prev), "current", shortVersion(cat.Version))
	}
	if err := db.SaveMeta("catalog_version", cat.Version); err != nil {
		slog.Warn("failed to record catalog version", "error", err)
	}

	// ── Sessions ──────────────────────────────────────────────────────
	rng := entropy.NewClient(viper.GetString("random-org-key"))
	slog.Info("randomness", "random_org", rng.Enabled())
	game := session.NewGame(cat, entropy.FromClient(rng), nil)
	mgr := session.NewManager(game, db)
	mgr.IdleAfter = viper.GetDuration("idle-after")

	interval := viper.GetDuration("tick")
	if interval <= 0 {
		interval = time.Duration(cat.Economy.TickMs) * time.Millisecond
	}
	clockDone := make(chan struct{})
	go func() {
		defer close(clockDone)
		mgr.Run(ctx, interval, viper.GetUint64("autosave-every"))
	}()

	// ── HTTP ──────────────────────────────────────────────────────────
	srv := &api.Server{
		Sessions:   mgr,
		DB:         db,
		Port:       viper.GetInt("port"),
		AdminKey:   viper.GetString("admin-key"),
		Origins:    viper.GetStringSlice("cors-origins"),
		MaxStreams: viper.GetInt("max-streams"),
	}
	err = srv.Run(ctx)

	// Stop the clock and wait for its final autosave before closing the DB.
	stop()
	<-clockDone
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	slog.Info("shutdown complete", "sessions", mgr.Len())
	return nil
}
