// Command reconcile recomputes the denormalized like and comment counters of
// every post and news item from the fact tables and reports what it changed.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"github.com/anonto42/neoping/backend/internal/services"
	"github.com/anonto42/neoping/backend/pkg/config"
	"github.com/anonto42/neoping/backend/pkg/logging"
)

func main() {
	kind := flag.String("kind", "", "limit to one content kind (post or news)")
	flag.Parse()

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	kinds := []models.ContentKind{models.KindPost, models.KindNews}
	if *kind != "" {
		k := models.ContentKind(*kind)
		if !k.Valid() {
			logging.Fatal().Str("kind", *kind).Msg("unknown content kind")
		}
		kinds = []models.ContentKind{k}
	}

	// Notifications are not needed here
	cfg.MongoURI = ""
	db, err := config.InitDB(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	counters := services.NewCounters(repositories.NewStore(db.Postgres))
	failed := false
	for _, k := range kinds {
		report, err := counters.Reconcile(ctx, k)
		if err != nil {
			logging.Error().Err(err).Str("kind", string(k)).Int("checked", report.Checked).Msg("reconcile failed")
			failed = true
			continue
		}
		logging.Info().Str("kind", string(k)).Int("checked", report.Checked).Int("corrected", report.Corrected).Msg("reconcile finished")
	}
	if failed {
		stop()
		db.CloseDB()
		os.Exit(1)
	}
}
