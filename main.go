package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/charactle/go-server/internal/catalog"
	"github.com/charactle/go-server/internal/httpserver"
	"github.com/charactle/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	provider, err := buildCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load character catalog")
	}

	// The name list backs autocomplete; loaded once, read-only after.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	names, err := provider.ListNames(ctx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list character names")
	}
	log.Info().Int("characters", len(names)).Msg("catalog ready")

	db, err := openDB(getEnv("DB_PATH", "./data/charactle.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(store.NewMemoryStore(), provider, names, db)
	port := getEnv("PORT", "5180")
	log.Info().Str("port", port).Msg("starting charactle server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// buildCatalog picks the character source: the bundled dataset by
// default, or a remote SWAPI-style API with CATALOG_MODE=swapi.
func buildCatalog() (catalog.Provider, error) {
	if getEnv("CATALOG_MODE", "static") == "swapi" {
		return catalog.NewSWAPI(os.Getenv("SWAPI_BASE_URL"), nil), nil
	}
	return catalog.LoadStatic()
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
