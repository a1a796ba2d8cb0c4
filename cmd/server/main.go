package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/cors"

	"github.com/linkedup/app/internal/database"
	"github.com/linkedup/app/internal/hackathons"
	"github.com/linkedup/app/internal/handlers"
	"github.com/linkedup/app/internal/seed"
)

func main() {
	// .env is optional; real env vars win either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Skipping .env: %v", err)
	}

	dbPath := envOr("DATABASE_PATH", "linkedup.db")
	db, err := database.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer db.Close()

	// Fold any per-group invite records left by older clients into the
	// per-recipient store before the first request touches them.
	if moved, err := database.MigrateLegacyInvites(db); err != nil {
		log.Fatalf("Error migrating invites: %v", err)
	} else if moved > 0 {
		log.Printf("Migrated %d legacy invites", moved)
	}

	if err := ensureCatalog(db, os.Getenv("SEED_URL")); err != nil {
		log.Fatalf("Error seeding hackathon catalog: %v", err)
	}

	if err := handlers.LoadTemplates(envOr("TEMPLATES_DIR", "web/templates")); err != nil {
		log.Fatalf("Error loading templates: %v", err)
	}
	handlers.UsersCSVPath = os.Getenv("USERS_CSV")

	mux := handlers.NewRouter(db)
	handler := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	}).Handler(mux)

	port := envOr("PORT", "8080")
	log.Printf("Server starting on port %s\n", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

// ensureCatalog fills the hackathon store on first boot: the remote seed
// document when SEED_URL is set, a generated batch otherwise. A non-empty
// store is left alone.
func ensureCatalog(db *sql.DB, seedURL string) error {
	existing, err := database.GetHackathons(db)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	if seedURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), seed.FetchTimeout)
		defer cancel()
		fetched, err := seed.FetchHackathons(ctx, http.DefaultClient, seedURL)
		if err != nil {
			log.Printf("Seed fetch failed, generating locally: %v", err)
		} else if len(fetched) > 0 {
			return database.SaveHackathons(db, fetched)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return database.SaveHackathons(db, hackathons.Generate(hackathons.DefaultCount, rng))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
