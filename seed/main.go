package main

import (
	"flag"
	"fmt"

	"github.com/bloolabb/bloolabb_api/seed/seeders"
	"github.com/bloolabb/bloolabb_api/services"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	var (
		seedType      = flag.String("type", "all", "Type of seeding: all, content, badges, admin")
		adminEmail    = flag.String("admin-email", "", "Admin email for -type=admin")
		adminPassword = flag.String("admin-password", "", "Admin password for -type=admin")
		help          = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := services.OpenFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		err = mainSeeder.SeedAll()
	case "content":
		err = mainSeeder.SeedContentOnly()
	case "badges":
		err = mainSeeder.SeedBadgesOnly()
	case "admin":
		err = seeders.NewAdminSeeder(db).SeedAdmin(*adminEmail, *adminPassword)
	default:
		log.Fatal().Msgf("Unknown seed type: %s. Use 'all', 'content', 'badges' or 'admin'", *seedType)
	}
	if err != nil {
		log.Fatal().Err(err).Str("type", *seedType).Msg("Seeding failed")
	}

	log.Info().Str("type", *seedType).Msg("Seeding operation completed successfully")
}

func showHelp() {
	fmt.Println(`
Database seeding tool for the bloolabb API

Usage: go run ./seed [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, content, badges, admin
  -admin-email string
  -admin-password string
        Credentials for -type=admin
  -help
        Show this help message

Environment Variables:
  DB_DRIVER    postgres (default) or sqlite
  DATABASE_URL or DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME for postgres
  DB_DATABASE  SQLite file (default: bloolabb.db)`)
}
