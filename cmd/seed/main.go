// Command seed runs the database seeder for Sahkan.
package main

import (
	"flag"
	"log"

	"sahkan/internal/config"
	"sahkan/internal/database"
	"sahkan/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numDocs := flag.Int("documents", 25, "Number of documents to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(seed.Options{
		NumUsers:     *numUsers,
		NumDocuments: *numDocs,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
