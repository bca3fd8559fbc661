// Package database provides the run ledger storage for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── runs/            # Conversion run ledger
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./transcripts.db")
//
//	runsRepo := runs.NewRepository(db.DB)
//	recent, total, err := runsRepo.List(20, 0)
//
// # Interface Implementations
//
//   - runs.Repository: implements audit.RunStore and http.RunStore
package database
