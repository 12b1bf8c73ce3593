// Command reconcile is the one-shot ledger maintenance job: it finds every
// (post, actor) key holding more than one interaction row, keeps the oldest
// row per key, deletes the rest, and rebuilds the affected posts' counters.
// Safe to re-run at any time.
package main

import (
	"log"
	"os"

	"inkpress/internal/db"
	"inkpress/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	gdb, err := db.Init()
	if err != nil {
		log.Printf("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	interactions := services.NewInteractionService(gdb)

	dups, err := interactions.FindDuplicates()
	if err != nil {
		log.Printf("Duplicate scan failed: %v", err)
		os.Exit(1)
	}
	for _, g := range dups {
		log.Printf("post %d has %d interactions for actor %s:%s", g.PostID, g.Count, g.ActorType, g.ActorKey)
	}

	groups, removed, err := interactions.Repair()
	if err != nil {
		log.Printf("Repair failed: %v", err)
		os.Exit(1)
	}
	log.Printf("Repair complete: %d duplicate groups found, %d rows removed", groups, removed)
}
