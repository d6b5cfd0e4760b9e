package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/vijaysurla/227clips-backend/services"
	"github.com/vijaysurla/227clips-backend/storage"
)

func main() {
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize database
	storage.InitializeDB()

	report, err := services.ReconcileComments()
	if err != nil {
		log.Fatalf("Error reconciling comments: %v", err)
	}

	fmt.Printf("Checked %d videos, repaired %d, deleted %d orphaned comments\n",
		report.VideosChecked, report.VideosRepaired, report.OrphansDeleted)
}
