package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"catan-tracker/internal/config"
	"catan-tracker/internal/db"
	"catan-tracker/internal/models"
	"catan-tracker/internal/stats"
	"catan-tracker/internal/store"
)

// historicalAggregate is the pre-tracker tally carried over from the old
// spreadsheet era. Seeded as the aggregate cache after a wipe so the
// dashboard is not empty before the first logged game.
var historicalAggregate = stats.Aggregate{
	models.Antoine: {Participations: 249, Wins: 77, SecondPlace: 81},
	models.DonJon:  {Participations: 204, Wins: 45, SecondPlace: 66},
	models.Chadi:   {Participations: 208, Wins: 59, SecondPlace: 67},
	models.Jeff:    {Participations: 172, Wins: 43, SecondPlace: 43},
	models.Roudy:   {Participations: 51, Wins: 10, SecondPlace: 16},
	models.Roy:     {Participations: 20, Wins: 1, SecondPlace: 6},
	models.Mike:    {Participations: 21, Wins: 1, SecondPlace: 6},
	models.Mario:   {Participations: 7, Wins: 1, SecondPlace: 0},
	models.Nick:    {Participations: 91, Wins: 26, SecondPlace: 29},
}

func main() {
	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to MongoDB
	mongodb, err := db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongodb.Close(ctx)
	}()

	ctx := context.Background()

	// Delete all games
	gamesResult, err := mongodb.Games().DeleteMany(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to delete games: %v", err)
	}
	fmt.Printf("Deleted %d games\n", gamesResult.DeletedCount)

	// Seed the aggregate cache document
	if err := store.New(mongodb).StoreAggregate(ctx, historicalAggregate); err != nil {
		log.Fatalf("Failed to seed aggregate stats: %v", err)
	}
	fmt.Println("Aggregate stats seeded")
}
