// Historical backfill: reads the legacy spreadsheet export (one column per
// player, "1" marks the winner, "2" a second place, any other non-empty cell
// a participant) and inserts one game document per row.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"catan-tracker/internal/config"
	"catan-tracker/internal/db"
	"catan-tracker/internal/gamelog"
	"catan-tracker/internal/models"
	"catan-tracker/internal/store"
)

func main() {
	file := flag.String("file", "stats.csv", "path to the CSV export")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mongodb, err := db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongodb.Close(ctx)
	}()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", *file, err)
	}
	if len(rows) < 2 {
		log.Fatalf("No game rows in %s", *file)
	}

	// Header row carries the player names; every column must map onto the
	// roster.
	header := rows[0]
	columns := make([]models.Player, len(header))
	for i, name := range header {
		p, err := gamelog.NormalizePlayer(name)
		if err != nil {
			log.Fatalf("Column %d: %v", i+1, err)
		}
		columns[i] = p
	}

	gameStore := store.New(mongodb)
	ctx := context.Background()

	imported := 0
	for i, row := range rows[1:] {
		game, err := rowToGame(columns, row, i)
		if err != nil {
			log.Printf("Skipping row %d: %v", i+2, err)
			continue
		}
		if _, err := gameStore.Create(ctx, game); err != nil {
			log.Printf("Failed to insert row %d: %v", i+2, err)
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d of %d games\n", imported, len(rows)-1)
}

func rowToGame(columns []models.Player, row []string, index int) (models.Game, error) {
	var players, seconds []models.Player
	var winner models.Player

	for i, cell := range row {
		if i >= len(columns) || cell == "" {
			continue
		}
		players = append(players, columns[i])
		switch cell {
		case "1":
			winner = columns[i]
		case "2":
			seconds = append(seconds, columns[i])
		}
	}
	if winner == "" {
		return models.Game{}, fmt.Errorf("no winner marked")
	}

	game := models.Game{
		// The export has no dates; the row number stands in for one.
		Date:         time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, index),
		Players:      players,
		Winner:       winner,
		SecondPlaces: seconds,
	}
	if seconds == nil {
		game.SecondPlaces = []models.Player{}
	}
	if err := gamelog.Validate(game); err != nil {
		return models.Game{}, err
	}
	return game, nil
}
