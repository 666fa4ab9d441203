// Package store is the persistence boundary: game records and the aggregate
// cache live in MongoDB, and upstream changes are observed through a change
// stream on the games collection.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catan-tracker/internal/db"
	"catan-tracker/internal/gamelog"
	"catan-tracker/internal/models"
	"catan-tracker/internal/stats"
)

const aggregateDocID = "aggregate"

// aggregateDoc mirrors the stats collection's single aggregate document.
type aggregateDoc struct {
	ID        string                       `bson:"_id"`
	Players   map[string]stats.PlayerStats `bson:"players"`
	UpdatedAt time.Time                    `bson:"updatedAt"`
}

type GameStore struct {
	db *db.MongoDB
}

func New(database *db.MongoDB) *GameStore {
	return &GameStore{db: database}
}

// Load returns the full game collection, most recent first.
func (s *GameStore) Load(ctx context.Context) ([]models.Game, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.db.Games().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}
	defer cursor.Close(ctx)

	var games []models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	return games, nil
}

// Create inserts the record and returns it with the assigned id.
func (s *GameStore) Create(ctx context.Context, g models.Game) (models.Game, error) {
	res, err := s.db.Games().InsertOne(ctx, g)
	if err != nil {
		return models.Game{}, fmt.Errorf("insert game: %w", err)
	}
	g.ID = res.InsertedID.(primitive.ObjectID)
	return g, nil
}

// Update replaces the mutable fields of the stored record. The date is never
// part of the $set, so it cannot change after creation.
func (s *GameStore) Update(ctx context.Context, g models.Game) error {
	res, err := s.db.Games().UpdateByID(ctx, g.ID, bson.M{"$set": bson.M{
		"players":      g.Players,
		"winner":       g.Winner,
		"secondPlaces": g.SecondPlaces,
	}})
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if res.MatchedCount == 0 {
		return gamelog.ErrGameNotFound
	}
	return nil
}

// Delete removes the record with the given id.
func (s *GameStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Games().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if res.DeletedCount == 0 {
		return gamelog.ErrGameNotFound
	}
	return nil
}

// Watch follows the games collection change stream and invokes onChange with
// a freshly loaded collection after every write, from whichever client it
// came. Blocks until ctx is canceled, reconnecting on stream errors.
func (s *GameStore) Watch(ctx context.Context, onChange func([]models.Game)) {
	for {
		if ctx.Err() != nil {
			return
		}
		err := s.watch(ctx, onChange)
		if ctx.Err() != nil {
			return // normal shutdown
		}
		log.Printf("[GameStore] Change stream error (reconnecting in 2s): %v", err)
		time.Sleep(2 * time.Second)
	}
}

func (s *GameStore) watch(ctx context.Context, onChange func([]models.Game)) error {
	cs, err := s.db.Games().Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return err
	}
	defer cs.Close(ctx)

	for cs.Next(ctx) {
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		games, err := s.Load(loadCtx)
		cancel()
		if err != nil {
			log.Printf("[GameStore] Failed to reload games after change: %v", err)
			continue
		}
		onChange(games)
	}
	return cs.Err()
}

// StoreAggregate overwrites the cached aggregate document.
func (s *GameStore) StoreAggregate(ctx context.Context, agg stats.Aggregate) error {
	players := make(map[string]stats.PlayerStats, len(agg))
	for p, st := range agg {
		players[string(p)] = st
	}

	doc := aggregateDoc{
		ID:        aggregateDocID,
		Players:   players,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.Stats().ReplaceOne(ctx, bson.M{"_id": aggregateDocID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store aggregate cache: %w", err)
	}
	return nil
}

// FetchAggregate reads the cached aggregate document. ok is false when no
// cache has been written yet. Entries that no longer map onto the roster are
// dropped.
func (s *GameStore) FetchAggregate(ctx context.Context) (stats.Aggregate, bool, error) {
	var doc aggregateDoc
	err := s.db.Stats().FindOne(ctx, bson.M{"_id": aggregateDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetch aggregate cache: %w", err)
	}

	agg := stats.Aggregate{}
	for name, st := range doc.Players {
		if p, ok := models.LookupPlayer(name); ok {
			agg[p] = st
		}
	}
	return agg, true, nil
}
