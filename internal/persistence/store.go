package persistence

import (
	"context"
	"time"
)

// GameRecord is what a Store keeps per game: who sits on each side and the
// board snapshot.
type GameRecord struct {
	ID          string    `json:"id" bson:"_id"`
	WhitePlayer string    `json:"whitePlayer" bson:"whitePlayer"`
	BlackPlayer string    `json:"blackPlayer" bson:"blackPlayer"`
	Board       Snapshot  `json:"board" bson:"board"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Store interface {
	Save(ctx context.Context, record GameRecord) error
	// Load returns ErrNotFound when no record exists for id.
	Load(ctx context.Context, id string) (GameRecord, error)
}
