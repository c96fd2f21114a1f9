package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/lure/internal/intel"
)

// Snapshot is the durable record of a confirmed scam engagement, written once
// per session update after detection so analysts can query engagements
// without replaying the live store.
type Snapshot struct {
	SessionID       string
	ScamType        string
	Confidence      float64
	PersonaKey      string
	MessageCount    int
	DurationSeconds int64
	Intelligence    intel.Record
	Notes           string
}

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// SaveSnapshot upserts the engagement row keyed by session id, so each
// detected session keeps exactly one row holding its latest state.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	intelligence, err := json.Marshal(snap.Intelligence)
	if err != nil {
		return fmt.Errorf("marshal intelligence: %w", err)
	}

	query := `
		INSERT INTO engagements (
			id, session_id, scam_type, confidence, persona_key,
			message_count, duration_seconds, intelligence, notes, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id) DO UPDATE SET
			scam_type = EXCLUDED.scam_type,
			confidence = EXCLUDED.confidence,
			message_count = EXCLUDED.message_count,
			duration_seconds = EXCLUDED.duration_seconds,
			intelligence = EXCLUDED.intelligence,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`

	_, err = s.pool.Exec(ctx, query,
		uuid.New(), snap.SessionID, snap.ScamType, snap.Confidence, snap.PersonaKey,
		snap.MessageCount, snap.DurationSeconds, intelligence, snap.Notes, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save engagement snapshot: %w", err)
	}
	return nil
}
