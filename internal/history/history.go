package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/exploder/internal/logging"
	"github.com/raysh454/exploder/internal/model"
	"github.com/raysh454/exploder/internal/utils"
)

// ErrNotFound is returned by Get for unknown extraction IDs.
var ErrNotFound = errors.New("history: extraction not found")

// migrationSQL creates the extractions table. Idempotent.
const migrationSQL = `
CREATE TABLE IF NOT EXISTS extractions (
  id TEXT PRIMARY KEY,
  raw_url TEXT NOT NULL,
  canonical_url TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  image_count INTEGER NOT NULL,
  color_count INTEGER NOT NULL,
  font_count INTEGER NOT NULL,
  assets TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_extractions_canonical_url ON extractions(canonical_url);
CREATE INDEX IF NOT EXISTS idx_extractions_created_at ON extractions(created_at);
`

// Record is one persisted extraction run.
type Record struct {
	ID           string       `json:"id"`
	RawURL       string       `json:"url"`
	CanonicalURL string       `json:"canonical_url"`
	CreatedAt    int64        `json:"created_at"`
	ImageCount   int          `json:"image_count"`
	ColorCount   int          `json:"color_count"`
	FontCount    int          `json:"font_count"`
	Assets       model.Assets `json:"assets"`
}

// Store persists extraction results in the history DB.
type Store struct {
	db        *sql.DB
	logger    logging.Logger
	canonOpts utils.CanonicalizeOptions
}

// NewStore runs the migration and returns a ready Store.
func NewStore(db *sql.DB, logger logging.Logger, opts utils.CanonicalizeOptions) (*Store, error) {
	if _, err := db.Exec(migrationSQL); err != nil {
		return nil, fmt.Errorf("running history migration: %w", err)
	}
	return &Store{db: db, logger: logger, canonOpts: opts}, nil
}

// Record persists one successful extraction and returns the stored row.
// The target URL is canonicalized so repeated runs of equivalent URLs can be
// grouped; canonicalization failure falls back to the raw URL.
func (s *Store) Record(ctx context.Context, rawURL string, assets model.Assets) (*Record, error) {
	canonical, err := utils.Canonicalize(rawURL, s.canonOpts)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("history: canonicalize failed",
				logging.Field{Key: "url", Value: rawURL},
				logging.Field{Key: "err", Value: err})
		}
		canonical = rawURL
	}

	payload, err := json.Marshal(assets)
	if err != nil {
		return nil, fmt.Errorf("encoding assets: %w", err)
	}

	rec := &Record{
		ID:           uuid.New().String(),
		RawURL:       rawURL,
		CanonicalURL: canonical,
		CreatedAt:    time.Now().Unix(),
		ImageCount:   len(assets.Images),
		ColorCount:   len(assets.Colors),
		FontCount:    len(assets.Fonts),
		Assets:       assets,
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO extractions
		(id, raw_url, canonical_url, created_at, image_count, color_count, font_count, assets)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RawURL, rec.CanonicalURL, rec.CreatedAt,
		rec.ImageCount, rec.ColorCount, rec.FontCount, string(payload))
	if err != nil {
		return nil, fmt.Errorf("inserting extraction record: %w", err)
	}

	return rec, nil
}

// List returns the most recent extraction records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, raw_url, canonical_url, created_at,
		image_count, color_count, font_count, assets
		FROM extractions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns one extraction record by ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, raw_url, canonical_url, created_at,
		image_count, color_count, font_count, assets
		FROM extractions WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var rec Record
	var payload string
	if err := scan(&rec.ID, &rec.RawURL, &rec.CanonicalURL, &rec.CreatedAt,
		&rec.ImageCount, &rec.ColorCount, &rec.FontCount, &payload); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &rec.Assets); err != nil {
		return nil, fmt.Errorf("decoding assets payload: %w", err)
	}
	return &rec, nil
}
