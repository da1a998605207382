// Package alignmentcache implements the content-addressed result cache
// using PostgreSQL. Keys are a pure function of (text, source language,
// target language); values are whole alignment documents stored as JSONB.
// There is no eviction and no expiry.
package alignmentcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/itzulbide/alignd/internal/adapter/postgres"
	"github.com/itzulbide/alignd/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides alignment result persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new alignment cache repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Key derives the cache key for a request. It hashes the exact input
// strings with NUL separators: identical requests always collide,
// near-identical ones (e.g. differing only in language pair) never do.
func Key(text, sourceLang, targetLang string) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(sourceLang))
	h.Write([]byte{0})
	h.Write([]byte(targetLang))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached document for the request, or (nil, nil) on a miss.
func (r *Repo) Get(ctx context.Context, text, sourceLang, targetLang string) (*domain.AlignmentDocument, error) {
	query, args, err := psql.
		Select("payload").
		From("alignment_cache").
		Where(sq.Eq{"cache_key": Key(text, sourceLang, targetLang)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("alignment_cache: build query: %w", err)
	}

	var payload []byte
	err = r.pool.QueryRow(ctx, query, args...).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, "alignment_cache")
	}

	var doc domain.AlignmentDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("alignment_cache: decode payload: %w", err)
	}
	return &doc, nil
}

// Set stores the document under the request's key. Concurrent writers for
// the same key overwrite each other with equivalent values; the upsert
// keeps that race harmless.
func (r *Repo) Set(ctx context.Context, text, sourceLang, targetLang string, doc *domain.AlignmentDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("alignment_cache: encode payload: %w", err)
	}

	query, args, err := psql.
		Insert("alignment_cache").
		Columns("cache_key", "source_lang", "target_lang", "payload").
		Values(Key(text, sourceLang, targetLang), sourceLang, targetLang, payload).
		Suffix("ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload").
		ToSql()
	if err != nil {
		return fmt.Errorf("alignment_cache: build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "alignment_cache")
	}
	return nil
}
