package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/itzulbide/alignd/internal/domain"
)

// MapError converts pgx errors to domain errors, wrapping them with the
// affected entity name. context.DeadlineExceeded and context.Canceled
// pass through unmapped.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", entity, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}

	return fmt.Errorf("%s: %w", entity, err)
}
