package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "gameslibrary/internal/config"
	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

func (r ReviewRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const reviewColumns = `id, user_id, game_id, rating, comment`

func scanReview(s scanner) (models.Review, error) {
	var rv models.Review
	err := s.Scan(&rv.ID, &rv.UserID, &rv.GameID, &rv.Rating, &rv.Comment)
	return rv, err
}

func (r ReviewRepository) List(ctx context.Context) ([]models.Review, error) {
	return r.query(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY id`)
}

// ListByGame returns the reviews of one game; an unknown game yields an
// empty slice.
func (r ReviewRepository) ListByGame(ctx context.Context, gameID int64) ([]models.Review, error) {
	return r.query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE game_id = ? ORDER BY id`, gameID)
}

func (r ReviewRepository) query(ctx context.Context, q string, args ...any) ([]models.Review, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

func (r ReviewRepository) GetByID(ctx context.Context, id int64) (models.Review, error) {
	db := r.db()
	if db == nil {
		return models.Review{}, errNoDB
	}
	rv, err := scanReview(db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, domain.NotFoundError{Resource: "review", Err: err}
	}
	if err != nil {
		return models.Review{}, fmt.Errorf("get review %d: %w", id, err)
	}
	return rv, nil
}
