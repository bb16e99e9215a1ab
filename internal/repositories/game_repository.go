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

type GameRepository struct {
	DB *sql.DB
}

func (r GameRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const gameColumns = `id, title, description, release_date, genre, developer, platform, price`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (models.Game, error) {
	var g models.Game
	err := s.Scan(&g.ID, &g.Title, &g.Description, &g.ReleaseDate, &g.Genre, &g.Developer, &g.Platform, &g.Price)
	return g, err
}

// List returns every game in id order.
func (r GameRepository) List(ctx context.Context) ([]models.Game, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	rows, err := db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

func (r GameRepository) GetByID(ctx context.Context, id int64) (models.Game, error) {
	db := r.db()
	if db == nil {
		return models.Game{}, errNoDB
	}
	g, err := scanGame(db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Game{}, domain.NotFoundError{Resource: "game", Err: err}
	}
	if err != nil {
		return models.Game{}, fmt.Errorf("get game %d: %w", id, err)
	}
	return g, nil
}

var errNoDB = errors.New("database not connected")
