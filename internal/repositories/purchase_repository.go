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

type PurchaseRepository struct {
	DB *sql.DB
}

func (r PurchaseRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const purchaseColumns = `id, user_id, game_id, purchase_date`

func scanPurchase(s scanner) (models.Purchase, error) {
	var p models.Purchase
	err := s.Scan(&p.ID, &p.UserID, &p.GameID, &p.PurchaseDate)
	return p, err
}

func (r PurchaseRepository) List(ctx context.Context) ([]models.Purchase, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	rows, err := db.QueryContext(ctx, `SELECT `+purchaseColumns+` FROM purchases ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	out := []models.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return out, nil
}

func (r PurchaseRepository) GetByID(ctx context.Context, id int64) (models.Purchase, error) {
	db := r.db()
	if db == nil {
		return models.Purchase{}, errNoDB
	}
	p, err := scanPurchase(db.QueryRowContext(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Purchase{}, domain.NotFoundError{Resource: "purchase", Err: err}
	}
	if err != nil {
		return models.Purchase{}, fmt.Errorf("get purchase %d: %w", id, err)
	}
	return p, nil
}
