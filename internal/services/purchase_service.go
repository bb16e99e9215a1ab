package services

import (
	"context"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/metrics"
	"gameslibrary/internal/query"
)

type PurchaseStore interface {
	List(ctx context.Context) ([]models.Purchase, error)
	GetByID(ctx context.Context, id int64) (models.Purchase, error)
}

type PurchaseService struct {
	Repo    PurchaseStore
	Metrics *metrics.Metrics
}

func (s PurchaseService) Get(ctx context.Context, id int64) (models.Purchase, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil && !domain.IsNotFound(err) {
		return models.Purchase{}, domain.UpstreamError{Collaborator: "purchase store", Err: err}
	}
	return p, err
}

func (s PurchaseService) Paginated(ctx context.Context, opts domain.PaginationAndSearchOptions) (query.Page[models.Purchase], error) {
	return Catalog[models.Purchase]{Fields: PurchaseFields, Metrics: s.Metrics}.Page(ctx, opts, s.Repo.List)
}

// ListByUser returns the purchases of one user in store order. An empty
// result is a NotFoundError.
func (s PurchaseService) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, domain.UpstreamError{Collaborator: "purchase store", Err: err}
	}
	out := []models.Purchase{}
	for _, p := range all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, domain.NotFoundError{Resource: "purchases for user " + userID}
	}
	return out, nil
}
