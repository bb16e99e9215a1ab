package services

import (
	"context"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/metrics"
	"gameslibrary/internal/query"
)

type ReviewStore interface {
	List(ctx context.Context) ([]models.Review, error)
	ListByGame(ctx context.Context, gameID int64) ([]models.Review, error)
	GetByID(ctx context.Context, id int64) (models.Review, error)
}

type ReviewService struct {
	Repo    ReviewStore
	Metrics *metrics.Metrics
}

func (s ReviewService) Get(ctx context.Context, id int64) (models.Review, error) {
	r, err := s.Repo.GetByID(ctx, id)
	if err != nil && !domain.IsNotFound(err) {
		return models.Review{}, domain.UpstreamError{Collaborator: "review store", Err: err}
	}
	return r, err
}

func (s ReviewService) Paginated(ctx context.Context, opts domain.PaginationAndSearchOptions) (query.Page[models.Review], error) {
	return Catalog[models.Review]{Fields: ReviewFields, Metrics: s.Metrics}.Page(ctx, opts, s.Repo.List)
}

// PaginatedByGame pages the reviews of one game.
func (s ReviewService) PaginatedByGame(ctx context.Context, gameID int64, opts domain.PaginationAndSearchOptions) (query.Page[models.Review], error) {
	load := func(ctx context.Context) ([]models.Review, error) { return s.Repo.ListByGame(ctx, gameID) }
	return Catalog[models.Review]{Fields: ReviewFields, Metrics: s.Metrics}.Page(ctx, opts, load)
}
