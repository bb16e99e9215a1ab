package services

import (
	"context"
	"strings"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/metrics"
	"gameslibrary/internal/query"
)

type GameStore interface {
	List(ctx context.Context) ([]models.Game, error)
	GetByID(ctx context.Context, id int64) (models.Game, error)
}

type GameService struct {
	Repo    GameStore
	Metrics *metrics.Metrics
}

func (s GameService) List(ctx context.Context) ([]models.Game, error) {
	games, err := s.Repo.List(ctx)
	if err != nil {
		return nil, domain.UpstreamError{Collaborator: "game store", Err: err}
	}
	return games, nil
}

func (s GameService) Get(ctx context.Context, id int64) (models.Game, error) {
	g, err := s.Repo.GetByID(ctx, id)
	if err != nil && !domain.IsNotFound(err) {
		return models.Game{}, domain.UpstreamError{Collaborator: "game store", Err: err}
	}
	return g, err
}

func (s GameService) Paginated(ctx context.Context, opts domain.PaginationAndSearchOptions) (query.Page[models.Game], error) {
	return Catalog[models.Game]{Fields: GameFields, Metrics: s.Metrics}.Page(ctx, opts, s.Repo.List)
}

// Search returns every game whose searchable fields contain term. Finding
// nothing is a NotFoundError.
func (s GameService) Search(ctx context.Context, term string) ([]models.Game, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ValidationError{Field: "searchTerm", Msg: "must not be empty"}
	}
	games, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	match := query.Match(GameFields, term, nil)
	out := []models.Game{}
	for _, g := range games {
		if match(g) {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return nil, domain.NotFoundError{Resource: "game"}
	}
	return out, nil
}
