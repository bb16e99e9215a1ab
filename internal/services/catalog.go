package services

import (
	"context"
	"time"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/logger"
	"gameslibrary/internal/metrics"
	"gameslibrary/internal/query"
)

// Searchable and sortable attributes per entity kind.
var (
	GameFields = query.NewDescriptor("game",
		query.Text("Title", func(g models.Game) string { return g.Title }),
		query.Text("Description", func(g models.Game) string { return g.Description }),
		query.Text("Genre", func(g models.Game) string { return g.Genre }),
		query.Text("Developer", func(g models.Game) string { return g.Developer }),
		query.Text("Platform", func(g models.Game) string { return g.Platform }),
		query.Money("Price", func(g models.Game) float64 { return g.Price }),
		query.Date("ReleaseDate", func(g models.Game) time.Time { return g.ReleaseDate }).SortOnly(),
	)

	ReviewFields = query.NewDescriptor("review",
		query.Int("Rating", func(r models.Review) int64 { return int64(r.Rating) }),
		query.Text("Comment", func(r models.Review) string { return r.Comment }),
	)

	PurchaseFields = query.NewDescriptor("purchase",
		query.Text("UserId", func(p models.Purchase) string { return p.UserID }),
		query.Int("GameId", func(p models.Purchase) int64 { return p.GameID }),
		query.Date("PurchaseDate", func(p models.Purchase) time.Time { return p.PurchaseDate }),
	)
)

// Catalog pages through one entity kind held by a persistence store.
type Catalog[T any] struct {
	Fields  *query.Descriptor[T]
	Metrics *metrics.Metrics
}

// Page loads records with load and runs them through the query engine. A
// failing load is reported as an UpstreamError.
func (c Catalog[T]) Page(ctx context.Context, opts domain.PaginationAndSearchOptions, load func(context.Context) ([]T, error)) (query.Page[T], error) {
	if err := opts.Validate(); err != nil {
		return query.Page[T]{}, err
	}
	log := logger.From(ctx).With(logger.Op("catalog.page"), logger.Kind(c.Fields.Kind))

	records, err := load(ctx)
	if err != nil {
		log.Error("load records failed", logger.Err(err))
		return query.Page[T]{}, domain.UpstreamError{Collaborator: c.Fields.Kind + " store", Err: err}
	}

	page := query.Run(records, opts, c.Fields)
	c.Metrics.ObserveQuery(c.Fields.Kind, page.TotalItems)
	log.Debug("page served", logger.Count(len(page.Items)))
	return page, nil
}
