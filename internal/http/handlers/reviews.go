package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/review/:id
func (a *API) GetReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	r, err := a.Reviews.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GET /api/review/paginated
func (a *API) PaginatedReviews(c *gin.Context) {
	opts, ok := bindPagination(c)
	if !ok {
		return
	}
	page, err := a.Reviews.Paginated(c.Request.Context(), opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/review/paginated/:gameId
func (a *API) PaginatedGameReviews(c *gin.Context) {
	gameID, ok := parseIDParam(c, "gameId")
	if !ok {
		return
	}
	opts, ok := bindPagination(c)
	if !ok {
		return
	}
	page, err := a.Reviews.PaginatedByGame(c.Request.Context(), gameID, opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
