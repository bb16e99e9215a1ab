package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/game
func (a *API) ListGames(c *gin.Context) {
	games, err := a.Games.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GET /api/game/:id
func (a *API) GetGame(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	g, err := a.Games.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GET /api/game/paginated
func (a *API) PaginatedGames(c *gin.Context) {
	opts, ok := bindPagination(c)
	if !ok {
		return
	}
	page, err := a.Games.Paginated(c.Request.Context(), opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/game/search/:searchTerm
func (a *API) SearchGames(c *gin.Context) {
	games, err := a.Games.Search(c.Request.Context(), c.Param("searchTerm"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}
