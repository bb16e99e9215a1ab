package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GET /api/purchase/paginated (manager)
func (a *API) PaginatedPurchases(c *gin.Context) {
	opts, ok := bindPagination(c)
	if !ok {
		return
	}
	page, err := a.Purchases.Paginated(c.Request.Context(), opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/purchase/user/:userId
func (a *API) PurchasesByUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok || !selfOrManager(c, id) {
		return
	}
	purchases, err := a.Purchases.ListByUser(c.Request.Context(), strconv.FormatInt(id, 10))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// GET /api/purchase/:id/receipt
// Managers may fetch any receipt; other users only their own.
func (a *API) PurchaseReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, _ := middleware.CurrentUser(c)
	if user.Role != models.RoleManager {
		p, err := a.Purchases.Get(ctx, id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		if p.UserID != strconv.FormatInt(int64(user.UserID), 10) {
			respondError(c, http.StatusForbidden, "forbidden", "not your purchase", nil)
			return
		}
	}

	pdf, filename, err := a.Receipts.Generate(ctx, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
