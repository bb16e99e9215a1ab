package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/http/middleware"
	"gameslibrary/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSONOrError ensures body is present and valid against its binding tags.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError{Field: lowerFirst(fe.Field()), Rule: fe.Tag(), Param: fe.Param()})
		}
		respondError(c, http.StatusBadRequest, "validation_error", "invalid request", details)
		return
	}
	respondError(c, http.StatusBadRequest, "validation_error", "malformed request", nil)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

type paginationQuery struct {
	PageNumber   *int     `form:"pageNumber" binding:"omitempty,min=1"`
	PageSize     *int     `form:"pageSize" binding:"omitempty,min=1"`
	SearchTerm   string   `form:"searchTerm" binding:"max=200"`
	SearchFields []string `form:"searchFields"`
	SortField    string   `form:"sortField" binding:"max=64"`
	SortOrder    string   `form:"sortOrder"`
}

// bindPagination builds options from the query string. Absent values take
// their defaults; searchFields may be repeated or comma separated.
func bindPagination(c *gin.Context) (domain.PaginationAndSearchOptions, bool) {
	var q paginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return domain.PaginationAndSearchOptions{}, false
	}

	opts := domain.DefaultOptions()
	if q.PageNumber != nil {
		opts.PageNumber = *q.PageNumber
	}
	if q.PageSize != nil {
		opts.PageSize = *q.PageSize
	}
	opts.SearchTerm = strings.TrimSpace(q.SearchTerm)
	if fields := utils.SplitList(q.SearchFields...); len(fields) > 0 {
		opts.SearchFields = fields
	}
	opts.SortField = strings.TrimSpace(q.SortField)

	order, err := domain.ParseSortOrder(q.SortOrder)
	if err != nil {
		RespondDomainError(c, err)
		return domain.PaginationAndSearchOptions{}, false
	}
	opts.SortOrder = order

	if err := opts.Validate(); err != nil {
		RespondDomainError(c, err)
		return domain.PaginationAndSearchOptions{}, false
	}
	return opts, true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// selfOrManager lets through the account owner and managers; anyone else
// gets 403. Routes using it sit behind RequireAuth.
func selfOrManager(c *gin.Context, userID int64) bool {
	user, _ := middleware.CurrentUser(c)
	if user.Role == models.RoleManager || int64(user.UserID) == userID {
		return true
	}
	respondError(c, http.StatusForbidden, "forbidden", "not your account", nil)
	return false
}
