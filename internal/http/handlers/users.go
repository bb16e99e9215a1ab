package handlers

import (
	"net/http"

	"gameslibrary/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/user/register
func (a *API) Register(c *gin.Context) {
	var req services.RegisterInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := a.Accounts.Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "user": u})
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/user/login
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := a.Accounts.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/user (manager)
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.Accounts.ListUsers(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/user/:id (manager)
func (a *API) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	u, err := a.Accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// PUT /api/user/update-password/:userId
func (a *API) UpdatePassword(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok || !selfOrManager(c, id) {
		return
	}
	var req updatePasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := a.Accounts.UpdatePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully."})
}
