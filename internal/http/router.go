package api

import (
	stdhttp "net/http"

	intconfig "gameslibrary/internal/config"
	"gameslibrary/internal/domain/models"
	h "gameslibrary/internal/http/handlers"
	"gameslibrary/internal/http/middleware"
	"gameslibrary/internal/logger"
	"gameslibrary/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	API     *h.API
	Tokens  middleware.TokenParser
	Metrics *metrics.Metrics
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.Metrics(deps.Metrics),
		middleware.Authenticate(deps.Tokens),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.L().Warn("set trusted proxies failed", logger.Err(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	a := deps.API
	manager := middleware.RequireRoles(models.RoleManager)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", manager, h.Routes)

		game := api.Group("/game")
		game.GET("", a.ListGames)
		game.GET("/paginated", a.PaginatedGames)
		game.GET("/search/:searchTerm", a.SearchGames)
		game.GET("/:id", a.GetGame)

		review := api.Group("/review")
		review.GET("/paginated", a.PaginatedReviews)
		review.GET("/paginated/:gameId", a.PaginatedGameReviews)
		review.GET("/:id", a.GetReview)

		purchase := api.Group("/purchase")
		purchase.GET("/paginated", manager, a.PaginatedPurchases)
		purchase.GET("/user/:userId", middleware.RequireAuth(), a.PurchasesByUser)
		purchase.GET("/:id/receipt", middleware.RequireAuth(), a.PurchaseReceipt)

		user := api.Group("/user")
		user.GET("", manager, a.ListUsers)
		user.GET("/:id", manager, a.GetUser)
		user.PUT("/update-password/:userId", middleware.RequireAuth(), a.UpdatePassword)
		user.POST("/register", a.Register)
		user.POST("/login", a.Login)
		user.POST("/forgot-password", a.ForgotPassword)
		user.POST("/reset-password", a.ResetPassword)
	}

	h.SetRouter(r)
	return r
}
