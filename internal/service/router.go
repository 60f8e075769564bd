package service

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/tally/internal/auth"
	"github.com/mmynk/tally/internal/middleware"
)

// NewRouter assembles the gin engine: CORS, request logging and metrics on
// everything; auth, health and metrics endpoints public; the ledger and
// profile routes behind JWT auth.
func NewRouter(authService *AuthService, ledgerService *LedgerService, jwtManager *auth.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	// Wildcard origins cannot carry credentials; auth rides in the
	// Authorization header instead of cookies.
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "tally"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/auth/register", authService.Register)
	r.POST("/api/auth/login", authService.Login)

	api := r.Group("/api", middleware.RequireAuth(jwtManager))
	{
		api.GET("/profile", authService.GetProfile)
		api.PUT("/profile", authService.UpdateProfile)

		api.POST("/friends", ledgerService.CreateFriend)
		api.GET("/friends", ledgerService.ListFriends)
		api.GET("/friends/:id", ledgerService.GetFriend)
		api.PUT("/friends/:id", ledgerService.UpdateFriend)
		api.DELETE("/friends/:id", ledgerService.DeleteFriend)

		api.POST("/expenses", ledgerService.CreateExpense)
		api.GET("/expenses", ledgerService.ListExpenses)
		api.PUT("/expenses/:id", ledgerService.UpdateExpense)
		api.DELETE("/expenses/:id", ledgerService.DeleteExpense)

		api.POST("/settlements", ledgerService.CreateSettlement)
		api.GET("/settlements", ledgerService.ListSettlements)
		api.PUT("/settlements/:id", ledgerService.UpdateSettlement)
		api.DELETE("/settlements/:id", ledgerService.DeleteSettlement)

		api.GET("/summary", ledgerService.Summary)
	}

	return r
}
