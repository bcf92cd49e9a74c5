package http

import (
	"github.com/gin-gonic/gin"

	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/handler"
	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	gateHandler         *handler.GateHandler
	profileHandler      *handler.ProfileHandler
	relationshipHandler *handler.RelationshipHandler
	searchHandler       *handler.SearchHandler
	authMiddleware      *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	gateHandler *handler.GateHandler,
	profileHandler *handler.ProfileHandler,
	relationshipHandler *handler.RelationshipHandler,
	searchHandler *handler.SearchHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:         authHandler,
		gateHandler:         gateHandler,
		profileHandler:      profileHandler,
		relationshipHandler: relationshipHandler,
		searchHandler:       searchHandler,
		authMiddleware:      authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", r.authHandler.Signup)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
			auth.DELETE("/me", r.authMiddleware.RequireAuth(), r.authHandler.DeleteMe)
		}

		// Gate evaluation runs for authenticated and anonymous callers alike;
		// rule 1 handles the anonymous case.
		gate := v1.Group("/gate")
		gate.Use(r.authMiddleware.OptionalAuth())
		{
			gate.POST("/evaluate", r.gateHandler.Evaluate)
			gate.POST("/remediation/:step/complete", r.authMiddleware.RequireAuth(), r.gateHandler.CompleteRemediation)
		}

		// Visibility is default-deny for anonymous viewers.
		v1.GET("/profiles/:account_id/visibility", r.authMiddleware.OptionalAuth(), r.profileHandler.Visibility)

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Profile routes
			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.POST("/me", r.profileHandler.CreateProfile)
				profile.PUT("/me", r.profileHandler.UpdateMyProfile)
			}

			// Full profile detail view: quota is consumed before visibility
			// is evaluated.
			protected.GET("/profiles/:account_id", r.profileHandler.ViewProfile)

			// Search routes
			search := protected.Group("/search")
			{
				search.GET("", r.searchHandler.Search)
				search.GET("/entitlements", r.searchHandler.Entitlements)
				search.GET("/quota", r.searchHandler.Quota)
			}

			// Relationship routes
			relationships := protected.Group("/relationships")
			{
				relationships.GET("/:account_id", r.relationshipHandler.Resolve)
			}

			requests := protected.Group("/requests")
			{
				requests.POST("", r.relationshipHandler.CreateRequest)
				requests.POST("/:request_id/accept", r.relationshipHandler.AcceptRequest)
				requests.POST("/:request_id/decline", r.relationshipHandler.DeclineRequest)
			}

			matches := protected.Group("/matches")
			{
				matches.GET("", r.relationshipHandler.ListMatches)
				matches.POST("/:match_id/unmatch", r.relationshipHandler.Unmatch)
				matches.PUT("/:match_id/photos-hidden", r.relationshipHandler.SetPhotosHidden)
			}

			reveals := protected.Group("/reveals")
			{
				reveals.POST("", r.relationshipHandler.RequestReveal)
				reveals.POST("/:reveal_id/:action", r.relationshipHandler.RespondReveal)
			}
		}
	}

	return router
}
