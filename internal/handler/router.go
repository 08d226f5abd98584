package handler

import (
	"strings"
	"time"

	"quizverse_backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the request handlers for route registration.
type Handlers struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Mission  *MissionHandler
	Profile  *ProfileHandler
	Home     *HomeHandler
}

// SetupRouter builds the gin engine with CORS and all routes registered.
func SetupRouter(h Handlers, authMW *middleware.AuthMiddleware, allowedOrigins string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.SignUp)
		auth.POST("/login", h.Auth.Login)
	}

	// Public routes
	api.GET("/home", h.Home.Home)
	api.GET("/contributors", h.Home.Contributors)
	api.GET("/themes", h.Home.Themes)
	api.GET("/models", h.Home.Models)
	api.GET("/online", h.Home.OnlineCount)
	api.GET("/search", h.Question.Search)

	// Protected routes
	api.Use(authMW.RequireAuth())
	{
		api.POST("/auth/logout", h.Auth.Logout)
		api.PUT("/auth/password", h.Auth.ChangePassword)
		api.DELETE("/auth/account", h.Auth.DeleteAccount)

		api.POST("/questions", h.Question.Create)
		api.GET("/questions", h.Question.List)
		api.GET("/questions/:id/answers", h.Question.Answers)
		api.POST("/questions/:id/answers", h.Question.SubmitAnswer)
		api.POST("/questions/:id/rankings", h.Question.SubmitRanking)

		api.POST("/questions/:id/upvote", h.Question.Upvote)
		api.DELETE("/questions/:id/upvote", h.Question.RemoveUpvote)
		api.POST("/questions/:id/downvote", h.Question.Downvote)
		api.DELETE("/questions/:id/downvote", h.Question.RemoveDownvote)
		api.POST("/questions/:id/report", h.Question.Report)
		api.DELETE("/questions/:id/report", h.Question.RemoveReport)

		api.GET("/missions", h.Mission.List)
		api.GET("/missions/stats", h.Mission.Stats)

		profile := api.Group("/profile")
		{
			profile.GET("/me", h.Profile.Me)
			profile.PUT("", h.Profile.Update)
			profile.POST("/image", h.Profile.UploadImage)
			profile.PUT("/phone", h.Profile.SetPhone)
			profile.PUT("/notifications", h.Profile.SetEmailNotifications)
		}

		api.GET("/ws/online", h.Home.OnlineFeed)
		api.POST("/admin/sweeps/:name", h.Home.RunSweep)
	}

	return router
}
