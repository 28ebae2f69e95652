package router

import (
	"ask/internal/handlers"
	"ask/internal/metrics"
	"ask/internal/middleware"
	"ask/internal/rating"
	"ask/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the shared services the routes are built from.
type Deps struct {
	Ledger   rating.Ledger
	Engine   *rating.Engine
	Cache    *utils.GlobalCache
	Registry *prometheus.Registry
}

// RegisterRoutes expects sessions and LoadUser to be installed on r already.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Engine)
	questionHandler := handlers.NewQuestionHandler()
	answerHandler := handlers.NewAnswerHandler()
	voteHandler := handlers.NewVoteHandler(deps.Engine)
	apiHandler := handlers.NewAPIHandler(deps.Ledger, deps.Cache)

	// Public Routes
	r.GET("/", questionHandler.New)
	r.GET("/popular/", questionHandler.Popular)
	r.GET("/question/:id/", questionHandler.Show)
	r.POST("/question/:id/answer/", answerHandler.Create)

	r.POST("/signup/", authHandler.Signup)
	r.POST("/login/", authHandler.Login)
	r.GET("/logout/", authHandler.Logout)

	r.GET("/healthz", handlers.HealthCheck)
	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(deps.Registry)))
	}

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/ask/", questionHandler.Ask)
		authorized.GET("/my-questions/", questionHandler.Mine)
		authorized.POST("/question/:id/delete/", questionHandler.Delete)
		authorized.POST("/answers/delete/", answerHandler.Delete)
		authorized.DELETE("/account/", authHandler.DeleteAccount)
	}

	// script-only: anonymous callers get no_auth, never a redirect
	r.POST("/like/", middleware.APIAuthRequired(), voteHandler.Like)

	// Read-only API
	api := r.Group("/api")
	{
		api.GET("/questions/", apiHandler.Questions)
		api.GET("/questions/popular/", apiHandler.PopularQuestions)
		api.GET("/answers/", apiHandler.Answers)
		api.GET("/question/:id/answers/", apiHandler.QuestionAnswers)
		api.GET("/question/:id/likes/", apiHandler.QuestionLikes)
		api.GET("/users/", apiHandler.Users)
		api.GET("/user/:id/questions/", apiHandler.UserQuestions)
		api.GET("/user/:id/answers/", apiHandler.UserAnswers)
	}
}
