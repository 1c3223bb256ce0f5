package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jrdcruz/pageant-system/handlers"
	"github.com/jrdcruz/pageant-system/middleware"
	"github.com/jrdcruz/pageant-system/models"
)

// SetupRoutes assembles the HTTP surface. /admin/* is gated to Admin
// accounts and /index/* to Judge accounts; both gates fail closed.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Auth,
	authHandler *handlers.AuthHandler,
	yearHandler *handlers.YearHandler,
	categoryHandler *handlers.CategoryHandler,
	candidateHandler *handlers.CandidateHandler,
	userHandler *handlers.UserHandler,
	ballotHandler *handlers.BallotHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Post("/login", authHandler.Login)

	router.Route("/auth", func(r chi.Router) {
		r.With(auth.Authenticate).Get("/verify", authHandler.Verify)
		r.Get("/logout", authHandler.Logout)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireRole(models.RoleAdmin))

		r.Get("/year", yearHandler.GetAllYears)
		r.Post("/year", yearHandler.CreateYear)
		r.Put("/year", yearHandler.SetActiveYear)

		r.Get("/categories", categoryHandler.GetCategories)
		r.Post("/categories", categoryHandler.CreateCategory)
		r.Put("/categories", categoryHandler.UpdateCategory)
		r.Delete("/categories", categoryHandler.DeleteCategory)

		r.Get("/candidates", candidateHandler.GetCandidates)
		r.Post("/candidates", candidateHandler.CreateCandidate)
		r.Put("/candidates", candidateHandler.UpdateCandidate)
		r.Delete("/candidates", candidateHandler.DeleteCandidate)

		r.Get("/users", userHandler.GetAllUsers)
		r.Post("/users", userHandler.CreateUser)
		r.Put("/users", userHandler.UpdateUser)
		r.Delete("/users", userHandler.DeleteUser)
	})

	router.Route("/index", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireRole(models.RoleJudge))

		r.Get("/categories", categoryHandler.GetActiveCategories)
		r.Get("/candidates", ballotHandler.GetBallot)
		r.Patch("/candidates", ballotHandler.SubmitScores)
	})

	router.With(auth.Authenticate).Get("/ws/results", webSocketHandler.ServeResults)
}
