package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", app.searchMovies)
			r.Get("/search", app.searchMovies)
			r.Get("/top-rated", app.getTopRatedMovies)
			r.Get("/genre/{id}", app.getMoviesByGenre)
			r.Get("/{id}", app.getMovie)
			r.Get("/{id}/ratings", app.getMovieRatings)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createMovie)
				r.Put("/{id}", app.updateMovie)
				r.Delete("/{id}", app.deleteMovie)
			})
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.searchGenres)
			r.Get("/search", app.searchGenres)
			r.Get("/popular", app.getPopularGenres)
			r.Get("/{id}", app.getGenre)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createGenre)
				r.Put("/{id}", app.updateGenre)
				r.Delete("/{id}", app.deleteGenre)
			})
		})
		r.Route("/ratings", func(r chi.Router) {
			r.Get("/", app.searchRatings)
			r.Get("/search", app.searchRatings)
			r.Get("/{id}", app.getRating)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createRating)
				r.Put("/{id}", app.updateRating)
				r.Delete("/{id}", app.deleteRating)
			})
		})
		r.Route("/lists", func(r chi.Router) {
			r.Get("/", app.searchLists)
			r.Get("/search", app.searchLists)
			r.Get("/public", app.getPublicLists)
			r.Get("/{id}", app.getList)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createList)
				r.Put("/{id}", app.updateList)
				r.Delete("/{id}", app.deleteList)
				r.Post("/{listId}/movies/{movieId}", app.addMovieToList)
				r.Delete("/{listId}/movies/{movieId}", app.removeMovieFromList)
			})
		})
		r.Route("/users", func(r chi.Router) {
			r.Post("/", app.signup)
			r.Post("/login", app.login)
			r.Get("/search", app.searchUsers)
			r.Get("/{id}", app.getUser)
			r.Get("/{id}/ratings", app.getUserRatings)
			r.Get("/{id}/lists", app.getUserLists)
			r.Get("/{id}/favorite-genres", app.getFavoriteGenres)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Put("/favorite-genres", app.setFavoriteGenre)
				r.Put("/{id}", app.updateUser)
				r.Delete("/{id}", app.deleteUser)
			})
		})
	})
	return router
}
