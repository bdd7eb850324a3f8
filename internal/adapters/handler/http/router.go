package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Election     *ElectionHandler
	Vote         *VoteHandler
	Delegation   *DelegationHandler
	Results      *ResultsHandler
	Discussion   *DiscussionHandler
	Notification *NotificationHandler
}

func NewHandler(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Authenticator)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/google/callback", h.Auth.GoogleCallback)
		r.Post("/refresh", h.Auth.Refresh)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/elections", func(r chi.Router) {
			r.Get("/", h.Election.ListElections)
			r.With(RequireAuth).Post("/", h.Election.CreateElection)
			r.With(RequireAuth).Get("/mine", h.Election.ListMine)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Election.GetElection)
				r.Get("/can-vote", h.Vote.CanVote)
				r.Get("/results", h.Results.GetResults)
				r.Get("/results/stream", h.Results.StreamResults)
				r.Get("/comments", h.Discussion.ListComments)

				r.Group(func(r chi.Router) {
					r.Use(RequireAuth)
					r.Post("/votes", h.Vote.CastVote)
					r.Get("/my-vote", h.Vote.MyVote)
					r.Get("/delegators", h.Delegation.Delegators)
					r.Post("/comments", h.Discussion.PostComment)
				})
			})
		})

		r.Route("/delegations", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Post("/", h.Delegation.Delegate)
			r.Delete("/", h.Delegation.Revoke)
			r.Get("/mine", h.Delegation.Mine)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/", h.Notification.ListNotifications)
			r.Post("/{id}/read", h.Notification.MarkRead)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/me", h.User.GetMe)
			r.Put("/me/identity", h.User.UpdateIdentity)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
