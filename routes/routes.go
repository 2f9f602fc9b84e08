package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/inkform/inkform/app"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/auth/register", Register(app))
	api.Post("/auth/login", Login(app))
	api.Post("/auth/refresh", Refresh(app))
	api.Post("/auth/logout", Logout(app))

	// published surveys are readable without a session
	api.Get(`/surveys/{id:^\d+$}`, GetSurveyById(app))

	api.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(app.TokenAuth), jwtauth.Authenticator(app.TokenAuth))

		r.Post("/auth/logout_all", LogoutAll(app))

		r.Post("/surveys", CreateSurvey(app))
		r.Get("/surveys", ListSurveys(app))
		r.Post(`/surveys/{id:^\d+$}/close`, CloseSurvey(app))

		r.Post(`/surveys/{id:^\d+$}/responses`, SubmitSurveyResponse(app))
		r.Get(`/surveys/{id:^\d+$}/responses`, ListSurveyResponses(app))
		r.Get(`/responses/{id:^\d+$}`, GetResponseById(app))

		r.Post("/assist", Assist(app))
	})

	return api
}
