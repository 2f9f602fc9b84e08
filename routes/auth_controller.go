package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/inkform/inkform/app"
	"github.com/inkform/inkform/httpx"
	"github.com/inkform/inkform/log"
	"github.com/inkform/inkform/model"
	"github.com/inkform/inkform/routes/middlewares"
)

func Register(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		if err := httpx.DecodeValid(r, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "auth.register.parse_body")
			return
		}

		user, err := app.Users.Register(r.Context(), req)
		if err != nil {
			httpx.RenderError(w, r, "auth.register", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, user)
	}
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		if err := httpx.DecodeValid(r, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "auth.login.parse_body")
			return
		}

		tokens, err := app.Users.Login(r.Context(), req)
		if err != nil {
			httpx.RenderError(w, r, "auth.login", err)
			return
		}

		render.JSON(w, r, tokens)
	}
}

func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RefreshRequest
		if err := httpx.DecodeValid(r, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "auth.refresh.parse_body")
			return
		}

		tokens, err := app.Users.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			httpx.RenderError(w, r, "auth.refresh", err)
			return
		}

		render.JSON(w, r, tokens)
	}
}

func Logout(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RefreshRequest
		if err := httpx.DecodeValid(r, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "auth.logout.parse_body")
			return
		}

		if err := app.Users.Logout(r.Context(), req.RefreshToken); err != nil {
			httpx.RenderError(w, r, "auth.logout", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func LogoutAll(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.logout_all.user_id")
			return
		}

		if err := app.Users.LogoutAll(r.Context(), userID); err != nil {
			httpx.RenderError(w, r, "auth.logout_all", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
