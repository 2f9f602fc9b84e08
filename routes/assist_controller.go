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

func Assist(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "assist.user_id")
			return
		}

		var req model.AssistRequest
		if err := httpx.DecodeValid(r, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "assist.parse_body")
			return
		}

		suggestion, err := app.Assist.Suggest(r.Context(), userID, req)
		if err != nil {
			httpx.RenderError(w, r, "assist.suggest", err)
			return
		}

		render.JSON(w, r, suggestion)
	}
}
