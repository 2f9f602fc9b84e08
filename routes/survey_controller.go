package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/inkform/inkform/app"
	"github.com/inkform/inkform/httpx"
	"github.com/inkform/inkform/log"
	"github.com/inkform/inkform/model"
	"github.com/inkform/inkform/routes/middlewares"
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "survey.create.user_id")
			return
		}

		var req model.CreateSurveyRequest
		if err := httpx.DecodeValid(r, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "survey.create.parse_body")
			return
		}

		survey, err := app.Surveys.CreateSurveyWithQuestions(r.Context(), userID, req)
		if err != nil {
			httpx.RenderError(w, r, "survey.create", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, survey)
	}
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "survey.list.user_id")
			return
		}

		surveys, err := app.Surveys.ListSurveys(r.Context(), userID)
		if err != nil {
			httpx.RenderError(w, r, "survey.list", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "survey.get.url_param.id")
			return
		}

		survey, err := app.Surveys.GetSurveyWithQuestions(r.Context(), surveyID)
		if err != nil {
			httpx.RenderError(w, r, "survey.get", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

func CloseSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "survey.close.user_id")
			return
		}

		surveyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "survey.close.url_param.id")
			return
		}

		if err := app.Surveys.CloseSurvey(r.Context(), userID, surveyID); err != nil {
			httpx.RenderError(w, r, "survey.close", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
