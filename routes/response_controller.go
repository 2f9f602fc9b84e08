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

func SubmitSurveyResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "response.submit.user_id")
			return
		}

		surveyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "response.submit.url_param.id")
			return
		}

		var req model.SubmitResponseRequest
		if err := httpx.DecodeValid(r, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "response.submit.parse_body")
			return
		}

		receipt, err := app.Responses.SubmitSurveyResponse(r.Context(), userID, surveyID, req.Answers)
		if err != nil {
			httpx.RenderError(w, r, "response.submit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, receipt)
	}
}

func ListSurveyResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "response.list.user_id")
			return
		}

		surveyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "response.list.url_param.id")
			return
		}

		responses, err := app.Responses.ListSurveyResponses(r.Context(), userID, surveyID)
		if err != nil {
			httpx.RenderError(w, r, "response.list", err)
			return
		}

		headers := make([]map[string]any, len(responses))
		for i, resp := range responses {
			headers[i] = map[string]any{
				"response_id":  resp.ID,
				"user_id":      resp.UserID,
				"submitted_at": resp.SubmittedAt,
			}
		}
		render.JSON(w, r, map[string]any{
			"responses": headers,
		})
	}
}

func GetResponseById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middlewares.UserID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "response.get.user_id")
			return
		}

		responseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "response.get.url_param.id")
			return
		}

		resp, answers, err := app.Responses.GetResponseWithAnswers(r.Context(), userID, responseID)
		if err != nil {
			httpx.RenderError(w, r, "response.get", err)
			return
		}

		values := make([]map[string]any, len(answers))
		for i, a := range answers {
			values[i] = map[string]any{
				"question_id": a.QuestionID,
				"value":       a.Value,
			}
		}
		render.JSON(w, r, map[string]any{
			"response_id":  resp.ID,
			"survey_id":    resp.SurveyID,
			"submitted_at": resp.SubmittedAt,
			"answers":      values,
		})
	}
}
