package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkform/inkform/database"
	"github.com/inkform/inkform/model"
)

type ResponseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// ExistsForUser reports whether user already has a response for the survey.
func (r *ResponseRepository) ExistsForUser(ctx context.Context, userID, surveyID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM response
		WHERE user_id = ? AND survey_id = ?`,
		userID, surveyID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert writes the response header row and returns its generated id.
func (r *ResponseRepository) Insert(ctx context.Context, q database.Querier, resp model.Response) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO response (survey_id, user_id, submitted_at)
		VALUES (?, ?, ?)
		RETURNING id`,
		resp.SurveyID, resp.UserID, resp.SubmittedAt,
	).Scan(&id)
	return id, err
}

// InsertAnswer writes one answer row under an already inserted response.
func (r *ResponseRepository) InsertAnswer(ctx context.Context, q database.Querier, a model.Answer) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO answer (response_id, question_id, value)
		VALUES (?, ?, ?)
		RETURNING id`,
		a.ResponseID, a.QuestionID, a.Value,
	).Scan(&id)
	return id, err
}

func (r *ResponseRepository) FindByID(ctx context.Context, id int64) (model.Response, error) {
	var resp model.Response
	err := r.db.QueryRowContext(ctx, `
		SELECT id, survey_id, user_id, submitted_at
		FROM response
		WHERE id = ?`,
		id,
	).Scan(&resp.ID, &resp.SurveyID, &resp.UserID, &resp.SubmittedAt)
	return resp, err
}

// ListForSurvey returns the response headers for a survey, newest first.
func (r *ResponseRepository) ListForSurvey(ctx context.Context, surveyID int64) ([]model.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, survey_id, user_id, submitted_at
		FROM response
		WHERE survey_id = ?
		ORDER BY submitted_at DESC, id DESC`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []model.Response{}
	for rows.Next() {
		var resp model.Response
		err = rows.Scan(&resp.ID, &resp.SurveyID, &resp.UserID, &resp.SubmittedAt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// FindAnswers returns the answers of one response in insertion order.
func (r *ResponseRepository) FindAnswers(ctx context.Context, responseID int64) ([]model.Answer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, response_id, question_id, value
		FROM answer
		WHERE response_id = ?
		ORDER BY id ASC`,
		responseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		var a model.Answer
		err = rows.Scan(&a.ID, &a.ResponseID, &a.QuestionID, &a.Value)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
