// Package repository holds the row-level data access code. Methods that take
// a database.Querier participate in whatever unit of work the caller is
// running; the rest auto-commit on the pooled handle. Raw storage errors
// (including sql.ErrNoRows) propagate unchanged; classification happens in
// the service layer.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/inkform/inkform/database"
	"github.com/inkform/inkform/model"
)

type SurveyRepository struct {
	db *sql.DB
}

func NewSurveyRepository(db *sql.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

func (r *SurveyRepository) FindByID(ctx context.Context, id int64) (model.Survey, error) {
	var s model.Survey
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, active, created_at
		FROM survey
		WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.Active, &s.CreatedAt)
	return s, err
}

func (r *SurveyRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Survey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, active, created_at
		FROM survey
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surveys := []model.Survey{}
	for rows.Next() {
		var s model.Survey
		err = rows.Scan(&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.Active, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

// Insert writes the survey row and returns its generated id. Runs on q so
// the caller decides the transactional scope.
func (r *SurveyRepository) Insert(ctx context.Context, q database.Querier, s model.Survey) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO survey (owner_id, title, description, active)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		s.OwnerID, s.Title, s.Description, s.Active,
	).Scan(&id)
	return id, err
}

// InsertQuestion writes one question row carrying its explicit order index.
func (r *SurveyRepository) InsertQuestion(ctx context.Context, q database.Querier, question model.Question) (int64, error) {
	var optionsJSON []byte
	if question.Options != nil {
		var err error
		optionsJSON, err = json.Marshal(question.Options)
		if err != nil {
			return 0, err
		}
	}

	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO question (survey_id, text, type, required, ord, options)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		question.SurveyID, question.Text, question.Type, question.Required, question.Ord, string(optionsJSON),
	).Scan(&id)
	return id, err
}

// FindQuestions returns the survey's questions sorted by their order index.
func (r *SurveyRepository) FindQuestions(ctx context.Context, surveyID int64) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, survey_id, text, type, required, ord, options
		FROM question
		WHERE survey_id = ?
		ORDER BY ord ASC`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		var opts sql.NullString
		err = rows.Scan(&q.ID, &q.SurveyID, &q.Text, &q.Type, &q.Required, &q.Ord, &opts)
		if err != nil {
			return nil, err
		}
		if opts.Valid && opts.String != "" {
			err = json.Unmarshal([]byte(opts.String), &q.Options)
			if err != nil {
				return nil, err
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// SetActive flips the active flag. Returns sql.ErrNoRows if the survey does
// not exist or is not owned by ownerID.
func (r *SurveyRepository) SetActive(ctx context.Context, id, ownerID int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE survey
		SET active = ?
		WHERE id = ? AND owner_id = ?`,
		active, id, ownerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return sql.ErrNoRows
	}
	return nil
}
