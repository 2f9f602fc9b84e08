package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/inkform/inkform/database"
	"github.com/inkform/inkform/fault"
	"github.com/inkform/inkform/log"
	"github.com/inkform/inkform/model"
	"github.com/inkform/inkform/repository"
)

// NoteSink receives free-text answers for semantic indexing after a
// submission commits. Indexing failures never fail the submission.
type NoteSink interface {
	IndexNote(ctx context.Context, userID int64, text string) error
}

type ResponseService struct {
	db        *sql.DB
	surveys   *repository.SurveyRepository
	responses *repository.ResponseRepository
	notes     NoteSink
	now       func() time.Time
}

func NewResponseService(db *sql.DB, surveys *repository.SurveyRepository, responses *repository.ResponseRepository) *ResponseService {
	return &ResponseService{
		db:        db,
		surveys:   surveys,
		responses: responses,
		now:       time.Now,
	}
}

// WithNoteSink enables post-commit indexing of long-text answers.
func (s *ResponseService) WithNoteSink(notes NoteSink) *ResponseService {
	s.notes = notes
	return s
}

// SubmitSurveyResponse validates and persists one user's submission against
// one survey. Checks run in a fixed order, each short-circuiting: survey
// exists, survey active, no prior response, every answer belongs to the
// survey, every required question answered. Then the response header and all
// answers are inserted in one transaction.
//
// The duplicate check and the insert are not one atomic step; the unique
// index on (user_id, survey_id) closes that window, and its violation is
// reported as the same Conflict.
func (s *ResponseService) SubmitSurveyResponse(ctx context.Context, userID, surveyID int64, answers []model.AnswerInput) (model.SubmissionReceipt, error) {
	survey, err := s.surveys.FindByID(ctx, surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SubmissionReceipt{}, fault.Newf(fault.NotFound, "survey %d not found", surveyID)
	}
	if err != nil {
		return model.SubmissionReceipt{}, fault.Wrap(fault.Storage, "load survey", err)
	}

	if !survey.Active {
		return model.SubmissionReceipt{}, fault.New(fault.InvalidState, "survey is closed")
	}

	exists, err := s.responses.ExistsForUser(ctx, userID, surveyID)
	if err != nil {
		return model.SubmissionReceipt{}, fault.Wrap(fault.Storage, "check existing response", err)
	}
	if exists {
		return model.SubmissionReceipt{}, fault.New(fault.Conflict, "response already submitted")
	}

	questions, err := s.surveys.FindQuestions(ctx, surveyID)
	if err != nil {
		return model.SubmissionReceipt{}, fault.Wrap(fault.Storage, "load questions", err)
	}

	byID := make(map[int64]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answered := make(map[int64]bool, len(answers))
	for _, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			return model.SubmissionReceipt{}, fault.Newf(fault.InvalidInput, "question %d does not belong to survey %d", a.QuestionID, surveyID)
		}
		answered[a.QuestionID] = true
	}

	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			return model.SubmissionReceipt{}, fault.Newf(fault.InvalidInput, "missing answer for required question %d", q.ID)
		}
	}

	response := model.Response{
		SurveyID:    surveyID,
		UserID:      userID,
		SubmittedAt: s.now(),
	}
	err = database.Transact(ctx, s.db, func(tx *sql.Tx) error {
		id, err := s.responses.Insert(ctx, tx, response)
		if err != nil {
			return err
		}
		response.ID = id

		for _, a := range answers {
			_, err = s.responses.InsertAnswer(ctx, tx, model.Answer{
				ResponseID: response.ID,
				QuestionID: a.QuestionID,
				Value:      a.Value,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.SubmissionReceipt{}, fault.New(fault.Conflict, "response already submitted")
		}
		return model.SubmissionReceipt{}, fault.Wrap(fault.Storage, "submit response", err)
	}

	s.indexTextAnswers(ctx, userID, byID, answers)

	return model.ToSubmissionReceipt(response), nil
}

// indexTextAnswers forwards long-text answers to the note sink, best effort.
func (s *ResponseService) indexTextAnswers(ctx context.Context, userID int64, byID map[int64]model.Question, answers []model.AnswerInput) {
	if s.notes == nil {
		return
	}
	for _, a := range answers {
		if byID[a.QuestionID].Type != model.LongText || a.Value == "" {
			continue
		}
		if err := s.notes.IndexNote(ctx, userID, a.Value); err != nil {
			log.Warnf("response.index_note: %s", err)
		}
	}
}

// GetResponseWithAnswers returns one response header with its answers.
// Callers other than the survey owner or the submitter read it as absent.
func (s *ResponseService) GetResponseWithAnswers(ctx context.Context, callerID, responseID int64) (model.Response, []model.Answer, error) {
	resp, err := s.responses.FindByID(ctx, responseID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Response{}, nil, fault.Newf(fault.NotFound, "response %d not found", responseID)
	}
	if err != nil {
		return model.Response{}, nil, fault.Wrap(fault.Storage, "load response", err)
	}

	if resp.UserID != callerID {
		survey, err := s.surveys.FindByID(ctx, resp.SurveyID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return model.Response{}, nil, fault.Wrap(fault.Storage, "load survey", err)
		}
		if err != nil || survey.OwnerID != callerID {
			return model.Response{}, nil, fault.Newf(fault.NotFound, "response %d not found", responseID)
		}
	}

	answers, err := s.responses.FindAnswers(ctx, responseID)
	if err != nil {
		return model.Response{}, nil, fault.Wrap(fault.Storage, "load answers", err)
	}
	return resp, answers, nil
}

// ListSurveyResponses returns the response headers of a survey, owner only.
func (s *ResponseService) ListSurveyResponses(ctx context.Context, ownerID, surveyID int64) ([]model.Response, error) {
	survey, err := s.surveys.FindByID(ctx, surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.Newf(fault.NotFound, "survey %d not found", surveyID)
	}
	if err != nil {
		return nil, fault.Wrap(fault.Storage, "load survey", err)
	}
	if survey.OwnerID != ownerID {
		return nil, fault.Newf(fault.NotFound, "survey %d not found", surveyID)
	}

	responses, err := s.responses.ListForSurvey(ctx, surveyID)
	if err != nil {
		return nil, fault.Wrap(fault.Storage, "list responses", err)
	}
	return responses, nil
}
