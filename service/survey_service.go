// Package service holds the business orchestration between the HTTP layer
// and the repositories. Every multi-row write runs inside one unit of work
// through database.Transact; a non-success result means no partial rows were
// left behind.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/inkform/inkform/database"
	"github.com/inkform/inkform/fault"
	"github.com/inkform/inkform/model"
	"github.com/inkform/inkform/repository"
)

type SurveyService struct {
	db      *sql.DB
	surveys *repository.SurveyRepository
}

func NewSurveyService(db *sql.DB, surveys *repository.SurveyRepository) *SurveyService {
	return &SurveyService{db: db, surveys: surveys}
}

// CreateSurveyWithQuestions persists a survey and its questions atomically.
// Question order indexes are assigned from input positions. On success the
// committed state is read back so defaults come from the store, not from the
// write model.
func (s *SurveyService) CreateSurveyWithQuestions(ctx context.Context, ownerID int64, req model.CreateSurveyRequest) (model.SurveyDetail, error) {
	if len(req.Questions) == 0 {
		return model.SurveyDetail{}, fault.New(fault.InvalidInput, "survey needs at least one question")
	}
	for i, spec := range req.Questions {
		if strings.TrimSpace(spec.Text) == "" {
			return model.SurveyDetail{}, fault.Newf(fault.InvalidInput, "question %d has empty text", i+1)
		}
		qt := model.QuestionType(spec.Type)
		if !qt.Valid() {
			return model.SurveyDetail{}, fault.Newf(fault.InvalidInput, "question %d has unknown type %q", i+1, spec.Type)
		}
		if qt.HasOptions() && len(spec.Options) == 0 {
			return model.SurveyDetail{}, fault.Newf(fault.InvalidInput, "question %d needs a non-empty option list", i+1)
		}
	}

	var surveyID int64
	err := database.Transact(ctx, s.db, func(tx *sql.Tx) error {
		id, err := s.surveys.Insert(ctx, tx, model.Survey{
			OwnerID:     ownerID,
			Title:       req.Title,
			Description: req.Description,
			Active:      true,
		})
		if err != nil {
			return err
		}
		surveyID = id

		for i, spec := range req.Questions {
			_, err = s.surveys.InsertQuestion(ctx, tx, model.Question{
				SurveyID: id,
				Text:     spec.Text,
				Type:     model.QuestionType(spec.Type),
				Required: spec.Required,
				Ord:      i,
				Options:  spec.Options,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.SurveyDetail{}, fault.Wrap(fault.Storage, "create survey", err)
	}

	return s.GetSurveyWithQuestions(ctx, surveyID)
}

// GetSurveyWithQuestions returns the survey and its questions sorted by
// order index.
func (s *SurveyService) GetSurveyWithQuestions(ctx context.Context, surveyID int64) (model.SurveyDetail, error) {
	survey, err := s.surveys.FindByID(ctx, surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SurveyDetail{}, fault.Newf(fault.NotFound, "survey %d not found", surveyID)
	}
	if err != nil {
		return model.SurveyDetail{}, fault.Wrap(fault.Storage, "load survey", err)
	}

	questions, err := s.surveys.FindQuestions(ctx, surveyID)
	if err != nil {
		return model.SurveyDetail{}, fault.Wrap(fault.Storage, "load questions", err)
	}

	return model.ToSurveyDetail(survey, questions), nil
}

func (s *SurveyService) ListSurveys(ctx context.Context, ownerID int64) ([]model.SurveySummary, error) {
	surveys, err := s.surveys.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fault.Wrap(fault.Storage, "list surveys", err)
	}

	summaries := make([]model.SurveySummary, len(surveys))
	for i, survey := range surveys {
		summaries[i] = model.ToSurveySummary(survey)
	}
	return summaries, nil
}

// CloseSurvey stops the survey from accepting responses. Only the owner can
// close it; a survey not owned by ownerID reads as absent.
func (s *SurveyService) CloseSurvey(ctx context.Context, ownerID, surveyID int64) error {
	err := s.surveys.SetActive(ctx, surveyID, ownerID, false)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.Newf(fault.NotFound, "survey %d not found", surveyID)
	}
	if err != nil {
		return fault.Wrap(fault.Storage, "close survey", err)
	}
	return nil
}
