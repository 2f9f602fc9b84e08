package service

// Tests in this file run against a real in-memory sqlite database with the
// embedded migrations applied, so rollback and uniqueness behavior comes from
// the store itself, not from a scripted driver.

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkform/inkform/config"
	"github.com/inkform/inkform/database"
	"github.com/inkform/inkform/fault"
	"github.com/inkform/inkform/model"
	"github.com/inkform/inkform/repository"
)

func newTestStore(t *testing.T) *sql.DB {
	t.Helper()
	// a named shared-cache memory db survives across pooled connections;
	// _foreign_keys enforces references on every connection
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := database.Open(config.Config{DBUrl: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, username, email string) int64 {
	t.Helper()
	id, err := repository.NewUserRepository(db).Insert(context.Background(), model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return id
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestCreateSurveyRollbackLeavesNoRows(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	ownerID := seedUser(t, db, "owner", "owner@example.com")

	surveys := repository.NewSurveyRepository(db)

	// the last question insert fails on a reference violation; the survey
	// and the question inserted before it must roll back with it
	err := database.Transact(ctx, db, func(tx *sql.Tx) error {
		id, err := surveys.Insert(ctx, tx, model.Survey{OwnerID: ownerID, Title: "t", Active: true})
		require.NoError(t, err)

		_, err = surveys.InsertQuestion(ctx, tx, model.Question{SurveyID: id, Text: "ok", Type: model.ShortText, Ord: 0})
		require.NoError(t, err)

		_, err = surveys.InsertQuestion(ctx, tx, model.Question{SurveyID: id + 1000, Text: "stray", Type: model.ShortText, Ord: 1})
		return err
	})
	require.Error(t, err)

	assert.Zero(t, countRows(t, db, "survey"))
	assert.Zero(t, countRows(t, db, "question"))
}

func TestSubmitResponseRollbackLeavesNoRows(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	ownerID := seedUser(t, db, "owner", "owner@example.com")
	userID := seedUser(t, db, "frida", "frida@example.com")

	surveys := repository.NewSurveyRepository(db)
	responses := repository.NewResponseRepository(db)

	detail, err := NewSurveyService(db, surveys).CreateSurveyWithQuestions(ctx, ownerID, model.CreateSurveyRequest{
		Title:     "t",
		Questions: []model.QuestionSpec{{Text: "How are you?", Type: "short_text", Required: true}},
	})
	require.NoError(t, err)

	svc := NewResponseService(db, surveys, responses)
	err = database.Transact(ctx, svc.db, func(tx *sql.Tx) error {
		id, err := responses.Insert(ctx, tx, model.Response{SurveyID: detail.ID, UserID: userID, SubmittedAt: svc.now()})
		require.NoError(t, err)

		_, err = responses.InsertAnswer(ctx, tx, model.Answer{ResponseID: id, QuestionID: detail.Questions[0].ID, Value: "fine"})
		require.NoError(t, err)

		_, err = responses.InsertAnswer(ctx, tx, model.Answer{ResponseID: id, QuestionID: 9999, Value: "stray"})
		return err
	})
	require.Error(t, err)

	assert.Zero(t, countRows(t, db, "response"))
	assert.Zero(t, countRows(t, db, "answer"))
}

func TestGetSurveyWithQuestionsIsIdempotent(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	ownerID := seedUser(t, db, "owner", "owner@example.com")

	svc := NewSurveyService(db, repository.NewSurveyRepository(db))

	created, err := svc.CreateSurveyWithQuestions(ctx, ownerID, model.CreateSurveyRequest{
		Title:       "Team health check",
		Description: "quarterly",
		Questions: []model.QuestionSpec{
			{Text: "How are you doing?", Type: "short_text", Required: true},
			{Text: "Pick one", Type: "single_choice", Options: []string{"red", "blue"}},
		},
	})
	require.NoError(t, err)

	first, err := svc.GetSurveyWithQuestions(ctx, created.ID)
	require.NoError(t, err)
	second, err := svc.GetSurveyWithQuestions(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created, first)
	assert.Equal(t, first, second)
}

func TestSubmitSurveyResponseDuplicateOnRealStore(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	ownerID := seedUser(t, db, "owner", "owner@example.com")
	userID := seedUser(t, db, "frida", "frida@example.com")

	surveys := repository.NewSurveyRepository(db)
	detail, err := NewSurveyService(db, surveys).CreateSurveyWithQuestions(ctx, ownerID, model.CreateSurveyRequest{
		Title:     "t",
		Questions: []model.QuestionSpec{{Text: "How are you?", Type: "short_text", Required: true}},
	})
	require.NoError(t, err)

	svc := NewResponseService(db, surveys, repository.NewResponseRepository(db))
	answers := []model.AnswerInput{{QuestionID: detail.Questions[0].ID, Value: "fine"}}

	receipt, err := svc.SubmitSurveyResponse(ctx, userID, detail.ID, answers)
	require.NoError(t, err)
	assert.NotZero(t, receipt.ResponseID)

	_, err = svc.SubmitSurveyResponse(ctx, userID, detail.ID, answers)
	assert.True(t, fault.IsKind(err, fault.Conflict))
	assert.Equal(t, 1, countRows(t, db, "response"))
}
