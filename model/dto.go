package model

import "time"

// Request payloads. The transport layer decodes and shape-validates these
// before they reach a service.

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Email    string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type QuestionSpec struct {
	Text     string   `json:"text" validate:"required,max=1000"`
	Type     string   `json:"type" validate:"required"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type CreateSurveyRequest struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=2000"`
	Questions   []QuestionSpec `json:"questions" validate:"required,min=1,dive"`
}

type AnswerInput struct {
	QuestionID int64  `json:"question_id" validate:"required"`
	Value      string `json:"value"`
}

type SubmitResponseRequest struct {
	Answers []AnswerInput `json:"answers" validate:"dive"`
}

type AssistRequest struct {
	Prompt string `json:"prompt" validate:"required,max=4000"`
	Limit  int    `json:"limit" validate:"min=0,max=20"`
}

// Transfer objects. UserInfo deliberately has no password-hash field, so
// credentials cannot leak through serialization.

type UserInfo struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type QuestionInfo struct {
	ID       int64    `json:"id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type SurveySummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type SurveyDetail struct {
	ID          int64          `json:"id"`
	OwnerID     int64          `json:"owner_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Active      bool           `json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	Questions   []QuestionInfo `json:"questions"`
}

type SubmissionReceipt struct {
	ResponseID  int64     `json:"response_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type AssistSuggestion struct {
	Suggestion string   `json:"suggestion"`
	Notes      []string `json:"notes"`
}

// Mapping functions, entity to transfer object. Pure, one per entity pair.

func ToUserInfo(u User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func ToQuestionInfo(q Question) QuestionInfo {
	return QuestionInfo{
		ID:       q.ID,
		Text:     q.Text,
		Type:     string(q.Type),
		Required: q.Required,
		Options:  q.Options,
	}
}

func ToSurveySummary(s Survey) SurveySummary {
	return SurveySummary{
		ID:        s.ID,
		Title:     s.Title,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

func ToSurveyDetail(s Survey, questions []Question) SurveyDetail {
	detail := SurveyDetail{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Title:       s.Title,
		Description: s.Description,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		Questions:   make([]QuestionInfo, len(questions)),
	}
	for i, q := range questions {
		detail.Questions[i] = ToQuestionInfo(q)
	}
	return detail
}

func ToSubmissionReceipt(r Response) SubmissionReceipt {
	return SubmissionReceipt{
		ResponseID:  r.ID,
		SubmittedAt: r.SubmittedAt,
	}
}
