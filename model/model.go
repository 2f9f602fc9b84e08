package model

import "time"

type QuestionType string

const (
	ShortText      QuestionType = "short_text"
	LongText       QuestionType = "long_text"
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	Rating         QuestionType = "rating"
)

func (t QuestionType) Valid() bool {
	switch t {
	case ShortText, LongText, SingleChoice, MultipleChoice, Rating:
		return true
	}
	return false
}

// HasOptions reports whether the type carries an option list.
func (t QuestionType) HasOptions() bool {
	return t == SingleChoice || t == MultipleChoice
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Survey struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Active      bool
	CreatedAt   time.Time
}

type Question struct {
	ID       int64
	SurveyID int64
	Text     string
	Type     QuestionType
	Required bool
	Ord      int
	Options  []string
}

type Response struct {
	ID          int64
	SurveyID    int64
	UserID      int64
	SubmittedAt time.Time
}

type Answer struct {
	ID         int64
	ResponseID int64
	QuestionID int64
	Value      string
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
}
