package app

import (
	"database/sql"

	"github.com/go-chi/jwtauth/v5"

	"github.com/inkform/inkform/config"
	"github.com/inkform/inkform/service"
)

type App struct {
	DB        *sql.DB
	Config    config.Config
	TokenAuth *jwtauth.JWTAuth
	Users     *service.UserService
	Surveys   *service.SurveyService
	Responses *service.ResponseService
	Assist    *service.AssistService
}
