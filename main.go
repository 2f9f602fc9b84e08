package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/inkform/inkform/app"
	"github.com/inkform/inkform/assist"
	"github.com/inkform/inkform/config"
	"github.com/inkform/inkform/database"
	"github.com/inkform/inkform/log"
	"github.com/inkform/inkform/repository"
	"github.com/inkform/inkform/routes"
	"github.com/inkform/inkform/service"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	tokens := repository.NewTokenRepository(db)
	surveys := repository.NewSurveyRepository(db)
	responses := repository.NewResponseRepository(db)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.TokenSecret), nil)

	var embedder assist.Embedder
	var generator assist.Generator
	if cfg.GeminiAPIKey != "" {
		gemini := assist.NewGeminiClient(cfg.GeminiAPIKey)
		embedder, generator = gemini, gemini
	} else {
		log.Warn("main.assist: no Gemini API key, using canned model")
		canned := assist.NewCannedModel()
		embedder, generator = canned, canned
	}
	assistService := service.NewAssistService(embedder, generator, assist.NewMemoryIndex())

	app := app.App{
		DB:        db,
		Config:    cfg,
		TokenAuth: tokenAuth,
		Users:     service.NewUserService(users, tokens, tokenAuth),
		Surveys:   service.NewSurveyService(db, surveys),
		Responses: service.NewResponseService(db, surveys, responses).WithNoteSink(assistService),
		Assist:    assistService,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
